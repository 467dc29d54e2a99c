package cursor

import (
	"encoding/json"
	"testing"
)

func TestCategory_DeclarationOrder(t *testing.T) {
	want := []Category{Arrow, IBeam, HorizontalResize, VerticalResize, DiagonalResize, Pointer, Other, Unknown}
	for i, c := range want {
		if int(c) != i {
			t.Fatalf("%v = %d, want %d", c, c, i)
		}
	}
	if got := len(Categories()); got != len(want) {
		t.Fatalf("len(Categories()) = %d, want %d", got, len(want))
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"arrow", Arrow},
		{"IBeam", IBeam},
		{"horizontal-resize", HorizontalResize},
		{" vertical_resize ", VerticalResize},
		{"pointer", Pointer},
		{"unknown", Unknown},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if err != nil {
			t.Fatalf("ParseCategory(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseCategory("crosshair"); err == nil {
		t.Fatal("ParseCategory(crosshair) expected error")
	}
}

func TestCategory_JSONUsesNames(t *testing.T) {
	data, err := json.Marshal(struct {
		C Category `json:"c"`
	}{DiagonalResize})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"c":"diagonal_resize"}` {
		t.Fatalf("marshal = %s", data)
	}
	if Category(42).String() != "category(42)" {
		t.Fatalf("String() = %q", Category(42).String())
	}
}
