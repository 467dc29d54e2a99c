package hotkeys

import (
	"sort"
	"testing"
)

func TestLockMaskCombinations(t *testing.T) {
	tests := []struct {
		name  string
		masks []uint16
		want  []uint16
	}{
		{"caps only", []uint16{2, 0, 0}, []uint16{0, 2}},
		{"caps and numlock", []uint16{2, 16, 0}, []uint16{0, 2, 16, 18}},
		{"duplicates collapse", []uint16{2, 2, 16}, []uint16{0, 2, 16, 18}},
		{"three locks", []uint16{2, 16, 128}, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lockMaskCombinations(tt.masks...)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestNewHandler_RequiresX11(t *testing.T) {
	if _, err := NewHandler(struct{}{}, nil, nil); err == nil {
		t.Fatalf("expected error for non-X11 service")
	}
}
