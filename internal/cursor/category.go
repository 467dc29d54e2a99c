package cursor

import (
	"fmt"
	"strings"
)

// Category is the shape family of a rendered cursor bitmap.
type Category uint8

const (
	Arrow Category = iota
	IBeam
	HorizontalResize
	VerticalResize
	DiagonalResize
	Pointer
	Other
	// Unknown is reported when the cursor bitmap could not be obtained.
	Unknown
)

var categoryNames = [...]string{
	Arrow:            "arrow",
	IBeam:            "ibeam",
	HorizontalResize: "horizontal_resize",
	VerticalResize:   "vertical_resize",
	DiagonalResize:   "diagonal_resize",
	Pointer:          "pointer",
	Other:            "other",
	Unknown:          "unknown",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for i := range categoryNames {
		out = append(out, Category(i))
	}
	return out
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return int(c) < len(categoryNames)
}

// ParseCategory maps a name such as "horizontal_resize" (or "horizontal-resize")
// back to its Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown cursor category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid cursor category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
