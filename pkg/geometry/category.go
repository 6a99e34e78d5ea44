// Package geometry provides the geometry category tags attached to
// building block payloads. The payloads themselves are owned by the
// external geometry kernel and are never inspected beyond their tag.
package geometry

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Category int

const (
	CategoryUnknown Category = iota
	CategoryPoint
	CategoryCurve
	CategorySurface
	CategoryMesh
)

var names = map[Category]string{
	CategoryPoint:   "point",
	CategoryCurve:   "curve",
	CategorySurface: "surface",
	CategoryMesh:    "mesh",
}

func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Categories returns all valid categories.
func Categories() []Category {
	return []Category{CategoryPoint, CategoryCurve, CategorySurface, CategoryMesh}
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range names {
		if n == s {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("invalid geometry category %q", s)
}

func (c Category) IsValid() bool {
	_, ok := names[c]
	return ok
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid geometry category %d", int(c))
	}
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
