package catalog

import (
	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

var builtin = map[string]*Catalog{}

func register(c *Catalog) {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	builtin[c.Name] = c
}

// Builtin provides a copy of a built-in catalog
// or nil, if there is no such catalog.
func Builtin(name string) *Catalog {
	c := builtin[name]
	if c == nil {
		return nil
	}
	return c.Copy()
}

func BuiltinNames() []string {
	return utils.OrderedMapKeys(builtin)
}

func block(kind string, c geometry.Category, name string, layer string, deps ...string) Entry {
	return Entry{
		Metadata: blocks.Metadata{
			Kind:     blocks.Kind(kind),
			Category: c,
			Name:     name,
			Layer:    layer,
		},
		Dependents: kinds(deps...),
	}
}

func multiple(e Entry) Entry {
	e.Multiplicity = blocks.Multiple
	return e
}

func kinds(names ...string) []blocks.Kind {
	if len(names) == 0 {
		return nil
	}
	r := make([]blocks.Kind, len(names))
	for i, n := range names {
		r[i] = blocks.Kind(n)
	}
	return r
}
