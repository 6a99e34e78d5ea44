// Package catalog provides the static building block configurations:
// the metadata table and the kind to dependents table of a product
// line. Catalogs are either built-in or loaded from YAML files.
package catalog

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/dependency"
	"github.com/mandelsoft/buildingblocks/pkg/session"
	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

// Entry declares a block kind together with the kinds
// which must be deleted whenever a block of this kind is
// replaced or deleted.
type Entry struct {
	blocks.Metadata
	Dependents []blocks.Kind `json:"dependents,omitempty" validate:"dive,required"`
}

type Catalog struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	Blocks      []Entry `json:"blocks" validate:"required,min=1,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := blocks.RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the structure of the catalog.
// It does not check the dependency graph, which is
// done by Build.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid catalog %q: %w", c.Name, err)
	}
	return nil
}

func (c *Catalog) Kinds() []blocks.Kind {
	return utils.TransformSlice(c.Blocks, func(e Entry) blocks.Kind { return e.Kind })
}

// Edges provides the dependency edges in declaration order.
func (c *Catalog) Edges() []dependency.Edge {
	var edges []dependency.Edge
	for _, e := range c.Blocks {
		for _, d := range e.Dependents {
			edges = append(edges, dependency.Edge{From: e.Kind, To: d})
		}
	}
	return edges
}

// Build creates the registry and the validated dependency graph
// described by the catalog.
func (c *Catalog) Build() (blocks.Registry, *dependency.Graph, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	reg, err := blocks.NewRegistry(utils.TransformSlice(c.Blocks, func(e Entry) blocks.Metadata { return e.Metadata })...)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog %q: %w", c.Name, err)
	}
	graph, err := dependency.NewFromEdges(reg, c.Edges()...)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog %q: %w", c.Name, err)
	}
	log.Debug("built catalog {{name}} with {{kinds}} kinds", "name", c.Name, "kinds", reg.Len())
	return reg, graph, nil
}

// NewSession creates a new design session for the catalog.
func (c *Catalog) NewSession() (*session.Session, error) {
	_, graph, err := c.Build()
	if err != nil {
		return nil, err
	}
	return session.ForGraph(graph)
}

// Fingerprint provides a hash of the normalized catalog content.
// The order of the entries is relevant, because it defines the
// order of cascades.
func (c *Catalog) Fingerprint() (string, error) {
	return utils.HashData(c)
}

func (c *Catalog) Copy() *Catalog {
	n := *c
	n.Blocks = slices.Clone(c.Blocks)
	for i := range n.Blocks {
		n.Blocks[i].Dependents = slices.Clone(n.Blocks[i].Dependents)
	}
	return &n
}
