package blocks

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

type Registry interface {
	// GetMetadata provides the metadata for a block kind.
	// It fails with ErrUnknownBlockKind for undeclared kinds.
	GetMetadata(kind Kind) (Metadata, error)
	// AllKinds provides all declared kinds in declaration order.
	AllKinds() []Kind
	Has(kind Kind) bool
	Len() int
}

type registry struct {
	kinds []Kind
	meta  map[Kind]Metadata
}

var _ Registry = (*registry)(nil)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations registers the custom validations
// used by Metadata at the given validator.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(geometry.Category)
		return ok && c.IsValid()
	})
}

// NewRegistry creates a registry for the given metadata table.
func NewRegistry(table ...Metadata) (Registry, error) {
	r := &registry{meta: map[Kind]Metadata{}}
	for i, m := range table {
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("invalid block entry %d (%q): %w", i, m.Kind, err)
		}
		if _, ok := r.meta[m.Kind]; ok {
			return nil, fmt.Errorf("duplicate block kind %q", m.Kind)
		}
		r.meta[m.Kind] = m
		r.kinds = append(r.kinds, m.Kind)
	}
	return r, nil
}

func MustRegistry(table ...Metadata) Registry {
	r, err := NewRegistry(table...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *registry) GetMetadata(kind Kind) (Metadata, error) {
	m, ok := r.meta[kind]
	if !ok {
		return Metadata{}, UnknownKind(kind)
	}
	return m, nil
}

func (r *registry) AllKinds() []Kind {
	return slices.Clone(r.kinds)
}

func (r *registry) Has(kind Kind) bool {
	_, ok := r.meta[kind]
	return ok
}

func (r *registry) Len() int {
	return len(r.kinds)
}
