package filesystem

import (
	"github.com/google/uuid"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
	"github.com/mandelsoft/buildingblocks/pkg/objectstore"
)

// Document is the persisted form of a block instance.
// Sequence keeps the creation order of the instances
// of a kind.
type Document struct {
	Kind       blocks.Kind       `json:"kind"`
	ID         uuid.UUID         `json:"id"`
	Generation int64             `json:"generation,omitempty"`
	Sequence   int64             `json:"sequence"`
	Category   geometry.Category `json:"category"`
	Handle     string            `json:"handle"`
}

func NewDocument(i objectstore.Instance, seq int64) (*Document, error) {
	ref, err := geometry.RefFor(i.Payload)
	if err != nil {
		return nil, blocks.NewKindError(i.Kind, err)
	}
	return &Document{
		Kind:       i.Kind,
		ID:         i.ID,
		Generation: i.Generation,
		Sequence:   seq,
		Category:   ref.Category,
		Handle:     ref.Handle,
	}, nil
}

func (d *Document) Instance() objectstore.Instance {
	return objectstore.Instance{
		Kind:       d.Kind,
		ID:         d.ID,
		Payload:    geometry.NewRef(d.Category, d.Handle),
		Generation: d.Generation,
	}
}
