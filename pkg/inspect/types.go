package inspect

import (
	"github.com/google/uuid"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

type Instance struct {
	ID         uuid.UUID `json:"id"`
	Generation int64     `json:"generation"`
	Handle     string    `json:"handle,omitempty"`
}

type Block struct {
	blocks.Metadata
	Instances []Instance `json:"instances"`
}

type Blocks struct {
	Catalog     string  `json:"catalog,omitempty"`
	Fingerprint string  `json:"fingerprint,omitempty"`
	Blocks      []Block `json:"blocks"`
}

type Dependents struct {
	Kind       blocks.Kind   `json:"kind"`
	Direct     []blocks.Kind `json:"direct"`
	Transitive []blocks.Kind `json:"transitive"`
}

type Error struct {
	Error string      `json:"error"`
	Kind  blocks.Kind `json:"kind,omitempty"`
}

func handleOf(p geometry.Payload) string {
	if h, ok := p.(geometry.Handled); ok {
		return h.GetHandle()
	}
	return ""
}
