package objectstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/events"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrNotFound     = errors.New("block not found")
)

// Instance is a stored building block. The payload is
// owned by the geometry kernel, the store only keeps the
// reference.
type Instance struct {
	Kind       blocks.Kind      `json:"kind"`
	ID         uuid.UUID        `json:"id"`
	Payload    geometry.Payload `json:"-"`
	Generation int64            `json:"generation"`
}

func (i Instance) String() string {
	return fmt.Sprintf("%s/%s", i.Kind, i.ID)
}

type EventType int

const (
	Created EventType = iota
	Updated
	Deleted
)

func (t EventType) String() string {
	switch t {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event describes a change of the store. Deleted events
// notify the geometry kernel about references it may drop.
type Event struct {
	Type     EventType
	Instance Instance
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Instance)
}

type EventHandler = events.EventHandler[Event]
