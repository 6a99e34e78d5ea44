package geometry

import (
	"fmt"
)

// Payload is a geometry object provided by the geometry kernel.
type Payload interface {
	GetCategory() Category
}

// Handled is an optional Payload interface for payloads
// which can be identified by a kernel handle. Only those
// payloads can be persisted.
type Handled interface {
	Payload
	GetHandle() string
}

// Ref is the default payload: a category tagged reference
// to an object of the geometry kernel.
type Ref struct {
	Category Category `json:"category"`
	Handle   string   `json:"handle"`
}

var _ Handled = (*Ref)(nil)

func NewRef(c Category, handle string) *Ref {
	return &Ref{Category: c, Handle: handle}
}

func (r *Ref) GetCategory() Category {
	return r.Category
}

func (r *Ref) GetHandle() string {
	return r.Handle
}

func (r *Ref) String() string {
	return fmt.Sprintf("%s[%s]", r.Category, r.Handle)
}

// RefFor provides a Ref for a payload, if it provides a handle.
func RefFor(p Payload) (*Ref, error) {
	switch r := p.(type) {
	case *Ref:
		return r, nil
	case Handled:
		return NewRef(r.GetCategory(), r.GetHandle()), nil
	default:
		return nil, fmt.Errorf("payload type %T provides no kernel handle", p)
	}
}
