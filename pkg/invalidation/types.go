package invalidation

import (
	"errors"
	"fmt"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
)

type Trigger int

const (
	// OnMutate is fired after a block has been set directly.
	OnMutate Trigger = iota
	// OnDelete is fired after all instances of a block kind
	// have been deleted.
	OnDelete
)

func (t Trigger) String() string {
	switch t {
	case OnMutate:
		return "OnMutate"
	case OnDelete:
		return "OnDelete"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// AnyKind registers callbacks for all block kinds.
const AnyKind = blocks.Kind("")

// Callback is a side effect executed for an affected block kind.
type Callback func(kind blocks.Kind, trigger Trigger) error

var ErrCallbackFailure = errors.New("callback failure")

// CallbackFailure describes a failed callback. Failures are
// never propagated to the operation firing the callbacks.
type CallbackFailure struct {
	Kind         blocks.Kind
	Trigger      Trigger
	Registration *Registration
	Cause        error
}

func (f *CallbackFailure) Error() string {
	return fmt.Sprintf("%s callback %q for block kind %q failed: %s", f.Trigger, f.Registration.Name(), f.Kind, f.Cause)
}

func (f *CallbackFailure) Is(err error) bool {
	return err == ErrCallbackFailure
}

func (f *CallbackFailure) Unwrap() error {
	return f.Cause
}
