package blocks

import (
	"errors"
	"fmt"
)

var ErrUnknownBlockKind = errors.New("unknown block kind")

// KindError is a structural error related to a dedicated
// block kind. It wraps the error kind, which can be
// checked with errors.Is.
type KindError struct {
	Kind   Kind
	Err    error
	Detail string
}

func NewKindError(kind Kind, err error, detail ...string) *KindError {
	e := &KindError{Kind: kind, Err: err}
	if len(detail) > 0 {
		e.Detail = detail[0]
	}
	return e
}

func (e *KindError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("block kind %q: %s: %s", e.Kind, e.Err, e.Detail)
	}
	return fmt.Sprintf("block kind %q: %s", e.Kind, e.Err)
}

func (e *KindError) Unwrap() error {
	return e.Err
}

// KindOf provides the block kind a structural
// error is related to.
func KindOf(err error) (Kind, bool) {
	var k *KindError
	if errors.As(err, &k) {
		return k.Kind, true
	}
	return "", false
}

func UnknownKind(kind Kind) error {
	return NewKindError(kind, ErrUnknownBlockKind)
}
