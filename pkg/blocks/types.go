package blocks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

// Kind identifies a class of building blocks.
type Kind string

func (k Kind) String() string {
	return string(k)
}

func CompareKind(a, b Kind) int {
	return strings.Compare(string(a), string(b))
}

type Multiplicity int

const (
	// Single kinds hold at most one instance.
	Single Multiplicity = iota
	// Multiple kinds hold a list of instances, e.g. one per screw.
	Multiple
)

func (m Multiplicity) String() string {
	switch m {
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return fmt.Sprintf("Multiplicity(%d)", int(m))
	}
}

func (m Multiplicity) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Multiplicity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "", "single":
		*m = Single
	case "multiple":
		*m = Multiple
	default:
		return fmt.Errorf("invalid multiplicity %q", s)
	}
	return nil
}

// Metadata describes a block kind.
type Metadata struct {
	Kind         Kind              `json:"kind" validate:"required"`
	Category     geometry.Category `json:"category" validate:"category"`
	Name         string            `json:"name" validate:"required"`
	Layer        string            `json:"layer,omitempty"`
	Multiplicity Multiplicity      `json:"multiplicity"`
}

func (m Metadata) IsMultiple() bool {
	return m.Multiplicity == Multiple
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s (%s, %s)", m.Kind, m.Category, m.Multiplicity)
}
