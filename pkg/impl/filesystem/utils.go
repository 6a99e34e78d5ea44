package filesystem

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
)

func Path(kind blocks.Kind, id uuid.UUID) string {
	return fmt.Sprintf("%s/%s.yaml", kind, id)
}
