package session

import (
	"fmt"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/invalidation"
	"github.com/mandelsoft/buildingblocks/pkg/objectstore"
	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

// Report describes the effect of a cascading session operation.
type Report struct {
	// Instance is the mutated instance, if the operation
	// mutated a block.
	Instance *objectstore.Instance
	// Deleted lists the affected kinds in processing order.
	Deleted []blocks.Kind
	// Instances is the number of deleted instances.
	Instances int
	Failures  []*invalidation.CallbackFailure
}

func (r *Report) String() string {
	s := fmt.Sprintf("deleted %d instance(s) of [%s]", r.Instances, utils.JoinFunc(r.Deleted, ", ", blocks.Kind.String))
	if r.Instance != nil {
		s = fmt.Sprintf("set %s, %s", r.Instance, s)
	}
	if len(r.Failures) > 0 {
		s = fmt.Sprintf("%s (%d callback failure(s))", s, len(r.Failures))
	}
	return s
}

func (r *Report) failed(f []*invalidation.CallbackFailure) {
	r.Failures = append(r.Failures, f...)
}
