// Package session coordinates the building block components of one
// design session: a block mutation removes every transitively dependent
// block and fires the registered invalidation callbacks.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/dependency"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
	"github.com/mandelsoft/buildingblocks/pkg/invalidation"
	"github.com/mandelsoft/buildingblocks/pkg/objectstore"
)

type Session struct {
	lock       sync.Mutex
	registry   blocks.Registry
	graph      *dependency.Graph
	store      *objectstore.Store
	dispatcher *invalidation.Dispatcher
}

// New creates a session for the given components. All components must
// be based on the same registry and the dependency graph must be acyclic.
func New(graph *dependency.Graph, store *objectstore.Store, dispatcher *invalidation.Dispatcher) (*Session, error) {
	reg := graph.Registry()
	if store.Registry() != reg {
		return nil, fmt.Errorf("object store uses a different block registry")
	}
	if dispatcher.Registry() != reg {
		return nil, fmt.Errorf("dispatcher uses a different block registry")
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		registry:   reg,
		graph:      graph,
		store:      store,
		dispatcher: dispatcher,
	}, nil
}

// ForGraph creates a session with an empty object store and
// no registered callbacks.
func ForGraph(graph *dependency.Graph) (*Session, error) {
	reg := graph.Registry()
	return New(graph, objectstore.New(reg), invalidation.New(reg))
}

func (s *Session) Registry() blocks.Registry {
	return s.registry
}

func (s *Session) Graph() *dependency.Graph {
	return s.graph
}

// Store provides the object store of the session. Writing blocks
// directly to the store bypasses the cascade, so it must not be done
// while the session is in use.
func (s *Session) Store() *objectstore.Store {
	return s.store
}

func (s *Session) Dispatcher() *invalidation.Dispatcher {
	return s.dispatcher
}

// MutateAndCascade sets a block and removes all instances of its
// transitive dependents. Structural errors are detected before
// the store is touched.
// Callbacks are executed while the session is locked, they
// must not call mutating session methods.
func (s *Session) MutateAndCascade(kind blocks.Kind, payload geometry.Payload, existing uuid.UUID) (objectstore.Instance, error) {
	r, err := s.Mutate(kind, payload, existing)
	if err != nil {
		return objectstore.Instance{}, err
	}
	return *r.Instance, nil
}

// Mutate is like MutateAndCascade, but provides a complete report.
func (s *Session) Mutate(kind blocks.Kind, payload geometry.Payload, existing uuid.UUID) (*Report, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	deps, err := s.graph.GetTransitiveDependents(kind)
	if err != nil {
		return nil, err
	}
	// SetBlock validates and sets under a single store lock.
	inst, err := s.store.SetBlock(kind, payload, existing)
	if err != nil {
		return nil, err
	}
	r := &Report{Instance: &inst}
	r.failed(s.dispatcher.Fire(kind, invalidation.OnMutate))
	if err := s.cascade(r, deps); err != nil {
		return r, err
	}
	log.Info("mutated {{instance}}: {{report}}", "instance", inst, "report", r)
	return r, nil
}

// DeleteAndCascade removes all instances of a block kind
// and its transitive dependents.
func (s *Session) DeleteAndCascade(kind blocks.Kind) (*Report, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	deps, err := s.graph.GetTransitiveDependents(kind)
	if err != nil {
		return nil, err
	}
	r := &Report{}
	if err := s.cascade(r, append([]blocks.Kind{kind}, deps...)); err != nil {
		return r, err
	}
	log.Info("deleted {{kind}}: {{report}}", "kind", kind, "report", r)
	return r, nil
}

// DeleteInstanceAndCascade removes a single instance and all instances
// of the transitive dependents of its kind. Unknown ids are a no-op.
func (s *Session) DeleteInstanceAndCascade(id uuid.UUID) (*Report, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	r := &Report{}
	inst, ok := s.store.Get(id)
	if !ok {
		return r, nil
	}
	deps, err := s.graph.GetTransitiveDependents(inst.Kind)
	if err != nil {
		return nil, err
	}
	if s.store.DeleteBlock(id) {
		r.Instances++
	}
	r.Deleted = append(r.Deleted, inst.Kind)
	r.failed(s.dispatcher.Fire(inst.Kind, invalidation.OnDelete))
	if err := s.cascade(r, deps); err != nil {
		return r, err
	}
	log.Info("deleted {{instance}}: {{report}}", "instance", inst, "report", r)
	return r, nil
}

// InvalidateDependents removes all instances of the transitive
// dependents of a kind, but keeps the kind itself.
func (s *Session) InvalidateDependents(kind blocks.Kind) (*Report, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	deps, err := s.graph.GetTransitiveDependents(kind)
	if err != nil {
		return nil, err
	}
	r := &Report{}
	if err := s.cascade(r, deps); err != nil {
		return r, err
	}
	log.Info("invalidated dependents of {{kind}}: {{report}}", "kind", kind, "report", r)
	return r, nil
}

func (s *Session) cascade(r *Report, kinds []blocks.Kind) error {
	for _, k := range kinds {
		n, err := s.store.DeleteAllOfKind(k)
		if err != nil {
			return err
		}
		log.Debug("deleted {{count}} instance(s) of {{kind}}", "count", n, "kind", k)
		r.Instances += n
		r.Deleted = append(r.Deleted, k)
		r.failed(s.dispatcher.Fire(k, invalidation.OnDelete))
	}
	return nil
}
