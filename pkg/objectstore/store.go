// Package objectstore holds the concrete building block instances of a
// design session.
package objectstore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/modern-go/reflect2"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/events"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
)

type Store struct {
	lock      sync.RWMutex
	registry  blocks.Registry
	instances map[uuid.UUID]*Instance
	kinds     map[blocks.Kind][]uuid.UUID
	handlers  events.HandlerRegistry[Event]
}

func New(reg blocks.Registry) *Store {
	return &Store{
		registry:  reg,
		instances: map[uuid.UUID]*Instance{},
		kinds:     map[blocks.Kind][]uuid.UUID{},
		handlers:  events.NewHandlerRegistry[Event](),
	}
}

func (s *Store) Registry() blocks.Registry {
	return s.registry
}

// RegisterHandler registers a handler for change events of the given
// kinds. Without kinds the handler gets the events of all kinds.
// Handlers are called synchronously after the store has been updated.
func (s *Store) RegisterHandler(h EventHandler, kinds ...blocks.Kind) {
	s.handlers.RegisterHandler(h, keys(kinds)...)
}

func (s *Store) UnregisterHandler(h EventHandler, kinds ...blocks.Kind) {
	s.handlers.UnregisterHandler(h, keys(kinds)...)
}

func keys(kinds []blocks.Kind) []string {
	var r []string
	for _, k := range kinds {
		r = append(r, string(k))
	}
	return r
}

func (s *Store) notify(evs ...Event) {
	for _, e := range evs {
		log.Debug("{{event}}", "event", e)
		s.handlers.TriggerEvent(string(e.Instance.Kind), e)
	}
}

// GetInstance provides the instance of a kind. For kinds with
// multiple instances the oldest one is returned.
func (s *Store) GetInstance(kind blocks.Kind) (Instance, error) {
	if !s.registry.Has(kind) {
		return Instance{}, blocks.UnknownKind(kind)
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	ids := s.kinds[kind]
	if len(ids) == 0 {
		return Instance{}, blocks.NewKindError(kind, ErrNotFound)
	}
	return *s.instances[ids[0]], nil
}

// GetAllInstances provides the instances of a kind in creation order.
func (s *Store) GetAllInstances(kind blocks.Kind) ([]Instance, error) {
	if !s.registry.Has(kind) {
		return nil, blocks.UnknownKind(kind)
	}

	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.list(kind), nil
}

func (s *Store) list(kind blocks.Kind) []Instance {
	r := []Instance{}
	for _, id := range s.kinds[kind] {
		r = append(r, *s.instances[id])
	}
	return r
}

func (s *Store) Get(id uuid.UUID) (Instance, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	i := s.instances[id]
	if i == nil {
		return Instance{}, false
	}
	return *i, true
}

func (s *Store) HasBlock(kind blocks.Kind) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.kinds[kind]) > 0
}

// Kinds provides the kinds currently holding instances
// in registry order.
func (s *Store) Kinds() []blocks.Kind {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var r []blocks.Kind
	for _, k := range s.registry.AllKinds() {
		if len(s.kinds[k]) > 0 {
			r = append(r, k)
		}
	}
	return r
}

// Instances provides all instances ordered by kind
// and creation.
func (s *Store) Instances() []Instance {
	s.lock.RLock()
	defer s.lock.RUnlock()

	r := []Instance{}
	for _, k := range s.registry.AllKinds() {
		r = append(r, s.list(k)...)
	}
	return r
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.instances)
}

// CheckBlock checks whether SetBlock would succeed
// without modifying the store.
func (s *Store) CheckBlock(kind blocks.Kind, payload geometry.Payload, existing uuid.UUID) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	_, err := s.check(kind, payload, existing)
	return err
}

func (s *Store) check(kind blocks.Kind, payload geometry.Payload, existing uuid.UUID) (*Instance, error) {
	meta, err := s.registry.GetMetadata(kind)
	if err != nil {
		return nil, err
	}
	if reflect2.IsNil(payload) {
		return nil, blocks.NewKindError(kind, ErrTypeMismatch, "missing payload")
	}
	if c := payload.GetCategory(); c != meta.Category {
		return nil, blocks.NewKindError(kind, ErrTypeMismatch, fmt.Sprintf("payload category %s, but %s required", c, meta.Category))
	}

	var target *Instance
	if existing != uuid.Nil {
		if i := s.instances[existing]; i != nil {
			if i.Kind != kind {
				return nil, blocks.NewKindError(kind, ErrTypeMismatch, fmt.Sprintf("instance %s belongs to kind %q", existing, i.Kind))
			}
			target = i
		}
	}
	if target == nil && !meta.IsMultiple() {
		if ids := s.kinds[kind]; len(ids) > 0 {
			target = s.instances[ids[0]]
		}
	}
	return target, nil
}

// SetBlock creates a new instance for the given kind or replaces the
// payload of the existing instance, if given and present. Single kinds
// never hold more than one instance, setting such a kind replaces the
// payload of the actual instance.
func (s *Store) SetBlock(kind blocks.Kind, payload geometry.Payload, existing uuid.UUID) (Instance, error) {
	s.lock.Lock()
	target, err := s.check(kind, payload, existing)
	if err != nil {
		s.lock.Unlock()
		return Instance{}, err
	}

	var ev Event
	if target != nil {
		target.Payload = payload
		target.Generation++
		ev = Event{Updated, *target}
	} else {
		i := &Instance{Kind: kind, ID: uuid.New(), Payload: payload}
		s.add(i)
		ev = Event{Created, *i}
	}
	s.lock.Unlock()

	s.notify(ev)
	return ev.Instance, nil
}

func (s *Store) add(i *Instance) {
	s.instances[i.ID] = i
	s.kinds[i.Kind] = append(s.kinds[i.Kind], i.ID)
}

// Import adds an instance with a given identity,
// for example to restore a persisted session.
func (s *Store) Import(inst Instance) error {
	if inst.ID == uuid.Nil {
		return blocks.NewKindError(inst.Kind, ErrTypeMismatch, "missing instance id")
	}

	s.lock.Lock()
	target, err := s.check(inst.Kind, inst.Payload, inst.ID)
	if err == nil && target != nil && target.ID != inst.ID {
		err = blocks.NewKindError(inst.Kind, ErrTypeMismatch, fmt.Sprintf("single kind already holds instance %s", target.ID))
	}
	if err != nil {
		s.lock.Unlock()
		return err
	}

	var ev Event
	i := inst
	if target != nil {
		*target = i
		ev = Event{Updated, i}
	} else {
		s.add(&i)
		ev = Event{Created, i}
	}
	s.lock.Unlock()

	s.notify(ev)
	return nil
}

// DeleteBlock removes an instance. Deleting an
// unknown instance is a no-op.
func (s *Store) DeleteBlock(id uuid.UUID) bool {
	s.lock.Lock()
	i := s.delete(id)
	s.lock.Unlock()

	if i == nil {
		return false
	}
	s.notify(Event{Deleted, *i})
	return true
}

func (s *Store) delete(id uuid.UUID) *Instance {
	i := s.instances[id]
	if i == nil {
		return nil
	}
	delete(s.instances, id)
	ids := slices.DeleteFunc(slices.Clone(s.kinds[i.Kind]), func(e uuid.UUID) bool { return e == id })
	if len(ids) > 0 {
		s.kinds[i.Kind] = ids
	} else {
		delete(s.kinds, i.Kind)
	}
	return i
}

// DeleteAllOfKind removes all instances of a kind and
// returns the number of deleted instances.
func (s *Store) DeleteAllOfKind(kind blocks.Kind) (int, error) {
	if !s.registry.Has(kind) {
		return 0, blocks.UnknownKind(kind)
	}

	s.lock.Lock()
	var evs []Event
	for _, id := range slices.Clone(s.kinds[kind]) {
		if i := s.delete(id); i != nil {
			evs = append(evs, Event{Deleted, *i})
		}
	}
	s.lock.Unlock()

	s.notify(evs...)
	return len(evs), nil
}
