// Package invalidation runs registered side effects, like marking
// analysis results stale, whenever building blocks are mutated or
// deleted.
package invalidation

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
)

// Registration identifies a registered callback.
type Registration struct {
	name     string
	kind     blocks.Kind
	trigger  Trigger
	callback Callback
}

func (r *Registration) Name() string {
	return r.name
}

func (r *Registration) Kind() blocks.Kind {
	return r.kind
}

func (r *Registration) Trigger() Trigger {
	return r.trigger
}

type key struct {
	kind    blocks.Kind
	trigger Trigger
}

type Dispatcher struct {
	lock          sync.Mutex
	registry      blocks.Registry
	registrations map[key][]*Registration
}

func New(reg blocks.Registry) *Dispatcher {
	return &Dispatcher{
		registry:      reg,
		registrations: map[key][]*Registration{},
	}
}

func (d *Dispatcher) Registry() blocks.Registry {
	return d.registry
}

// Register registers a callback for a block kind and trigger. The
// optional name is used to identify the callback in failure reports.
func (d *Dispatcher) Register(kind blocks.Kind, trigger Trigger, cb Callback, name ...string) (*Registration, error) {
	if kind != AnyKind && !d.registry.Has(kind) {
		return nil, blocks.UnknownKind(kind)
	}
	if trigger != OnMutate && trigger != OnDelete {
		return nil, fmt.Errorf("invalid trigger %d", int(trigger))
	}
	if cb == nil {
		return nil, fmt.Errorf("callback required")
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	k := key{kind, trigger}
	r := &Registration{
		kind:     kind,
		trigger:  trigger,
		callback: cb,
	}
	if len(name) > 0 && name[0] != "" {
		r.name = name[0]
	} else {
		r.name = fmt.Sprintf("%s/%s#%d", kindName(kind), trigger, len(d.registrations[k])+1)
	}
	d.registrations[k] = append(d.registrations[k], r)
	log.Debug("registered callback {{name}}", "name", r.name)
	return r, nil
}

func kindName(k blocks.Kind) string {
	if k == AnyKind {
		return "*"
	}
	return string(k)
}

// Unregister removes a registration. It returns false
// if the registration is not registered for the kind.
func (d *Dispatcher) Unregister(kind blocks.Kind, r *Registration) bool {
	if r == nil || r.kind != kind {
		return false
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	k := key{kind, r.trigger}
	list := d.registrations[k]
	i := slices.Index(list, r)
	if i < 0 {
		return false
	}
	list = slices.Delete(slices.Clone(list), i, i+1)
	if len(list) > 0 {
		d.registrations[k] = list
	} else {
		delete(d.registrations, k)
	}
	return true
}

func (d *Dispatcher) get(kind blocks.Kind, trigger Trigger) []*Registration {
	d.lock.Lock()
	defer d.lock.Unlock()

	var list []*Registration
	if kind != AnyKind {
		list = append(list, d.registrations[key{kind, trigger}]...)
	}
	return append(list, d.registrations[key{AnyKind, trigger}]...)
}

// Fire synchronously calls all callbacks registered for the kind
// and trigger in registration order followed by the callbacks
// registered for AnyKind. Failing callbacks are logged and reported,
// but never stop the remaining callbacks.
func (d *Dispatcher) Fire(kind blocks.Kind, trigger Trigger) []*CallbackFailure {
	var failures []*CallbackFailure

	for _, r := range d.get(kind, trigger) {
		if err := call(r, kind, trigger); err != nil {
			f := &CallbackFailure{
				Kind:         kind,
				Trigger:      trigger,
				Registration: r,
				Cause:        err,
			}
			log.LogError(err, "callback {{name}} failed for {{kind}}", "name", r.name, "kind", kind, "trigger", trigger)
			failures = append(failures, f)
		}
	}
	return failures
}

func call(r *Registration, kind blocks.Kind, trigger Trigger) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("callback panicked: %v", p)
		}
	}()
	return r.callback(kind, trigger)
}
