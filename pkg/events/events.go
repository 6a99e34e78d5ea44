// Package events provides a synchronous event handler registry.
// Handlers are registered for a set of keys; the empty key registers
// a handler for all keys.
package events

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

type EventHandler[E any] interface {
	HandleEvent(E)
}

type HandlerRegistration[E any] interface {
	RegisterHandler(h EventHandler[E], keys ...string)
	UnregisterHandler(h EventHandler[E], keys ...string)
}

type HandlerRegistry[E any] interface {
	HandlerRegistration[E]

	// TriggerEvent passes an event to all handlers registered for
	// the given key followed by the handlers registered for all keys.
	TriggerEvent(key string, e E)
}

type wrapper[E any] struct {
	handler EventHandler[E]
}

// is reports whether the wrapped handler is the given one. Handlers of
// non-comparable types are matched by deep equality.
func (w *wrapper[E]) is(h EventHandler[E]) (same bool) {
	if reflect.TypeOf(w.handler) != reflect.TypeOf(h) {
		return false
	}
	defer func() {
		if recover() != nil {
			same = reflect.DeepEqual(w.handler, h)
		}
	}()
	return w.handler == h
}

func (w *wrapper[E]) handle(key string, e E) {
	defer func() {
		if p := recover(); p != nil {
			log.LogError(fmt.Errorf("event handler panicked: %v", p), "handler {{handler}} failed for {{key}}", "handler", fmt.Sprintf("%T", w.handler), "key", key)
		}
	}()
	w.handler.HandleEvent(e)
}

type eventhandlers[E any] []*wrapper[E]

func (l eventhandlers[E]) index(h EventHandler[E]) int {
	for i, w := range l {
		if w.is(h) {
			return i
		}
	}
	return -1
}

type registry[E any] struct {
	lock     sync.Mutex
	handlers map[string]eventhandlers[E]
}

var _ HandlerRegistry[any] = (*registry[any])(nil)

func NewHandlerRegistry[E any]() HandlerRegistry[E] {
	return &registry[E]{
		handlers: map[string]eventhandlers[E]{},
	}
}

func keys(list []string) []string {
	if len(list) == 0 {
		return []string{""}
	}
	return list
}

func (r *registry[E]) RegisterHandler(h EventHandler[E], list ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, k := range keys(list) {
		if r.handlers[k].index(h) < 0 {
			r.handlers[k] = append(r.handlers[k], &wrapper[E]{h})
		}
	}
}

func (r *registry[E]) UnregisterHandler(h EventHandler[E], list ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, k := range keys(list) {
		handlers := r.handlers[k]
		if i := handlers.index(h); i >= 0 {
			handlers = slices.Delete(slices.Clone(handlers), i, i+1)
		}
		if len(handlers) > 0 {
			r.handlers[k] = handlers
		} else {
			delete(r.handlers, k)
		}
	}
}

func (r *registry[E]) getHandlers(key string) eventhandlers[E] {
	r.lock.Lock()
	defer r.lock.Unlock()

	var handlers eventhandlers[E]
	if key != "" {
		handlers = append(handlers, r.handlers[key]...)
	}
	return append(handlers, r.handlers[""]...)
}

// TriggerEvent calls the handlers in registration order. A panicking
// handler is logged and does not stop the remaining handlers.
func (r *registry[E]) TriggerEvent(key string, e E) {
	for _, w := range r.getHandlers(key) {
		w.handle(key, e)
	}
}
