// Package handler implements the polymorphic handler abstraction from
// spec §4.4: a callable that, given the extension map, resolves its
// declared parameter tuple and invokes user code. Go has no trait
// overloading on tuple arity, so parameter resolution is driven by
// reflection over the handler func's declared parameter types instead of
// nine generated adapter shapes (see SPEC_FULL.md §5) — each parameter
// type is looked up directly in the extension map by its run-time
// identity.
package handler

import (
	"fmt"
	"reflect"

	"github.com/eztimer/timer/ext"
)

// maxParams mirrors the closed arity set spec §4.4/§9 describes (k in
// [0..9]).
const maxParams = 9

// Kind distinguishes the two invocation flavors spec §4.4 calls
// "blocking" and "suspending".
type Kind int

const (
	// Blocking handlers return void and are run to completion by the
	// caller, typically offloaded to a worker so the driver is never
	// blocked.
	Blocking Kind = iota
	// Suspending handlers return a <-chan error "pending task" handle:
	// invocation itself returns quickly, and the handler's own
	// goroutine signals completion (or a recovered panic) on the
	// channel.
	Suspending
)

var errorChanType = reflect.TypeOf((<-chan error)(nil))

// Handler wraps a user-supplied func value together with the resolved
// parameter types it will be called with.
type Handler struct {
	fn     reflect.Value
	params []reflect.Type
	kind   Kind
}

// NewBlocking validates fn as a blocking handler: a func of zero to nine
// parameters and no return value.
func NewBlocking(fn any) (*Handler, error) {
	return newHandler(fn, Blocking)
}

// NewSuspending validates fn as a suspending handler: a func of zero to
// nine parameters returning a <-chan error.
func NewSuspending(fn any) (*Handler, error) {
	return newHandler(fn, Suspending)
}

func newHandler(fn any, kind Kind) (*Handler, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("handler: expected a func, got %s", t)
	}
	if t.NumIn() > maxParams {
		return nil, fmt.Errorf("handler: at most %d extension parameters are supported, got %d", maxParams, t.NumIn())
	}
	switch kind {
	case Blocking:
		if t.NumOut() != 0 {
			return nil, fmt.Errorf("handler: blocking handler must return nothing, got %d return values", t.NumOut())
		}
	case Suspending:
		if t.NumOut() != 1 || !t.Out(0).AssignableTo(errorChanType) {
			return nil, fmt.Errorf("handler: suspending handler must return <-chan error")
		}
	}
	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}
	return &Handler{fn: v, params: params, kind: kind}, nil
}

// Kind reports whether h is Blocking or Suspending.
func (h *Handler) Kind() Kind { return h.kind }

// resolveArgs performs one extension lookup per declared parameter, in
// declaration order. A missing type is a contract failure (spec §7):
// the caller decides how to surface it (the firing task turns it into a
// contained, logged failure of that firing).
func (h *Handler) resolveArgs(m *ext.Map) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(h.params))
	for i, t := range h.params {
		v, err := m.LookupType(t)
		if err != nil {
			return nil, fmt.Errorf("handler: resolving parameter %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

// Invoke runs a Blocking handler synchronously against m, recovering any
// panic in user code into an error (spec §7: "handler panic ... contained;
// the scheduler continues").
func (h *Handler) Invoke(m *ext.Map) (err error) {
	args, err := h.resolveArgs(m)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler: panic: %v", r)
		}
	}()
	h.fn.Call(args)
	return nil
}

// InvokeSuspend calls a Suspending handler and returns the pending-task
// channel it produced. The call itself is recovered the same way Invoke
// is; a panic during the call (as opposed to inside the goroutine the
// handler spawns, which is the handler's own responsibility to recover)
// yields an already-closed channel carrying the error.
func (h *Handler) InvokeSuspend(m *ext.Map) <-chan error {
	args, err := h.resolveArgs(m)
	if err != nil {
		return closedWith(err)
	}
	var done <-chan error
	func() {
		defer func() {
			if r := recover(); r != nil {
				done = closedWith(fmt.Errorf("handler: panic: %v", r))
			}
		}()
		out := h.fn.Call(args)
		done = out[0].Interface().(<-chan error)
	}()
	return done
}

func closedWith(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
