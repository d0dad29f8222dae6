// Package spatial defines the contract shared by every nearest-neighbour
// backend in this module (gug, vptree, linear) and the facade (nn) that
// dispatches between them: the Element type every backend stores, the
// Result/Index shapes queries return and implement, and the small k-best
// buffer the spec's kNN algorithms all converge on.
//
// Backend packages import spatial, not the other way around, so Element's
// backend-private bookkeeping is represented generically — a single
// intrusive hook (reused as the membership link for whichever backend's
// bucket currently holds the element) plus an opaque state value each
// backend owns the concrete type of.
package spatial

import (
	"github.com/vpgrid/ngng/dlist"
	"github.com/vpgrid/ngng/vector"
)

// Element is the caller-owned record every index stores: a read-only view
// of the caller's vector, plus bookkeeping whose layout is the active
// backend's concern. Spec invariant: an Element is a member of at most one
// index at a time, enforced by state being non-nil while registered.
type Element struct {
	// Vec is the caller's vector. It must be stable for as long as the
	// element is registered; the caller notifies the index of coordinate
	// changes via Update.
	Vec vector.Vector

	hook  dlist.Hook[Element]
	state any
}

// NewElement wraps v for registration with exactly one backend.
func NewElement(v vector.Vector) *Element {
	e := &Element{Vec: v}
	e.hook.Init(e)
	return e
}

// Hook returns the element's shared intrusive-list hook, used by backends
// whose membership structure is itself a dlist.List[Element] (linear
// storage, a gug cell's bucket, a vptree leaf's bucket).
func (e *Element) Hook() *dlist.Hook[Element] { return &e.hook }

// State returns the backend-private bookkeeping value, or nil if e is not
// currently registered with any backend.
func (e *Element) State() any { return e.state }

// SetState installs the backend-private bookkeeping value. Backends call
// this on Add and clear it (pass nil) on Remove.
func (e *Element) SetState(s any) { e.state = s }

// Registered reports whether e currently belongs to some backend.
func (e *Element) Registered() bool { return e.state != nil }
