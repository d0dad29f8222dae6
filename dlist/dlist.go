// Package dlist implements the intrusive circular doubly-linked list that
// backs every O(1) membership structure in this module: GUG cell buckets,
// VPTree leaf buckets, linear-scan storage, and the Net graph's node/edge/
// incidence lists.
//
// A Hook[T] is meant to be embedded by value inside the owning record T
// (the Go analogue of embedding a bor_list_t inside a C struct). Unlike the
// C original, a Hook carries a typed pointer back to its owner, so recovering
// the record from a hook is a field access, not pointer arithmetic through
// an offsetof. The Tag field survives only for the one place the spec still
// needs to disambiguate which of several hooks on the same record a given
// Hook is: a Net edge's two node-hooks, tagged 0 and 1 for its two
// endpoints.
package dlist

// Hook is one link in a List[T]. Zero value is a detached hook; call Init
// once the owning record has a stable address (after it is allocated) to
// bind it to its owner before inserting it into a list.
type Hook[T any] struct {
	prev, next *Hook[T]
	list       *List[T]
	owner      *T

	// Tag is set by PushBackTagged/PushFrontTagged and otherwise left at
	// its previous value; it exists to let a record with multiple hooks
	// (e.g. an edge's two endpoint hooks) recover which slot a given hook
	// occupies.
	Tag int
}

// Init binds h to owner. Must be called before the hook's first insertion.
func (h *Hook[T]) Init(owner *T) {
	h.owner = owner
}

// Owner returns the record this hook is embedded in.
func (h *Hook[T]) Owner() *T { return h.owner }

// InList reports whether h currently belongs to a List.
func (h *Hook[T]) InList() bool { return h.list != nil }

// Detach removes h from its current list in O(1). Self-healing: it patches
// the neighbours' links so the list remains consistent, and is a no-op if h
// is already detached.
func (h *Hook[T]) Detach() {
	if h.list == nil {
		return
	}
	h.prev.next = h.next
	h.next.prev = h.prev
	h.list.length--
	h.prev, h.next, h.list = nil, nil, nil
}

// List is a circular doubly-linked list of Hook[T], ordered from front to
// back. The zero value is not ready for use; call Init or use NewList.
type List[T any] struct {
	sentinel Hook[T]
	length   int
}

// NewList returns an initialized, empty List.
func NewList[T any]() *List[T] {
	l := &List[T]{}
	l.Init()
	return l
}

// Init prepares an empty list. Safe to call on a List obtained as a
// zero-value struct field (e.g. embedded in another type).
func (l *List[T]) Init() {
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	l.sentinel.list = l
	l.length = 0
}

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool { return l.length == 0 }

// Len returns the number of elements currently linked into l.
func (l *List[T]) Len() int { return l.length }

func (l *List[T]) insertAfter(at, h *Hook[T]) {
	h.Detach()
	h.prev = at
	h.next = at.next
	at.next.prev = h
	at.next = h
	h.list = l
	l.length++
}

// PushBack appends h as the new last element. O(1).
func (l *List[T]) PushBack(h *Hook[T]) {
	l.insertAfter(l.sentinel.prev, h)
}

// PushBackTagged appends h as the new last element and stamps its Tag.
func (l *List[T]) PushBackTagged(h *Hook[T], tag int) {
	h.Tag = tag
	l.PushBack(h)
}

// PushFront inserts h as the new first element. O(1).
func (l *List[T]) PushFront(h *Hook[T]) {
	l.insertAfter(&l.sentinel, h)
}

// PushFrontTagged inserts h as the new first element and stamps its Tag.
func (l *List[T]) PushFrontTagged(h *Hook[T], tag int) {
	h.Tag = tag
	l.PushFront(h)
}

// Front returns the owner of the first element, or nil if l is empty.
func (l *List[T]) Front() *T {
	if l.Empty() {
		return nil
	}
	return l.sentinel.next.owner
}

// Back returns the owner of the last element, or nil if l is empty.
func (l *List[T]) Back() *T {
	if l.Empty() {
		return nil
	}
	return l.sentinel.prev.owner
}

// Do calls fn once per element, front to back. fn must not detach the
// current or any other hook; use DoSafe for that.
func (l *List[T]) Do(fn func(owner *T)) {
	for h := l.sentinel.next; h != &l.sentinel; h = h.next {
		fn(h.owner)
	}
}

// DoSafe calls fn once per element, front to back, and tolerates fn
// detaching the element it was just called with (or any other element
// already visited) by capturing the next pointer before invoking fn.
func (l *List[T]) DoSafe(fn func(owner *T)) {
	h := l.sentinel.next
	for h != &l.sentinel {
		next := h.next
		fn(h.owner)
		h = next
	}
}
