// stash.go — failure accumulators for xgx-stash core.
//
// Scope:
//   - Stash: a mutable, possibly-empty accumulator with a lazily-evaluated
//     label. Create one per logical batch of fallible work.
//   - NonEmpty: the same accumulator once it provably holds at least one
//     failure. Produced by the first push, never constructed empty.
//   - Collect: one-shot group construction from already-collected errors.
//
// Semantics:
//   - Pushing a raw value boxes it as a leaf with exactly one fresh frame.
//     Pushing a value that already is a node appends it as-is, unmodified.
//   - The label factory runs at most once, and only when the accumulated
//     failures are converted into an error; an untouched or empty stash
//     never pays the formatting cost.
//   - Conversion is logically consuming: convert once, then stop pushing.
//     The containers stay well-behaved if this discipline is broken (the
//     returned node is an independent snapshot), but provenance reads
//     strangely when one batch is reported twice.
//
// Concurrency:
//   - No internal locking. One logical writer per container at a time;
//     callers that share a stash across goroutines must supply their own
//     mutual exclusion around pushes. Finished nodes are immutable and
//     freely shareable.
package xgxstash

import (
	"fmt"
	"sync"
)

// Sink accepts failures. Both *Stash and *NonEmpty implement it, so helpers
// and sequence adapters can route into either without caring whether the
// container has already seen a failure.
type Sink[I any] interface {
	// Push boxes inner as a leaf with one fresh frame and appends it.
	// See Stash.Push for the exact boxing rules.
	Push(inner I) *NonEmpty[I]
	// PushNode appends an existing node as-is, recording no frame.
	PushNode(node *Error[I]) *NonEmpty[I]
}

// Stash accumulates failures from a batch of independent fallible
// operations. It starts empty; the label factory is held, not invoked,
// until conversion. The zero value is unusable; construct with New or
// NewOf.
type Stash[I any] struct {
	label func() string
	ne    *NonEmpty[I]
}

// New creates an empty boxed-mode stash. The label factory produces the
// group label if the batch ends up failing; it is invoked at most once,
// and only at conversion:
//
//	errs := xgxstash.New(func() string { return "failed to run application" })
func New(label func() string) *Stash[error] {
	return NewOf[error](label)
}

// NewOf creates an empty stash over a statically-chosen inner type.
func NewOf[I any](label func() string) *Stash[I] {
	if label == nil {
		label = func() string { return "" }
	}
	return &Stash[I]{label: sync.OnceValue(label)}
}

// Push boxes inner as a leaf carrying one fresh frame for this call site
// and appends it, promoting the stash to non-empty. Two special cases:
//   - a value that already is a *Error node is appended as-is, with no
//     extra frame (its provenance is already recorded);
//   - in boxed mode, a nil error is a no-op and returns the current
//     promotion state (nil when nothing has been pushed yet).
func (s *Stash[I]) Push(inner I) *NonEmpty[I] {
	if any(inner) == nil {
		return s.ne
	}
	if node, ok := any(inner).(*Error[I]); ok {
		return s.PushNode(node)
	}
	return s.pushNode(newLeaf(inner, caller(1)))
}

// PushNode appends node unmodified and promotes the stash to non-empty.
// A nil node is a no-op.
func (s *Stash[I]) PushNode(node *Error[I]) *NonEmpty[I] {
	if node == nil {
		return s.ne
	}
	return s.pushNode(node)
}

func (s *Stash[I]) pushNode(node *Error[I]) *NonEmpty[I] {
	if s.ne == nil {
		s.ne = &NonEmpty[I]{label: s.label, children: []*Error[I]{node}}
		return s.ne
	}
	return s.ne.pushNode(node)
}

// IsEmpty reports whether no failure has been pushed yet.
func (s *Stash[I]) IsEmpty() bool { return s.ne == nil }

// Len returns the number of accumulated failures.
func (s *Stash[I]) Len() int {
	if s.ne == nil {
		return 0
	}
	return s.ne.Len()
}

// Errors returns a snapshot copy of the accumulated nodes in push order.
func (s *Stash[I]) Errors() []*Error[I] {
	if s.ne == nil {
		return nil
	}
	return s.ne.Errors()
}

// OK returns the non-empty view of the stash, or false while it is empty.
func (s *Stash[I]) OK() (*NonEmpty[I], bool) {
	return s.ne, s.ne != nil
}

// Err converts the batch: nil when no failure was pushed, otherwise a group
// node labeled by the factory (invoked now) with the accumulated children
// in push order. The nil case is an untyped nil, safe for err != nil tests.
func (s *Stash[I]) Err() error {
	if s.ne == nil {
		return nil
	}
	return s.ne.Err()
}

// String describes the accumulation state; for reporting use Err and the
// node's formatting.
func (s *Stash[I]) String() string {
	return fmt.Sprintf("stash of %d errors currently", s.Len())
}

// NonEmpty is a stash that provably holds at least one failure. It is only
// ever produced by pushing into a Stash or by OrCreate, so converting it
// always yields an error: there is no success branch to check.
type NonEmpty[I any] struct {
	label    func() string
	children []*Error[I]
}

// Push boxes inner exactly like Stash.Push and appends it.
func (n *NonEmpty[I]) Push(inner I) *NonEmpty[I] {
	if any(inner) == nil {
		return n
	}
	if node, ok := any(inner).(*Error[I]); ok {
		return n.pushNode(node)
	}
	return n.pushNode(newLeaf(inner, caller(1)))
}

// PushNode appends node unmodified, recording no frame.
func (n *NonEmpty[I]) PushNode(node *Error[I]) *NonEmpty[I] {
	if node == nil {
		return n
	}
	return n.pushNode(node)
}

func (n *NonEmpty[I]) pushNode(node *Error[I]) *NonEmpty[I] {
	n.children = append(n.children, node)
	return n
}

// Len returns the number of accumulated failures; always at least one.
func (n *NonEmpty[I]) Len() int { return len(n.children) }

// Errors returns a snapshot copy of the accumulated nodes in push order.
func (n *NonEmpty[I]) Errors() []*Error[I] {
	out := make([]*Error[I], len(n.children))
	copy(out, n.children)
	return out
}

// Err converts the accumulated failures into a group node labeled by the
// factory (invoked now, at most once across conversions). The node owns an
// independent copy of the children list, so it stays valid regardless of
// what happens to the stash afterwards.
func (n *NonEmpty[I]) Err() *Error[I] {
	children := make([]*Error[I], len(n.children))
	copy(children, n.children)
	return newGroup(n.label(), children, nil)
}

// String describes the accumulation state.
func (n *NonEmpty[I]) String() string {
	return fmt.Sprintf("stash of %d errors currently", len(n.children))
}

// Collect builds a labeled group directly from already-collected errors,
// skipping the stash lifecycle. Nil entries are dropped; existing nodes are
// kept as-is and raw errors become leaves stamped with this call site. When
// every entry is nil, Collect returns nil.
func Collect(label string, errs ...error) error {
	fr := caller(1)
	var children []*Error[error]
	for _, err := range errs {
		if err == nil {
			continue
		}
		if node, ok := err.(*Error[error]); ok {
			children = append(children, node)
			continue
		}
		children = append(children, newLeaf[error](err, fr))
	}
	if len(children) == 0 {
		return nil
	}
	return newGroup(label, children, nil)
}

// -----------------------------------------------------------------------------
// Interface conformance guards
// -----------------------------------------------------------------------------

var (
	_ Sink[error]  = (*Stash[error])(nil)
	_ Sink[error]  = (*NonEmpty[error])(nil)
	_ Sink[string] = (*Stash[string])(nil)
	_ fmt.Stringer = (*Stash[error])(nil)
	_ fmt.Stringer = (*NonEmpty[error])(nil)
)
