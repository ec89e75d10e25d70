// Package xgxstash aggregates independent failures into a single immutable
// error tree instead of stopping at the first one. See doc.go for the full
// package documentation; this file defines the tree node.
//
// Design tenets:
//   - Interop-first: nodes implement error and Unwrap() []error so
//     errors.Is/As traverse the whole tree.
//   - Immutable nodes: a node never changes after construction; derivation
//     (adding a frame, nesting under a label) returns a new value.
//   - Policy-free: no logging/HTTP/JSON/classification in core.
//
// Implementations and callers SHOULD treat every *Error as a finished,
// shareable value: accessors return copies of internal slices, and all
// derivation helpers are non-mutating (copy-on-write).
package xgxstash

import (
	"fmt"
)

// nodeKind discriminates the three node shapes. Nodes are built bottom-up
// from finished children, so trees are finite and strictly nested.
type nodeKind uint8

const (
	// kindAdHoc is a standalone message with no inner value.
	kindAdHoc nodeKind = iota
	// kindLeaf carries one opaque inner value and an optional label.
	kindLeaf
	// kindGroup carries a label and one or more child nodes.
	kindGroup
)

// Error is an immutable aggregated-failure value: either a single captured
// inner value with its frame chain (a leaf), a labeled group of child
// errors, or a plain ad-hoc message. The type parameter I is the inner
// representation: `error` for the common boxed mode, or any concrete type
// for statically-typed trees. All containers in one call chain agree on
// the same I.
//
// The zero value is not meaningful; construct nodes through the package
// functions (Errorf, Adopt, Wrap, Wrapf) or by converting a stash.
type Error[I any] struct {
	kind     nodeKind
	msg      string      // ad-hoc message, or leaf/group label
	labeled  bool        // msg carries meaning for leaf/group kinds
	inner    I           // kindLeaf only
	children []*Error[I] // kindGroup only; always len >= 1
	frames   []Frame     // earliest boundary first
}

// Error returns the concise one-line message: the rendered plain form of
// the tree with groups collapsed to "label: child" or "label (n errors)".
func (e *Error[I]) Error() string {
	return e.plain()
}

// Children returns a copy of the direct child nodes. Leaves and ad-hoc
// nodes have none. Mutating the returned slice does not affect the node.
func (e *Error[I]) Children() []*Error[I] {
	if len(e.children) == 0 {
		return nil
	}
	out := make([]*Error[I], len(e.children))
	copy(out, e.children)
	return out
}

// Inner returns the captured inner value of a leaf node. The second result
// is false for groups and ad-hoc nodes.
func (e *Error[I]) Inner() (I, bool) {
	if e.kind != kindLeaf {
		var zero I
		return zero, false
	}
	return e.inner, true
}

// Label returns the label attached to a leaf or group. Ad-hoc nodes and
// silently wrapped nodes report false.
func (e *Error[I]) Label() (string, bool) {
	if e.kind == kindAdHoc || !e.labeled {
		return "", false
	}
	return e.msg, true
}

// Frames returns a copy of the node's recorded call-site frames, ordered
// from the first boundary crossed to the most recent.
func (e *Error[I]) Frames() []Frame {
	return framesCopy(e.frames)
}

// Unwrap exposes the node's causal set to stdlib traversal: a group yields
// its children, a leaf yields its inner value when that value is itself an
// error. errors.Is and errors.As therefore see through arbitrarily nested
// trees, including trees mixed with errors.Join wrappers.
func (e *Error[I]) Unwrap() []error {
	switch e.kind {
	case kindGroup:
		out := make([]error, len(e.children))
		for i, c := range e.children {
			out[i] = c
		}
		return out
	case kindLeaf:
		if cause, ok := any(e.inner).(error); ok && cause != nil {
			return []error{cause}
		}
	}
	return nil
}

// withFrame derives a new node with fr appended to the frame chain. The
// receiver is unchanged; children are shared (they are immutable), frames
// are freshly copied.
func (e *Error[I]) withFrame(fr Frame) *Error[I] {
	n := *e
	n.frames = framesCloneAppend(e.frames, fr)
	return &n
}

// display renders an inner value for reports. fmt resolves error and
// Stringer implementations; plain values fall back to their default form.
func display[I any](inner I) string {
	return fmt.Sprint(inner)
}

// -----------------------------------------------------------------------------
// Interface conformance guards
// -----------------------------------------------------------------------------

var (
	_ error         = (*Error[error])(nil)
	_ fmt.Formatter = (*Error[error])(nil)
	_ error         = (*Error[string])(nil)
)
