// wrap.go — tiny, stdlib-friendly routing helpers for fallible outcomes.
//
// Purpose
//   - Route the failure half of an ordinary (value, error) outcome into a
//     stash, a fresh stash, or a wrapped node, stamping the call site each
//     time a value crosses one of these boundaries.
//   - Preserve perfect interop with the standard library: nil errors pass
//     through untouched, and everything returned here is a plain error.
//
// Boundary rules
//   - A raw error becomes a leaf carrying one fresh frame.
//   - A value that already is a node is never re-boxed: wrapping with a
//     label nests it under a new single-child group, and wrapping without
//     a label only records the new frame (policy below).
//
// Rewrap policy
//   - Silently re-wrapping an existing node must still record provenance
//     somewhere observable. The default appends the frame to the node
//     itself, leaving any label untouched. The alternative nests the node
//     under a label-less layer that carries the frame, preserving a strict
//     one-frame-per-layer reading. The choice is cosmetic: both record the
//     same frames in the same order.
package xgxstash

import "fmt"

// RewrapPolicy selects where the fresh frame lands when a node is wrapped
// without a label.
type RewrapPolicy uint8

const (
	// RewrapAnnotate appends the frame to the existing node's own chain.
	// This is the default: reports show one node with its travel log.
	RewrapAnnotate RewrapPolicy = iota
	// RewrapNest inserts a label-less single-child layer carrying the
	// frame. Reports render the same text; the tree gains a layer.
	RewrapNest
)

// OrStash routes err into s when it is a failure: a raw error is boxed as a
// leaf stamped with this call site, an existing node is appended as-is. It
// reports whether anything was stashed, which is the early-return signal
// for callers that want to stop after a failing step:
//
//	v, err := parse(input)
//	if xgxstash.OrStash(errs, err) {
//		return errs.Err() // report this and everything stashed before it
//	}
//
// A nil err leaves s untouched and returns false. The failure value itself
// is deliberately not returned: inspect the stash, not the push.
func OrStash(s Sink[error], err error) bool {
	if err == nil || s == nil {
		return false
	}
	if node, ok := err.(*Error[error]); ok {
		s.PushNode(node)
		return true
	}
	s.PushNode(newLeaf[error](err, caller(1)))
	return true
}

// OrCreate starts accumulation at the first failure: nil err yields nil,
// anything else yields a fresh non-empty stash seeded with that single
// failure, boxed by the same rules as OrStash. Use it where no stash
// existed before the first fallible call:
//
//	if errs := xgxstash.OrCreate(write(path), func() string { return "sync failed" }); errs != nil {
//		xgxstash.OrStash(errs, cleanup(path))
//		return errs.Err()
//	}
func OrCreate(err error, label func() string) *NonEmpty[error] {
	if err == nil {
		return nil
	}
	s := NewOf[error](label)
	if node, ok := err.(*Error[error]); ok {
		return s.PushNode(node)
	}
	return s.pushNode(newLeaf[error](err, caller(1)))
}

// Wrap records this call site on a failure without labeling it: nil passes
// through, a raw error becomes a leaf with one frame, and an existing node
// gains the frame per the default rewrap policy. Chained wraps therefore
// read as the failure's path through the program, earliest boundary first.
func Wrap(err error) error {
	return wrapPolicy(err, RewrapAnnotate, caller(1))
}

// WrapPolicy is Wrap with an explicit rewrap policy for existing nodes.
func WrapPolicy(err error, policy RewrapPolicy) error {
	return wrapPolicy(err, policy, caller(1))
}

func wrapPolicy(err error, policy RewrapPolicy, fr Frame) error {
	if err == nil {
		return nil
	}
	node, ok := err.(*Error[error])
	if !ok {
		return newLeaf[error](err, fr)
	}
	if policy == RewrapNest {
		return nestGroup(node, fr)
	}
	return node.withFrame(fr)
}

// Wrapf wraps a failure under a label: nil passes through, a raw error
// becomes a labeled leaf ("label: inner"), and an existing node is nested
// under a new single-child group carrying the label. The fresh frame lands
// on the outermost newly created node:
//
//	n, err := strconv.Atoi(field)
//	if err != nil {
//		return xgxstash.Wrapf(err, "bad value for %q", key)
//	}
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	fr := caller(1)
	label := fmt.Sprintf(format, args...)
	if node, ok := err.(*Error[error]); ok {
		return newGroup(label, []*Error[error]{node}, []Frame{fr})
	}
	n := newLeaf[error](err, fr)
	n.msg = label
	n.labeled = true
	return n
}
