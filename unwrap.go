// unwrap.go — stdlib-interop traversal over mixed error graphs.
//
// Scope:
//   - Uniform inspection of trees that mix this package's nodes, stdlib
//     joins, and foreign wrappers: group nodes expose Unwrap() []error and
//     leaves expose their inner cause, so one traversal covers everything.
//   - No policy, no rendering here; just correct, bounded graph walking.
//
// Design notes (Go ≥1.20):
//   - errors.Unwrap only calls Unwrap() error, while joined errors carry
//     Unwrap() []error; correct traversal must handle BOTH forms.
//   - A blanket map[error] "seen" set would panic on non-comparable dynamic
//     types, so cycle detection uses a dual guard:
//     seenErr (map[error]) for comparable dynamics, seenPtr (map[uintptr])
//     for pointer identity. Non-comparable non-pointer dynamics are treated
//     as acyclic and bounded by the depth cap.
//   - Graphs built purely from this package cannot contain cycles (nodes
//     are immutable and built bottom-up); the guards exist for foreign
//     wrappers with unknown structure.
package xgxstash

import (
	"errors"
	"reflect"
)

// single/multi unwrap interfaces (stdlib-compatible)
type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

// maxWalkDepth bounds traversal against runaway foreign graphs.
const maxWalkDepth = 1 << 12

// ---------- small helpers ----------------------------------------------------

// isPointerDynamic reports whether err's dynamic type is a pointer, with a
// fast path for this package's node type.
func isPointerDynamic(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*Error[error]); ok {
		return true
	}
	return reflect.ValueOf(err).Kind() == reflect.Ptr
}

// markSeen returns true if err was newly marked; false if already seen.
// Comparable dynamics go into seenErr, pointer-typed non-comparable ones
// into seenPtr by identity; anything else is allowed through (acyclic by
// assumption, bounded by maxWalkDepth).
func markSeen(err error, seenErr map[error]struct{}, seenPtr map[uintptr]struct{}) bool {
	if err == nil {
		return false
	}
	if reflect.TypeOf(err).Comparable() {
		if _, dup := seenErr[err]; dup {
			return false
		}
		seenErr[err] = struct{}{}
		return true
	}
	if isPointerDynamic(err) {
		rv := reflect.ValueOf(err)
		if !rv.IsNil() {
			id := rv.Pointer()
			if _, dup := seenPtr[id]; dup {
				return false
			}
			seenPtr[id] = struct{}{}
		}
	}
	return true
}

// ---------- API: Flatten / Walk / Root / Has / AsNode ------------------------

// Flatten walks an error graph and returns its leaf errors (nodes with no
// children) in depth-first order. For a group tree this is the inner
// failures in push order; joins and single wrappers are descended through.
// Flatten(nil) is nil.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}

	// Fast path: not a wrapper at all.
	switch err.(type) {
	case multiUnwrapper, singleUnwrapper:
	default:
		return []error{err}
	}

	type stackFrame struct {
		e        error
		kids     []error // non-nil children, filled on first expansion
		idx      int     // next child index
		expanded bool
	}

	out := make([]error, 0, 4)
	stack := make([]stackFrame, 0, 8)
	seenErr := make(map[error]struct{}, 16)
	seenPtr := make(map[uintptr]struct{}, 16)

	stack = append(stack, stackFrame{e: err})
	_ = markSeen(err, seenErr, seenPtr)

	for len(stack) > 0 && len(stack) < maxWalkDepth {
		top := &stack[len(stack)-1]

		// Multi-unwrap first; the parent stays until all children are done.
		// A multi-unwrap node with no non-nil children is itself a leaf
		// (ad-hoc nodes report an empty causal set).
		if m, ok := top.e.(multiUnwrapper); ok {
			if !top.expanded {
				top.expanded = true
				for _, k := range m.Unwrap() {
					if k != nil {
						top.kids = append(top.kids, k)
					}
				}
				if len(top.kids) == 0 {
					out = append(out, top.e)
					stack = stack[:len(stack)-1]
					continue
				}
			}
			if top.idx < len(top.kids) {
				child := top.kids[top.idx]
				top.idx++
				if markSeen(child, seenErr, seenPtr) {
					stack = append(stack, stackFrame{e: child})
				}
				continue
			}
			stack = stack[:len(stack)-1]
			continue
		}

		// Single-unwrap: descend in place so wrappers are not recorded as
		// leaves themselves.
		if s, ok := top.e.(singleUnwrapper); ok {
			if u := s.Unwrap(); u != nil {
				if markSeen(u, seenErr, seenPtr) {
					*top = stackFrame{e: u}
					continue
				}
				stack = stack[:len(stack)-1]
				continue
			}
		}

		out = append(out, top.e)
		stack = stack[:len(stack)-1]
	}

	return out
}

// Walk visits each distinct error in the graph in pre-order (parent before
// children) and stops early when visit returns false. Children of a
// multi-unwrap node are visited left to right. Safe on cycles; nil input
// or visitor is a no-op.
func Walk(err error, visit func(error) bool) {
	if err == nil || visit == nil {
		return
	}

	stack := make([]error, 0, 8)
	seenErr := make(map[error]struct{}, 16)
	seenPtr := make(map[uintptr]struct{}, 16)

	stack = append(stack, err)
	_ = markSeen(err, seenErr, seenPtr)

	for len(stack) > 0 && len(stack) < maxWalkDepth {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(cur) {
			return
		}

		if m, ok := cur.(multiUnwrapper); ok {
			kids := m.Unwrap()
			// Push in reverse for left-to-right visiting order.
			for i := len(kids) - 1; i >= 0; i-- {
				if kids[i] == nil {
					continue
				}
				if markSeen(kids[i], seenErr, seenPtr) {
					stack = append(stack, kids[i])
				}
			}
			continue
		}
		if s, ok := cur.(singleUnwrapper); ok {
			if u := s.Unwrap(); u != nil && markSeen(u, seenErr, seenPtr) {
				stack = append(stack, u)
			}
		}
	}
}

// Root returns the first depth-first leaf: for a group tree, the innermost
// cause of the first pushed failure. Root(nil) is nil.
func Root(err error) error {
	leaves := Flatten(err)
	if len(leaves) == 0 {
		return nil
	}
	return leaves[0]
}

// Has reports whether target appears anywhere in err's unwrap graph. It
// wraps errors.Is with nil-safety.
func Has(err, target error) bool {
	if err == nil || target == nil {
		return false
	}
	return errors.Is(err, target)
}

// AsNode returns the outermost boxed-mode node in err's unwrap graph, if
// any: the err itself when it is a node, or the nearest node beneath
// foreign wrappers. Use it to recover tree structure from an error that
// crossed plain-error boundaries.
func AsNode(err error) (*Error[error], bool) {
	var node *Error[error]
	if errors.As(err, &node) {
		return node, true
	}
	return nil, false
}

// IsNode reports whether err's unwrap graph contains one of this package's
// boxed-mode nodes.
func IsNode(err error) bool {
	_, ok := AsNode(err)
	return ok
}
