// construct.go — node constructors for xgx-stash core.
//
// Scope (tiny core):
//   - Ad-hoc errors: a message plus the call site that minted it.
//   - Adoption: box any inner value as a leaf, stamping the call site.
//   - Keep policy out (no classification, no logging, no retry hints).
//
// Notes:
//   - Every constructor records exactly one frame on the node it creates;
//     further frames accrue only when the value crosses later wrap or stash
//     boundaries (wrap.go, stash.go).
//   - Constructors return finished, immutable nodes.
package xgxstash

import "fmt"

// Errorf creates an ad-hoc error from a format string, recording the call
// site. Use it for failures that originate in your own code rather than
// from a callee:
//
//	if !utf8.ValidString(input) {
//		errs.PushNode(xgxstash.Errorf("input is not valid UTF-8: %q", input))
//	}
func Errorf(format string, args ...any) *Error[error] {
	return newAdHoc[error](fmt.Sprintf(format, args...), caller(1))
}

// Adopt boxes an inner value as a leaf node, recording the call site. The
// value is carried verbatim and rendered through its display form. In boxed
// mode (I = error) prefer Wrap, which additionally understands nil and
// existing nodes; Adopt is the entry point for statically-typed trees:
//
//	leaf := xgxstash.Adopt(ParseFailure{Token: tok})
func Adopt[I any](inner I) *Error[I] {
	return newLeaf(inner, caller(1))
}

// Adoptf is Adopt with a label: the leaf renders as "label: inner".
func Adoptf[I any](inner I, format string, args ...any) *Error[I] {
	n := newLeaf(inner, caller(1))
	n.msg = fmt.Sprintf(format, args...)
	n.labeled = true
	return n
}

// newAdHoc builds a message-only node carrying fr.
func newAdHoc[I any](msg string, fr Frame) *Error[I] {
	return &Error[I]{
		kind:   kindAdHoc,
		msg:    msg,
		frames: []Frame{fr},
	}
}

// newLeaf boxes inner as an unlabeled leaf carrying fr.
func newLeaf[I any](inner I, fr Frame) *Error[I] {
	return &Error[I]{
		kind:   kindLeaf,
		inner:  inner,
		frames: []Frame{fr},
	}
}

// newGroup builds a labeled group over children. The children slice is
// owned by the new node; callers pass a fresh slice. Group construction
// sites (stash conversion, labeled wrapping, Collect) all guarantee at
// least one child.
func newGroup[I any](label string, children []*Error[I], frames []Frame) *Error[I] {
	return &Error[I]{
		kind:     kindGroup,
		msg:      label,
		labeled:  true,
		children: children,
		frames:   frames,
	}
}

// nestGroup builds the label-less single-child layer used by the nesting
// rewrap policy. It renders transparently: the child's text at the same
// depth, with the layer's frames appended after.
func nestGroup[I any](child *Error[I], fr Frame) *Error[I] {
	return &Error[I]{
		kind:     kindGroup,
		children: []*Error[I]{child},
		frames:   []Frame{fr},
	}
}
