// seq.go — sequence adapters that aggregate failures without stopping.
//
// Scope:
//   - StashErr: lazily filter a sequence of outcomes down to its successes,
//     diverting every failure into a sink as it is reached.
//   - TryCollectOrStash: eagerly drain a whole sequence, keeping the
//     successes only when nothing failed (whole-batch acceptance).
//   - TryMapOrStash: map every element of a slice through a fallible
//     function, accepting the result only when every element mapped.
//
// Semantics shared by all three:
//   - Consumption is never interrupted by a failure; the adapters exist so
//     that one bad element cannot hide the others.
//   - Failures are routed in encounter order and interleave with any other
//     pushes into the same sink in program order.
//   - Routed failures are stamped with the adapter's call site: every
//     element diverted by one adapter call reports the same frame, which
//     keeps reports readable when a loop fails many times.
//
// These adapters operate on boxed-mode sinks because fallible sequences in
// Go carry (value, error) pairs; statically-typed trees push failures
// directly instead.
package xgxstash

import "iter"

// StashErr filters seq down to its success values, routing every failure
// into s at the moment it is reached. The returned sequence is lazy: it
// yields successes in input order, never stops early on a failure, and is
// single-use exactly when seq is. Failures seen after the consumer stops
// are not routed, because the input is never read past that point.
//
//	line := xgxstash.StashErr(readLines(r), errs)
//	for l := range line {
//		process(l)
//	}
//	return errs.Err()
func StashErr[T any](seq iter.Seq2[T, error], s Sink[error]) iter.Seq[T] {
	fr := caller(1)
	return func(yield func(T) bool) {
		for v, err := range seq {
			if err != nil {
				route(s, err, fr)
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// TryCollectOrStash drains seq completely, routing failures into s like
// StashErr. When every outcome succeeded it returns the ordered success
// values and true. When anything failed it returns (nil, false): the batch
// is rejected as a whole, while s retains every failure for reporting.
//
//	ports, ok := xgxstash.TryCollectOrStash(parsePorts(args), errs)
//	if !ok {
//		return errs.Err()
//	}
func TryCollectOrStash[T any](seq iter.Seq2[T, error], s Sink[error]) ([]T, bool) {
	fr := caller(1)
	var out []T
	failed := false
	for v, err := range seq {
		if err != nil {
			failed = true
			route(s, err, fr)
			continue
		}
		out = append(out, v)
	}
	if failed {
		return nil, false
	}
	return out, true
}

// TryMapOrStash applies f to every element of in, unconditionally: a
// failing element does not stop the remaining elements from being mapped.
// Failures are routed into s in element order. When every element mapped,
// the result has exactly len(in) values in input order and ok is true;
// otherwise the mapped values are discarded and ok is false.
//
//	sizes, ok := xgxstash.TryMapOrStash(paths, statSize, errs)
func TryMapOrStash[T, U any](in []T, f func(T) (U, error), s Sink[error]) ([]U, bool) {
	fr := caller(1)
	out := make([]U, 0, len(in))
	failed := false
	for _, v := range in {
		u, err := f(v)
		if err != nil {
			failed = true
			route(s, err, fr)
			continue
		}
		out = append(out, u)
	}
	if failed {
		return nil, false
	}
	return out, true
}

// route boxes err for the sink using the adapter call-site frame fr;
// existing nodes keep their own provenance.
func route(s Sink[error], err error, fr Frame) {
	if s == nil {
		return
	}
	if node, ok := err.(*Error[error]); ok {
		s.PushNode(node)
		return
	}
	s.PushNode(newLeaf[error](err, fr))
}
