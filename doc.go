// doc.go — package documentation for xgx-stash
//
// Package xgxstash runs batches of independent fallible operations to
// completion, collects every failure instead of stopping at the first one,
// and reports them as a single structured tree. It is designed to be:
//   - Ergonomic at call sites (push, wrap, convert; small surface)
//   - Interoperable with the stdlib (errors.Is/As, Unwrap() []error,
//     fmt.Formatter)
//   - Policy-free (no retry/backoff, no logging transport, no severity or
//     classification in core)
//
// # Model
//
// A Stash accumulates failures for one logical batch. Pushing promotes it
// to a NonEmpty stash, whose conversion always yields an error; converting
// a stash that never saw a failure yields nil. Conversion produces an
// immutable *Error: a tree whose leaves carry the original failure values
// and whose groups carry batch labels.
//
//	errs := xgxstash.New(func() string { return "failed to run application" })
//	xgxstash.OrStash(errs, step1())
//	xgxstash.OrStash(errs, step2())
//	xgxstash.OrStash(errs, cleanup())
//	return errs.Err() // nil, or the whole story
//
// The label closure runs at most once, and only if something failed; a
// clean batch never pays for label formatting.
//
// # When Are Frames Captured?
//
// Every operation that moves a failure across a wrap or stash boundary
// records exactly one call-site frame on the outermost node it creates.
// Values that already are nodes keep their record and gain nothing on push.
//
//	+--------------------------------+------------------+----------------------------------+
//	| Operation                      | Frames recorded  | Where                            |
//	+--------------------------------+------------------+----------------------------------+
//	| Push / OrStash  (raw error)    | 1                | new leaf                         |
//	| Push / PushNode (node)         | 0                | node kept as-is                  |
//	| Wrap            (raw error)    | 1                | new leaf                         |
//	| Wrap            (node)         | 1                | the node's chain (policy-driven) |
//	| Wrapf           (raw error)    | 1                | new labeled leaf                 |
//	| Wrapf           (node)         | 1                | new single-child group           |
//	| Errorf / Adopt / Adoptf        | 1                | new node                         |
//	| StashErr / TryCollect / TryMap | 1 per failure    | adapter call site, shared        |
//	+--------------------------------+------------------+----------------------------------+
//
// Chained wraps therefore read as the failure's travel log, earliest
// boundary first, and the tree report prints each frame as an "at
// file:line" line under the node that recorded it.
//
// # Boxed And Statically-Typed Trees
//
// The inner representation is a type parameter. The common boxed mode uses
// the error interface (New, and the helpers in wrap.go and seq.go); a
// statically-typed tree fixes a concrete inner type instead:
//
//	errs := xgxstash.NewOf[ParseFailure](func() string { return "parse failed" })
//	errs.Push(ParseFailure{Token: tok, Pos: pos})
//
// Typed trees keep their payloads recoverable through Inner without type
// assertions on display strings. All containers in one call chain must
// agree on the same inner type; the boxed and typed worlds meet only
// through rendering.
//
// # Reporting
//
// Nodes implement fmt.Formatter: %v and %s give the concise one-line form
// ("label: cause" or "label (3 errors)"), %+v the full tree:
//
//	failed to run application
//	- input is not ASCII: '❌'
//	  at pipeline/main.go:24
//	- cleanup failed: file is locked
//	  at pipeline/main.go:31
//
// Children print in push order under "- " markers, two spaces of indent
// per level; no sorting, no deduplication, no machine-readable schema.
//
// # Whole-Batch Acceptance
//
// The sequence adapters in seq.go drain entire inputs without stopping at
// a failure. StashErr lazily yields the successes while diverting failures
// into a sink; TryCollectOrStash and TryMapOrStash return ok=false when
// anything failed, rejecting the batch as a whole while the stash retains
// every failure for the report. Check ok before using the collection; the
// discarded successes are the point, not an oversight.
//
// # Concurrency
//
// Containers do no internal locking: one logical writer per stash at a
// time. A stash shared across goroutines needs caller-supplied mutual
// exclusion around pushes (a sync.Mutex next to the stash is the usual
// shape). Finished *Error values are immutable and freely shareable; every
// accessor returns copies, and every derivation returns a new node. A tree
// is safe to move or share across goroutines exactly when the inner values
// it carries are; the containers add no interior mutability of their own.
//
// # Interop
//
//   - Group nodes expose Unwrap() []error and leaves expose their inner
//     cause, so errors.Is/As traverse whole trees, including trees mixed
//     with errors.Join wrappers. Flatten/Walk/Root in unwrap.go provide
//     the same traversal as reusable helpers.
//   - Report exports a flat message plus an opaque source chain for
//     consumers that cannot handle trees; the conversion is one-way and
//     lossy beyond one level of structure.
//   - A stash that is dropped without conversion discards its contents;
//     that is an intentional fire-and-forget allowance, not a leak to
//     guard against.
//
// # Minimal Surface, Clear Semantics
//
// The v1 surface is intentionally small:
//   - New / NewOf, Push / PushNode, Err / OK / Errors / Len / IsEmpty
//   - OrStash / OrCreate / Wrap / Wrapf / WrapPolicy
//   - Errorf / Adopt / Adoptf / Collect
//   - StashErr / TryCollectOrStash / TryMapOrStash
//   - Flatten / Walk / Root / Has / AsNode / IsNode / Report
package xgxstash
