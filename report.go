// report.go — lossy one-way export for generic error-reporting tooling.
//
// Purpose:
//   - Some consumers want "an error" with a flat message and a source
//     chain, not a tree: telemetry pipelines, foreign frameworks, callers
//     that log err.Error() and move on. Report converts a tree into that
//     shape, best-effort.
//
// What survives:
//   - The message is the full rendered report, so no text is lost.
//   - One level of structure survives as the source chain: each direct
//     child becomes one chain element. Deeper nesting is flattened into
//     each element's message text.
//
// What does not:
//   - Frames below the message text, child identity (chain elements are
//     re-minted flat errors), and the tree shape itself. The conversion is
//     one-way; nothing in this package consumes reports.
package xgxstash

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// reported is the exported shape: a flat message over an opaque source
// chain. It deliberately does not expose tree accessors.
type reported struct {
	msg   string
	chain error
}

func (r *reported) Error() string { return r.msg }

// Unwrap exposes the one preserved level of structure.
func (r *reported) Unwrap() error { return r.chain }

// Report converts err into the flat representation when it is a boxed-mode
// node, and returns it unchanged otherwise. Report(nil) is nil.
func Report(err error) error {
	if err == nil {
		return nil
	}
	if node, ok := err.(*Error[error]); ok {
		return node.Report()
	}
	return err
}

// Report flattens the node: the message is the full tree report and the
// source chain holds one re-minted flat error per direct cause (group
// children, or a leaf's inner error).
func (e *Error[I]) Report() error {
	level := e.Unwrap()
	flat := make([]error, len(level))
	for i, c := range level {
		flat[i] = errors.New(c.Error())
	}
	return &reported{
		msg:   fmt.Sprintf("%+v", e),
		chain: multierr.Combine(flat...),
	}
}

// Report converts the accumulated batch for foreign consumers: nil while
// the stash is empty, the flat representation otherwise.
func (s *Stash[I]) Report() error {
	if s.ne == nil {
		return nil
	}
	return s.ne.Err().Report()
}

// Report converts the batch for foreign consumers; never nil.
func (n *NonEmpty[I]) Report() error {
	return n.Err().Report()
}

var _ error = (*reported)(nil)
