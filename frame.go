// frame.go — call-site frame capture for xgx-stash core.
//
// Design goals:
//   - One frame per wrap/stash boundary, not a full stack: every operation
//     that boxes or re-wraps a failure records exactly the call site where
//     the value crossed that boundary. Chains of frames on one node read as
//     the value's travel log, earliest first.
//   - Interop & correctness: use runtime.Caller, which resolves inlined
//     calls correctly and is cheap for a single frame.
//   - Readable reports: file paths are trimmed to their last two components
//     so reports stay stable across build machines.
//
// Skip model for a typical call chain:
//
//	Wrap → caller → runtime.Caller
//
// caller(skip) places the recorded frame at the function 'skip' levels above
// caller itself: skip 0 is the function invoking caller, skip 1 is that
// function's caller, and so on. Exported capture points pass 1 so the frame
// lands at the user-visible call site.
package xgxstash

import (
	"runtime"
	"strconv"
	"strings"
)

// Frame records one call site where a failure crossed a wrap or stash
// boundary. Column is retained for frames built outside runtime capture
// (the Go runtime reports file and line only); a zero Column is elided
// from the rendered form.
type Frame struct {
	File   string
	Line   int
	Column int
}

// String renders the frame as "file:line:column", or "file:line" when the
// column is unknown.
func (f Frame) String() string {
	var b strings.Builder
	b.WriteString(f.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(f.Line))
	if f.Column > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(f.Column))
	}
	return b.String()
}

// frameDirParts is how many trailing path components survive trimming.
// Two components ("pkg/file.go") keep reports short but unambiguous.
const frameDirParts = 2

// caller captures the frame 'skip' levels above the function that invoked
// caller. It returns a zero Frame when the stack is too shallow, which
// renders as ":0" and is harmless.
func caller(skip int) Frame {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Frame{}
	}
	return Frame{File: trimPath(file), Line: line}
}

// trimPath reduces an absolute build path to its last frameDirParts
// components. Paths with fewer components are returned unchanged.
func trimPath(file string) string {
	kept := 0
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' {
			kept++
			if kept == frameDirParts {
				return file[i+1:]
			}
		}
	}
	return file
}

// framesCloneAppend returns a NEW slice with dst's contents followed by add.
// It always allocates a fresh backing array so derived nodes never alias the
// frame storage of the node they were derived from.
func framesCloneAppend(dst []Frame, add ...Frame) []Frame {
	n := len(dst)
	m := len(add)
	if n+m == 0 {
		return nil
	}
	out := make([]Frame, n+m)
	copy(out, dst)
	copy(out[n:], add)
	return out
}

// framesCopy returns an independent copy of fs, or nil when fs is empty.
// Accessors hand out copies so callers cannot disturb a node's record.
func framesCopy(fs []Frame) []Frame {
	if len(fs) == 0 {
		return nil
	}
	out := make([]Frame, len(fs))
	copy(out, fs)
	return out
}
