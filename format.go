// format.go — fmt.Formatter implementation and tree rendering for xgx-stash.
//
// Behavior:
//
//	%s, %v   → concise single line (Error()).
//	%+v      → full tree report:
//	             label
//	             - first child
//	               at pkg/file.go:12
//	             - second child: cause
//	               at pkg/file.go:31
//	%q       → quoted Error().
//
// Layout rules (fixed, deterministic):
//   - Children are listed in insertion order, each on a line prefixed "- ",
//     with every following line of that child indented two spaces to align
//     under the prefix. Nesting adds two spaces per level.
//   - A node's own frames print after its content, one "at file:line" per
//     line at the node's base indent, earliest boundary first.
//   - No sorting, no deduplication, no machine-readable schema: this is a
//     human-readable diagnostic format.
package xgxstash

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format implements fmt.Formatter. The plus flag on 'v' selects the full
// tree report; everything else falls back to the concise form.
func (e *Error[I]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			writeTree(s, e, "")
			return
		}
		formatConcise(s, e)
	case 's':
		formatConcise(s, e)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		formatConcise(s, e)
	}
}

// formatConcise writes the one-line message (delegates to Error()).
func formatConcise(w io.Writer, e error) {
	// ignore write errors in formatting paths
	_, _ = io.WriteString(w, e.Error())
}

// plain builds the concise one-line form: groups collapse to
// "label: child" when they hold a single child and to "label (n errors)"
// otherwise, matching how the tree report's first line reads.
func (e *Error[I]) plain() string {
	switch e.kind {
	case kindAdHoc:
		return e.msg
	case kindLeaf:
		if e.labeled {
			return e.msg + ": " + display(e.inner)
		}
		return display(e.inner)
	default: // kindGroup
		if !e.labeled || e.msg == "" {
			if len(e.children) == 1 {
				return e.children[0].plain()
			}
			return strconv.Itoa(len(e.children)) + " errors"
		}
		if len(e.children) == 1 {
			return e.msg + ": " + e.children[0].plain()
		}
		return fmt.Sprintf("%s (%d errors)", e.msg, len(e.children))
	}
}

// writeTree renders node as a block: the first line is written bare (the
// caller has already placed any prefix), every following line is indented
// with indent. Children gain "- " markers and two further spaces; the
// node's own frames close the block at its base indent.
func writeTree[I any](w io.Writer, node *Error[I], indent string) {
	switch node.kind {
	case kindAdHoc:
		writeIndented(w, node.msg, indent)
	case kindLeaf:
		if node.labeled {
			writeIndented(w, node.msg+": "+display(node.inner), indent)
		} else {
			writeIndented(w, display(node.inner), indent)
		}
	default: // kindGroup
		if !node.labeled && len(node.children) == 1 {
			// Transparent layer: child text at the same depth, this
			// layer's frames appended after.
			writeTree(w, node.children[0], indent)
		} else {
			writeIndented(w, node.msg, indent)
			childIndent := indent + "  "
			for _, child := range node.children {
				_, _ = io.WriteString(w, "\n")
				_, _ = io.WriteString(w, indent)
				_, _ = io.WriteString(w, "- ")
				writeTree(w, child, childIndent)
			}
		}
	}
	for _, fr := range node.frames {
		_, _ = io.WriteString(w, "\n")
		_, _ = io.WriteString(w, indent)
		_, _ = io.WriteString(w, "at ")
		_, _ = io.WriteString(w, fr.String())
	}
}

// writeIndented writes text with every line after the first prefixed by
// indent, so multi-line inner values stay aligned inside the tree.
func writeIndented(w io.Writer, text, indent string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			_, _ = io.WriteString(w, "\n")
			_, _ = io.WriteString(w, indent)
		}
		_, _ = io.WriteString(w, line)
	}
}
