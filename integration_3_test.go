// integration_3_test.go — edge cases, shared-tree concurrency, and
// documentation example tests.
package xgxstash

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
)

//
// Edge Cases
//

func TestPushNode_NilIsNoOp(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "batch" })
	if got := s.PushNode(nil); got != nil {
		t.Fatalf("PushNode(nil) on an empty stash must not promote; got %v", got)
	}
	if !s.IsEmpty() {
		t.Fatalf("stash promoted by a nil node")
	}

	ne := s.Push(errors.New("a"))
	if got := ne.PushNode(nil); got != ne {
		t.Fatalf("PushNode(nil) must return the receiver")
	}
	if ne.Len() != 1 {
		t.Fatalf("nil node appended: len=%d", ne.Len())
	}
}

func TestLargeBatch_RendersEveryFailure(t *testing.T) {
	t.Parallel()

	const n = 1000
	s := New(func() string { return "batch of failures" })
	for i := 0; i < n; i++ {
		s.Push(fmt.Errorf("item %04d", i))
	}
	if s.Len() != n {
		t.Fatalf("len: want=%d got=%d", n, s.Len())
	}

	out := fmt.Sprintf("%+v", s.Err())
	lines := strings.Split(out, "\n")

	// Heading plus one message line and one provenance line per failure.
	if want := 1 + 2*n; len(lines) != want {
		t.Fatalf("report lines: want=%d got=%d", want, len(lines))
	}
	if lines[0] != "batch of failures" {
		t.Fatalf("heading: %q", lines[0])
	}
	if lines[1] != "- item 0000" {
		t.Fatalf("first child: %q", lines[1])
	}
	if lines[2*n-1] != "- item 0999" {
		t.Fatalf("last child: %q", lines[2*n-1])
	}
}

func TestDeepNesting_TraversalAndRenderTerminate(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("disk offline")
	err := error(sentinel)
	for i := 1; i <= 64; i++ {
		err = Wrapf(err, "layer %d", i)
	}

	if !errors.Is(err, sentinel) {
		t.Fatalf("errors.Is must reach through 64 layers")
	}
	if got := Root(err); got != sentinel {
		t.Fatalf("Root: want sentinel, got %v", got)
	}
	if leaves := Flatten(err); len(leaves) != 1 || leaves[0] != sentinel {
		t.Fatalf("Flatten: want [sentinel], got %v", leaves)
	}

	out := fmt.Sprintf("%+v", err)
	lines := strings.Split(out, "\n")

	// 64 content lines (63 group headings plus the labeled leaf) and one
	// provenance line per layer.
	if want := 128; len(lines) != want {
		t.Fatalf("report lines: want=%d got=%d", want, len(lines))
	}
	if lines[0] != "layer 64" {
		t.Fatalf("outermost heading: %q", lines[0])
	}
	if !strings.Contains(out, "layer 1: disk offline") {
		t.Fatalf("innermost cause missing:\n%s", out)
	}
	if !strings.HasPrefix(lines[len(lines)-1], "at ") {
		t.Fatalf("outermost frame must close the report at column 0: %q", lines[len(lines)-1])
	}
}

//
// Concurrency
//

func TestFinishedTree_SharedAcrossGoroutines(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "sync failed" })
	s.Push(errors.New("disk full"))
	s.Push(errors.New("peer timeout"))
	node := s.Err()
	want := fmt.Sprintf("%+v", node)

	const workers = 32
	var wg sync.WaitGroup
	outs := make([]string, workers)
	counts := make([]int, workers)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		i := i
		go func() {
			defer wg.Done()
			outs[i] = fmt.Sprintf("%+v", node)
			counts[i] = len(Flatten(node))
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if outs[i] != want {
			t.Fatalf("reader %d saw a different report:\n%s", i, outs[i])
		}
		if counts[i] != 2 {
			t.Fatalf("reader %d flattened %d leaves, want 2", i, counts[i])
		}
	}
}

//
// Documentation Examples
//

func TestDoc_HeadlineFlow(t *testing.T) {
	t.Parallel()

	step1 := func() error { return errors.New("input is not ASCII") }
	step2 := func() error { return nil }
	cleanup := func() error { return errors.New("file is locked") }

	errs := New(func() string { return "failed to run application" })
	OrStash(errs, step1())
	OrStash(errs, step2())
	OrStash(errs, cleanup())

	err := errs.Err()
	if err == nil {
		t.Fatalf("two failing steps must surface")
	}
	if !containsInOrder(fmt.Sprintf("%+v", err),
		"failed to run application",
		"\n- input is not ASCII",
		"\n- file is locked",
	) {
		t.Fatalf("report does not match the documented shape:\n%+v", err)
	}
}

func TestDoc_CleanBatchIsFree(t *testing.T) {
	t.Parallel()

	ran := false
	errs := New(func() string { ran = true; return "never" })
	OrStash(errs, nil)
	if err := errs.Err(); err != nil {
		t.Fatalf("clean batch: want nil, got %v", err)
	}
	if ran {
		t.Fatalf("label closure ran for a clean batch")
	}
}

func TestDoc_OrCreateExample(t *testing.T) {
	t.Parallel()

	write := func() error { return errors.New("short write") }
	cleanup := func() error { return errors.New("file is locked") }

	if errs := OrCreate(write(), func() string { return "sync failed" }); errs != nil {
		OrStash(errs, cleanup())
		node := errs.Err()
		if got := len(node.Children()); got != 2 {
			t.Fatalf("children: want=2 got=%d", got)
		}
		if got, want := node.Error(), "sync failed (2 errors)"; got != want {
			t.Fatalf("concise form: want=%q got=%q", want, got)
		}
		return
	}
	t.Fatalf("failing write must create a stash")
}

func TestDoc_WrapfExample(t *testing.T) {
	t.Parallel()

	_, err := strconv.Atoi("12a")
	wrapped := Wrapf(err, "bad value for %q", "port")
	if wrapped == nil {
		t.Fatalf("wrapping a failure must not yield nil")
	}
	if !strings.Contains(wrapped.Error(), `bad value for "port"`) {
		t.Fatalf("label missing: %q", wrapped.Error())
	}
	if !strings.Contains(wrapped.Error(), "invalid syntax") {
		t.Fatalf("cause text missing: %q", wrapped.Error())
	}
}
