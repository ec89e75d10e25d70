// stash_test.go — stash lifecycle: promotion, conversion, label laziness,
// and snapshot independence.
package xgxstash

import (
	"errors"
	"strings"
	"testing"
)

func TestEmptyStash_ConvertsToNil(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "never shown" })
	if !s.IsEmpty() || s.Len() != 0 {
		t.Fatalf("fresh stash must be empty; len=%d", s.Len())
	}
	if got := s.Errors(); got != nil {
		t.Fatalf("fresh stash Errors: want nil, got %v", got)
	}
	if ne, ok := s.OK(); ok || ne != nil {
		t.Fatalf("fresh stash OK: want (nil,false), got (%v,%v)", ne, ok)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("converting an empty stash must yield nil; got %v", err)
	}
}

func TestSinglePush_ConvertsToLabeledSingleChildGroup(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "collect garbage" })
	ne := s.Push(errors.New("fs full"))
	if ne == nil {
		t.Fatalf("push must promote the stash")
	}
	if s.IsEmpty() || s.Len() != 1 {
		t.Fatalf("stash must hold one failure; len=%d", s.Len())
	}

	node := asBoxedNode(t, s.Err())
	if l, ok := node.Label(); !ok || l != "collect garbage" {
		t.Fatalf("group label: want=(collect garbage,true) got=(%q,%v)", l, ok)
	}
	if got := len(node.Children()); got != 1 {
		t.Fatalf("group children: want=1 got=%d", got)
	}
}

func TestPush_RawGainsOneFrame_NodeGainsNone(t *testing.T) {
	t.Parallel()

	t.Run("raw error becomes stamped leaf", func(t *testing.T) {
		s := New(func() string { return "batch" })
		s.Push(errors.New("boom"))

		leaf := s.Errors()[0]
		frames := leaf.Frames()
		if len(frames) != 1 {
			t.Fatalf("raw push must record exactly one frame; got %d", len(frames))
		}
		if !strings.HasSuffix(frames[0].File, "stash_test.go") {
			t.Fatalf("frame must stamp the push site; got %q", frames[0].File)
		}
	})

	t.Run("existing node appended as-is", func(t *testing.T) {
		node := Errorf("prior failure")
		before := node.Frames()

		s := New(func() string { return "batch" })
		s.Push(error(node))

		got := s.Errors()[0]
		if got != node {
			t.Fatalf("node push must preserve identity")
		}
		if len(got.Frames()) != len(before) {
			t.Fatalf("node push must not add frames: before=%d after=%d",
				len(before), len(got.Frames()))
		}
	})

	t.Run("nil error is a no-op", func(t *testing.T) {
		s := New(func() string { return "batch" })
		if ne := s.Push(nil); ne != nil {
			t.Fatalf("nil push on empty stash must return nil promotion")
		}
		if !s.IsEmpty() {
			t.Fatalf("nil push must not promote")
		}
	})

	t.Run("nil node is a no-op", func(t *testing.T) {
		s := New(func() string { return "batch" })
		s.PushNode(nil)
		if !s.IsEmpty() {
			t.Fatalf("nil PushNode must not promote")
		}
	})
}

func TestLabelFactory_AtMostOnce_OnlyOnConversion(t *testing.T) {
	t.Parallel()

	calls := 0
	s := New(func() string {
		calls++
		return "expensive label"
	})

	s.Push(errors.New("a"))
	s.Push(errors.New("b"))
	_ = s.Len()
	_ = s.Errors()
	if calls != 0 {
		t.Fatalf("label must not run before conversion; calls=%d", calls)
	}

	first := s.Err()
	if calls != 1 {
		t.Fatalf("label must run exactly once at conversion; calls=%d", calls)
	}

	second := s.Err()
	if calls != 1 {
		t.Fatalf("repeat conversion must reuse the label; calls=%d", calls)
	}
	if first.Error() != second.Error() {
		t.Fatalf("conversions disagree: %q vs %q", first.Error(), second.Error())
	}
}

func TestLabelFactory_NeverRunsForCleanBatch(t *testing.T) {
	t.Parallel()

	calls := 0
	s := New(func() string { calls++; return "x" })
	if err := s.Err(); err != nil {
		t.Fatalf("clean batch must convert to nil")
	}
	if calls != 0 {
		t.Fatalf("clean batch must not pay for the label; calls=%d", calls)
	}
}

func TestNilLabelFactory_Tolerated(t *testing.T) {
	t.Parallel()

	s := New(nil)
	s.Push(errors.New("a"))
	s.Push(errors.New("b"))

	err := s.Err()
	if err == nil {
		t.Fatalf("conversion with failures must yield an error")
	}
	if got, want := err.Error(), "2 errors"; got != want {
		t.Fatalf("label-less group text: want=%q got=%q", want, got)
	}
}

func TestErrors_SnapshotIndependentOfLaterPushes(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "batch" })
	s.Push(errors.New("a"))
	s.Push(errors.New("b"))

	snap := s.Errors()
	s.Push(errors.New("c"))

	if len(snap) != 2 {
		t.Fatalf("snapshot grew with the stash: len=%d", len(snap))
	}
	if s.Len() != 3 {
		t.Fatalf("stash must hold 3 failures; len=%d", s.Len())
	}
}

func TestErr_SnapshotSurvivesLaterPushes(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "batch" })
	s.Push(errors.New("a"))

	converted := asBoxedNode(t, s.Err())
	s.Push(errors.New("b"))

	if got := len(converted.Children()); got != 1 {
		t.Fatalf("converted node must be an independent snapshot; children=%d", got)
	}
	if s.Len() != 2 {
		t.Fatalf("stash must keep accepting pushes; len=%d", s.Len())
	}
}

func TestNonEmpty_ViewSharesAccumulation(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "batch" })
	ne := s.Push(errors.New("a"))

	ne.Push(errors.New("b"))
	if s.Len() != 2 {
		t.Fatalf("pushes through the non-empty view must land in the stash; len=%d", s.Len())
	}

	node := ne.Err()
	if got := len(node.Children()); got != 2 {
		t.Fatalf("non-empty conversion children: want=2 got=%d", got)
	}
	if l, ok := node.Label(); !ok || l != "batch" {
		t.Fatalf("non-empty conversion label: want=(batch,true) got=(%q,%v)", l, ok)
	}
}

func TestCollect_FiltersNilsAndStampsRawLeaves(t *testing.T) {
	t.Parallel()

	t.Run("all nil yields nil", func(t *testing.T) {
		if err := Collect("batch", nil, nil); err != nil {
			t.Fatalf("Collect over nils must yield nil; got %v", err)
		}
		if err := Collect("batch"); err != nil {
			t.Fatalf("Collect over nothing must yield nil; got %v", err)
		}
	})

	t.Run("mixed entries", func(t *testing.T) {
		prior := Errorf("prior")
		err := Collect("batch", nil, errors.New("a"), prior, errors.New("b"))
		node := asBoxedNode(t, err)

		kids := node.Children()
		if len(kids) != 3 {
			t.Fatalf("children: want=3 got=%d", len(kids))
		}
		if kids[1] != prior {
			t.Fatalf("existing node must be kept by identity")
		}

		// Both raw leaves carry the same Collect call site.
		fa, fb := kids[0].Frames(), kids[2].Frames()
		if len(fa) != 1 || len(fb) != 1 {
			t.Fatalf("raw leaves must carry exactly one frame: %d, %d", len(fa), len(fb))
		}
		if fa[0] != fb[0] {
			t.Fatalf("raw leaves from one Collect must share the frame: %v vs %v", fa[0], fb[0])
		}
	})
}

func TestStashString_DescribesState(t *testing.T) {
	t.Parallel()

	s := New(func() string { return "batch" })
	if got, want := s.String(), "stash of 0 errors currently"; got != want {
		t.Fatalf("String: want=%q got=%q", want, got)
	}
	ne := s.Push(errors.New("a"))
	ne.Push(errors.New("b"))
	if got, want := ne.String(), "stash of 2 errors currently"; got != want {
		t.Fatalf("String: want=%q got=%q", want, got)
	}
}

func TestTypedStash_StaticInnerType(t *testing.T) {
	t.Parallel()

	s := NewOf[string](func() string { return "parse failed" })
	s.Push("bad header")
	s.Push("trailing comma")

	node, ok := s.Err().(*Error[string])
	if !ok {
		t.Fatalf("expected *Error[string], got %T", s.Err())
	}

	kids := node.Children()
	if len(kids) != 2 {
		t.Fatalf("children: want=2 got=%d", len(kids))
	}
	for i, want := range []string{"bad header", "trailing comma"} {
		if inner, ok := kids[i].Inner(); !ok || inner != want {
			t.Fatalf("child %d inner: want=(%q,true) got=(%v,%v)", i, want, inner, ok)
		}
	}
	if got, want := node.Error(), "parse failed (2 errors)"; got != want {
		t.Fatalf("typed group text: want=%q got=%q", want, got)
	}
}

func TestTypedStash_NodePushKeepsIdentity(t *testing.T) {
	t.Parallel()

	leaf := Adopt("early failure")
	s := NewOf[string](func() string { return "batch" })
	s.PushNode(leaf)

	if got := s.Errors()[0]; got != leaf {
		t.Fatalf("PushNode must preserve identity in static mode")
	}
}
