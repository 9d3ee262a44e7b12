package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelGatesScopes(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeNode) {
		t.Fatalf("phase level must drop node events")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) {
		t.Fatalf("debug level must keep node events")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatalf("detail level must keep file events only")
	}
}

func TestStreamTracerWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	sp := Begin(tr, ScopeNode, "poly", 0)
	sp.WithExtra("kind", "lambda").End("Runnable")
	out := buf.String()
	if !strings.Contains(out, "node poly") || !strings.Contains(out, "(Runnable)") || !strings.Contains(out, "kind=lambda") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
}

func TestRingTracerKeepsLastEvents(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(tr, ScopeNode, name, "", 0)
	}
	snap := tr.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	if sp := Begin(tr, ScopeDriver, "x", 0); sp.ID() != 0 {
		t.Fatalf("disabled span must have zero id")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must default to Nop")
	}
	tr := NewRingTracer(4, LevelPhase)
	ctx := WithSpan(WithTracer(context.Background(), tr), 7)
	if FromContext(ctx) != Tracer(tr) || CurrentSpan(ctx) != 7 {
		t.Fatalf("context lost tracer or span")
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DEBUG")
	if err != nil || l != LevelDebug {
		t.Fatalf("got %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStackNestsSpans(t *testing.T) {
	tr := NewRingTracer(16, LevelDebug)
	st := NewStack(tr, 7)
	pass := st.Begin(ScopePass, "check")
	node := st.Begin(ScopeNode, "poly")
	st.Point(ScopeNode, "fallback", "")
	node.End("")
	if st.Top() != pass.ID() {
		t.Fatalf("ending a span must pop it")
	}
	pass.End("")
	if st.Top() != 7 {
		t.Fatalf("stack must fall back to its root, got %d", st.Top())
	}

	parents := map[string]uint64{}
	for _, ev := range tr.Snapshot() {
		parents[ev.Name] = ev.ParentID
	}
	if parents["check"] != 7 || parents["poly"] != pass.ID() || parents["fallback"] != node.ID() {
		t.Fatalf("unexpected nesting: %v", parents)
	}
}

func TestStackSkipsDisabledScopes(t *testing.T) {
	tr := NewRingTracer(16, LevelPhase)
	st := NewStack(tr, 0)
	pass := st.Begin(ScopePass, "check")
	node := st.Begin(ScopeNode, "poly")
	if node.ID() != 0 || st.Top() != pass.ID() {
		t.Fatalf("a filtered span must not be pushed")
	}
	node.End("")
	pass.End("")
	if len(tr.Snapshot()) != 2 {
		t.Fatalf("expected begin and end of the pass only, got %+v", tr.Snapshot())
	}
}
