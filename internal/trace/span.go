package trace

import (
	"sync/atomic"
	"time"
)

// Sequence numbers order events across tracers; span ids are unique per
// process.
var seq, spanIDs atomic.Uint64

// Span tracks one begin/end pair. A span from a disabled tracer is inert.
type Span struct {
	tracer  Tracer
	stack   *Stack
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

func enabled(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Begin starts a span under parent (0 for a root) and emits its begin
// event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !enabled(t, scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "", nil)
	return s
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Seq:      seq.Add(1),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Extra:    extra,
	})
}

// End emits the end event with the extras collected so far and returns
// the span's duration. A span opened through a Stack is popped from it.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	if s.stack != nil {
		s.stack.pop(s.id)
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.extra)
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !enabled(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   spanIDs.Add(1),
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}

// Stack nests the spans of one single-threaded pass: the checker, the
// inference engine and the resolver share a stack, so a span opened while
// another is running becomes its child. Not safe for concurrent use.
type Stack struct {
	tracer Tracer
	root   uint64
	open   []uint64
}

// NewStack returns a stack whose outermost spans are children of root.
func NewStack(t Tracer, root uint64) *Stack {
	if t == nil {
		t = Nop
	}
	return &Stack{tracer: t, root: root}
}

// Tracer returns the tracer spans are emitted to.
func (st *Stack) Tracer() Tracer { return st.tracer }

// Top returns the innermost open span, or the root.
func (st *Stack) Top() uint64 {
	if n := len(st.open); n > 0 {
		return st.open[n-1]
	}
	return st.root
}

// Begin opens a child of the innermost open span.
func (st *Stack) Begin(scope Scope, name string) *Span {
	s := Begin(st.tracer, scope, name, st.Top())
	if s.id != 0 {
		s.stack = st
		st.open = append(st.open, s.id)
	}
	return s
}

// Point emits an instant event under the innermost open span.
func (st *Stack) Point(scope Scope, name, detail string) {
	Point(st.tracer, scope, name, detail, st.Top())
}

// pop closes id and any span left open above it.
func (st *Stack) pop(id uint64) {
	for i := len(st.open) - 1; i >= 0; i-- {
		if st.open[i] == id {
			st.open = st.open[:i]
			return
		}
	}
}
