package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span is an open interval in the trace. A nil *Span is valid and records
// nothing; Begin returns nil when the tracer is off.
type Span struct {
	t      Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	extra  map[string]string
	closed bool
}

// Begin opens a span under parent (0 for a root span). The begin event is
// only written when the level covers scope, but the span stays live so a
// failure can still be reported at LevelError.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return nil
	}
	s := &Span{
		t:      t,
		id:     spanIDs.Add(1),
		parent: parent,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	if t.Level().ShouldEmit(scope) {
		t.Emit(s.event(KindSpanBegin, s.start))
	}
	return s
}

// Child opens a span whose parent is s.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return nil
	}
	return Begin(s.t, scope, name, s.id)
}

// ID returns the span ID, or 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// WithExtra attaches a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil {
		return nil
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End closes the span and returns its duration. Only the first End or Fail
// has an effect.
func (s *Span) End(detail string) time.Duration {
	return s.finish(detail, false)
}

// Fail closes the span as failed. Failed ends pass every level above off.
func (s *Span) Fail(detail string) time.Duration {
	return s.finish(detail, true)
}

func (s *Span) finish(detail string, failed bool) time.Duration {
	if s == nil || s.closed {
		return 0
	}
	s.closed = true
	now := time.Now()
	elapsed := now.Sub(s.start)
	if failed || s.t.Level().ShouldEmit(s.scope) {
		ev := s.event(KindSpanEnd, now)
		ev.Detail = detail
		ev.Failed = failed
		ev.Elapsed = elapsed
		ev.Extra = s.extra
		s.t.Emit(ev)
	}
	return elapsed
}

func (s *Span) event(kind Kind, at time.Time) *Event {
	return &Event{
		Time:     at,
		Seq:      seq.Add(1),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
	}
}

// Point records an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
