package trace

import "time"

// Kind tells span boundaries apart from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Coarser scopes have lower values, so
// a level admits every scope up to some bound.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one conversion or one batch run
	ScopeStage                   // strip, nfc, hoist, verbose, rewrite, balance, flags, emit; batch jobs
	ScopeRule                    // one rewrite rule with at least one trigger present
	ScopeMatch                   // one occurrence a rule acted on
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopeStage:  "stage",
	ScopeRule:   "rule",
	ScopeMatch:  "match",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// depth is the text indentation of s.
func (s Scope) depth() int {
	if s <= ScopeDriver {
		return 0
	}
	return int(s - ScopeDriver)
}

// Event is one record handed to a Tracer. Tracers may keep the pointer only
// for the duration of Emit.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, assigned when the event is created
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // zero for points
	ParentID uint64
	Name     string // "convert", "balance", "rule:atomic-group", "job:date"
	Detail   string
	Failed   bool          // span ended through Span.Fail
	Elapsed  time.Duration // span ends only
	Extra    map[string]string
}
