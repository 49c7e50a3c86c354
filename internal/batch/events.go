package batch

import "time"

// Status is where a job stands. A job moves through the statuses in
// declaration order and ends in exactly one final status.
type Status uint8

const (
	StatusQueued     Status = iota
	StatusLookup            // checking the memo and the disk cache
	StatusConverting        // running the conversion pipeline
	StatusDone              // converted without diagnostics
	StatusWarning           // converted with diagnostics
	StatusCached            // result served from a cache
	StatusFailed
)

var statusNames = [...]string{
	StatusQueued:     "queued",
	StatusLookup:     "lookup",
	StatusConverting: "converting",
	StatusDone:       "done",
	StatusWarning:    "warning",
	StatusCached:     "cached",
	StatusFailed:     "failed",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Final reports whether s ends a job.
func (s Status) Final() bool { return s >= StatusDone }

// Progress is the share of a job's work that is behind it at s.
func (s Status) Progress() float64 {
	switch {
	case s.Final():
		return 1
	case s == StatusConverting:
		return 0.5
	case s == StatusLookup:
		return 0.1
	}
	return 0
}

// Event reports a status change of one job. Err and Elapsed are set on
// final statuses only.
type Event struct {
	Job     string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink receives events from worker goroutines; implementations must
// be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink sends events on Ch, blocking when it is full.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// FuncSink calls itself for every event.
type FuncSink func(Event)

func (f FuncSink) OnEvent(ev Event) {
	if f != nil {
		f(ev)
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
