// Package observ measures where a conversion or batch run spends its time.
package observ

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"
)

// Phase is one measured stretch of work.
type Phase struct {
	Name    string
	Elapsed time.Duration
	Note    string
	Done    bool
}

// Timer records phases in the order they were started. A nil *Timer is
// valid and measures nothing. Laps may be started and stopped from several
// goroutines.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Lap is an open phase. The zero Lap is inert.
type Lap struct {
	t     *Timer
	i     int
	start time.Time
}

// Start opens a phase named name.
func (t *Timer) Start(name string) Lap {
	if t == nil {
		return Lap{}
	}
	t.mu.Lock()
	t.phases = append(t.phases, Phase{Name: name})
	i := len(t.phases) - 1
	t.mu.Unlock()
	return Lap{t: t, i: i, start: time.Now()}
}

// Stop closes the phase and returns its duration. Stopping twice keeps the
// first measurement.
func (l Lap) Stop(note string) time.Duration {
	if l.t == nil {
		return 0
	}
	elapsed := time.Since(l.start)
	l.t.mu.Lock()
	defer l.t.mu.Unlock()
	p := &l.t.phases[l.i]
	if p.Done {
		return p.Elapsed
	}
	p.Elapsed, p.Note, p.Done = elapsed, note, true
	return elapsed
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Phase(nil), t.phases...)
}

// Total sums the stopped phases.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.Phases() {
		total += p.Elapsed
	}
	return total
}

// WriteTable prints one aligned row per phase with its share of the total.
// Phases still open are marked as such.
func (t *Timer) WriteTable(w io.Writer) error {
	phases := t.Phases()
	if len(phases) == 0 {
		return nil
	}
	total := t.Total()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "phase\tms\tshare\t")
	for _, p := range phases {
		if !p.Done {
			fmt.Fprintf(tw, "%s\t-\t-\topen\n", p.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%s\t%s\n", p.Name, Millis(p.Elapsed), share(p.Elapsed, total), p.Note)
	}
	fmt.Fprintf(tw, "total\t%.3f\t\t\n", Millis(total))
	return tw.Flush()
}

func share(d, total time.Duration) string {
	if total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(d)/float64(total))
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
