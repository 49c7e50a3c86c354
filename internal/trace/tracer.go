package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations filter with Level.Admits and must
// be safe for concurrent use: batch jobs trace from several goroutines.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Recorder is implemented by tracers that keep recent events in memory.
type Recorder interface {
	Snapshot() []Event
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything. Spans begun on it are nil.
var Nop Tracer = nopTracer{}

// StorageMode decides where admitted events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written to the output as they happen
	ModeRing                          // kept in memory, replayed to the output on failure
	ModeBoth                          // streamed, and the ring replayed to stderr on failure
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts a mode name in any letter case.
func ParseMode(s string) (StorageMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n != "" && n == name {
			return StorageMode(m), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 4096

// Config describes a tracer built by New.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // takes precedence over OutputPath; never closed
	OutputPath string    // "" or "-" is stderr
	RingSize   int
}

// EventFormat resolves FormatAuto from the output path: ".ndjson" and
// ".jsonl" files get NDJSON, everything else text.
func (c Config) EventFormat() Format {
	if c.Format != FormatAuto {
		return c.Format
	}
	if strings.HasSuffix(c.OutputPath, ".ndjson") || strings.HasSuffix(c.OutputPath, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

// New builds the tracer cfg describes. Ring mode opens no output until
// Replay is called.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	size := cfg.RingSize
	if size <= 0 {
		size = DefaultRingSize
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(size, cfg.Level), nil
	case ModeStream, ModeBoth:
		stream, err := openStream(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return NewMultiTracer(cfg.Level, stream, NewRingTracer(size, cfg.Level)), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

// Replay writes the events t holds in memory to the output of cfg and
// returns how many were written. Tracers that record nothing write nothing.
func Replay(t Tracer, cfg Config) (int, error) {
	rec, ok := t.(Recorder)
	if !ok {
		return 0, nil
	}
	events := rec.Snapshot()
	if len(events) == 0 {
		return 0, nil
	}
	stream, err := openStream(cfg)
	if err != nil {
		return 0, err
	}
	for i := range events {
		stream.Emit(&events[i])
	}
	return len(events), stream.Close()
}

func openStream(cfg Config) (*StreamTracer, error) {
	switch {
	case cfg.Output != nil:
		return NewStreamTracer(cfg.Output, cfg.Level, cfg.EventFormat()), nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return NewStreamTracer(os.Stderr, cfg.Level, cfg.EventFormat()), nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	st := NewStreamTracer(bufio.NewWriter(f), cfg.Level, cfg.EventFormat())
	st.closer = f
	return st, nil
}
