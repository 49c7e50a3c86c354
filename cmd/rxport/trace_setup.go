package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rxport/internal/trace"
)

// traceSession owns the tracer of one command run.
type traceSession struct {
	tracer trace.Tracer
	cfg    trace.Config
	errOut io.Writer
}

// setupTracing builds the tracer the persistent --trace* flags ask for and
// attaches it to the command context.
func setupTracing(cmd *cobra.Command) (*traceSession, error) {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelName, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeName, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatName, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	// naming an output is enough to turn tracing on
	if level == trace.LevelOff && output != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	s := &traceSession{tracer: trace.Nop, errOut: cmd.ErrOrStderr()}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return s, nil
	}

	mode, err := trace.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	s.cfg = trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	}
	if s.tracer, err = trace.New(s.cfg); err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), s.tracer))
	return s, nil
}

// finish closes the tracer. After a failed run the events kept in memory are
// replayed: ring mode writes them to the trace output, both mode to stderr
// unless the stream already went there.
func (s *traceSession) finish(failed bool) {
	if s == nil || !s.tracer.Enabled() {
		return
	}
	if target, ok := s.replayTarget(); failed && ok {
		n, err := trace.Replay(s.tracer, target)
		if err != nil {
			fmt.Fprintf(s.errOut, "trace: replay error: %v\n", err)
		} else if n > 0 {
			fmt.Fprintf(s.errOut, "trace: replayed the last %d events\n", n)
		}
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(s.errOut, "trace: close error: %v\n", err)
	}
}

func (s *traceSession) replayTarget() (trace.Config, bool) {
	target := s.cfg
	toStderr := target.OutputPath == "" || target.OutputPath == "-"
	switch target.Mode {
	case trace.ModeRing:
	case trace.ModeBoth:
		if toStderr {
			return trace.Config{}, false
		}
		toStderr = true
	default:
		return trace.Config{}, false
	}
	if toStderr {
		target.OutputPath, target.Output = "", s.errOut
	}
	return target, true
}
