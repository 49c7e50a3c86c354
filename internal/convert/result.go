package convert

import (
	"rxport/internal/diag"
	"rxport/internal/flags"
)

// Step is one trace entry: what happened and the pattern afterwards.
type Step struct {
	Description string
	Snapshot    string
}

func (s Step) String() string {
	return s.Description + ": " + s.Snapshot
}

// Result is a successful conversion.
type Result struct {
	Literal     string            // "/pattern/flags"
	Pattern     string            // converted body, slashes escaped
	Flags       flags.Set         // flags carried by the literal (never Verbose)
	Diagnostics []diag.Diagnostic // pipeline order, one per occurrence
	Trace       []Step            // empty unless Options.Trace
}

// JSFlags returns the flag letters appended to the literal.
func (r *Result) JSFlags() string {
	return r.Flags.Encode()
}

// Messages returns the diagnostic messages in order.
func (r *Result) Messages() []string {
	out := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		out[i] = d.Message
	}
	return out
}

// TraceLines renders the trace as "description: snapshot" lines.
func (r *Result) TraceLines() []string {
	return stepLines(r.Trace)
}

// Failure is the only error Convert returns. It carries the trace collected
// before the pipeline stopped; no literal is produced.
type Failure struct {
	Code    diag.Code
	Message string
	Trace   []Step
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// TraceLines renders the trace collected before the failure.
func (f *Failure) TraceLines() []string {
	return stepLines(f.Trace)
}

// Diagnostic returns the failure as an error diagnostic for rendering.
func (f *Failure) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{Severity: diag.SevError, Code: f.Code, Message: f.Error()}
}

func stepLines(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.String()
	}
	return out
}

// steps collects trace entries when enabled.
type steps struct {
	on    bool
	items []Step
}

func (s *steps) add(desc, snapshot string) {
	if s.on {
		s.items = append(s.items, Step{Description: desc, Snapshot: snapshot})
	}
}
