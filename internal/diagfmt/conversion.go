package diagfmt

import (
	"errors"
	"fmt"
	"io"

	"rxport/internal/convert"
	"rxport/internal/diag"
)

// ConversionJSON is the JSON form of one conversion, successful or not.
type ConversionJSON struct {
	Name        string           `json:"name,omitempty"`
	Input       string           `json:"input"`
	Literal     string           `json:"literal,omitempty"`
	Flags       string           `json:"flags"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Trace       []string         `json:"trace,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// BuildConversion describes the outcome of convert.Convert for input.
func BuildConversion(name, input string, res *convert.Result, err error, opts JSONOpts) ConversionJSON {
	out := ConversionJSON{Name: name, Input: input, Diagnostics: []DiagnosticJSON{}}
	if err != nil {
		out.Error = err.Error()
		var f *convert.Failure
		if opts.IncludeTrace && errors.As(err, &f) {
			out.Trace = f.TraceLines()
		}
		return out
	}
	out.Literal = res.Literal
	out.Flags = res.JSFlags()
	out.Diagnostics = BuildDiagnostics(res.Diagnostics, opts)
	if opts.IncludeTrace {
		out.Trace = res.TraceLines()
	}
	return out
}

// Conversion writes one conversion as JSON.
func Conversion(w io.Writer, c ConversionJSON) error {
	return encode(w, c)
}

// Conversions writes several conversions as one JSON array.
func Conversions(w io.Writer, cs []ConversionJSON) error {
	if cs == nil {
		cs = []ConversionJSON{}
	}
	return encode(w, cs)
}

// PrettyConversion writes the literal, the warnings and, when present, the
// trace steps in the CLI's text layout.
func PrettyConversion(w io.Writer, res *convert.Result, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	fmt.Fprintf(w, "JavaScript regex: %s\n", pal.code.Sprint(res.Literal))
	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(w, "Warnings:")
		Pretty(w, res.Diagnostics, opts)
	}
	if len(res.Trace) > 0 {
		fmt.Fprintln(w, "\nConversion steps:")
		for _, line := range res.TraceLines() {
			fmt.Fprintf(w, "- %s\n", line)
		}
	}
}

// PrettyFailure writes a failed conversion and the trace collected before it.
func PrettyFailure(w io.Writer, err error, opts PrettyOpts) {
	var f *convert.Failure
	if !errors.As(err, &f) {
		Pretty(w, []diag.Diagnostic{{Severity: diag.SevError, Message: err.Error()}}, opts)
		return
	}
	Pretty(w, []diag.Diagnostic{f.Diagnostic()}, opts)
	if len(f.Trace) > 0 {
		fmt.Fprintln(w, "\nConversion steps before failure:")
		for _, line := range f.TraceLines() {
			fmt.Fprintf(w, "- %s\n", line)
		}
	}
}
