package diagfmt

import (
	"encoding/json"
	"io"

	"rxport/internal/diag"
	"rxport/internal/source"
)

// SpanJSON is a byte range in the pattern a stage saw.
type SpanJSON struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// NoteJSON is a secondary message.
type NoteJSON struct {
	Message string   `json:"message"`
	Span    SpanJSON `json:"span"`
}

// DiagnosticJSON is the JSON form of diag.Diagnostic.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Span     SpanJSON   `json:"span"`
	Snippet  string     `json:"snippet,omitempty"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of JSON diagnostic output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeSpan(sp source.Span) SpanJSON {
	return SpanJSON{Start: sp.Start, End: sp.End}
}

// BuildDiagnostics converts diagnostics without serialising them.
func BuildDiagnostics(diags []diag.Diagnostic, opts JSONOpts) []DiagnosticJSON {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for i := range n {
		d := diags[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Span:     makeSpan(d.Primary),
			Snippet:  d.Snippet(),
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{Message: note.Msg, Span: makeSpan(note.Span)}
			}
		}
		out = append(out, dj)
	}
	return out
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, diags []diag.Diagnostic, opts JSONOpts) error {
	items := BuildDiagnostics(diags, opts)
	return encode(w, DiagnosticsOutput{Diagnostics: items, Count: len(items)})
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}
