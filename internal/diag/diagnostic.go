package diag

import (
	"rxport/internal/source"
)

// Severity orders diagnostics; conversion warnings never stop a conversion,
// errors only come from the driver.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lower-case form used in terminal and generated output.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Source   string // pattern as the reporting stage saw it; spans index into it
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) String() string {
	return d.Severity.String() + " " + d.Code.ID() + ": " + d.Message
}

// Snippet returns the text under the primary span, or "" when the span does
// not fit Source.
func (d Diagnostic) Snippet() string {
	s, _ := d.Primary.Text(d.Source)
	return s
}
