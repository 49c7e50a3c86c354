package diag

import "rxport/internal/source"

// Reporter receives diagnostics from a stage. Stages do not know whether
// diagnostics are kept, counted or thrown away.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder assembles one diagnostic and hands it to its Reporter on
// Emit. A nil builder is inert.
type ReportBuilder struct {
	to      Reporter
	diag    Diagnostic
	emitted bool
}

// ReportWarning starts a warning at primary.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, diag: New(SevWarning, code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithNote(sp, msg)
	}
	return b
}

// WithSource records the pattern the spans index into.
func (b *ReportBuilder) WithSource(pattern string) *ReportBuilder {
	if b != nil {
		b.diag.Source = pattern
	}
	return b
}

// Emit reports the diagnostic. Later calls do nothing.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.to != nil {
		b.to.Report(b.diag)
	}
}

// Diagnostic returns what has been built so far without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// SliceReporter keeps every diagnostic in order.
type SliceReporter struct {
	Items []Diagnostic
}

func (r *SliceReporter) Report(d Diagnostic) {
	r.Items = append(r.Items, d)
}

// NopReporter discards diagnostics.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
