// Package diag defines the diagnostic model shared by every conversion stage.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     Rewrite-rule codes carry the rule's chain position in their last digits.
//   - Message: human oriented text, one sentence.
//   - Primary: byte span of the construct in the pattern as that stage saw it.
//   - Notes: optional secondary spans, e.g. the group name inside a back-reference.
//
// Diagnostics are appended in pipeline order and are never sorted or
// deduplicated: a construct that occurs three times yields three diagnostics.
//
// # Emitting diagnostics
//
// Stages report through a Reporter so they stay unaware of storage. Use
// ReportWarning to get a ReportBuilder, chain WithNote, then Emit.
// SliceReporter keeps everything; Bag is bounded and safe to share between
// goroutines.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
