package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	ShowNotes   bool
	ShowSnippet bool // print the pattern with a caret line under the span
	Max         int  // stop after Max diagnostics, 0 = all
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // truncate output, 0 = all
	IncludeNotes bool
	IncludeTrace bool
}
