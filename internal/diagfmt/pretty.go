// Package diagfmt renders diagnostics and conversion results for humans
// (pretty, optionally coloured) and for tools (JSON).
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rxport/internal/diag"
)

type palette struct {
	err, warn, info, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics in pipeline order:
//
//	warning[RW1005]: <message>
//	  --> 1-4
//	   |
//	   | x(?>a)
//	   |  ^^^
//	   = note: <note> (2-3)
func Pretty(w io.Writer, diags []diag.Diagnostic, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	for i := range n {
		d := diags[i]
		fmt.Fprintf(w, "%s%s: %s\n",
			pal.severity(d.Severity).Sprint(d.Severity.Label()),
			pal.code.Sprint("["+d.Code.ID()+"]"),
			d.Message)
		fmt.Fprintf(w, "  %s %s\n", pal.gutter.Sprint("-->"), d.Primary)

		if opts.ShowSnippet {
			if line, marks, ok := caretLines(d); ok {
				bar := pal.gutter.Sprint("   |")
				fmt.Fprintf(w, "%s\n%s %s\n%s %s\n", bar, bar, line, bar, pal.caret.Sprint(marks))
			}
		}
		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(w, "   %s note: %s (%s)\n", pal.gutter.Sprint("="), note.Msg, note.Span)
			}
		}
	}
	if n < len(diags) {
		fmt.Fprintf(w, "... and %d more\n", len(diags)-n)
	}
}

// caretLines returns the source line and a caret marker aligned under the
// primary span by display width. Multi-line sources are not rendered.
func caretLines(d diag.Diagnostic) (string, string, bool) {
	src := d.Source
	if src == "" || strings.ContainsAny(src, "\n\r") {
		return "", "", false
	}
	snippet := d.Snippet()
	if snippet == "" && !d.Primary.Empty() {
		return "", "", false
	}
	pad := runewidth.StringWidth(src[:d.Primary.Start])
	width := max(runewidth.StringWidth(snippet), 1)
	return src, strings.Repeat(" ", pad) + strings.Repeat("^", width), true
}
