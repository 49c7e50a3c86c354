package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"rxport/internal/convert"
	"rxport/internal/diag"
	"rxport/internal/source"
)

func sampleDiagnostics() []diag.Diagnostic {
	return []diag.Diagnostic{
		diag.ReportWarning(nil, diag.RwAtomicGroup, source.Span{Start: 1, End: 4},
			"Atomic groups are not supported in JavaScript. Converted to non-capturing groups.").
			WithSource("x(?>a)").
			WithNote(source.Span{Start: 1, End: 2}, "group opener").
			Diagnostic(),
		diag.ReportWarning(nil, diag.RwLookbehind, source.Span{Start: 6, End: 10},
			"Lookbehind assertions have limited support in JavaScript.").
			WithSource("日本(?<=a)").
			Diagnostic(),
	}
}

func TestPretty_Plain(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleDiagnostics(), PrettyOpts{ShowNotes: true, ShowSnippet: true})
	out := buf.String()

	for _, want := range []string{
		"warning[RW1005]: Atomic groups are not supported",
		"  --> 1-4\n",
		"   | x(?>a)\n   |  ^^^\n",
		"   = note: group opener (1-2)\n",
		"warning[RW1007]: Lookbehind",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour codes emitted with Color=false:\n%s", out)
	}
}

func TestPretty_CaretUsesDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleDiagnostics()[1:], PrettyOpts{ShowSnippet: true})
	// Each ideograph is three bytes but two columns wide.
	want := "   | 日本(?<=a)\n   |     ^^^^\n"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("caret misaligned, want %q in:\n%s", want, buf.String())
	}
}

func TestCaretLines_SkipsMultiline(t *testing.T) {
	d := diag.Diagnostic{Primary: source.Span{Start: 0, End: 1}, Source: "a\nb"}
	if _, _, ok := caretLines(d); ok {
		t.Error("multi-line source must not be rendered")
	}
}

func TestPretty_Max(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleDiagnostics(), PrettyOpts{Max: 1})
	out := buf.String()
	if strings.Contains(out, "RW1007") || !strings.Contains(out, "... and 1 more") {
		t.Errorf("Max not honoured:\n%s", out)
	}
}

func TestPretty_Color(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleDiagnostics()[:1], PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes with Color=true:\n%q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleDiagnostics(), JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "RW1005" || first.Severity != "WARNING" || first.Snippet != "(?>" {
		t.Errorf("unexpected first diagnostic %+v", first)
	}
	if len(first.Notes) != 1 || first.Notes[0].Span != (SpanJSON{Start: 1, End: 2}) {
		t.Errorf("notes = %+v", first.Notes)
	}
}

func TestBuildConversion(t *testing.T) {
	ctx := context.Background()

	res, err := convert.ConvertString(ctx, `(?>a)`, "i", convert.Options{Trace: true})
	c := BuildConversion("atomic", `(?>a)`, res, err, JSONOpts{IncludeTrace: true})
	if c.Literal != "/(?:a)/i" || c.Flags != "i" || len(c.Diagnostics) != 1 || len(c.Trace) == 0 {
		t.Errorf("unexpected conversion %+v", c)
	}

	res, err = convert.ConvertString(ctx, "\xff", "", convert.Options{Trace: true})
	c = BuildConversion("", "\xff", res, err, JSONOpts{IncludeTrace: true})
	if c.Error == "" || c.Literal != "" || len(c.Trace) != 1 {
		t.Errorf("unexpected failed conversion %+v", c)
	}
	if c.Diagnostics == nil {
		t.Error("diagnostics must serialise as [] not null")
	}
}

func TestPrettyConversion(t *testing.T) {
	res, err := convert.ConvertString(context.Background(), `(?P=n)`, "", convert.Options{Trace: true})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	PrettyConversion(&buf, res, PrettyOpts{})
	out := buf.String()
	for _, want := range []string{
		`JavaScript regex: /\k<n>/`,
		"Warnings:",
		"warning[RW1003]",
		"Conversion steps:",
		`- Final JavaScript regex: /\k<n>/`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
