package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rxport/internal/diag"
	"rxport/internal/source"
	"rxport/internal/trace"
)

func run(t *testing.T, p string) (string, []diag.Diagnostic, []Step) {
	t.Helper()
	chain, err := Default()
	require.NoError(t, err)
	var sink diag.SliceReporter
	var steps []Step
	out, err := chain.Apply(context.Background(), p, &sink, func(s Step) { steps = append(steps, s) })
	require.NoError(t, err)
	return out, sink.Items, steps
}

func TestChain_Rewrites(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		codes []diag.Code
	}{
		{"start anchor", `\Astart`, `^start`, nil},
		{"end anchor", `end\Z`, `end$`, nil},
		{"escaped backslash before A", `\\A`, `\\A`, nil},
		{"named group", `(?P<name>group)`, `(?<name>group)`, nil},
		{"unicode group name", `(?P<größe>\d+)`, `(?<größe>\d+)`, nil},
		{"escaped paren is not a group", `\(?P<x>`, `\(?P<x>`, nil},
		{"group syntax inside class", `[(?P<x>)]`, `[(?P<x>)]`, nil},
		{"named backref", `(?P=name)`, `\k<name>`, []diag.Code{diag.RwNamedBackref}},
		{
			"backref per occurrence",
			`(?P<a>x)(?P=a)(?P=a)`, `(?<a>x)\k<a>\k<a>`,
			[]diag.Code{diag.RwNamedBackref, diag.RwNamedBackref},
		},
		{"optional group untouched", `(?:foo)?bar`, `(?:foo)?bar`, nil},
		{"atomic group", `(?>atomic)`, `(?:atomic)`, []diag.Code{diag.RwAtomicGroup}},
		{"unicode property", `\p{Greek}`, `\p{Greek}`, []diag.Code{diag.RwUnicodeProperty}},
		{"negated unicode property", `[\P{ASCII}]`, `[\P{ASCII}]`, []diag.Code{diag.RwUnicodeProperty}},
		{
			"both lookbehinds",
			`(?<=a)(?<!b)`, `(?<=a)(?<!b)`,
			[]diag.Code{diag.RwLookbehind, diag.RwLookbehind},
		},
		{"named group is not lookbehind", `(?P<n>a)`, `(?<n>a)`, nil},
		{"bell everywhere", `\a[\a]`, `\x07[\x07]`, nil},
		{"bell and any-but-newline", `\a\N`, `\x07[^\n]`, []diag.Code{diag.RwAnyButNewline}},
		{"named character kept", `\N{DIGIT ONE}`, `\N{DIGIT ONE}`, nil},
		{"any-but-newline in class kept", `[\N]`, `[\N]`, nil},
		{"conditional", `(?(1)then|else)`, `(?(1)then|else)`, []diag.Code{diag.RwConditional}},
		{"named conditional", `(?(word)a|b)`, `(?(word)a|b)`, []diag.Code{diag.RwConditional}},
		{"raw newline", "a\nb", `a\nb`, nil},
		{"escaped newline", "a\\\nb", `a\nb`, nil},
		{"inline comment", `a(?#comment)b`, `ab`, nil},
		{"inline comment with escaped paren", `a(?#c\)d)b`, `ab`, nil},
		{"unterminated inline comment", `a(?#open`, `a(?#open`, nil},
		{"plain", `[a-z]+\d{3,5}`, `[a-z]+\d{3,5}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diags, _ := run(t, tt.in)
			require.Equal(t, tt.want, out)
			require.Equal(t, tt.codes, codesOrNil(diags))
		})
	}
}

func codesOrNil(ds []diag.Diagnostic) []diag.Code {
	if len(ds) == 0 {
		return nil
	}
	return diag.Codes(ds)
}

func TestChain_DiagnosticsFollowRuleOrder(t *testing.T) {
	// The conditional comes first in the text but rule 10 runs after rule 5.
	_, diags, _ := run(t, `(?(1)a)(?>b)`)
	require.Equal(t, []diag.Code{diag.RwAtomicGroup, diag.RwConditional}, diag.Codes(diags))
}

func TestChain_DiagnosticSpans(t *testing.T) {
	_, diags, _ := run(t, `x\p{Greek}(?P=name)`)
	require.Len(t, diags, 2)

	require.Equal(t, diag.RwNamedBackref, diags[0].Code)
	require.Equal(t, source.Span{Start: 10, End: 19}, diags[0].Primary)
	require.Len(t, diags[0].Notes, 1)
	require.Equal(t, source.Span{Start: 14, End: 18}, diags[0].Notes[0].Span)

	require.Equal(t, diag.RwUnicodeProperty, diags[1].Code)
	require.Equal(t, source.Span{Start: 1, End: 10}, diags[1].Primary)
}

func TestChain_Steps(t *testing.T) {
	out, _, steps := run(t, `(?>a)\Z`)
	require.Equal(t, `(?:a)$`, out)
	require.Len(t, steps, 2)
	require.Equal(t, "anchors", steps[0].Rule.Name)
	require.Equal(t, `(?>a)$`, steps[0].After)
	require.True(t, steps[0].Changed())
	require.Equal(t, "atomic-group", steps[1].Rule.Name)
	require.Equal(t, 1, steps[1].Diagnostics)
	require.Equal(t, steps[0].After, steps[1].Before)
}

func TestOptionalGroup_ByteIdentical(t *testing.T) {
	for _, p := range []string{
		`(?:ab)?`,
		`x(?:a|b)?y(?:c)?`,
		`^(?:(?<word>\w+)\s*(?:#.*)?\n?)+$`,
	} {
		x, err := source.NewIndex(p)
		require.NoError(t, err)
		out, ms := optionalGroup(p, x, nil)
		require.Equal(t, p, out)
		require.NotEmpty(t, ms, "pattern %q", p)
		for _, m := range ms {
			require.Equal(t, p[m.start:m.end], out[m.start:m.end])
		}
	}
}

func TestAnchors_ExactlyOncePerOccurrence(t *testing.T) {
	out, _, _ := run(t, `\A\A(a|\Z)\Z`)
	require.Equal(t, `^^(a|$)$`, out)
}

func TestPrefilter_Candidates(t *testing.T) {
	chain, err := Default()
	require.NoError(t, err)
	n := len(chain.Rules())

	none := chain.pf.candidates("abc", n)
	require.Equal(t, make([]bool, n), none)

	got := chain.pf.candidates(`x(?P=n)y\N`, n)
	for i, r := range chain.Rules() {
		want := r.Name == "named-backref" || r.Name == "any-but-newline"
		require.Equal(t, want, got[i], "rule %s", r.Name)
	}
}

func TestRules_PositionsAndCodes(t *testing.T) {
	for i, r := range Rules() {
		require.Equal(t, i+1, r.Pos)
		require.NotEmpty(t, r.Triggers)
		if r.Code != diag.UnknownCode {
			require.Equal(t, 1000+r.Pos, int(r.Code), "rule %s", r.Name)
		}
	}
}

func TestChain_EmitsRuleSpans(t *testing.T) {
	chain, err := Default()
	require.NoError(t, err)
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	_, err = chain.Apply(ctx, `(?>a)(?>b)`, nil, nil)
	require.NoError(t, err)

	var begins, points int
	for _, ev := range ring.Snapshot() {
		switch ev.Kind {
		case trace.KindSpanBegin:
			begins++
			require.Equal(t, "rule:atomic-group", ev.Name)
		case trace.KindPoint:
			points++
		}
	}
	require.Equal(t, 1, begins)
	require.Equal(t, 2, points)
}
