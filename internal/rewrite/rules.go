package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"rxport/internal/diag"
	"rxport/internal/source"
)

// Group names follow Python identifiers.
const groupName = `([\p{L}\p{N}_]+)`

var (
	namedGroupRe    = regexp.MustCompile(`\(\?P<` + groupName + `>`)
	namedBackrefRe  = regexp.MustCompile(`\(\?P=` + groupName + `\)`)
	optionalGroupRe = regexp.MustCompile(`\(\?:[^)]*?\)\?`)
	atomicGroupRe   = regexp.MustCompile(`\(\?>`)
	lookbehindRe    = regexp.MustCompile(`\(\?<[=!]`)
	conditionalRe   = regexp.MustCompile(`\(\?\(` + groupName + `\)`)
)

const (
	msgAtomicGroup     = "Atomic groups are not supported in JavaScript. Converted to non-capturing groups."
	msgUnicodeProperty = "Unicode property escapes require the 'u' flag in JavaScript."
	msgLookbehind      = "Lookbehind assertions have limited support in JavaScript."
	msgAnyButNewline   = `'\N' is converted to '[^\n]', which may not behave identically in all cases.`
	msgConditional     = "Conditional patterns are not supported in JavaScript. This part of the regex may not work as expected."
)

// Rules returns the rewrite rules in their fixed order. Later rules assume the
// earlier ones already ran.
func Rules() []Rule {
	return []Rule{
		{Pos: 1, Name: "anchors", Title: "Converted string anchors", Triggers: []string{`\A`, `\Z`}, apply: anchors},
		{Pos: 2, Name: "named-group", Title: "Converted named groups", Triggers: []string{`(?P<`}, apply: namedGroup},
		{Pos: 3, Name: "named-backref", Title: "Handled named group references", Triggers: []string{`(?P=`}, Code: diag.RwNamedBackref, apply: namedBackref},
		{Pos: 4, Name: "optional-group", Title: "Preserved optional groups", Triggers: []string{`(?:`}, apply: optionalGroup},
		{Pos: 5, Name: "atomic-group", Title: "Handled atomic groups", Triggers: []string{`(?>`}, Code: diag.RwAtomicGroup, apply: atomicGroup},
		{Pos: 6, Name: "unicode-property", Title: "Checked Unicode property escapes", Triggers: []string{`\p`, `\P`}, Code: diag.RwUnicodeProperty, apply: unicodeProperty},
		{Pos: 7, Name: "lookbehind", Title: "Warned about lookbehind assertions", Triggers: []string{`(?<=`, `(?<!`}, Code: diag.RwLookbehind, apply: lookbehind},
		{Pos: 8, Name: "bell", Title: "Converted bell escapes", Triggers: []string{`\a`}, apply: bell},
		{Pos: 9, Name: "any-but-newline", Title: "Converted \\N escapes", Triggers: []string{`\N`}, Code: diag.RwAnyButNewline, apply: anyButNewline},
		{Pos: 10, Name: "conditional", Title: "Checked conditional patterns", Triggers: []string{`(?(`}, Code: diag.RwConditional, apply: conditional},
		{Pos: 11, Name: "newline", Title: "Escaped newlines", Triggers: []string{"\n"}, apply: newline},
		{Pos: 12, Name: "inline-comment", Title: "Removed inline comments", Triggers: []string{`(?#`}, apply: inlineComment},
	}
}

// anchors: \A and \Z become ^ and $ outside character classes.
func anchors(p string, x *source.Index, _ diag.Reporter) (string, []match) {
	ms := escapeMatches(p, x, "AZ", false)
	return splice(p, ms, func(m match) string {
		if p[m.start+1] == 'A' {
			return "^"
		}
		return "$"
	}), ms
}

func namedGroup(p string, x *source.Index, _ diag.Reporter) (string, []match) {
	ms := structuralMatches(p, x, namedGroupRe)
	return splice(p, ms, func(m match) string {
		return "(?<" + m.group(p, 1) + ">"
	}), ms
}

func namedBackref(p string, x *source.Index, r diag.Reporter) (string, []match) {
	ms := structuralMatches(p, x, namedBackrefRe)
	for _, m := range ms {
		name := m.group(p, 1)
		diag.ReportWarning(r, diag.RwNamedBackref, x.Span(m.start, m.end),
			fmt.Sprintf("Named group reference '(?P=%s)' is not directly supported in JavaScript. Converted to '\\k<%s>', but may not work in all browsers.", name, name)).
			WithNote(x.Span(m.groups[2], m.groups[3]), "group name").
			WithSource(p).
			Emit()
	}
	return splice(p, ms, func(m match) string {
		return `\k<` + m.group(p, 1) + ">"
	}), ms
}

// optionalGroup never rewrites: it exists only so match tracing shows where
// optional non-capturing groups are. Their text reaches the output unchanged.
func optionalGroup(p string, x *source.Index, _ diag.Reporter) (string, []match) {
	return p, structuralMatches(p, x, optionalGroupRe)
}

func atomicGroup(p string, x *source.Index, r diag.Reporter) (string, []match) {
	ms := structuralMatches(p, x, atomicGroupRe)
	for _, m := range ms {
		diag.ReportWarning(r, diag.RwAtomicGroup, x.Span(m.start, m.end), msgAtomicGroup).WithSource(p).Emit()
	}
	return splice(p, ms, func(match) string { return "(?:" }), ms
}

func unicodeProperty(p string, x *source.Index, r diag.Reporter) (string, []match) {
	ms := escapeMatches(p, x, "pP", true)
	for _, m := range ms {
		diag.ReportWarning(r, diag.RwUnicodeProperty, x.Span(m.start, propertyEnd(p, m.end)), msgUnicodeProperty).WithSource(p).Emit()
	}
	return p, ms
}

// propertyEnd extends a \p match over its "{...}" argument for reporting.
func propertyEnd(p string, end int) int {
	if end < len(p) && p[end] == '{' {
		if i := strings.IndexByte(p[end:], '}'); i >= 0 {
			return end + i + 1
		}
	}
	return end
}

func lookbehind(p string, x *source.Index, r diag.Reporter) (string, []match) {
	ms := structuralMatches(p, x, lookbehindRe)
	for _, m := range ms {
		diag.ReportWarning(r, diag.RwLookbehind, x.Span(m.start, m.end), msgLookbehind).WithSource(p).Emit()
	}
	return p, ms
}

func bell(p string, x *source.Index, _ diag.Reporter) (string, []match) {
	ms := escapeMatches(p, x, "a", true)
	return splice(p, ms, func(match) string { return `\x07` }), ms
}

// anyButNewline rewrites \N outside classes. \N{name} is a named character
// and is left alone.
func anyButNewline(p string, x *source.Index, r diag.Reporter) (string, []match) {
	var ms []match
	for _, m := range escapeMatches(p, x, "N", false) {
		if m.end < len(p) && p[m.end] == '{' {
			continue
		}
		ms = append(ms, m)
		diag.ReportWarning(r, diag.RwAnyButNewline, x.Span(m.start, m.end), msgAnyButNewline).WithSource(p).Emit()
	}
	return splice(p, ms, func(match) string { return `[^\n]` }), ms
}

func conditional(p string, x *source.Index, r diag.Reporter) (string, []match) {
	ms := structuralMatches(p, x, conditionalRe)
	for _, m := range ms {
		diag.ReportWarning(r, diag.RwConditional, x.Span(m.start, m.end), msgConditional).
			WithNote(x.Span(m.groups[2], m.groups[3]), "condition").
			WithSource(p).
			Emit()
	}
	return p, ms
}

// newline turns a raw line feed, escaped or not, into the two-character \n.
func newline(p string, x *source.Index, _ diag.Reporter) (string, []match) {
	var ms []match
	for i := 0; i < len(p); i++ {
		if p[i] != '\n' {
			continue
		}
		start := i
		if x.Escaped(i) {
			start = i - 1
		}
		ms = append(ms, match{start: start, end: i + 1})
	}
	return splice(p, ms, func(match) string { return `\n` }), ms
}

// inlineComment drops "(?#...)". The comment ends at the first unescaped ")";
// an unterminated comment is left as is.
func inlineComment(p string, x *source.Index, _ diag.Reporter) (string, []match) {
	var ms []match
	for i := 0; i < len(p); {
		j := strings.Index(p[i:], "(?#")
		if j < 0 {
			break
		}
		start := i + j
		if !x.Structural(start) {
			i = start + 1
			continue
		}
		end := commentEnd(p, start+3)
		if end < 0 {
			break
		}
		ms = append(ms, match{start: start, end: end})
		i = end
	}
	return splice(p, ms, func(match) string { return "" }), ms
}

func commentEnd(p string, i int) int {
	for i < len(p) {
		switch p[i] {
		case '\\':
			i += 2
		case ')':
			return i + 1
		default:
			i++
		}
	}
	return -1
}
