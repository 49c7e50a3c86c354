// Package verbose collapses a pattern written for re.VERBOSE into the dense
// form the matching engine actually sees.
package verbose

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"rxport/internal/source"
)

// Stats counts what Normalize removed.
type Stats struct {
	Comments   int
	Whitespace int
	Markers    int
}

func (s Stats) Changed() bool {
	return s.Comments+s.Whitespace+s.Markers > 0
}

// Normalize strips comments, then insignificant whitespace, then the inline
// verbose marker, and trims the result.
func Normalize(p string) (string, Stats) {
	var st Stats
	p, st.Comments = StripComments(p)
	p, st.Whitespace = StripWhitespace(p)
	p, st.Markers = StripMarker(p)
	return strings.TrimSpace(p), st
}

// StripComments removes every "#" comment that is outside a character class
// and not escaped, up to (not including) the end of its line. It returns the
// number of comments removed.
//
// The scan tracks escapes and classes itself because a "[" inside a comment
// must not open a class.
func StripComments(p string) (string, int) {
	if strings.IndexByte(p, '#') < 0 {
		return p, 0
	}
	var b strings.Builder
	b.Grow(len(p))
	n := 0
	inClass := false
	for i := 0; i < len(p); {
		c := p[i]
		switch {
		case c == '\\':
			end := escapeEnd(p, i)
			b.WriteString(p[i:end])
			i = end
			continue
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			b.WriteByte(c)
			i++
			if i < len(p) && p[i] == '^' {
				b.WriteByte('^')
				i++
			}
			if i < len(p) && p[i] == ']' {
				b.WriteByte(']')
				i++
			}
			continue
		case c == '#':
			n++
			nl := strings.IndexByte(p[i:], '\n')
			if nl < 0 {
				i = len(p)
			} else {
				i += nl
			}
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), n
}

// StripWhitespace removes whitespace outside character classes. Escaped
// whitespace and class members are kept. It returns the number of bytes removed.
func StripWhitespace(p string) (string, int) {
	if strings.IndexAny(p, whitespace) < 0 {
		return p, 0
	}
	x, err := source.NewIndex(p)
	if err != nil {
		return p, 0
	}
	var b strings.Builder
	b.Grow(len(p))
	n := 0
	for i := 0; i < len(p); i++ {
		if isSpace(p[i]) && x.Structural(i) {
			n++
			continue
		}
		b.WriteByte(p[i])
	}
	return b.String(), n
}

var markerRe = regexp.MustCompile(`\(\?[aiLmsux]*x[aiLmsux]*\)`)

// StripMarker removes the verbose letter from inline global flag groups.
// "(?x)" disappears entirely, "(?ix)" becomes "(?i)".
func StripMarker(p string) (string, int) {
	locs := markerRe.FindAllStringIndex(p, -1)
	if len(locs) == 0 {
		return p, 0
	}
	x, err := source.NewIndex(p)
	if err != nil {
		return p, 0
	}
	var b strings.Builder
	b.Grow(len(p))
	n, last := 0, 0
	for _, loc := range locs {
		if !x.Structural(loc[0]) {
			continue
		}
		b.WriteString(p[last:loc[0]])
		if letters := strings.ReplaceAll(p[loc[0]+2:loc[1]-1], "x", ""); letters != "" {
			b.WriteString("(?" + letters + ")")
		}
		last = loc[1]
		n++
	}
	b.WriteString(p[last:])
	return b.String(), n
}

// whitespace is the set re.VERBOSE ignores.
const whitespace = " \t\n\r\v\f"

func isSpace(c byte) bool {
	return strings.IndexByte(whitespace, c) >= 0
}

func escapeEnd(p string, i int) int {
	if i+1 >= len(p) {
		return len(p)
	}
	_, size := utf8.DecodeRuneInString(p[i+1:])
	return i + 1 + size
}
