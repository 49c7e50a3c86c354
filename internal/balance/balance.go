// Package balance makes the group parentheses of a pattern well-formed.
package balance

import (
	"fmt"
	"strings"

	"rxport/internal/source"
)

// Stats reports what Balance changed.
type Stats struct {
	Escaped int // unmatched ")", unterminated "[" or dangling "\\" escaped in place
	Closed  int // ")" appended for groups left open
}

func (s Stats) String() string {
	return fmt.Sprintf("escaped %d, closed %d", s.Escaped, s.Closed)
}

// Balance scans p once. Escape pairs and character classes are copied as is;
// an unmatched ")" or a dangling final backslash is escaped in place and every
// group still open at the end gets a ")" appended. No byte of p is dropped.
//
// A class with no closing "]" would swallow the appended ")", so its "[" is
// escaped and the rest of p is scanned as group syntax. No "]" after that point
// could close a class, so every later "[" is escaped as well.
func Balance(p string) (string, Stats, error) {
	x, err := source.NewIndex(p)
	if err != nil {
		return "", Stats{}, err
	}
	var (
		st    Stats
		b     strings.Builder
		depth int
	)
	b.Grow(len(p) + 4)
	tail := len(p)
	if sp, ok := x.Unterminated(); ok {
		tail = int(sp.Start)
	}
	for i := 0; i < len(p); {
		if sp, ok := x.EscapeAt(i); ok {
			if sp.Len() == 1 {
				// A lone trailing backslash would swallow an appended ")".
				b.WriteString(`\\`)
				st.Escaped++
			} else {
				b.WriteString(p[sp.Start:sp.End])
			}
			i = int(sp.End)
			continue
		}
		if i < tail {
			if sp, ok := x.ClassAt(i); ok {
				b.WriteString(p[i:sp.End])
				i = int(sp.End)
				continue
			}
		}
		switch p[i] {
		case '[':
			b.WriteString(`\[`)
			st.Escaped++
			i++
			continue
		case '(':
			depth++
		case ')':
			if depth == 0 {
				b.WriteString(`\)`)
				st.Escaped++
				i++
				continue
			}
			depth--
		}
		b.WriteByte(p[i])
		i++
	}
	for ; depth > 0; depth-- {
		b.WriteByte(')')
		st.Closed++
	}
	return b.String(), st, nil
}

// Check reports whether p has no unmatched group delimiter, counting only
// structural parentheses.
func Check(p string) (bool, error) {
	x, err := source.NewIndex(p)
	if err != nil {
		return false, err
	}
	depth := 0
	for i := 0; i < len(p); i++ {
		if !x.Structural(i) {
			continue
		}
		switch p[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return false, nil
			}
			depth--
		}
	}
	return depth == 0, nil
}
