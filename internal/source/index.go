// Package source indexes the structural spans of a regex pattern.
//
// Rewrite rules operate on raw text, so a rule matching "(?:" must not fire
// inside a character class or on a byte that is the tail of an escape pair.
// Index records both kinds of span so every rule can ask before it rewrites.
package source

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Index holds the character-class and escape-pair spans of one pattern.
// It is immutable and describes exactly the string it was built from.
type Index struct {
	classes []Span // "[...]" including both brackets; unterminated runs to EOF
	escapes []Span // "\" plus the following rune, inside or outside classes
	open    bool   // the last class has no closing "]"
}

// NewIndex scans p once, left to right.
//
// Class syntax follows Python: after "[" and an optional "^", a "]" is a
// literal member; a backslash always escapes the next rune.
func NewIndex(p string) (*Index, error) {
	if _, err := safecast.Conv[uint32](len(p)); err != nil {
		return nil, fmt.Errorf("pattern of %d bytes cannot be indexed: %w", len(p), err)
	}
	x := &Index{}
	n := len(p)
	for i := 0; i < n; {
		switch p[i] {
		case '\\':
			end := escapeEnd(p, i)
			x.escapes = append(x.escapes, mkSpan(i, end))
			i = end
		case '[':
			start := i
			i++
			if i < n && p[i] == '^' {
				i++
			}
			if i < n && p[i] == ']' {
				i++
			}
			for i < n && p[i] != ']' {
				if p[i] == '\\' {
					end := escapeEnd(p, i)
					x.escapes = append(x.escapes, mkSpan(i, end))
					i = end
					continue
				}
				i++
			}
			if i < n {
				i++
			} else {
				x.open = true
			}
			x.classes = append(x.classes, mkSpan(start, i))
		default:
			i++
		}
	}
	return x, nil
}

func escapeEnd(p string, i int) int {
	if i+1 >= len(p) {
		return len(p)
	}
	_, size := utf8.DecodeRuneInString(p[i+1:])
	return i + 1 + size
}

// mkSpan is only called with offsets bounded by a length already checked
// to fit in uint32.
func mkSpan(start, end int) Span {
	s, _ := safecast.Conv[uint32](start)
	e, _ := safecast.Conv[uint32](end)
	return Span{Start: s, End: e}
}

// Span converts byte offsets within the indexed pattern to a Span.
func (x *Index) Span(start, end int) Span {
	return mkSpan(start, end)
}

// Classes returns the character-class spans in order.
func (x *Index) Classes() []Span { return x.classes }

// Escapes returns the escape-pair spans in order.
func (x *Index) Escapes() []Span { return x.escapes }

// Unterminated returns the class that runs to the end of the pattern without
// a closing "]". Only the last class can be unterminated.
func (x *Index) Unterminated() (Span, bool) {
	if !x.open {
		return Span{}, false
	}
	return x.classes[len(x.classes)-1], true
}

// ClassAt returns the class span containing off.
func (x *Index) ClassAt(off int) (Span, bool) {
	return find(x.classes, off)
}

// InClass reports whether off lies inside a character class, brackets included.
func (x *Index) InClass(off int) bool {
	_, ok := find(x.classes, off)
	return ok
}

// EscapeAt returns the escape pair that starts exactly at off.
func (x *Index) EscapeAt(off int) (Span, bool) {
	sp, ok := find(x.escapes, off)
	if !ok || int(sp.Start) != off {
		return Span{}, false
	}
	return sp, true
}

// Escaped reports whether off is covered by an escape pair without being its
// leading backslash.
func (x *Index) Escaped(off int) bool {
	sp, ok := find(x.escapes, off)
	return ok && int(sp.Start) != off
}

// Structural reports whether off is outside every class and is not the tail
// of an escape pair, i.e. a position where a group construct may begin.
func (x *Index) Structural(off int) bool {
	return !x.InClass(off) && !x.Escaped(off)
}

func find(spans []Span, off int) (Span, bool) {
	if off < 0 {
		return Span{}, false
	}
	i := sort.Search(len(spans), func(i int) bool {
		return int(spans[i].End) > off
	})
	if i < len(spans) && int(spans[i].Start) <= off {
		return spans[i], true
	}
	return Span{}, false
}
