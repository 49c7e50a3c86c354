// Package flags maps Python regex flags onto JavaScript literal flag letters.
package flags

import "strings"

// Set is a bit set of source-dialect flags.
type Set uint8

const (
	// IgnoreCase corresponds to re.IGNORECASE.
	IgnoreCase Set = 1 << iota
	// Multiline corresponds to re.MULTILINE.
	Multiline
	// DotAll corresponds to re.DOTALL.
	DotAll
	// Unicode corresponds to re.UNICODE.
	Unicode
	// Verbose corresponds to re.VERBOSE. It has no JavaScript letter.
	Verbose
)

type entry struct {
	flag   Set
	source byte
	target byte // 0 = no target letter
}

// table order is the output order.
var table = [...]entry{
	{flag: IgnoreCase, source: 'i', target: 'i'},
	{flag: Multiline, source: 'm', target: 'm'},
	{flag: DotAll, source: 's', target: 's'},
	{flag: Unicode, source: 'u', target: 'u'},
	{flag: Verbose, source: 'x'},
}

// Decode parses a Python flag-letter string. Unknown letters are ignored.
func Decode(letters string) Set {
	var s Set
	for i := 0; i < len(letters); i++ {
		for _, e := range table {
			if letters[i] == e.source {
				s |= e.flag
				break
			}
		}
	}
	return s
}

// Encode returns the JavaScript flag letters in table order.
func (s Set) Encode() string {
	var b strings.Builder
	for _, e := range table {
		if e.target != 0 && s&e.flag != 0 {
			b.WriteByte(e.target)
		}
	}
	return b.String()
}

// Letters returns the Python flag letters in table order.
func (s Set) Letters() string {
	var b strings.Builder
	for _, e := range table {
		if s&e.flag != 0 {
			b.WriteByte(e.source)
		}
	}
	return b.String()
}

// Has reports whether every flag in f is set.
func (s Set) Has(f Set) bool {
	return s&f == f
}

// Without returns s with f cleared.
func (s Set) Without(f Set) Set {
	return s &^ f
}

func (s Set) String() string {
	if s == 0 {
		return "none"
	}
	return s.Letters()
}
