package source

import "strconv"

// Span is the half-open byte range [Start, End) of a pattern.
type Span struct {
	Start uint32
	End   uint32
}

func (s Span) Len() int    { return int(s.End) - int(s.Start) }
func (s Span) Empty() bool { return s.Start >= s.End }

// String renders "start-end", the form used in trace output and golden files.
func (s Span) String() string {
	return strconv.FormatUint(uint64(s.Start), 10) + "-" + strconv.FormatUint(uint64(s.End), 10)
}

// Contains reports whether the byte at off lies inside s.
func (s Span) Contains(off uint32) bool {
	return s.Start <= off && off < s.End
}

// Within reports whether s lies entirely inside outer.
func (s Span) Within(outer Span) bool {
	return outer.Start <= s.Start && s.End <= outer.End && s.Start <= s.End
}

// Text returns the part of p that s covers, or false when s does not fit p.
func (s Span) Text(p string) (string, bool) {
	if s.Start > s.End || int(s.End) > len(p) {
		return "", false
	}
	return p[s.Start:s.End], true
}
