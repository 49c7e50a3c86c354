package rewrite

import (
	"regexp"
	"strings"
	"sync"

	"github.com/coregx/ahocorasick"

	"rxport/internal/source"
)

// prefilter finds which trigger tokens occur in a pattern with one pass of an
// Aho-Corasick automaton, so rules whose tokens are absent are skipped before
// any index is built.
type prefilter struct {
	auto  *ahocorasick.Automaton
	rules map[string][]int // trigger token -> rule positions in the chain
}

func newPrefilter(rules []Rule) (*prefilter, error) {
	pf := &prefilter{rules: make(map[string][]int)}
	builder := ahocorasick.NewBuilder()
	for i, r := range rules {
		for _, tok := range r.Triggers {
			if _, seen := pf.rules[tok]; !seen {
				builder.AddPattern([]byte(tok))
			}
			pf.rules[tok] = append(pf.rules[tok], i)
		}
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	pf.auto = auto
	return pf, nil
}

// candidates returns, per rule position, whether one of its triggers occurs.
func (pf *prefilter) candidates(p string, n int) []bool {
	out := make([]bool, n)
	hay := []byte(p)
	if !pf.auto.IsMatch(hay) {
		return out
	}
	for at := 0; at < len(hay); {
		m := pf.auto.Find(hay, at)
		if m == nil {
			break
		}
		for _, i := range pf.rules[p[m.Start:m.End]] {
			out[i] = true
		}
		at = m.Start + 1
	}
	return out
}

var (
	defaultOnce  sync.Once
	defaultChain *Chain
	defaultErr   error
)

// Default returns the shared chain built from Rules. It is immutable.
func Default() (*Chain, error) {
	defaultOnce.Do(func() {
		defaultChain, defaultErr = NewChain(Rules())
	})
	return defaultChain, defaultErr
}

// match is one structural occurrence found by a rule.
type match struct {
	start, end int
	groups     []int // submatch offsets, as returned by regexp
}

func (m match) group(p string, n int) string {
	if 2*n+1 >= len(m.groups) || m.groups[2*n] < 0 {
		return ""
	}
	return p[m.groups[2*n]:m.groups[2*n+1]]
}

// structuralMatches returns the matches of re that begin at a structural
// offset, i.e. outside every character class and not on an escaped byte.
func structuralMatches(p string, x *source.Index, re *regexp.Regexp) []match {
	var out []match
	for _, loc := range re.FindAllStringSubmatchIndex(p, -1) {
		if !x.Structural(loc[0]) {
			continue
		}
		out = append(out, match{start: loc[0], end: loc[1], groups: loc})
	}
	return out
}

// escapeMatches returns escape pairs "\c" whose escaped byte is in letters.
// inClass selects whether pairs inside character classes are included.
func escapeMatches(p string, x *source.Index, letters string, inClass bool) []match {
	var out []match
	for _, sp := range x.Escapes() {
		start, end := int(sp.Start), int(sp.End)
		if end-start != 2 || strings.IndexByte(letters, p[start+1]) < 0 {
			continue
		}
		if !inClass && x.InClass(start) {
			continue
		}
		out = append(out, match{start: start, end: end, groups: []int{start, end}})
	}
	return out
}

// splice replaces every match with repl(m); matches must be ordered and
// non-overlapping.
func splice(p string, ms []match, repl func(m match) string) string {
	if len(ms) == 0 {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	last := 0
	for _, m := range ms {
		b.WriteString(p[last:m.start])
		b.WriteString(repl(m))
		last = m.end
	}
	b.WriteString(p[last:])
	return b.String()
}
