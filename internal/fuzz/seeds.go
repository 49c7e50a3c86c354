package fuzztests

import (
	"testing"

	"rxport/internal/selftest"
)

const maxSeedBytes = 4 << 10

// addCorpusSeeds adds the self-test table plus inputs aimed at the scanner's
// edge cases: unterminated classes, dangling escapes, nested comments.
func addCorpusSeeds(f *testing.F) {
	for _, c := range selftest.Cases {
		f.Add(clampSeed([]byte(c.Input)), c.Flags)
	}
	for _, s := range edgeSeeds {
		f.Add([]byte(s), "")
		f.Add([]byte(s), "x")
	}
}

var edgeSeeds = []string{
	`[`, `[^`, `[]`, `\`, `(`, `)`, `(?`, `(?P<`, `(?P=`, `(?#`, `(?#)`,
	`(?#a\)b)`, `[#](?x) a # b`, `(?ix)a b`, `\N{DASH}`, `\p{`, `\P{L`,
	"a\\\nb", "r'''x'''", `rb"\d"`, `a/b[/]`, "café",
}

func clampSeed(b []byte) []byte {
	if len(b) > maxSeedBytes {
		return append([]byte(nil), b[:maxSeedBytes]...)
	}
	return b
}
