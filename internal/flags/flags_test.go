package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEncode(t *testing.T) {
	tests := []struct {
		in      string
		want    Set
		encoded string
	}{
		{"", 0, ""},
		{"i", IgnoreCase, "i"},
		{"mi", IgnoreCase | Multiline, "im"},
		{"usmi", IgnoreCase | Multiline | DotAll | Unicode, "imsu"},
		{"x", Verbose, ""},
		{"mx", Multiline | Verbose, "m"},
		{"aLq", 0, ""},
		{"iiq", IgnoreCase, "i"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Decode(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.encoded, got.Encode())
		})
	}
}

func TestEncodeKeepsKnownLetters(t *testing.T) {
	for _, in := range []string{"sim", "ums", "zzi", "xsu"} {
		enc := Decode(in).Encode()
		for _, c := range "imsu" {
			has := false
			for _, d := range in {
				if d == c {
					has = true
				}
			}
			require.Equal(t, has, containsRune(enc, c), "input %q letter %q", in, c)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestLettersAndWithout(t *testing.T) {
	s := Decode("xmi")
	require.Equal(t, "imx", s.Letters())
	require.True(t, s.Has(Verbose))
	s = s.Without(Verbose)
	require.False(t, s.Has(Verbose))
	require.Equal(t, "im", s.Letters())
	require.Equal(t, "none", Set(0).String())
}

func TestHoist(t *testing.T) {
	tests := []struct {
		in   string
		rest string
		set  Set
		ok   bool
	}{
		{"(?i)abc", "abc", IgnoreCase, true},
		{"(?mx)(?s)a b", "a b", Multiline | Verbose | DotAll, true},
		{"(?a)x", "x", 0, true},
		{"(?i:abc)", "(?i:abc)", 0, false},
		{"(?:abc)", "(?:abc)", 0, false},
		{"abc(?i)", "abc(?i)", 0, false},
		{"(?)", "(?)", 0, false},
	}
	for _, tt := range tests {
		rest, set, ok := Hoist(tt.in)
		require.Equal(t, tt.rest, rest, tt.in)
		require.Equal(t, tt.set, set, tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
	}
}
