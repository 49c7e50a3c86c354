package verbose

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "comments and indentation",
			in: `(?x)
        \d+  # Match one or more digits
        \s*  # Optional whitespace
        \w+  # Match one or more word characters
        `,
			want: `\d+\s*\w+`,
		},
		{"escaped hash", `a\#b # trailing`, `a\#b`},
		{"hash in class", `[#a] b`, `[#a]b`},
		{"space in class", `[ a] b`, `[ a]b`},
		{"escaped space", `a\ b`, `a\ b`},
		{"leading bracket literal", `[] #] x`, `[] #]x`},
		{"bracket inside comment", "a # [unclosed\nb", "ab"},
		{"combined marker", "(?ix) a b", "(?i)ab"},
		{"tabs and newlines", "a\t\n\r\fb", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Normalize(tt.in)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_DenseIsNoop(t *testing.T) {
	for _, p := range []string{
		"",
		`\d+\s*\w+`,
		`^(?:(?P<word>\w+)\s*:\s*(?P<number>\d+))+$`,
		`[ #]`,
		`a\ b\#c`,
	} {
		got, st := Normalize(p)
		require.Equal(t, p, got)
		require.False(t, st.Changed(), "pattern %q", p)
	}
}

func TestStripComments_Count(t *testing.T) {
	got, n := StripComments("a # one\nb # two\n[#]")
	require.Equal(t, "a \nb \n[#]", got)
	require.Equal(t, 2, n)
}

func TestStripMarker(t *testing.T) {
	got, n := StripMarker(`(?x)a[(?x)]\(?x)`)
	require.Equal(t, `a[(?x)]\(?x)`, got)
	require.Equal(t, 1, n)
}
