package balance

import (
	"strings"
	"testing"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		escaped int
		closed  int
	}{
		{"", "", 0, 0},
		{"(a)", "(a)", 0, 0},
		{"a)", `a\)`, 1, 0},
		{"(a", "(a)", 0, 1},
		{"((a", "((a))", 0, 2},
		{")(", `\)()`, 1, 1},
		{`\(a`, `\(a`, 0, 0},
		{`\)`, `\)`, 0, 0},
		{"[(]", "[(]", 0, 0},
		{"[)]a)", `[)]a\)`, 1, 0},
		{"([)]", "([)])", 0, 1},
		{"(?:a)?)", `(?:a)?\)`, 1, 0},
		{"[(", `\[()`, 1, 1},
		{"(a[b", `(a\[b)`, 1, 1},
		{"([", `(\[)`, 1, 1},
		{"([]", `(\[])`, 1, 1},
		{"[a[b", `\[a\[b`, 2, 0},
		{"[x](a[b", `[x](a\[b)`, 1, 1},
		{`[a\`, `\[a\\`, 2, 0},
		{`(\`, `(\\)`, 1, 1},
		{`a\`, `a\\`, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, st, err := Balance(tt.in)
			if err != nil {
				t.Fatalf("Balance(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Balance(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if st.Escaped != tt.escaped || st.Closed != tt.closed {
				t.Errorf("Balance(%q) stats = %+v, want escaped=%d closed=%d", tt.in, st, tt.escaped, tt.closed)
			}
		})
	}
}

func TestBalance_AlwaysBalanced(t *testing.T) {
	inputs := []string{
		"(((", ")))", "(()", "())", `\((\)`, "[(]([)]", "a(b[c)]d)e)",
		"(?P<x>a)|b)", "(?:(?:a)?\n?)+", `[\]()](`, "((((a)))))))",
		"(a[b", "([", "[a/b", "([a[b)", "((^[]",
	}
	for _, in := range inputs {
		out, _, err := Balance(in)
		if err != nil {
			t.Fatalf("Balance(%q): %v", in, err)
		}
		ok, err := Check(out)
		if err != nil {
			t.Fatalf("Check(%q): %v", out, err)
		}
		if !ok {
			t.Errorf("Balance(%q) = %q is not balanced", in, out)
		}
	}
}

func TestBalance_NoByteDropped(t *testing.T) {
	in := "a)b(c[)]"
	out, _, err := Balance(in)
	if err != nil {
		t.Fatal(err)
	}
	// Removing the inserted escapes and the appended closers restores the input.
	restored := strings.Replace(out, `\)`, ")", 1)
	restored = strings.TrimSuffix(restored, ")")
	if restored != in {
		t.Errorf("restored %q from %q, want %q", restored, out, in)
	}
}

func TestCheck(t *testing.T) {
	tests := map[string]bool{
		"(a)":    true,
		"(a":     false,
		"a)":     false,
		`\)`:     true,
		"[)]":    true,
		"(?:[(])": true,
	}
	for in, want := range tests {
		got, err := Check(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Check(%q) = %v, want %v", in, got, want)
		}
	}
}
