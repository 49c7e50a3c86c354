package source

import (
	"testing"
)

func mustIndex(t *testing.T, p string) *Index {
	t.Helper()
	x, err := NewIndex(p)
	if err != nil {
		t.Fatalf("NewIndex(%q): %v", p, err)
	}
	return x
}

func TestIndex_Classes(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []Span
	}{
		{"plain", "abc", nil},
		{"simple class", "a[bc]d", []Span{{Start: 1, End: 5}}},
		{"leading bracket literal", "[]]", []Span{{Start: 0, End: 3}}},
		{"negated leading bracket", "[^]]x", []Span{{Start: 0, End: 4}}},
		{"escaped bracket", `[\]]`, []Span{{Start: 0, End: 4}}},
		{"escaped open outside", `\[a]`, nil},
		{"unterminated", "a[bc", []Span{{Start: 1, End: 4}}},
		{"two classes", "[a](b)[c]", []Span{{Start: 0, End: 3}, {Start: 6, End: 9}}},
		{"paren inside", "[()]", []Span{{Start: 0, End: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustIndex(t, tt.pattern).Classes()
			if len(got) != len(tt.want) {
				t.Fatalf("classes = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("class[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIndex_Unterminated(t *testing.T) {
	tests := []struct {
		pattern string
		want    Span
		open    bool
	}{
		{"a[b]", Span{}, false},
		{"a[bc", Span{Start: 1, End: 4}, true},
		{"[]", Span{Start: 0, End: 2}, true},
		{"[^]", Span{Start: 0, End: 3}, true},
		{"[a][", Span{Start: 3, End: 4}, true},
		{`[a\]`, Span{Start: 0, End: 4}, true},
		{`\[a`, Span{}, false},
	}
	for _, tt := range tests {
		got, ok := mustIndex(t, tt.pattern).Unterminated()
		if ok != tt.open || got != tt.want {
			t.Errorf("Unterminated(%q) = %v, %v; want %v, %v", tt.pattern, got, ok, tt.want, tt.open)
		}
	}
}

func TestIndex_Escapes(t *testing.T) {
	x := mustIndex(t, `\\A\é[\n]\`)
	want := []Span{
		{Start: 0, End: 2},   // \\
		{Start: 3, End: 6},   // \é (two-byte rune)
		{Start: 7, End: 9},   // \n inside class
		{Start: 10, End: 11}, // trailing lone backslash
	}
	got := x.Escapes()
	if len(got) != len(want) {
		t.Fatalf("escapes = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("escape[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if x.Escaped(0) || !x.Escaped(1) {
		t.Errorf("Escaped at 0/1 = %v/%v", x.Escaped(0), x.Escaped(1))
	}
	if !x.Structural(2) {
		t.Errorf("'A' after escaped backslash should be structural")
	}
	if _, ok := x.EscapeAt(0); !ok {
		t.Errorf("expected escape pair at 0")
	}
	if _, ok := x.EscapeAt(1); ok {
		t.Errorf("no escape pair starts at 1")
	}
}

func TestIndex_Structural(t *testing.T) {
	p := `(a)[(]\(`
	x := mustIndex(t, p)
	want := []bool{true, true, true, false, false, false, true, false}
	for i, w := range want {
		if got := x.Structural(i); got != w {
			t.Errorf("Structural(%d) on %q = %v, want %v", i, p[i], got, w)
		}
	}
}

func TestSpan_Helpers(t *testing.T) {
	s := Span{Start: 2, End: 5}
	if s.Len() != 3 || s.Empty() {
		t.Fatalf("unexpected Len/Empty for %v", s)
	}
	if !s.Contains(2) || s.Contains(5) {
		t.Errorf("Contains boundary mismatch")
	}
	if !(Span{Start: 3, End: 5}).Within(s) || (Span{Start: 1, End: 3}).Within(s) {
		t.Errorf("Within mismatch")
	}
	if got, ok := s.Text("(?P=name)"); !ok || got != "P=n" {
		t.Errorf("Text = %q, %v", got, ok)
	}
	if _, ok := (Span{Start: 4, End: 12}).Text("short"); ok {
		t.Errorf("Text past the end must fail")
	}
	if s.String() != "2-5" {
		t.Errorf("String = %q", s.String())
	}
}
