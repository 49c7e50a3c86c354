// Package testkit holds checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"rxport/internal/balance"
	"rxport/internal/convert"
	"rxport/internal/flags"
	"rxport/internal/source"
)

// CheckResultInvariants runs the invariants every successful conversion
// must hold:
// 1) Literal is "/" + Pattern + "/" + flag letters, with no "x" letter
// 2) Pattern has balanced group delimiters and no structural unescaped "/"
// 3) every diagnostic span (notes included) lies within its Source
func CheckResultInvariants(res *convert.Result) error {
	if res == nil {
		return fmt.Errorf("nil result")
	}

	// 1) literal shape
	if res.Flags.Has(flags.Verbose) {
		return fmt.Errorf("verbose flag leaked into result flags %q", res.Flags.Encode())
	}
	want := "/" + res.Pattern + "/" + res.JSFlags()
	if res.Literal != want {
		return fmt.Errorf("literal %q does not match pattern and flags %q", res.Literal, want)
	}
	if strings.ContainsRune(res.JSFlags(), 'x') {
		return fmt.Errorf("literal carries x flag: %q", res.Literal)
	}

	// 2) pattern structure
	ok, err := balance.Check(res.Pattern)
	if err != nil {
		return fmt.Errorf("pattern cannot be indexed: %w", err)
	}
	if !ok {
		return fmt.Errorf("pattern %q is unbalanced", res.Pattern)
	}
	x, err := source.NewIndex(res.Pattern)
	if err != nil {
		return fmt.Errorf("pattern cannot be indexed: %w", err)
	}
	for i := 0; i < len(res.Pattern); i++ {
		if res.Pattern[i] == '/' && x.Structural(i) {
			return fmt.Errorf("unescaped / at %d in %q", i, res.Pattern)
		}
	}

	// 3) diagnostic spans
	for i, d := range res.Diagnostics {
		n, err := safecast.Conv[uint32](len(d.Source))
		if err != nil {
			return fmt.Errorf("diagnostic %d: source too long: %w", i, err)
		}
		if err := checkSpan(d.Primary, n); err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Code.ID(), err)
		}
		for _, note := range d.Notes {
			if err := checkSpan(note.Span, n); err != nil {
				return fmt.Errorf("diagnostic %d (%s) note %q: %w", i, d.Code.ID(), note.Msg, err)
			}
			if !note.Span.Within(d.Primary) {
				return fmt.Errorf("diagnostic %d (%s): note %v outside primary %v", i, d.Code.ID(), note.Span, d.Primary)
			}
		}
	}
	return nil
}

func checkSpan(sp source.Span, limit uint32) error {
	if sp.Start > sp.End {
		return fmt.Errorf("inverted span %v", sp)
	}
	if sp.End > limit {
		return fmt.Errorf("span %v beyond source length %d", sp, limit)
	}
	return nil
}
