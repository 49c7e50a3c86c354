package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"rxport/internal/convert"
	"rxport/internal/testkit"
)

const maxFuzzInput = 1 << 14

func FuzzConvert(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte, letters string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		if len(letters) > 8 {
			letters = letters[:8]
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		opts := convert.Options{Trace: true, NormalizeNFC: len(input)%2 == 0, HoistInlineFlags: true}
		res, err := convert.ConvertString(ctx, string(input), letters, opts)
		if err != nil {
			var failure *convert.Failure
			if !errors.As(err, &failure) {
				t.Fatalf("non-Failure error: %T %v", err, err)
			}
			// No length limit is set, so only undecodable input may fail.
			if utf8.Valid(input) {
				t.Fatalf("input %q flags %q: %v", input, letters, err)
			}
			return
		}
		if err := testkit.CheckResultInvariants(res); err != nil {
			t.Fatalf("input %q flags %q: %v", input, letters, err)
		}

		again, err := convert.ConvertString(ctx, string(input), letters, opts)
		if err != nil || again.Literal != res.Literal || len(again.Diagnostics) != len(res.Diagnostics) {
			t.Fatalf("conversion of %q is not deterministic", input)
		}
	})
}
