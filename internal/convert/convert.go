// Package convert drives a Python pattern through the conversion pipeline
// and assembles the JavaScript regex literal.
//
// Stages run strictly in order: quote stripping, optional NFC
// normalization, optional inline-flag hoisting, verbose normalization,
// the rewrite chain, parenthesis balancing, flag encoding and literal
// assembly. Each stage consumes the previous stage's pattern.
package convert

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"rxport/internal/balance"
	"rxport/internal/diag"
	"rxport/internal/flags"
	"rxport/internal/observ"
	"rxport/internal/rewrite"
	"rxport/internal/trace"
	"rxport/internal/verbose"
)

// Options tunes a single conversion.
type Options struct {
	Trace            bool          // collect Result.Trace
	NormalizeNFC     bool          // compose the pattern to NFC before rewriting
	HoistInlineFlags bool          // move leading "(?imsux)" groups onto the literal flags
	MaxLength        int           // byte limit on the input; 0 = unlimited
	Timer            *observ.Timer // optional stage timings
}

// ConvertString decodes Python flag letters and calls Convert.
func ConvertString(ctx context.Context, pattern, letters string, opts Options) (*Result, error) {
	return Convert(ctx, pattern, flags.Decode(letters), opts)
}

// Convert translates pattern under fs into a JavaScript literal.
//
// On success the error is nil. Otherwise the error is a *Failure carrying the
// trace collected so far, and the result is nil.
func Convert(ctx context.Context, pattern string, fs flags.Set, opts Options) (*Result, error) {
	ctx, root := trace.Start(ctx, trace.ScopeDriver, "convert")
	d := &driver{
		ctx:   ctx,
		root:  root,
		opts:  opts,
		steps: steps{on: opts.Trace},
		sink:  &diag.SliceReporter{},
	}
	res, err := d.run(pattern, fs)
	if err != nil {
		root.Fail(err.Error())
		return nil, err
	}
	root.WithExtra("diagnostics", strconv.Itoa(len(res.Diagnostics))).End("ok")
	return res, nil
}

type driver struct {
	ctx   context.Context
	root  *trace.Span
	opts  Options
	steps steps
	sink  *diag.SliceReporter
}

func (d *driver) fail(code diag.Code, err error, format string, args ...any) error {
	return &Failure{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Trace:   d.steps.items,
		Err:     err,
	}
}

// stageRun is one open stage: a trace span plus a timer lap.
type stageRun struct {
	span *trace.Span
	lap  observ.Lap
}

func (d *driver) stage(name string) stageRun {
	return stageRun{
		span: d.root.Child(trace.ScopeStage, name),
		lap:  d.opts.Timer.Start(name),
	}
}

func (s stageRun) end(note string) {
	s.lap.Stop(note)
	s.span.End(note)
}

func (s stageRun) fail(note string) {
	s.lap.Stop(note)
	s.span.Fail(note)
}

func (d *driver) run(p string, fs flags.Set) (*Result, error) {
	original := p
	d.steps.add("Original Python regex", p)

	if !utf8.ValidString(p) {
		return nil, d.fail(diag.DrvInvalidUTF8, nil, "pattern is not valid UTF-8")
	}
	if d.opts.MaxLength > 0 && len(p) > d.opts.MaxLength {
		return nil, d.fail(diag.DrvTooLong, nil, "pattern is %d bytes, limit is %d", len(p), d.opts.MaxLength)
	}

	sg := d.stage("strip")
	p = StripQuotes(p)
	sg.end("")
	if p != original {
		d.steps.add("Stripped prefix and quotes", p)
	}

	if d.opts.NormalizeNFC {
		sg := d.stage("nfc")
		if n := norm.NFC.String(p); n != p {
			p = n
			d.steps.add("Normalized to NFC", p)
		}
		sg.end("")
	}

	if d.opts.HoistInlineFlags {
		sg := d.stage("hoist")
		if rest, inline, ok := flags.Hoist(p); ok {
			p = rest
			fs |= inline
			d.steps.add("Hoisted inline flags "+inline.Letters(), p)
		}
		sg.end("")
	}

	if fs.Has(flags.Verbose) {
		sg := d.stage("verbose")
		var vst verbose.Stats
		p, vst = verbose.Normalize(p)
		fs = fs.Without(flags.Verbose)
		sg.end(fmt.Sprintf("%d comments", vst.Comments))
		d.steps.add("Handled verbose mode", p)
	}

	sg = d.stage("rewrite")
	chain, err := rewrite.Default()
	if err != nil {
		sg.fail("rules unavailable")
		return nil, d.fail(diag.DrvIndex, err, "rewrite rules unavailable")
	}
	p, err = chain.Apply(sg.span.Bind(d.ctx), p, d.sink, func(s rewrite.Step) {
		if s.Changed() || s.Diagnostics > 0 {
			d.steps.add(s.Rule.Title, s.After)
		}
	})
	if err != nil {
		sg.fail("index failed")
		return nil, d.fail(diag.DrvIndex, err, "pattern could not be indexed")
	}
	sg.end("")

	sg = d.stage("balance")
	p, bst, err := balance.Balance(p)
	if err != nil {
		sg.fail("index failed")
		return nil, d.fail(diag.DrvIndex, err, "pattern could not be indexed")
	}
	sg.span.WithExtra("escaped", strconv.Itoa(bst.Escaped)).WithExtra("closed", strconv.Itoa(bst.Closed))
	if ok, err := balance.Check(p); err != nil || !ok {
		sg.fail("still unbalanced")
		return nil, d.fail(diag.DrvUnbalanced, err, "group delimiters are unbalanced after balancing: %s", p)
	}
	sg.end(bst.String())
	d.steps.add("Ensured balanced parentheses", p)

	sg = d.stage("flags")
	letters := fs.Encode()
	sg.end(letters)
	d.steps.add("Handled flags", letters)

	sg = d.stage("assemble")
	body, err := escapeSlashes(p)
	if err != nil {
		sg.fail("index failed")
		return nil, d.fail(diag.DrvIndex, err, "pattern could not be indexed")
	}
	literal := "/" + body + "/" + letters
	sg.end("")
	d.steps.add("Final JavaScript regex", literal)

	return &Result{
		Literal:     literal,
		Pattern:     body,
		Flags:       fs,
		Diagnostics: d.sink.Items,
		Trace:       d.steps.items,
	}, nil
}
