// Package rewrite translates Python-only regex constructs into their
// JavaScript counterparts with an ordered chain of textual rules.
//
// Every rule rewrites all non-overlapping occurrences in one pass and never
// rescans its own output. Before a rule runs, a source.Index of the current
// pattern is built so occurrences inside character classes or on escaped
// bytes are skipped.
package rewrite

import (
	"context"
	"fmt"
	"strconv"

	"rxport/internal/diag"
	"rxport/internal/source"
	"rxport/internal/trace"
)

// Rule is one link of the chain.
type Rule struct {
	Pos      int       // 1-based position in the chain
	Name     string    // stable kebab-case name
	Title    string    // trace step description
	Triggers []string  // literal tokens, one of which must occur for the rule to fire
	Code     diag.Code // diagnostic code, UnknownCode when the rule never warns

	apply func(p string, x *source.Index, r diag.Reporter) (string, []match)
}

// Step describes one rule application.
type Step struct {
	Rule        *Rule
	Before      string
	After       string
	Matches     int
	Diagnostics int
}

// Changed reports whether the rule altered the pattern.
func (s Step) Changed() bool {
	return s.Before != s.After
}

// Chain applies rules in order.
type Chain struct {
	rules []Rule
	pf    *prefilter
}

// NewChain builds a chain and its trigger prefilter.
func NewChain(rules []Rule) (*Chain, error) {
	pf, err := newPrefilter(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build rule prefilter: %w", err)
	}
	return &Chain{rules: rules, pf: pf}, nil
}

// Rules returns the rules in application order.
func (c *Chain) Rules() []Rule {
	return c.rules
}

// Apply runs every rule over p and returns the rewritten pattern. Diagnostics
// go to r in rule order. onStep, when non-nil, is called once per rule that
// had at least one trigger token present.
func (c *Chain) Apply(ctx context.Context, p string, r diag.Reporter, onStep func(Step)) (string, error) {
	if r == nil {
		r = diag.NopReporter{}
	}
	tracer := trace.FromContext(ctx)

	cand := c.pf.candidates(p, len(c.rules))
	for i := range c.rules {
		if !cand[i] {
			continue
		}
		rule := &c.rules[i]
		_, span := trace.Start(ctx, trace.ScopeRule, "rule:"+rule.Name)

		x, err := source.NewIndex(p)
		if err != nil {
			span.Fail("index failed")
			return "", fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		counter := &countingReporter{next: r}
		out, ms := rule.apply(p, x, counter)

		for _, m := range ms {
			trace.Point(tracer, trace.ScopeMatch, rule.Name, x.Span(m.start, m.end).String(), span.ID())
		}
		span.WithExtra("matches", strconv.Itoa(len(ms))).End("")

		if onStep != nil {
			onStep(Step{Rule: rule, Before: p, After: out, Matches: len(ms), Diagnostics: counter.n})
		}
		if out != p {
			p = out
			cand = c.pf.candidates(p, len(c.rules))
		}
	}
	return p, nil
}

type countingReporter struct {
	next diag.Reporter
	n    int
}

func (c *countingReporter) Report(d diag.Diagnostic) {
	c.n++
	c.next.Report(d)
}
