// Package selftest runs the built-in conversion table and reports every
// mismatch.
package selftest

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"rxport/internal/convert"
)

// RunnerConfig configures a self-test run.
type RunnerConfig struct {
	// Filter limits execution to specific groups (empty = all).
	Filter []string

	// Output is where to write per-case status; nil discards it.
	Output io.Writer

	// Verbose prints the conversion steps of failing cases.
	Verbose bool
}

// RunResult contains the outcome of a run.
type RunResult struct {
	Total    int
	Passed   int
	Failed   int
	Failures []Mismatch
}

// OK reports whether every selected case passed.
func (r RunResult) OK() bool { return r.Failed == 0 }

// Mismatch describes one failing case.
type Mismatch struct {
	Index    int
	Case     Case
	Got      string
	Warnings []string
	Err      error
	Trace    []string
}

// Runner executes a case table.
type Runner struct {
	config RunnerConfig
	cases  []Case
}

// NewRunner creates a runner over cases; nil uses Cases.
func NewRunner(cases []Case, config RunnerConfig) *Runner {
	if cases == nil {
		cases = Cases
	}
	if config.Output == nil {
		config.Output = io.Discard
	}
	return &Runner{config: config, cases: cases}
}

// Run converts every selected case. A case passes when the literal matches
// exactly and the warning messages match as a set.
func (r *Runner) Run(ctx context.Context) RunResult {
	var result RunResult
	out := r.config.Output

	for i, c := range r.cases {
		if len(r.config.Filter) > 0 && !slices.Contains(r.config.Filter, c.Group) {
			continue
		}
		result.Total++
		label := fmt.Sprintf("%s#%d", c.Group, i+1)

		res, err := convert.ConvertString(ctx, c.Input, c.Flags, convert.Options{Trace: r.config.Verbose})
		m := Mismatch{Index: i + 1, Case: c, Err: err}
		if err == nil {
			m.Got, m.Warnings, m.Trace = res.Literal, res.Messages(), res.TraceLines()
		}
		if err == nil && m.Got == c.Want && sameSet(m.Warnings, c.Warnings) {
			result.Passed++
			fmt.Fprintf(out, "Running test: %s ... PASS\n", label)
			continue
		}
		result.Failed++
		result.Failures = append(result.Failures, m)
		fmt.Fprintf(out, "Running test: %s ... FAIL\n", label)
		writeMismatch(out, m, r.config.Verbose)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Self-test summary: %d total, %d passed, %d failed\n",
		result.Total, result.Passed, result.Failed)
	return result
}

func writeMismatch(w io.Writer, m Mismatch, verbose bool) {
	fmt.Fprintf(w, "  Input:    %s\n", m.Case.Input)
	fmt.Fprintf(w, "  Flags:    %s\n", m.Case.Flags)
	fmt.Fprintf(w, "  Expected: %s\n", m.Case.Want)
	if m.Err != nil {
		fmt.Fprintf(w, "  Error:    %v\n", m.Err)
		return
	}
	fmt.Fprintf(w, "  Got:      %s\n", m.Got)
	if !sameSet(m.Warnings, m.Case.Warnings) {
		fmt.Fprintln(w, "  Expected warnings:")
		writeList(w, m.Case.Warnings)
		fmt.Fprintln(w, "  Got warnings:")
		writeList(w, m.Warnings)
	}
	if verbose && len(m.Trace) > 0 {
		fmt.Fprintln(w, "  Conversion steps:")
		writeList(w, m.Trace)
	}
}

func writeList(w io.Writer, items []string) {
	for _, s := range items {
		fmt.Fprintf(w, "    - %s\n", s)
	}
}

func sameSet(a, b []string) bool {
	set := func(xs []string) []string {
		out := slices.Clone(xs)
		slices.Sort(out)
		return slices.Compact(out)
	}
	return slices.Equal(set(a), set(b))
}

// Groups returns the distinct group names of cases in first-seen order.
func Groups(cases []Case) []string {
	var out []string
	for _, c := range cases {
		if !slices.Contains(out, c.Group) {
			out = append(out, c.Group)
		}
	}
	return out
}

// String renders a case as a one-line summary.
func (c Case) String() string {
	s := c.Group + ": " + c.Input
	if c.Flags != "" {
		s += " [" + c.Flags + "]"
	}
	return strings.ReplaceAll(s, "\n", `\n`)
}
