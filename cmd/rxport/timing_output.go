package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"rxport/internal/batch"
	"rxport/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprintln(out, "timings:")
	if err := timer.WriteTable(out); err != nil {
		fmt.Fprintf(out, "timings: %v\n", err)
	}
}

// printJobTimings lists the slowest jobs of a batch run, at most limit.
func printJobTimings(out io.Writer, rep *batch.Report, limit int) {
	if out == nil || rep == nil || len(rep.Outcomes) == 0 {
		return
	}
	idx := make([]int, len(rep.Outcomes))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(rep.Outcomes[b].Elapsed, rep.Outcomes[a].Elapsed)
	})
	fmt.Fprintln(out, "slowest jobs:")
	for _, i := range idx[:min(limit, len(idx))] {
		o := rep.Outcomes[i]
		note := ""
		if o.Cached {
			note = "  // cached"
		}
		fmt.Fprintf(out, "  %-20s %7.2f ms%s\n", o.Job.Name, observ.Millis(o.Elapsed), note)
	}
}
