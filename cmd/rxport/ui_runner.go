package main

import (
	"context"
	"os"

	"rxport/internal/batch"
	"rxport/internal/ui"
)

type batchOutcome struct {
	report *batch.Report
	err    error
}

// runBatchWithUI runs the batch in the background and renders its progress
// until every job has reported.
func runBatchWithUI(ctx context.Context, title string, f *batch.File, opts batch.Options) (*batch.Report, error) {
	events := make(chan batch.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = batch.ChannelSink{Ch: events}
		rep, err := batch.Run(ctx, f, optsCopy)
		outcomeCh <- batchOutcome{report: rep, err: err}
		close(events)
	}()

	uiErr := ui.Run(os.Stdout, title, f.Names(), events)
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
