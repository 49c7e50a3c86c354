// Package trace records what the converter does while it does it.
//
//	rxport convert --trace=- --trace-level=detail '(?P<y>\d+)'
//
// A conversion opens one driver span, one stage span per pipeline stage, one
// rule span per rewrite rule that had a trigger present and one point per
// occurrence a rule acted on. Batch runs add a stage span per job.
//
// The Level decides what is written: phase covers driver and stage spans,
// detail adds rules, debug adds matches. At error level only spans closed
// with Span.Fail are written, at whatever scope they were opened.
//
// Tracers:
//
//   - Nop: tracing off; Begin returns nil spans
//   - StreamTracer: writes each event as it happens
//   - RingTracer: keeps the last N events for Replay after a failure
//   - MultiTracer: several of the above
//
// Spans travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "balance")
//	defer span.End("")
package trace
