package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"rxport/internal/convert"
	"rxport/internal/diag"
	"rxport/internal/source"
	"rxport/internal/trace"
)

// MaxNotices bounds Report.Notices; a broken cache directory would otherwise
// add two notices per job.
const MaxNotices = 16

// Options configures a batch run.
type Options struct {
	Jobs    int             // worker limit; <= 0 uses GOMAXPROCS
	Convert convert.Options // base options; job-file defaults are OR-ed in
	Cache   *DiskCache      // optional on-disk results
	Memo    *Memo           // optional in-memory results
	Sink    ProgressSink    // optional progress events
}

// Outcome is the result of one job. Exactly one of Result and Err is set.
type Outcome struct {
	Job     Job
	Letters string
	Result  *convert.Result
	Err     error
	Cached  bool
	Elapsed time.Duration
}

// Failed reports whether the job produced no literal.
func (o Outcome) Failed() bool { return o.Err != nil }

// Report collects the outcomes of a run in job-file order.
type Report struct {
	File     *File
	Outcomes []Outcome
	Notices  []diag.Diagnostic // cache problems; never fatal
	// NoticesDropped counts cache notices beyond MaxNotices.
	NoticesDropped int
}

// Failed counts jobs that produced no literal.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Warnings counts diagnostics across all successful jobs.
func (r *Report) Warnings() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Result != nil {
			n += len(o.Result.Diagnostics)
		}
	}
	return n
}

// CacheHits counts jobs served from the memo or the disk cache.
func (r *Report) CacheHits() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Cached {
			n++
		}
	}
	return n
}

// Run converts every job of f in parallel. A job failure is recorded in its
// Outcome; Run itself only fails when ctx is cancelled.
func Run(ctx context.Context, f *File, opts Options) (*Report, error) {
	if f == nil {
		return nil, errors.New("batch: nil job file")
	}
	report := &Report{File: f, Outcomes: make([]Outcome, len(f.Jobs))}
	if len(f.Jobs) == 0 {
		return report, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// Traced results carry per-run steps and are never shared.
	useCache := !opts.Convert.Trace

	for _, j := range f.Jobs {
		emit(opts.Sink, Event{Job: j.Name, Status: StatusQueued})
	}

	notices := diag.NewBag(MaxNotices)
	notice := func(format string, args ...any) {
		diag.ReportWarning(notices, diag.BatCacheError, source.Span{}, fmt.Sprintf(format, args...)).Emit()
	}

	// indices are unique per goroutine, no mutex needed for Outcomes
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(f.Jobs)))

	for i, job := range f.Jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			jctx, span := trace.Start(gctx, trace.ScopeStage, "job:"+job.Name)
			start := time.Now()

			letters := job.Letters(f.Defaults)
			fs := job.FlagSet(f.Defaults)
			copts := opts.Convert
			copts.NormalizeNFC = copts.NormalizeNFC || f.Defaults.NormalizeNFC
			copts.HoistInlineFlags = copts.HoistInlineFlags || f.Defaults.HoistInlineFlags
			out := Outcome{Job: job, Letters: letters}

			var key Digest
			if useCache {
				emit(opts.Sink, Event{Job: job.Name, Status: StatusLookup})
				key = Key(job.Source, fs, copts)
				if res, ok := opts.Memo.Get(key); ok {
					out.Result, out.Cached = res, true
				} else if res, ok, err := opts.Cache.Get(key); err != nil {
					notice("job %s: cache read failed: %v", job.Name, err)
				} else if ok {
					out.Result, out.Cached = res, true
					opts.Memo.Add(key, res)
				}
			}

			if !out.Cached {
				emit(opts.Sink, Event{Job: job.Name, Status: StatusConverting})
				out.Result, out.Err = convert.Convert(jctx, job.Source, fs, copts)
				if out.Err == nil && useCache {
					opts.Memo.Add(key, out.Result)
					if err := opts.Cache.Put(key, out.Result); err != nil {
						notice("job %s: cache write failed: %v", job.Name, err)
					}
				}
			}

			out.Elapsed = time.Since(start)
			report.Outcomes[i] = out
			if out.Failed() {
				span.Fail(out.Err.Error())
			} else {
				span.End(outcomeStatus(out).String())
			}
			emit(opts.Sink, Event{
				Job:     job.Name,
				Status:  outcomeStatus(out),
				Err:     out.Err,
				Elapsed: out.Elapsed,
			})
			return nil
		})
	}

	err := g.Wait()
	report.Notices, report.NoticesDropped = notices.Items(), notices.Dropped()
	return report, err
}

func outcomeStatus(o Outcome) Status {
	switch {
	case o.Err != nil:
		return StatusFailed
	case o.Cached:
		return StatusCached
	case o.Result != nil && len(o.Result.Diagnostics) > 0:
		return StatusWarning
	default:
		return StatusDone
	}
}

