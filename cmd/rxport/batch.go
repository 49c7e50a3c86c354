package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rxport/internal/batch"
	"rxport/internal/convert"
	"rxport/internal/diag"
	"rxport/internal/diagfmt"
	"rxport/internal/gogen"
	"rxport/internal/observ"
	"rxport/internal/source"
	"rxport/internal/trace"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <jobs.toml>",
	Short: "Convert every pattern listed in a TOML job file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().Int("jobs", 0, "max parallel conversions (0=auto)")
	batchCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	batchCmd.Flags().String("cache-dir", "", "result cache directory (default: $XDG_CACHE_HOME/rxport)")
	batchCmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
	batchCmd.Flags().Int("memo-size", batch.DefaultMemoSize, "in-memory result memo size")
	batchCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	batchCmd.Flags().String("emit-go", "", "write the literals as Go constants to this file")
	batchCmd.Flags().String("package", "regexes", "package name for --emit-go")
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	jobs, err := intSetting(cmd, "jobs", cfg.Batch.Jobs)
	if err != nil {
		return err
	}
	format, err := stringSetting(cmd, "format", cfg.Output.Format)
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	cacheDir, err := stringSetting(cmd, "cache-dir", cfg.Batch.CacheDir)
	if err != nil {
		return err
	}
	noCache, err := boolSetting(cmd, "no-cache", cfg.Batch.NoCache)
	if err != nil {
		return err
	}
	memoSize, err := intSetting(cmd, "memo-size", cfg.Batch.MemoSize)
	if err != nil {
		return err
	}
	uiValue, err := stringSetting(cmd, "ui", cfg.Batch.UI)
	if err != nil {
		return err
	}
	mode, err := parseSwitch("ui", uiValue)
	if err != nil {
		return err
	}
	emitGo, err := cmd.Flags().GetString("emit-go")
	if err != nil {
		return fmt.Errorf("failed to get emit-go flag: %w", err)
	}
	pkg, err := cmd.Flags().GetString("package")
	if err != nil {
		return fmt.Errorf("failed to get package flag: %w", err)
	}
	maxDiagnostics, err := intSetting(cmd, "max-diagnostics", cfg.Output.MaxDiagnostics)
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colored, err := useColor(cmd, cfg)
	if err != nil {
		return err
	}

	tracing, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { tracing.finish(err != nil) }()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	lap := timer.Start("load")
	file, err := batch.LoadFile(args[0])
	lap.Stop("")
	if err != nil {
		return err
	}

	var notices []diag.Diagnostic
	var cache *batch.DiskCache
	if !noCache {
		if cacheDir != "" {
			cache, err = batch.OpenDiskCacheAt(cacheDir)
		} else {
			cache, err = batch.OpenDiskCache("rxport")
		}
		if err != nil {
			notices = append(notices, diag.New(diag.SevWarning, diag.BatCacheError, source.Span{},
				fmt.Sprintf("result cache disabled: %v", err)))
			cache = nil
		}
	}
	memo, err := batch.NewMemo(memoSize)
	if err != nil {
		return fmt.Errorf("failed to create memo: %w", err)
	}

	opts := batch.Options{
		Jobs: jobs,
		Convert: convert.Options{
			NormalizeNFC:     cfg.Convert.NormalizeNFC,
			HoistInlineFlags: cfg.Convert.HoistInlineFlags,
			MaxLength:        cfg.Convert.MaxLength,
		},
		Cache: cache,
		Memo:  memo,
	}

	lap = timer.Start("convert")
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "batch")
	var rep *batch.Report
	if format == "pretty" && !quiet && mode.enabled() {
		rep, err = runBatchWithUI(ctx, "converting "+filepath.Base(args[0]), file, opts)
	} else {
		rep, err = batch.Run(ctx, file, opts)
	}
	lap.Stop(fmt.Sprintf("%d jobs", len(file.Jobs)))
	if err != nil {
		span.Fail(err.Error())
		return err
	}
	if n := rep.Failed(); n > 0 {
		span.Fail(fmt.Sprintf("%d failed %s", n, plural(n, "job")))
	} else {
		span.WithExtra("cached", strconv.Itoa(rep.CacheHits())).End(fmt.Sprintf("%d %s", len(rep.Outcomes), plural(len(rep.Outcomes), "job")))
	}
	notices = append(notices, rep.Notices...)

	out := cmd.OutOrStdout()
	popts := diagfmt.PrettyOpts{Color: colored, ShowNotes: true, ShowSnippet: true, Max: maxDiagnostics}
	if format == "json" {
		jopts := diagfmt.JSONOpts{Max: maxDiagnostics, IncludeNotes: true}
		items := make([]diagfmt.ConversionJSON, len(rep.Outcomes))
		for i, o := range rep.Outcomes {
			items[i] = diagfmt.BuildConversion(o.Job.Name, o.Job.Source, o.Result, o.Err, jopts)
		}
		if err := diagfmt.Conversions(out, items); err != nil {
			return err
		}
	} else {
		printBatchPretty(out, rep, popts, quiet)
	}
	if len(notices) > 0 && !quiet {
		diagfmt.Pretty(cmd.ErrOrStderr(), notices, popts)
		if rep.NoticesDropped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d more cache %s suppressed\n", rep.NoticesDropped, plural(rep.NoticesDropped, "notice"))
		}
	}

	if emitGo != "" {
		lap := timer.Start("emit")
		err := gogen.Save(emitGo, rep, gogen.Options{Package: pkg, Index: true})
		lap.Stop(filepath.Base(emitGo))
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", emitGo, err)
		}
	}

	if showTimings {
		printTimings(cmd.ErrOrStderr(), timer)
		printJobTimings(cmd.ErrOrStderr(), rep, 5)
	}
	if rep.Failed() > 0 {
		return errReported
	}
	return nil
}

func printBatchPretty(out io.Writer, rep *batch.Report, opts diagfmt.PrettyOpts, quiet bool) {
	for _, o := range rep.Outcomes {
		if o.Failed() {
			fmt.Fprintf(out, "%s: ", o.Job.Name)
			diagfmt.PrettyFailure(out, o.Err, opts)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", o.Job.Name, o.Result.Literal)
		if !quiet && len(o.Result.Diagnostics) > 0 {
			diagfmt.Pretty(out, o.Result.Diagnostics, opts)
		}
	}
	if quiet {
		return
	}
	fmt.Fprintf(out, "\n%d %s, %d failed, %d %s, %d cached\n",
		len(rep.Outcomes), plural(len(rep.Outcomes), "pattern"),
		rep.Failed(), rep.Warnings(), plural(rep.Warnings(), "warning"), rep.CacheHits())
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
