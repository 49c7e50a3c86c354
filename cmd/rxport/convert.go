package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rxport/internal/convert"
	"rxport/internal/diagfmt"
	"rxport/internal/observ"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <pattern>",
	Short: "Convert one Python regex to a JavaScript literal",
	Long: `Convert one Python regex to a JavaScript literal.

The pattern may carry a string prefix and quotes as written in Python
source (r"...", '''...'''); they are stripped before conversion. Use "-" to
read the pattern from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("flags", "f", "", "Python regex flags (e.g. 'im' for IGNORECASE and MULTILINE)")
	convertCmd.Flags().BoolP("verbose", "v", false, "print conversion steps")
	convertCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	convertCmd.Flags().Bool("nfc", false, "normalize the pattern to Unicode NFC first")
	convertCmd.Flags().Bool("hoist-inline-flags", false, "move leading (?imsux) groups onto the literal flags")
	convertCmd.Flags().Int("max-length", 0, "reject patterns longer than this many bytes (0 = unlimited)")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	letters, err := stringSetting(cmd, "flags", cfg.Convert.Flags)
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	format, err := stringSetting(cmd, "format", cfg.Output.Format)
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	nfc, err := boolSetting(cmd, "nfc", cfg.Convert.NormalizeNFC)
	if err != nil {
		return err
	}
	hoist, err := boolSetting(cmd, "hoist-inline-flags", cfg.Convert.HoistInlineFlags)
	if err != nil {
		return err
	}
	maxLength, err := intSetting(cmd, "max-length", cfg.Convert.MaxLength)
	if err != nil {
		return err
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

	pattern, err := readPattern(cmd.InOrStdin(), args[0])
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
	opts := convert.Options{
		Trace:            verbose,
		NormalizeNFC:     nfc,
		HoistInlineFlags: hoist,
		MaxLength:        maxLength,
		Timer:            timer,
	}
	res, convErr := convert.ConvertString(cmd.Context(), pattern, letters, opts)

	out := cmd.OutOrStdout()
	if format == "json" {
		jopts := diagfmt.JSONOpts{Max: maxDiagnostics, IncludeNotes: true, IncludeTrace: verbose}
		if err := diagfmt.Conversion(out, diagfmt.BuildConversion("", pattern, res, convErr, jopts)); err != nil {
			return err
		}
	} else {
		popts := diagfmt.PrettyOpts{Color: colored, ShowNotes: true, ShowSnippet: true, Max: maxDiagnostics}
		switch {
		case convErr != nil:
			diagfmt.PrettyFailure(cmd.ErrOrStderr(), convErr, popts)
		case quiet:
			fmt.Fprintln(out, res.Literal)
		default:
			diagfmt.PrettyConversion(out, res, popts)
		}
	}
	if showTimings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	if convErr != nil {
		return errReported
	}
	return nil
}

// readPattern returns arg, or standard input without its final newline when
// arg is "-".
func readPattern(stdin io.Reader, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read pattern from stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}
