package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"rxport/internal/trace"
)

func newTestCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "rxport"}
	root.PersistentFlags().String("color", "auto", "")
	root.PersistentFlags().String("config", "", "")
	root.PersistentFlags().Int("max-diagnostics", 100, "")
	cmd := &cobra.Command{Use: "sub", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("format", "pretty", "")
	cmd.Flags().Int("jobs", 0, "")
	cmd.Flags().Bool("nfc", false, "")
	root.AddCommand(cmd)

	args := []string{"sub"}
	for k, v := range flags {
		args = append(args, "--"+k+"="+v)
	}
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return cmd
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, configFileName), []byte("[output]\ncolor = \"off\"\n"), 0o600))

	path, ok, err := findConfigFile(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, configFileName), path)
}

func TestDecodeConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	body := `
[convert]
flags = "i"
nfc = true

[output]
format = "json"

[batch]
jobs = 3
ui = "off"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	cfg, err := decodeConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "i", cfg.Convert.Flags)
	require.True(t, cfg.Convert.NormalizeNFC)
	require.Equal(t, "json", cfg.Output.Format)
	require.Equal(t, 3, cfg.Batch.Jobs)

	require.NoError(t, os.WriteFile(path, []byte("[batch]\nui = \"sometimes\"\n"), 0o600))
	_, err = decodeConfigFile(path)
	require.ErrorContains(t, err, "[batch].ui")

	require.NoError(t, os.WriteFile(path, []byte("[batch]\nthreads = 2\n"), 0o600))
	_, err = decodeConfigFile(path)
	require.ErrorContains(t, err, "unknown key")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RXPORT_COLOR", "on")
	t.Setenv("RXPORT_JOBS", "7")
	t.Setenv("RXPORT_CACHE_DIR", "/tmp/rx")
	cfg := &appConfig{}
	require.NoError(t, applyEnv(cfg))
	require.Equal(t, "on", cfg.Output.Color)
	require.Equal(t, 7, cfg.Batch.Jobs)
	require.Equal(t, "/tmp/rx", cfg.Batch.CacheDir)

	t.Setenv("RXPORT_JOBS", "many")
	require.Error(t, applyEnv(&appConfig{}))
}

func TestSettings_FlagBeatsConfig(t *testing.T) {
	cmd := newTestCommand(t, nil)
	format, err := stringSetting(cmd, "format", "json")
	require.NoError(t, err)
	require.Equal(t, "json", format)
	jobs, err := intSetting(cmd, "jobs", 4)
	require.NoError(t, err)
	require.Equal(t, 4, jobs)
	nfc, err := boolSetting(cmd, "nfc", true)
	require.NoError(t, err)
	require.True(t, nfc)

	cmd = newTestCommand(t, map[string]string{"format": "pretty", "jobs": "2", "nfc": "false"})
	format, err = stringSetting(cmd, "format", "json")
	require.NoError(t, err)
	require.Equal(t, "pretty", format)
	jobs, err = intSetting(cmd, "jobs", 4)
	require.NoError(t, err)
	require.Equal(t, 2, jobs)
	nfc, err = boolSetting(cmd, "nfc", true)
	require.NoError(t, err)
	require.False(t, nfc)

	maxDiag, err := intSetting(cmd, "max-diagnostics", 0)
	require.NoError(t, err)
	require.Equal(t, 100, maxDiag)
}

func TestParseSwitch(t *testing.T) {
	for in, want := range map[string]autoSwitch{"": switchAuto, "AUTO": switchAuto, "on": switchOn, " off ": switchOff, "never": switchOff} {
		got, err := parseSwitch("ui", in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := parseSwitch("color", "maybe")
	require.EqualError(t, err, `invalid color value "maybe" (expected auto|on|off)`)
	require.True(t, switchOn.enabled())
	require.False(t, switchOff.enabled())
}

func newTraceCommand(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "rxport"}
	pf := root.PersistentFlags()
	pf.String("trace", "", "")
	pf.String("trace-level", "off", "")
	pf.String("trace-mode", "stream", "")
	pf.String("trace-format", "auto", "")
	pf.Int("trace-ring-size", 4096, "")
	cmd := &cobra.Command{Use: "sub", RunE: func(*cobra.Command, []string) error { return nil }}
	root.AddCommand(cmd)
	root.SetArgs(append([]string{"sub"}, flags...))
	require.NoError(t, root.Execute())
	return cmd
}

func TestSetupTracing_OutputImpliesPhase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	cmd := newTraceCommand(t, "--trace="+path)
	s, err := setupTracing(cmd)
	require.NoError(t, err)
	require.Equal(t, trace.LevelPhase, s.tracer.Level())
	require.Same(t, s.tracer, trace.FromContext(cmd.Context()))

	trace.Begin(s.tracer, trace.ScopeDriver, "convert", 0).End("ok")
	s.finish(false)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "← convert (ok)")
}

func TestSetupTracing_RingReplaysOnFailure(t *testing.T) {
	for _, failed := range []bool{false, true} {
		cmd := newTraceCommand(t, "--trace-level=phase", "--trace-mode=ring")
		var errOut bytes.Buffer
		cmd.SetErr(&errOut)
		s, err := setupTracing(cmd)
		require.NoError(t, err)

		trace.Begin(s.tracer, trace.ScopeDriver, "convert", 0).Fail("unbalanced")
		s.finish(failed)
		if !failed {
			require.Empty(t, errOut.String())
			continue
		}
		require.Contains(t, errOut.String(), "✗ convert (unbalanced)")
		require.Contains(t, errOut.String(), "trace: replayed the last 2 events")
	}
}

func TestSetupTracing_RejectsBadLevel(t *testing.T) {
	cmd := newTraceCommand(t, "--trace-level=loud")
	_, err := setupTracing(cmd)
	require.Error(t, err)
}

func TestReadPattern(t *testing.T) {
	got, err := readPattern(nil, `\d+`)
	require.NoError(t, err)
	require.Equal(t, `\d+`, got)

	got, err = readPattern(strings.NewReader("(?P<x>a)\r\n"), "-")
	require.NoError(t, err)
	require.Equal(t, "(?P<x>a)", got)
}

func TestVersionCommand_JSON(t *testing.T) {
	var buf bytes.Buffer
	root := &cobra.Command{Use: "rxport"}
	root.PersistentFlags().String("color", "off", "")
	cmd := &cobra.Command{Use: "version", RunE: runVersion}
	cmd.Flags().String("format", "pretty", "")
	cmd.Flags().Bool("full", false, "")
	cmd.Flags().Bool("rules", false, "")
	root.AddCommand(cmd)
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "--format=json", "--full", "--rules"})
	require.NoError(t, root.Execute())

	var rep versionReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	require.Equal(t, "rxport", rep.Tool)
	require.NotEmpty(t, rep.Version)
	require.NotNil(t, rep.Build)
	require.NotEmpty(t, rep.Build.GoVersion)
	require.Len(t, rep.Rules, 12)
	require.Equal(t, "atomic-group", rep.Rules[4])
}
