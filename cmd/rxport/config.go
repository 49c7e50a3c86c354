package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const configFileName = "rxport.toml"

type appConfig struct {
	Path    string        `toml:"-"`
	Convert convertConfig `toml:"convert"`
	Output  outputConfig  `toml:"output"`
	Batch   batchConfig   `toml:"batch"`
}

type convertConfig struct {
	Flags            string `toml:"flags"`
	NormalizeNFC     bool   `toml:"nfc"`
	HoistInlineFlags bool   `toml:"hoist_inline_flags"`
	MaxLength        int    `toml:"max_length"`
}

type outputConfig struct {
	Color          string `toml:"color"`
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type batchConfig struct {
	Jobs     int    `toml:"jobs"`
	CacheDir string `toml:"cache_dir"`
	NoCache  bool   `toml:"no_cache"`
	MemoSize int    `toml:"memo_size"`
	UI       string `toml:"ui"`
}

func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func decodeConfigFile(path string) (*appConfig, error) {
	var cfg appConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("output", "color") {
		if _, err := parseSwitch("color", cfg.Output.Color); err != nil {
			return nil, fmt.Errorf("%s: [output].color: %w", path, err)
		}
	}
	if meta.IsDefined("batch", "ui") {
		if _, err := parseSwitch("ui", cfg.Batch.UI); err != nil {
			return nil, fmt.Errorf("%s: [batch].ui: %w", path, err)
		}
	}
	cfg.Path = path
	return &cfg, nil
}

// loadConfig resolves settings in order: .env file, rxport.toml,
// RXPORT_* variables. Command-line flags are applied later by the caller
// and win over all of them.
func loadConfig(cmd *cobra.Command) (*appConfig, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		path = os.Getenv("RXPORT_CONFIG")
	}
	if path == "" {
		found, ok, err := findConfigFile(".")
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}

	cfg := &appConfig{}
	if path != "" {
		if cfg, err = decodeConfigFile(path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *appConfig) error {
	if v, ok := os.LookupEnv("RXPORT_COLOR"); ok && v != "" {
		if _, err := parseSwitch("color", v); err != nil {
			return fmt.Errorf("RXPORT_COLOR: %w", err)
		}
		cfg.Output.Color = v
	}
	if v, ok := os.LookupEnv("RXPORT_JOBS"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RXPORT_JOBS: %w", err)
		}
		cfg.Batch.Jobs = n
	}
	if v, ok := os.LookupEnv("RXPORT_CACHE_DIR"); ok && v != "" {
		cfg.Batch.CacheDir = v
	}
	return nil
}

// stringSetting returns the flag value when it was set explicitly,
// otherwise the configured value, otherwise the flag default.
func stringSetting(cmd *cobra.Command, name, configured string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if cmd.Flags().Changed(name) || configured == "" {
		return v, nil
	}
	return configured, nil
}

func intSetting(cmd *cobra.Command, name string, configured int) (int, error) {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if cmd.Flags().Changed(name) || configured == 0 {
		return v, nil
	}
	return configured, nil
}

func boolSetting(cmd *cobra.Command, name string, configured bool) (bool, error) {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if cmd.Flags().Changed(name) {
		return v, nil
	}
	return v || configured, nil
}

// useColor applies the --color setting and configures fatih/color to match.
func useColor(cmd *cobra.Command, cfg *appConfig) (bool, error) {
	value, err := stringSetting(cmd, "color", cfg.Output.Color)
	if err != nil {
		return false, err
	}
	mode, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	enabled := mode.enabled()
	color.NoColor = !enabled
	return enabled, nil
}
