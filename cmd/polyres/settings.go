package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const configFileName = "polyres.toml"

// fileConfig mirrors polyres.toml.
type fileConfig struct {
	Resolve resolveConfig `toml:"resolve"`
	Output  outputConfig  `toml:"output"`
	Trace   traceConfig   `toml:"trace"`
}

type resolveConfig struct {
	Paths          []string `toml:"paths"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Cache          *bool    `toml:"cache"`
}

type outputConfig struct {
	Color    string `toml:"color"`
	Format   string `toml:"format"`
	PathMode string `toml:"path_mode"`
	Timings  bool   `toml:"timings"`
	Quiet    bool   `toml:"quiet"`
}

type traceConfig struct {
	Output string `toml:"output"`
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
}

// settings is the effective configuration: defaults, then polyres.toml,
// then flags the user set explicitly.
type settings struct {
	ConfigPath string
	Root       string // directory relative paths in the config refer to

	Paths          []string
	Jobs           int
	MaxDiagnostics int
	Cache          bool

	Color    string
	Format   string
	PathMode string
	Timings  bool
	Quiet    bool

	TraceOutput string
	TraceLevel  string
	TraceMode   string
}

func defaultSettings() settings {
	return settings{
		MaxDiagnostics: 100,
		Cache:          true,
		Color:          "auto",
		Format:         "text",
		PathMode:       "auto",
		TraceLevel:     "off",
		TraceMode:      "stream",
	}
}

func findConfig(startDir string) (string, bool, error) {
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
			return "", false, nil
		}
		dir = parent
	}
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Resolve.Jobs < 0 {
		return fileConfig{}, fmt.Errorf("%s: [resolve].jobs must not be negative", path)
	}
	return cfg, nil
}

func (s *settings) applyFile(cfg fileConfig, root string) {
	for _, p := range cfg.Resolve.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, filepath.FromSlash(p))
		}
		s.Paths = append(s.Paths, p)
	}
	if cfg.Resolve.Jobs > 0 {
		s.Jobs = cfg.Resolve.Jobs
	}
	if cfg.Resolve.MaxDiagnostics > 0 {
		s.MaxDiagnostics = cfg.Resolve.MaxDiagnostics
	}
	if cfg.Resolve.Cache != nil {
		s.Cache = *cfg.Resolve.Cache
	}
	setIf(&s.Color, cfg.Output.Color)
	setIf(&s.Format, cfg.Output.Format)
	setIf(&s.PathMode, cfg.Output.PathMode)
	s.Timings = s.Timings || cfg.Output.Timings
	s.Quiet = s.Quiet || cfg.Output.Quiet
	setIf(&s.TraceOutput, cfg.Trace.Output)
	setIf(&s.TraceLevel, cfg.Trace.Level)
	setIf(&s.TraceMode, cfg.Trace.Mode)
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// applyFlags overrides settings with the flags present on the command line.
func (s *settings) applyFlags(flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "color":
			s.Color = f.Value.String()
		case "quiet":
			s.Quiet, err = flags.GetBool(f.Name)
		case "timings":
			s.Timings, err = flags.GetBool(f.Name)
		case "max-diagnostics":
			s.MaxDiagnostics, err = flags.GetInt(f.Name)
		case "jobs":
			s.Jobs, err = flags.GetInt(f.Name)
		case "no-cache":
			var off bool
			off, err = flags.GetBool(f.Name)
			s.Cache = !off
		case "trace":
			s.TraceOutput = f.Value.String()
		case "trace-level":
			s.TraceLevel = f.Value.String()
		case "trace-mode":
			s.TraceMode = f.Value.String()
		case "format":
			s.Format = f.Value.String()
		case "path-mode":
			s.PathMode = f.Value.String()
		}
	})
	return err
}

func (s *settings) validate() error {
	switch s.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid color mode %q (expected auto|on|off)", s.Color)
	}
	switch s.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (expected text|json)", s.Format)
	}
	if _, err := parsePathMode(s.PathMode); err != nil {
		return err
	}
	if s.Jobs < 0 {
		return fmt.Errorf("--jobs must not be negative")
	}
	return nil
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()
	flags := cmd.Flags()
	path, err := flags.GetString("config")
	if err != nil {
		return s, err
	}
	found := path != ""
	if !found {
		path, found, err = findConfig(".")
		if err != nil {
			return s, err
		}
	}
	if found {
		cfg, err := loadConfigFile(path)
		if err != nil {
			return s, err
		}
		s.ConfigPath = path
		s.Root = filepath.Dir(path)
		s.applyFile(cfg, s.Root)
	}
	if err := s.applyFlags(flags); err != nil {
		return s, err
	}
	return s, s.validate()
}

func applyColor(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = color.NoColor || !isTerminal(os.Stdout)
	}
}

type settingsKey struct{}

func withSettings(ctx context.Context, s settings) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) settings {
	if ctx != nil {
		if s, ok := ctx.Value(settingsKey{}).(settings); ok {
			return s
		}
	}
	return defaultSettings()
}
