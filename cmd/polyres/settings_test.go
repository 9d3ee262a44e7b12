package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, configFileName)
	writeFile(t, cfg, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, found, err := findConfig(nested)
	if err != nil || !found {
		t.Fatalf("findConfig: %v found=%v", err, found)
	}
	want, _ := filepath.Abs(cfg)
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	writeFile(t, path, "[resolve]\njobs = 2\nparalel = true\n")
	_, err := loadConfigFile(path)
	if err == nil || !strings.Contains(err.Error(), "paralel") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigFileRejectsNegativeJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	writeFile(t, path, "[resolve]\njobs = -1\n")
	if _, err := loadConfigFile(path); err == nil {
		t.Fatalf("negative jobs accepted")
	}
}

func TestApplyFileResolvesRelativePaths(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, configFileName)
	writeFile(t, path, `
[resolve]
paths = ["fixtures", "/abs/elsewhere"]
max_diagnostics = 7
cache = false

[output]
format = "json"
path_mode = "relative"
`)
	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := defaultSettings()
	s.applyFile(cfg, root)

	if len(s.Paths) != 2 || s.Paths[0] != filepath.Join(root, "fixtures") || s.Paths[1] != "/abs/elsewhere" {
		t.Fatalf("paths: %v", s.Paths)
	}
	if s.MaxDiagnostics != 7 || s.Cache || s.Format != "json" || s.PathMode != "relative" {
		t.Fatalf("settings: %+v", s)
	}
	if s.Color != "auto" || s.TraceLevel != "off" {
		t.Fatalf("defaults lost: %+v", s)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("jobs", 0, "")
	flags.Bool("no-cache", false, "")
	flags.String("format", "text", "")
	flags.String("color", "auto", "")
	if err := flags.Parse([]string{"--jobs=3", "--no-cache"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	s := defaultSettings()
	s.Format = "json"
	s.Color = "off"
	if err := s.applyFlags(flags); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Jobs != 3 || s.Cache {
		t.Fatalf("flags not applied: %+v", s)
	}
	if s.Format != "json" || s.Color != "off" {
		t.Fatalf("unset flags overrode config: %+v", s)
	}
}

func TestValidateRejectsUnknownModes(t *testing.T) {
	for _, mutate := range []func(*settings){
		func(s *settings) { s.Color = "sometimes" },
		func(s *settings) { s.Format = "xml" },
		func(s *settings) { s.PathMode = "short" },
		func(s *settings) { s.Jobs = -2 },
	} {
		s := defaultSettings()
		mutate(&s)
		if err := s.validate(); err == nil {
			t.Fatalf("accepted %+v", s)
		}
	}
	s := defaultSettings()
	if err := s.validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}
