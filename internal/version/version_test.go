package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })
}

func withoutColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestVersionHasDefault(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
}

func TestColoredKeepsSuffix(t *testing.T) {
	withoutColor(t)
	cases := []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "weird"}
	for _, v := range cases {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })
	withVersion(t, "1.2.3", "", "")
	if got := Colored(); got == "1.2.3" {
		t.Fatalf("expected colored output, got %q", got)
	}
}

func TestInfoIncludesOptionalFields(t *testing.T) {
	withoutColor(t)
	withVersion(t, "1.0.0", "abc123", "2024-01-15")
	if got, want := Info(), "polyres 1.0.0 (abc123) built 2024-01-15"; got != want {
		t.Fatalf("Info() = %q, want %q", got, want)
	}
	withVersion(t, "1.0.0", "", "")
	if got, want := Info(), "polyres 1.0.0"; got != want {
		t.Fatalf("Info() = %q, want %q", got, want)
	}
}
