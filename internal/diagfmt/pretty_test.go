package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"polyres/internal/diag"
	"polyres/internal/source"
)

func sample() (*source.FileSet, []diag.Diagnostic) {
	fs := source.NewFileSet()
	id := fs.Add("/home/user/project/fixtures/calls.yaml", []byte("unit:\n  - expr: {call: {name: foo}}\n"))
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaUnresolvedMethod,
		Message:  "cannot resolve method foo",
		Primary:  source.Span{File: id, Line: 2, Col: 11},
	}.WithNote(source.Span{File: id, Line: 1, Col: 1}, "declared here")
	return fs, []diag.Diagnostic{d}
}

func TestPrettyPrintsLocationAndCaret(t *testing.T) {
	fs, items := sample()
	var buf bytes.Buffer
	if err := Pretty(&buf, items, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1, ShowNotes: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"calls.yaml:2:11: ERROR SEM3001: cannot resolve method foo",
		"1 | unit:",
		"2 |   - expr: {call: {name: foo}}",
		"    |           ^",
		"note calls.yaml:1:1: declared here",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color disabled but escapes printed")
	}
}

func TestPrettyColors(t *testing.T) {
	fs, items := sample()
	var buf bytes.Buffer
	if err := Pretty(&buf, items, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes:\n%s", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	const p = "/home/user/project/src/some/deeply/nested/fixtures/test.yaml"
	cases := []struct {
		mode PathMode
		base string
		want string
	}{
		{PathModeAbsolute, "", p},
		{PathModeRelative, "/home/user/project", "src/some/deeply/nested/fixtures/test.yaml"},
		{PathModeBasename, "", "test.yaml"},
		{PathModeAuto, "", "test.yaml"},
	}
	for _, tc := range cases {
		if got := formatPath(p, tc.mode, tc.base); got != tc.want {
			t.Fatalf("mode %d: got %q, want %q", tc.mode, got, tc.want)
		}
	}
	if got := formatPath("short.yaml", PathModeAuto, ""); got != "short.yaml" {
		t.Fatalf("auto keeps short paths, got %q", got)
	}
}

func TestJSONOutput(t *testing.T) {
	fs, items := sample()
	var buf bytes.Buffer
	if err := JSON(&buf, items, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SEM3001" || out.Diagnostics[0].Location.Line != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	if len(out.Diagnostics[0].Notes) != 1 || out.Diagnostics[0].Notes[0].Location.File != "calls.yaml" {
		t.Fatalf("notes %+v", out.Diagnostics[0].Notes)
	}
	if trimmed := BuildDiagnosticsOutput(items, fs, JSONOpts{Max: -1}); trimmed.Count != 1 {
		t.Fatalf("negative max must not trim")
	}
}
