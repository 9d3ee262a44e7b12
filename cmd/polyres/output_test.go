package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"polyres/internal/diag"
	"polyres/internal/driver"
	"polyres/internal/observ"
	"polyres/internal/source"
)

func sampleReports() (*source.FileSet, []driver.FileReport) {
	files := source.NewFileSet()
	id := files.Add("fixtures/a.yaml", []byte("unit:\n  - x\n"))
	reports := []driver.FileReport{{
		Path: "fixtures/a.yaml",
		Nodes: []driver.NodeReport{
			{Kind: "MethodCall", Label: "MethodCall size", Span: source.Span{File: id, Line: 2, Col: 5}, Type: "int", Context: "assignment to long"},
		},
		Diagnostics: []diag.Diagnostic{
			{Severity: diag.SevError, Code: diag.SemaUnresolvedMethod, Message: "method missing not found", Primary: source.Span{File: id, Line: 2, Col: 5}},
		},
		Timing: &observ.Report{TotalMS: 1, Phases: []observ.PhaseReport{{Name: "check", DurationMS: 1}}},
	}}
	return files, reports
}

func TestParsePathMode(t *testing.T) {
	for _, s := range []string{"", "auto", "Absolute", "relative", "basename"} {
		if _, err := parsePathMode(s); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
	if _, err := parsePathMode("short"); err == nil {
		t.Fatalf("accepted an unknown mode")
	}
}

func TestRendererText(t *testing.T) {
	files, reports := sampleReports()
	var buf bytes.Buffer
	r := renderer{out: &buf, files: files, column: columnType, timings: true}
	if err := r.text(reports); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"fixtures/a.yaml", "2:5", "MethodCall size", "int", "method missing not found", "timings:", "1 file, 1 poly expression, 1 error"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("uncolored output has escapes:\n%s", out)
	}
}

func TestRendererTextContextColumnQuiet(t *testing.T) {
	files, reports := sampleReports()
	var buf bytes.Buffer
	r := renderer{out: &buf, files: files, column: columnContext, quiet: true}
	if err := r.text(reports); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "assignment to long") {
		t.Fatalf("context column missing:\n%s", out)
	}
	if strings.Contains(out, "poly expression") || strings.Contains(out, "timings:") {
		t.Fatalf("quiet output has summary:\n%s", out)
	}
}

func TestRendererJSON(t *testing.T) {
	files, reports := sampleReports()
	var buf bytes.Buffer
	r := renderer{out: &buf, files: files, column: columnContext}
	if err := r.json(reports); err != nil {
		t.Fatalf("json: %v", err)
	}
	var got []jsonFile
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if len(got) != 1 || len(got[0].Nodes) != 1 {
		t.Fatalf("got %+v", got)
	}
	n := got[0].Nodes[0]
	if n.Context != "assignment to long" || n.Type != "" || n.Line != 2 || n.Col != 5 {
		t.Fatalf("node: %+v", n)
	}
	if got[0].Diagnostics.Count != 1 || got[0].Timing != nil {
		t.Fatalf("file: %+v", got[0])
	}
}
