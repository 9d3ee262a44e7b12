package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"polyres/internal/diag"
	"polyres/internal/diagfmt"
	"polyres/internal/driver"
	"polyres/internal/observ"
	"polyres/internal/source"
)

// column selects what resolve and context print next to each node.
type column uint8

const (
	columnType column = iota
	columnContext
)

func parsePathMode(s string) (diagfmt.PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	}
	return diagfmt.PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", s)
}

type renderer struct {
	out      io.Writer
	files    *source.FileSet
	column   column
	pathMode diagfmt.PathMode
	base     string
	color    bool
	timings  bool
	quiet    bool
}

func (r *renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (r *renderer) text(reports []driver.FileReport) error {
	header := r.paint(color.Bold)
	value := r.paint(color.FgGreen)
	faint := r.paint(color.Faint)

	var nodes, errs, cached int
	for i := range reports {
		rep := &reports[i]
		nodes += len(rep.Nodes)
		if rep.Cached {
			cached++
		}
		if _, err := fmt.Fprintln(r.out, header.Sprint(r.path(rep.Path))); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
		for _, n := range rep.Nodes {
			v := n.Type
			if r.column == columnContext {
				v = n.Context
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", faint.Sprintf("%d:%d", n.Span.Line, n.Span.Col), n.Label, value.Sprint(v))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		for _, d := range rep.Diagnostics {
			if d.Severity >= diag.SevError {
				errs++
			}
		}
		err := diagfmt.Pretty(r.out, rep.Diagnostics, r.files, diagfmt.PrettyOpts{
			Color:     r.color,
			Context:   1,
			PathMode:  r.pathMode,
			BaseDir:   r.base,
			ShowNotes: !r.quiet,
		})
		if err != nil {
			return err
		}
		if r.timings && rep.Timing != nil {
			if _, err := io.WriteString(r.out, rep.Timing.Summary()); err != nil {
				return err
			}
		}
	}
	if r.quiet {
		return nil
	}
	_, err := fmt.Fprintf(r.out, "%s, %s, %s", plural(len(reports), "file"), plural(nodes, "poly expression"), plural(errs, "error"))
	if err == nil && cached > 0 {
		_, err = fmt.Fprintf(r.out, " (%d cached)", cached)
	}
	if err == nil {
		_, err = fmt.Fprintln(r.out)
	}
	return err
}

func (r *renderer) path(p string) string {
	if f, ok := r.files.GetByPath(p); ok {
		return diagfmt.Location(source.Span{File: f.ID}, r.files, r.pathMode, r.base).File
	}
	return p
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type jsonNode struct {
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Type    string `json:"type,omitempty"`
	Context string `json:"context,omitempty"`
}

type jsonFile struct {
	Path        string                    `json:"path"`
	Cached      bool                      `json:"cached,omitempty"`
	Nodes       []jsonNode                `json:"nodes"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timing      *observ.Report            `json:"timing,omitempty"`
}

func (r *renderer) json(reports []driver.FileReport) error {
	out := make([]jsonFile, 0, len(reports))
	for i := range reports {
		rep := &reports[i]
		jf := jsonFile{
			Path:        rep.Path,
			Cached:      rep.Cached,
			Nodes:       make([]jsonNode, 0, len(rep.Nodes)),
			Diagnostics: diagfmt.BuildDiagnosticsOutput(rep.Diagnostics, r.files, diagfmt.JSONOpts{PathMode: r.pathMode, BaseDir: r.base, IncludeNotes: true}),
		}
		if r.timings {
			jf.Timing = rep.Timing
		}
		for _, n := range rep.Nodes {
			jn := jsonNode{Line: n.Span.Line, Col: n.Span.Col, Kind: n.Kind, Label: n.Label}
			if r.column == columnContext {
				jn.Context = n.Context
			} else {
				jn.Type = n.Type
			}
			jf.Nodes = append(jf.Nodes, jn)
		}
		out = append(out, jf)
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
