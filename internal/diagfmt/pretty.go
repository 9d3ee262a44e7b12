package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"polyres/internal/diag"
	"polyres/internal/source"
)

// Pretty writes diagnostics in a human-readable form, in the order given:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a caret under the column and the notes.
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	p := printer{w: w, fs: fs, opts: opts}
	p.palette()
	for i := range items {
		p.diagnostic(&items[i])
	}
	return p.err
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	err  error

	sev  map[diag.Severity]*color.Color
	code *color.Color
	loc  *color.Color
	note *color.Color
}

func (p *printer) palette() {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if p.opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	p.sev = map[diag.Severity]*color.Color{
		diag.SevError:   mk(color.FgRed, color.Bold),
		diag.SevWarning: mk(color.FgYellow, color.Bold),
		diag.SevInfo:    mk(color.FgCyan, color.Bold),
	}
	p.code = mk(color.Bold)
	p.loc = mk(color.Faint)
	p.note = mk(color.FgBlue)
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) location(sp source.Span) string {
	f := p.fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	path := formatPath(f.Path, p.opts.PathMode, p.opts.BaseDir)
	if sp.Empty() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, sp.Line, sp.Col)
}

func (p *printer) diagnostic(d *diag.Diagnostic) {
	sev := p.sev[d.Severity]
	if sev == nil {
		sev = p.code
	}
	p.printf("%s: %s %s: %s\n", p.loc.Sprint(p.location(d.Primary)), sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
	p.excerpt(d.Primary)
	if !p.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		p.printf("  %s %s: %s\n", p.note.Sprint("note"), p.loc.Sprint(p.location(n.Span)), n.Msg)
	}
}

// excerpt prints the primary line, opts.Context lines above it and a caret
// under the column.
func (p *printer) excerpt(sp source.Span) {
	f := p.fs.Get(sp.File)
	if f == nil || sp.Empty() {
		return
	}
	lines := bytes.Split(f.Content, []byte("\n"))
	line := int(sp.Line)
	if line > len(lines) {
		return
	}
	from := max(1, line-max(0, p.opts.Context))
	width := len(fmt.Sprint(line))
	for i := from; i <= line; i++ {
		text := strings.TrimRight(string(lines[i-1]), "\r")
		p.printf("  %*d | %s\n", width, i, text)
	}
	col := max(1, int(sp.Col))
	p.printf("  %s | %s%s\n", strings.Repeat(" ", width), strings.Repeat(" ", col-1), p.sev[diag.SevError].Sprint("^"))
}
