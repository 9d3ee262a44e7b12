package driver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"polyres/internal/diag"
	"polyres/internal/fixture"
	"polyres/internal/observ"
	"polyres/internal/sema"
	"polyres/internal/source"
	"polyres/internal/trace"
)

// Options configure ResolveFiles.
type Options struct {
	// MaxDiagnostics bounds the diagnostics of each returned report; zero
	// means diag.DefaultMax. Cached reports keep the full list.
	MaxDiagnostics int
	// Jobs bounds the number of files resolved at once; zero means
	// GOMAXPROCS.
	Jobs int
	// Cache, when set, is consulted before a file is resolved and filled
	// after.
	Cache *DiskCache
	// Tracer defaults to the tracer carried by the context.
	Tracer trace.Tracer
}

// NodeReport describes one poly expression.
type NodeReport struct {
	ID      uint32
	Kind    string
	Label   string
	Span    source.Span
	Type    string
	Context string
}

// FileReport is the outcome of resolving one fixture file.
type FileReport struct {
	Path        string
	Hash        Digest
	Nodes       []NodeReport
	Diagnostics []diag.Diagnostic
	Timing      *observ.Report
	Cached      bool `msgpack:"-"`
}

// HasErrors reports whether any diagnostic is an error.
func (r *FileReport) HasErrors() bool {
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// ResolveFiles loads every path and resolves its poly expressions. Each
// file gets its own tree, interner and checker, so files run concurrently
// up to opts.Jobs. Unreadable and malformed files produce a report with a
// diagnostic rather than an error; the error is reserved for cancellation.
// Reports are in the order of paths.
func ResolveFiles(ctx context.Context, paths []string, opts Options) (*source.FileSet, []FileReport, error) {
	files := source.NewFileSet()
	if len(paths) == 0 {
		return files, nil, nil
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}

	// Load serially: FileSet is not safe for concurrent use.
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make(map[int]error, len(paths))
	for i, path := range paths {
		id, err := files.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	sp := trace.Begin(tracer, trace.ScopeDriver, "resolve_files", trace.CurrentSpan(ctx)).
		WithExtra("files", strconv.Itoa(len(paths))).
		WithExtra("jobs", strconv.Itoa(jobs))
	defer sp.End("")

	// Each goroutine owns its own index, no lock needed.
	results := make([]FileReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, failed := loadErrors[i]; failed {
				results[i] = FileReport{
					Path: path,
					Diagnostics: []diag.Diagnostic{{
						Severity: diag.SevError,
						Code:     diag.FixtureInvalid,
						Message:  "failed to load file: " + loadErr.Error(),
					}},
				}
				return nil
			}
			results[i] = resolveFile(files.Get(fileIDs[i]), opts, tracer, sp.ID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return files, nil, err
	}
	return files, results, nil
}

func resolveFile(file *source.File, opts Options, tracer trace.Tracer, parent uint64) FileReport {
	sp := trace.Begin(tracer, trace.ScopeFile, "resolve_file", parent).WithExtra("path", file.Path)
	timer := observ.NewTimer()
	key := Digest(file.Hash)

	idx := timer.Begin("cache")
	var cached FileReport
	hit, err := opts.Cache.Get(key, &cached)
	timer.End(idx, strconv.FormatBool(hit))
	if err != nil {
		trace.Point(tracer, trace.ScopeFile, "cache_error", err.Error(), sp.ID())
	}
	if hit {
		cached.Path = file.Path
		cached.Cached = true
		rebase(&cached, file.ID)
		r := timer.Report()
		cached.Timing = &r
		cached.Diagnostics = limitDiagnostics(cached.Diagnostics, opts.MaxDiagnostics)
		sp.End("cached")
		return cached
	}

	report := FileReport{Path: file.Path, Hash: key}
	bag := diag.NewBag(math.MaxInt)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	idx = timer.Begin("load")
	fx, err := fixture.Parse(file.ID, file.Content, rep)
	timer.End(idx, "")
	if err != nil {
		msg := err.Error()
		if !errors.Is(err, fixture.ErrInvalid) {
			msg = fmt.Sprintf("cannot load fixture: %v", err)
		}
		bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.FixtureInvalid, Message: msg, Primary: source.Span{File: file.ID}})
		report.Diagnostics = limitDiagnostics(bag.Items(), opts.MaxDiagnostics)
		r := timer.Report()
		report.Timing = &r
		sp.End("invalid")
		return report
	}

	idx = timer.Begin("check")
	res := sema.Check(fx.Tree, sema.Options{Reporter: rep, Types: fx.Types, Candidates: fx.Table, Tracer: tracer, Parent: sp.ID()})
	timer.End(idx, strconv.Itoa(len(res.PolyNodes))+" poly")

	idx = timer.Begin("report")
	report.Nodes = make([]NodeReport, 0, len(res.PolyNodes))
	for _, id := range res.PolyNodes {
		n := fx.Tree.Node(id)
		report.Nodes = append(report.Nodes, NodeReport{
			ID:      uint32(id),
			Kind:    n.Kind.String(),
			Label:   fx.Tree.Label(id),
			Span:    n.Span,
			Type:    fx.Types.String(res.ExprTypes[id]),
			Context: res.Contexts[id].Describe(fx.Tree, fx.Types),
		})
	}
	bag.Sort()
	report.Diagnostics = bag.Items()
	timer.End(idx, "")

	if err := opts.Cache.Put(key, &report); err != nil {
		trace.Point(tracer, trace.ScopeFile, "cache_error", err.Error(), sp.ID())
	}
	report.Diagnostics = limitDiagnostics(report.Diagnostics, opts.MaxDiagnostics)
	r := timer.Report()
	report.Timing = &r
	sp.End(strconv.Itoa(len(report.Nodes)))
	return report
}

// limitDiagnostics keeps the first max items of a sorted list.
func limitDiagnostics(items []diag.Diagnostic, max int) []diag.Diagnostic {
	if max <= 0 {
		max = diag.DefaultMax
	}
	if len(items) <= max {
		return items
	}
	return items[:max:max]
}

// rebase points the spans of a cached report at the file's current id.
func rebase(r *FileReport, id source.FileID) {
	for i := range r.Nodes {
		r.Nodes[i].Span.File = id
	}
	for i := range r.Diagnostics {
		d := &r.Diagnostics[i]
		d.Primary.File = id
		for j := range d.Notes {
			d.Notes[j].Span.File = id
		}
	}
}
