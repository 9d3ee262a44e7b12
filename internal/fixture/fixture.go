package fixture

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	"gopkg.in/yaml.v3"

	"polyres/internal/ast"
	"polyres/internal/diag"
	"polyres/internal/infer"
	"polyres/internal/source"
	"polyres/internal/types"
)

// ErrInvalid is wrapped by every error returned for a document that is not
// a fixture at all: broken YAML, an empty file or a non-mapping root.
var ErrInvalid = errors.New("fixture: invalid document")

// Fixture is the loaded form of one document.
type Fixture struct {
	Tree  *ast.Tree
	Types *types.Interner
	Table *infer.Table
}

type document struct {
	Classes      []yaml.Node `yaml:"classes"`
	Methods      []yaml.Node `yaml:"methods"`
	Constructors []yaml.Node `yaml:"constructors"`
	Unit         []yaml.Node `yaml:"unit"`
}

// Load reads path into files and parses it.
func Load(files *source.FileSet, path string, rep diag.Reporter) (*Fixture, error) {
	id, err := files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return Parse(id, files.Get(id).Content, rep)
}

// Parse builds a fixture from data. The returned error is non-nil only when
// data is not a fixture document; everything else is reported to rep.
func Parse(file source.FileID, data []byte, rep diag.Reporter) (*Fixture, error) {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping", ErrInvalid, top.Line)
	}
	var doc document
	if err := top.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	l := newLoader(file, rep)
	l.checkSections(top)
	l.declareClasses(doc.Classes)
	l.declareMethods(doc.Methods)
	l.declareConstructors(doc.Constructors)
	l.buildUnit(doc.Unit)
	return &Fixture{Tree: l.b.Tree, Types: l.in, Table: l.table}, nil
}

type loader struct {
	file  source.FileID
	b     *ast.Builder
	in    *types.Interner
	table *infer.Table
	rep   diag.Reporter

	// class declarations by name, consumed as they are registered
	pending map[string]*classDecl
}

func newLoader(file source.FileID, rep diag.Reporter) *loader {
	b := ast.NewBuilder(nil)
	return &loader{
		file:    file,
		b:       b,
		in:      b.Types,
		table:   infer.NewTable(),
		rep:     rep,
		pending: make(map[string]*classDecl),
	}
}

var sections = map[string]bool{"classes": true, "methods": true, "constructors": true, "unit": true}

func (l *loader) checkSections(top *yaml.Node) {
	for i := 0; i+1 < len(top.Content); i += 2 {
		if key := top.Content[i]; !sections[key.Value] {
			l.errorf(diag.FixtureInvalid, key, "unknown section %q", key.Value)
		}
	}
}

func (l *loader) span(n *yaml.Node) source.Span {
	sp := source.Span{File: l.file}
	if n == nil {
		return sp
	}
	if line, err := safecast.Conv[uint32](n.Line); err == nil {
		sp.Line = line
	}
	if col, err := safecast.Conv[uint32](n.Column); err == nil {
		sp.Col = col
	}
	return sp
}

func (l *loader) errorf(code diag.Code, at *yaml.Node, format string, args ...any) {
	diag.ReportError(l.rep, code, l.span(at), fmt.Sprintf(format, args...)).Emit()
}

// at attaches the position of n to id.
func (l *loader) at(id ast.NodeID, n *yaml.Node) ast.NodeID {
	if !id.IsValid() {
		return id
	}
	return l.b.At(id, l.span(n))
}

// broken stands in for an expression that could not be built.
func (l *loader) broken(n *yaml.Node) ast.NodeID {
	return l.at(l.b.Name("<error>", l.in.Builtins().Error), n)
}
