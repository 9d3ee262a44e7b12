package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetAddAssignsSequentialIDs(t *testing.T) {
	fs := NewFileSet()
	a := fs.Add("a.yaml", []byte("a"))
	b := fs.Add("b.yaml", []byte("b"))
	if a != 0 || b != 1 {
		t.Fatalf("unexpected ids: %d %d", a, b)
	}
	if fs.Len() != 2 {
		t.Fatalf("expected 2 files, got %d", fs.Len())
	}
	if fs.Get(a).Hash == fs.Get(b).Hash {
		t.Fatalf("different contents must hash differently")
	}
}

func TestFileSetGetByPathReturnsLatest(t *testing.T) {
	fs := NewFileSet()
	fs.Add("dir/../x.yaml", []byte("old"))
	fs.Add("x.yaml", []byte("new"))
	f, ok := fs.GetByPath("./x.yaml")
	if !ok {
		t.Fatalf("expected x.yaml to be found")
	}
	if string(f.Content) != "new" {
		t.Fatalf("expected latest content, got %q", f.Content)
	}
}

func TestFileSetLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.yaml")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFkey: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := string(fs.Get(id).Content); got != "key: 1\n" {
		t.Fatalf("BOM not stripped: %q", got)
	}
}

func TestSpanOrdering(t *testing.T) {
	a := Span{File: 0, Line: 3, Col: 9}
	b := Span{File: 0, Line: 4, Col: 1}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %v before %v", a, b)
	}
	if !(Span{}).Empty() {
		t.Fatalf("zero span must be empty")
	}
}
