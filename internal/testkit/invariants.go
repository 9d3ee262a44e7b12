// Package testkit holds checks shared by package tests.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"polyres/internal/ast"
	"polyres/internal/source"
)

// CheckSpans verifies the positions of a tree built from file:
//  1. every positioned node points at file
//  2. its line exists in the content
//  3. its column is within that line, or just past its end
//
// Nodes with a zero line are synthesised and skipped.
func CheckSpans(tree *ast.Tree, file *source.File) error {
	if tree == nil || file == nil {
		return fmt.Errorf("nil tree or file")
	}
	lines := bytes.Split(file.Content, []byte("\n"))
	lineCount, err := safecast.Conv[uint32](len(lines))
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}
	for id := range tree.All() {
		sp := tree.Node(id).Span
		if sp.Line == 0 {
			continue
		}
		if sp.File != file.ID {
			return fmt.Errorf("node %d (%s): span points to file %d, want %d", id, tree.Label(id), sp.File, file.ID)
		}
		if sp.Line > lineCount {
			return fmt.Errorf("node %d (%s): line %d beyond %d lines", id, tree.Label(id), sp.Line, lineCount)
		}
		width, err := safecast.Conv[uint32](len(lines[sp.Line-1]))
		if err != nil {
			return fmt.Errorf("line width overflow: %w", err)
		}
		if sp.Col == 0 || sp.Col > width+1 {
			return fmt.Errorf("node %d (%s): column %d outside line %d of width %d", id, tree.Label(id), sp.Col, sp.Line, width)
		}
	}
	return nil
}
