// Package testkit holds checks shared by tests of packages that build syntax trees.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"scopebind/internal/source"
	"scopebind/internal/syntax"
)

// CheckSpanInvariants verifies the layout of a tree whose spans point into
// content:
//  1. every span lies within content and belongs to file
//  2. every child span is contained in its parent's span
//  3. a keyword span, when present, is contained in its node's span
func CheckSpanInvariants(tree *syntax.Tree, file source.FileID, content []byte) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("content too large: %w", err)
	}
	var firstErr error
	tree.Walk(tree.Root(), func(id syntax.NodeID, n *syntax.Node) bool {
		if firstErr != nil {
			return false
		}
		if n.Span.File != file {
			firstErr = fmt.Errorf("node %d: span points to file %d, want %d", id, n.Span.File, file)
			return false
		}
		if n.Span.End < n.Span.Start || n.Span.End > size {
			firstErr = fmt.Errorf("node %d: span %v outside content of %d bytes", id, n.Span, size)
			return false
		}
		if !n.Keyword.Empty() && !n.Span.Contains(n.Keyword) {
			firstErr = fmt.Errorf("node %d: keyword %v not inside span %v", id, n.Keyword, n.Span)
			return false
		}
		for _, child := range n.Children {
			c := tree.Get(child)
			if c != nil && !n.Span.Contains(c.Span) {
				firstErr = fmt.Errorf("node %d: child %d span %v escapes %v", id, child, c.Span, n.Span)
				return false
			}
		}
		return true
	})
	return firstErr
}
