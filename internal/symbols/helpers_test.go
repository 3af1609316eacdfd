package symbols

import (
	"iter"
	"testing"

	"scopebind/internal/ident"
	"scopebind/internal/source"
	"scopebind/internal/syntax"
)

// fixture builds small syntax trees with predictable spans.
type fixture struct {
	t    *testing.T
	tree *syntax.Tree
	off  uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, tree: syntax.NewTree(0)}
}

func (f *fixture) span(n uint32) source.Span {
	sp := source.Span{Start: f.off, End: f.off + n}
	f.off += n + 1
	return sp
}

func (f *fixture) ident(text string, valid bool) syntax.NodeID {
	return f.tree.New(syntax.Node{Kind: syntax.KindIdent, Text: text, Valid: valid, Decl: true, Span: f.span(uint32(len(text)))})
}

// construct allocates a scope-introducing node; the keyword span is recorded for for/if.
func (f *fixture) construct(kind syntax.Kind, children ...syntax.NodeID) syntax.NodeID {
	kw := f.span(uint32(len(kind.String())))
	return f.tree.New(syntax.Node{Kind: kind, Keyword: kw, Span: kw, Children: children})
}

func (f *fixture) local(declaring, name syntax.NodeID) *LocalVariable {
	f.t.Helper()
	v, err := NewLocalVariable(f.tree, declaring, name)
	if err != nil {
		f.t.Fatalf("NewLocalVariable: %v", err)
	}
	return v
}

// loop builds a for node with the given identifiers and a scope for it.
func (f *fixture) loop(names ...string) (syntax.NodeID, *LocalScope) {
	f.t.Helper()
	ids := make([]syntax.NodeID, len(names))
	for i, n := range names {
		ids[i] = f.ident(n, true)
	}
	node := f.construct(syntax.KindFor, ids...)
	locals := make([]*LocalVariable, len(ids))
	for i, id := range ids {
		locals[i] = f.local(node, id)
	}
	s, err := NewLocalScope("loop", node, locals, nil)
	if err != nil {
		f.t.Fatalf("NewLocalScope: %v", err)
	}
	return node, s
}

func withPolicy(t *testing.T, c ident.Comparer) {
	t.Helper()
	prev := ident.SetDefault(c)
	t.Cleanup(func() { ident.SetDefault(prev) })
}

func collectSeq[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}
