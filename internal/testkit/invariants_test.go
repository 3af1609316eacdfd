package testkit

import (
	"strings"
	"testing"

	"scopebind/internal/source"
	"scopebind/internal/syntax"
)

func sampleTree(childEnd uint32) *syntax.Tree {
	tree := syntax.NewTree(2)
	x := tree.New(syntax.Node{Kind: syntax.KindIdent, Text: "x", Valid: true, Span: source.Span{File: 1, Start: 4, End: childEnd}})
	loop := tree.New(syntax.Node{
		Kind:     syntax.KindFor,
		Keyword:  source.Span{File: 1, Start: 0, End: 3},
		Span:     source.Span{File: 1, Start: 0, End: 5},
		Children: []syntax.NodeID{x},
	})
	tree.SetRoot(loop)
	return tree
}

func TestCheckSpanInvariants(t *testing.T) {
	content := []byte("for x")
	if err := CheckSpanInvariants(sampleTree(5), 1, content); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	cases := map[string]struct {
		tree    *syntax.Tree
		file    source.FileID
		content []byte
		want    string
	}{
		"child escapes": {sampleTree(6), 1, []byte("for x "), "escapes"},
		"past content":  {sampleTree(5), 1, []byte("for"), "outside content"},
		"wrong file":    {sampleTree(5), 2, content, "points to file"},
		"nil tree":      {nil, 1, content, "nil tree"},
	}
	for name, tc := range cases {
		err := CheckSpanInvariants(tc.tree, tc.file, tc.content)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, want %q", name, err, tc.want)
		}
	}
}
