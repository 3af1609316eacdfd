package syntax

import (
	"testing"

	"scopebind/internal/source"
)

func TestTreeAllocation(t *testing.T) {
	tree := NewTree(0)
	item := tree.New(Node{Kind: KindIdent, Text: "item", Valid: true, Decl: true})
	loop := tree.New(Node{Kind: KindFor, Keyword: source.Span{Start: 0, End: 3}, Children: []NodeID{item}})
	tree.SetRoot(loop)

	if tree.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tree.Len())
	}
	if tree.Root() != loop || tree.Kind(loop) != KindFor {
		t.Fatalf("unexpected root %d (%s)", tree.Root(), tree.Kind(tree.Root()))
	}
	if tree.Get(NoNodeID) != nil || tree.Get(3) != nil {
		t.Fatalf("invalid IDs must resolve to nil")
	}
	if tree.Kind(42) != KindInvalid {
		t.Fatalf("unknown node kind should be invalid")
	}
}

func TestTreeRejectsForwardChildren(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for forward child reference")
		}
	}()
	NewTree(0).New(Node{Kind: KindBlock, Children: []NodeID{5}})
}

func TestTreeWalkOrder(t *testing.T) {
	tree := NewTree(0)
	a := tree.New(Node{Kind: KindIdent, Text: "a"})
	b := tree.New(Node{Kind: KindIdent, Text: "b"})
	inner := tree.New(Node{Kind: KindBlock, Children: []NodeID{b}})
	root := tree.New(Node{Kind: KindProgram, Children: []NodeID{a, inner}})

	var order []NodeID
	tree.Walk(root, func(id NodeID, _ *Node) bool {
		order = append(order, id)
		return true
	})
	want := []NodeID{root, a, inner, b}
	if len(order) != len(want) {
		t.Fatalf("walk = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk = %v, want %v", order, want)
		}
	}

	var pruned int
	tree.Walk(root, func(_ NodeID, n *Node) bool {
		pruned++
		return n.Kind != KindBlock
	})
	if pruned != 3 {
		t.Fatalf("pruned walk visited %d nodes, want 3", pruned)
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for k := KindProgram; k <= KindExpr; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("invalid"); err == nil {
		t.Fatalf("invalid must not parse")
	}
	if !KindFor.IntroducesScope() || KindIf.IntroducesScope() {
		t.Fatalf("IntroducesScope mismatch")
	}
}
