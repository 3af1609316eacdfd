package syntax

import (
	"fmt"

	"fortio.org/safecast"

	"scopebind/internal/source"
)

// NodeID addresses a node in a Tree. The zero value means "no node".
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is one syntax node. Nodes are owned by the Tree and never mutated by binding.
type Node struct {
	Kind     Kind
	Span     source.Span
	Keyword  source.Span // introducing keyword token, if any
	Text     string      // identifier text, or the optional label of a construct
	Valid    bool        // false when the parser recovered from a malformed identifier
	Decl     bool        // identifier declares a local rather than referencing one
	Children []NodeID
}

// Tree is an append-only arena of nodes with 1-based IDs.
type Tree struct {
	nodes []Node
	root  NodeID
}

// NewTree allocates a tree with an optional capacity hint.
func NewTree(capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Tree{nodes: make([]Node, 0, capHint)}
}

// New appends n and returns its ID. Children must already exist in the tree.
func (t *Tree) New(n Node) NodeID {
	value, err := safecast.Conv[uint32](len(t.nodes) + 1)
	if err != nil {
		panic(fmt.Errorf("syntax arena overflow: %w", err))
	}
	for _, child := range n.Children {
		if !child.IsValid() || int(child) >= int(value) {
			panic(fmt.Errorf("syntax.Tree.New: child %d does not precede node %d", child, value))
		}
	}
	t.nodes = append(t.nodes, n)
	return NodeID(value)
}

// Get returns the node for id or nil when id is not allocated.
func (t *Tree) Get(id NodeID) *Node {
	if t == nil || !id.IsValid() || int(id) > len(t.nodes) {
		return nil
	}
	return &t.nodes[id-1]
}

// Kind returns the node kind or KindInvalid for unknown IDs.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) SetRoot(id NodeID) {
	if t.Get(id) == nil {
		panic(fmt.Errorf("syntax.Tree.SetRoot: unknown node %d", id))
	}
	t.root = id
}

// Walk visits id and its descendants in pre-order. Returning false from fn skips the children.
func (t *Tree) Walk(id NodeID, fn func(NodeID, *Node) bool) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if !fn(id, n) {
		return
	}
	for _, child := range n.Children {
		t.Walk(child, fn)
	}
}
