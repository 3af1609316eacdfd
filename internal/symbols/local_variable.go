package symbols

import (
	"fmt"
	"iter"

	"scopebind/internal/diag"
	"scopebind/internal/source"
	"scopebind/internal/syntax"
)

// LocalVariable is an identifier bound by a loop, lambda or block.
type LocalVariable struct {
	name       string
	nameValid  bool
	nameSpan   source.Span
	nameSyntax syntax.NodeID
	declaring  syntax.NodeID
}

// NewLocalVariable binds the identifier node nameNode declared by the construct declaring.
// The identifier text and its validity flag are captured from the tree; the tree itself is
// not retained.
func NewLocalVariable(tree *syntax.Tree, declaring, nameNode syntax.NodeID) (*LocalVariable, error) {
	n := tree.Get(nameNode)
	if n == nil {
		return nil, fmt.Errorf("%w: local name node %d does not exist", ErrInvariantViolation, nameNode)
	}
	if n.Kind != syntax.KindIdent {
		return nil, fmt.Errorf("%w: local name node %d is %s, not an identifier", ErrInvariantViolation, nameNode, n.Kind)
	}
	if tree.Get(declaring) == nil {
		return nil, fmt.Errorf("%w: declaring node %d does not exist", ErrInvariantViolation, declaring)
	}
	return &LocalVariable{
		name:       n.Text,
		nameValid:  n.Valid,
		nameSpan:   n.Span,
		nameSyntax: nameNode,
		declaring:  declaring,
	}, nil
}

func (v *LocalVariable) Name() string { return v.name }

func (v *LocalVariable) Kind() Kind { return KindVariable }

// NameSyntax is the identifier node that declared the variable.
func (v *LocalVariable) NameSyntax() syntax.NodeID { return v.nameSyntax }

// DeclaringSyntax is the construct (loop, lambda, block) that declared the variable.
func (v *LocalVariable) DeclaringSyntax() syntax.NodeID { return v.declaring }

// NameValid mirrors the parser's flag for a well-formed identifier.
func (v *LocalVariable) NameValid() bool { return v.nameValid }

func (v *LocalVariable) Span() source.Span { return v.nameSpan }

func (v *LocalVariable) Descendants() iter.Seq[Symbol] {
	return func(func(Symbol) bool) {}
}

func (v *LocalVariable) Diagnostics(*Env) iter.Seq[diag.Diagnostic] {
	return func(func(diag.Diagnostic) bool) {}
}

func (v *LocalVariable) Accept(visitor Visitor) { visitor.VisitLocalVariable(v) }

func (v *LocalVariable) String() string {
	if !v.nameValid {
		return fmt.Sprintf("%s (invalid)", v.name)
	}
	return v.name
}
