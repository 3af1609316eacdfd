package symbols

import (
	"iter"

	"scopebind/internal/diag"
)

// Kind classifies the semantic meaning of a symbol. It is fixed at construction.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScope
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindScope:
		return "scope"
	case KindVariable:
		return "variable"
	default:
		return "invalid"
	}
}

// Symbol is the capability set shared by every semantic node produced by binding.
type Symbol interface {
	// Name may be empty for anonymous scopes.
	Name() string
	Kind() Kind
	// Descendants yields the immediate semantic children in declaration order.
	// The sequence is finite and can be ranged over any number of times.
	Descendants() iter.Seq[Symbol]
	// Diagnostics yields the findings for this node only, not its descendants.
	Diagnostics(env *Env) iter.Seq[diag.Diagnostic]
	Accept(v Visitor)
}

// Visitor receives the concrete symbol on Accept.
type Visitor interface {
	VisitLocalScope(s *LocalScope)
	VisitLocalVariable(v *LocalVariable)
}

// VisitorFuncs adapts plain functions to Visitor; nil fields are skipped.
type VisitorFuncs struct {
	LocalScope    func(*LocalScope)
	LocalVariable func(*LocalVariable)
}

func (f VisitorFuncs) VisitLocalScope(s *LocalScope) {
	if f.LocalScope != nil {
		f.LocalScope(s)
	}
}

func (f VisitorFuncs) VisitLocalVariable(v *LocalVariable) {
	if f.LocalVariable != nil {
		f.LocalVariable(v)
	}
}

// Walk visits root and its descendants in pre-order. Returning false from fn
// skips the children of that symbol.
func Walk(root Symbol, fn func(Symbol) bool) {
	if root == nil || !fn(root) {
		return
	}
	for child := range root.Descendants() {
		Walk(child, fn)
	}
}

// CollectDiagnostics aggregates the diagnostics of root and all of its
// descendants: a node's own findings come before those of its children.
func CollectDiagnostics(env *Env, root Symbol) iter.Seq[diag.Diagnostic] {
	return func(yield func(diag.Diagnostic) bool) {
		collect(env, root, yield)
	}
}

func collect(env *Env, sym Symbol, yield func(diag.Diagnostic) bool) bool {
	if sym == nil {
		return true
	}
	for d := range sym.Diagnostics(env) {
		if !yield(d) {
			return false
		}
	}
	for child := range sym.Descendants() {
		if !collect(env, child, yield) {
			return false
		}
	}
	return true
}
