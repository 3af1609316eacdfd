package binder

import (
	"scopebind/internal/symbols"
)

// Chain resolves names by walking from a scope towards the root.
type Chain struct {
	parents map[*symbols.LocalScope]*symbols.LocalScope
}

// Parent returns the enclosing scope of s, or nil for the root.
func (c Chain) Parent(s *symbols.LocalScope) *symbols.LocalScope {
	return c.parents[s]
}

// Resolution is one declaration visible from a scope.
type Resolution struct {
	Symbol *symbols.LocalVariable
	Scope  *symbols.LocalScope
	Depth  int // 0 for the starting scope
}

// Resolve returns the innermost declaration of name visible from s.
func (c Chain) Resolve(s *symbols.LocalScope, name string) (Resolution, bool) {
	for depth, cur := 0, s; cur != nil; depth, cur = depth+1, c.parents[cur] {
		if decls := cur.DeclarationsByName(name); len(decls) > 0 {
			return Resolution{Symbol: decls[0], Scope: cur, Depth: depth}, true
		}
	}
	return Resolution{}, false
}

// ResolveAll returns every visible declaration of name, innermost first.
func (c Chain) ResolveAll(s *symbols.LocalScope, name string) []Resolution {
	var out []Resolution
	for depth, cur := 0, s; cur != nil; depth, cur = depth+1, c.parents[cur] {
		for _, decl := range cur.DeclarationsByName(name) {
			out = append(out, Resolution{Symbol: decl, Scope: cur, Depth: depth})
		}
	}
	return out
}
