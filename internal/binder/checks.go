package binder

import (
	"fmt"

	"scopebind/internal/diag"
	"scopebind/internal/symbols"
	"scopebind/internal/syntax"
)

// checkDeclarations reports duplicate locals within a scope and, when enabled,
// locals that hide a declaration of an enclosing scope.
func (b *Binder) checkDeclarations(res *Result, r diag.Reporter) {
	symbols.Walk(res.Root, func(sym symbols.Symbol) bool {
		scope, ok := sym.(*symbols.LocalScope)
		if !ok {
			return false
		}
		for _, v := range scope.AllDeclarations() {
			if !v.NameValid() {
				continue
			}
			decls := scope.DeclarationsByName(v.Name())
			if first := decls[0]; first != v {
				r.Report(diag.NewError(diag.SemaDuplicateSymbol, v.Span(),
					fmt.Sprintf("'%s' is declared more than once in this scope", v.Name())).
					WithNote(first.Span(), "first declared here"))
				continue
			}
			if !b.opts.Shadowing {
				continue
			}
			if outer, found := res.Resolve(res.Parent(scope), v.Name()); found {
				r.Report(diag.NewWarning(diag.SemaShadowSymbol, v.Span(),
					fmt.Sprintf("'%s' shadows a declaration from an enclosing scope", v.Name())).
					WithNote(outer.Symbol.Span(), "shadowed declaration is here"))
			}
		}
		return true
	})
}

// checkReferences resolves every identifier use against the innermost scope
// that contains it.
func (b *Binder) checkReferences(res *Result, r diag.Reporter) {
	var visit func(id syntax.NodeID, cur *symbols.LocalScope)
	visit = func(id syntax.NodeID, cur *symbols.LocalScope) {
		n := b.tree.Get(id)
		if s, ok := res.byNode[id]; ok {
			cur = s
		}
		if n.Kind == syntax.KindIdent && !n.Decl && n.Valid && n.Text != "" {
			if _, found := res.Resolve(cur, n.Text); !found {
				diag.ReportError(r, diag.SemaUnresolvedSymbol, n.Span,
					fmt.Sprintf("'%s' is not declared in any enclosing scope", n.Text))
			}
		}
		for _, child := range n.Children {
			visit(child, cur)
		}
	}
	visit(b.tree.Root(), res.Root)
}
