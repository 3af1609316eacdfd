package symbols

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"scopebind/internal/diag"
	"scopebind/internal/ident"
	"scopebind/internal/syntax"
)

// LocalScope is a scope that declares local symbols, such as the item and
// index variables of a loop. A LocalScope is an immutable value: rewrites
// produce a new scope and leave the receiver untouched, so any number of
// readers may share it without locking.
type LocalScope struct {
	name      string
	enclosing syntax.NodeID
	locals    []*LocalVariable
	children  []*LocalScope
}

// NewLocalScope builds a scope for the construct enclosing. The locals and
// children slices are copied, so later changes by the caller are not observed.
//
// It fails with ErrInvariantViolation when enclosing is missing, when an entry
// is nil, or when a child scope or local would be owned twice (including a
// scope reachable from itself).
func NewLocalScope(name string, enclosing syntax.NodeID, locals []*LocalVariable, children []*LocalScope) (*LocalScope, error) {
	if !enclosing.IsValid() {
		return nil, fmt.Errorf("%w: scope %q has no enclosing syntax", ErrInvariantViolation, name)
	}
	s := &LocalScope{
		name:      name,
		enclosing: enclosing,
		locals:    slices.Clip(slices.Clone(locals)),
		children:  slices.Clip(slices.Clone(children)),
	}
	if err := checkOwnership(s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustLocalScope is NewLocalScope for builders that treat a malformed tree as an
// internal compiler error.
func MustLocalScope(name string, enclosing syntax.NodeID, locals []*LocalVariable, children []*LocalScope) *LocalScope {
	s, err := NewLocalScope(name, enclosing, locals, children)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *LocalScope) Name() string { return s.name }

func (s *LocalScope) Kind() Kind { return KindScope }

// EnclosingSyntax is the construct that introduced the scope.
func (s *LocalScope) EnclosingSyntax() syntax.NodeID { return s.enclosing }

// Locals returns the declared variables in declaration order.
func (s *LocalScope) Locals() []*LocalVariable { return slices.Clone(s.locals) }

// ChildScopes returns the nested scopes in source order.
func (s *LocalScope) ChildScopes() []*LocalScope { return slices.Clone(s.children) }

func (s *LocalScope) NumLocals() int { return len(s.locals) }

func (s *LocalScope) NumChildScopes() int { return len(s.children) }

// ChildScope returns the i-th nested scope or nil when out of range.
func (s *LocalScope) ChildScope(i int) *LocalScope {
	if i < 0 || i >= len(s.children) {
		return nil
	}
	return s.children[i]
}

// ReplaceChildren returns a scope with the same name, enclosing syntax and
// locals as s but with newChildren as its nested scopes. s is not modified and
// shares its locals with the result.
func (s *LocalScope) ReplaceChildren(newChildren []*LocalScope) (*LocalScope, error) {
	next := &LocalScope{
		name:      s.name,
		enclosing: s.enclosing,
		locals:    s.locals,
		children:  slices.Clip(slices.Clone(newChildren)),
	}
	if err := checkOwnership(next); err != nil {
		return nil, err
	}
	return next, nil
}

// DeclarationsByName returns the locals of this scope named name under the
// process-wide identifier comparison policy. Locals whose identifier the parser
// flagged as malformed never match. Parent and child scopes are not searched;
// an empty result is an ordinary miss.
func (s *LocalScope) DeclarationsByName(name string) []*LocalVariable {
	cmp := ident.Default()
	var out []*LocalVariable
	for _, v := range s.locals {
		if v.nameValid && cmp.Equal(v.name, name) {
			out = append(out, v)
		}
	}
	return out
}

// AllDeclarations returns every local, including those with malformed names.
func (s *LocalScope) AllDeclarations() []*LocalVariable { return s.Locals() }

// Descendants yields the child scopes followed by the locals.
func (s *LocalScope) Descendants() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		for _, child := range s.children {
			if !yield(child) {
				return
			}
		}
		for _, v := range s.locals {
			if !yield(v) {
				return
			}
		}
	}
}

// Diagnostics reports FutConstructNotSupported, anchored at the construct's
// keyword, when the enclosing construct is gated in env. Constructs outside the
// gate produce nothing.
func (s *LocalScope) Diagnostics(env *Env) iter.Seq[diag.Diagnostic] {
	return func(yield func(diag.Diagnostic) bool) {
		if env == nil {
			return
		}
		n := env.Tree.Get(s.enclosing)
		if n == nil || !env.Gate.Unsupported(n.Kind) {
			return
		}
		yield(diag.NewError(
			diag.FutConstructNotSupported,
			keywordSpan(n),
			fmt.Sprintf("%s are not supported yet", constructLabel(n.Kind)),
		))
	}
}

func (s *LocalScope) Accept(v Visitor) { v.VisitLocalScope(s) }

func (s *LocalScope) String() string {
	names := make([]string, len(s.locals))
	for i, v := range s.locals {
		names[i] = v.String()
	}
	label := s.name
	if label == "" {
		label = "<anonymous>"
	}
	return fmt.Sprintf("%s@%d{%s; %d children}", label, s.enclosing, strings.Join(names, ", "), len(s.children))
}

// checkOwnership walks the subtree under s and rejects nil entries as well as
// any scope or local reached twice. Revisiting a scope also covers cycles.
func checkOwnership(s *LocalScope) error {
	scopes := make(map[*LocalScope]struct{})
	locals := make(map[*LocalVariable]struct{})
	var walk func(*LocalScope) error
	walk = func(cur *LocalScope) error {
		if _, seen := scopes[cur]; seen {
			return fmt.Errorf("%w: scope %q is reachable more than once", ErrInvariantViolation, cur.name)
		}
		scopes[cur] = struct{}{}
		for i, v := range cur.locals {
			if v == nil {
				return fmt.Errorf("%w: scope %q has nil local at %d", ErrInvariantViolation, cur.name, i)
			}
			if _, seen := locals[v]; seen {
				return fmt.Errorf("%w: local %q is owned by more than one scope", ErrInvariantViolation, v.name)
			}
			locals[v] = struct{}{}
		}
		for i, child := range cur.children {
			if child == nil {
				return fmt.Errorf("%w: scope %q has nil child at %d", ErrInvariantViolation, cur.name, i)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(s)
}
