package symbols

import (
	"errors"
	"fmt"

	"scopebind/internal/syntax"
)

// Validate checks a finished scope tree against the syntax it mirrors and
// aggregates every problem found. It returns nil for a consistent tree.
func Validate(tree *syntax.Tree, root *LocalScope) error {
	if root == nil {
		return fmt.Errorf("%w: nil root scope", ErrInvariantViolation)
	}
	var errs []error
	if err := checkOwnership(root); err != nil {
		// Walking a tree with shared or cyclic nodes below would not terminate cleanly.
		return err
	}
	Walk(root, func(sym Symbol) bool {
		switch sym := sym.(type) {
		case *LocalScope:
			n := tree.Get(sym.enclosing)
			switch {
			case n == nil:
				errs = append(errs, fmt.Errorf("scope %q: enclosing node %d does not exist", sym.name, sym.enclosing))
			case !n.Kind.IntroducesScope() && n.Kind != syntax.KindProgram:
				errs = append(errs, fmt.Errorf("scope %q: enclosing node %d is %s, which opens no scope", sym.name, sym.enclosing, n.Kind))
			}
			for _, child := range sym.children {
				if child.enclosing == sym.enclosing {
					errs = append(errs, fmt.Errorf("scope %q: child %q shares enclosing node %d", sym.name, child.name, sym.enclosing))
				}
			}
		case *LocalVariable:
			n := tree.Get(sym.nameSyntax)
			if n == nil || n.Kind != syntax.KindIdent {
				errs = append(errs, fmt.Errorf("local %q: name node %d is not an identifier", sym.name, sym.nameSyntax))
			} else if n.Text != sym.name || n.Valid != sym.nameValid {
				errs = append(errs, fmt.Errorf("local %q: out of sync with name node %d", sym.name, sym.nameSyntax))
			}
		}
		return true
	})
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvariantViolation, errors.Join(errs...))
}
