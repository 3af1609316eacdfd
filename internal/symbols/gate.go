package symbols

import (
	"fmt"

	"scopebind/internal/source"
	"scopebind/internal/syntax"
)

// FeatureGate is the set of scope-introducing constructs that the front end
// accepts but code generation does not handle yet. Scopes opened by a gated
// construct report FutConstructNotSupported. The zero value gates nothing.
type FeatureGate struct {
	mask uint64
}

// NewFeatureGate gates exactly the given kinds.
func NewFeatureGate(kinds ...syntax.Kind) FeatureGate {
	var g FeatureGate
	for _, k := range kinds {
		if k >= 64 {
			panic(fmt.Sprintf("syntax kind %d does not fit a feature gate", k))
		}
		g.mask |= 1 << k
	}
	return g
}

// DefaultGate gates for-loops, which have no code generation yet.
func DefaultGate() FeatureGate {
	return NewFeatureGate(syntax.KindFor)
}

// Unsupported reports whether scopes opened by kind must be rejected.
func (g FeatureGate) Unsupported(kind syntax.Kind) bool {
	return kind < 64 && g.mask&(1<<kind) != 0
}

func (g FeatureGate) Empty() bool { return g.mask == 0 }

// Kinds lists the gated kinds in ascending order.
func (g FeatureGate) Kinds() []syntax.Kind {
	var out []syntax.Kind
	for k := syntax.Kind(0); k < 64; k++ {
		if g.Unsupported(k) {
			out = append(out, k)
		}
	}
	return out
}

// Without returns a copy of g that no longer gates kinds.
func (g FeatureGate) Without(kinds ...syntax.Kind) FeatureGate {
	for _, k := range kinds {
		if k < 64 {
			g.mask &^= 1 << k
		}
	}
	return g
}

// Env is what diagnostics are computed against: the syntax arena the scopes
// point into and the active feature gate.
type Env struct {
	Tree *syntax.Tree
	Gate FeatureGate
}

// NewEnv returns an environment with the default gate.
func NewEnv(tree *syntax.Tree) *Env {
	return &Env{Tree: tree, Gate: DefaultGate()}
}

func constructLabel(kind syntax.Kind) string {
	switch kind {
	case syntax.KindFor:
		return "for-loops"
	case syntax.KindLambda:
		return "lambda expressions"
	case syntax.KindBlock:
		return "block scopes"
	default:
		return kind.String() + " constructs"
	}
}

// keywordSpan anchors construct diagnostics at the introducing keyword when the
// parser recorded one.
func keywordSpan(n *syntax.Node) source.Span {
	if !n.Keyword.Empty() {
		return n.Keyword
	}
	return n.Span
}
