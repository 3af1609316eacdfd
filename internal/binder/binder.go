package binder

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"scopebind/internal/diag"
	"scopebind/internal/observ"
	"scopebind/internal/symbols"
	"scopebind/internal/syntax"
	"scopebind/internal/trace"
)

// Result is the outcome of binding one syntax tree.
type Result struct {
	Chain
	Root *symbols.LocalScope
	Env  *symbols.Env
	Bag  *diag.Bag
	// Timings holds the duration of each bind phase.
	Timings observ.Report

	byNode map[syntax.NodeID]*symbols.LocalScope
}

// ScopeFor returns the final scope opened by node, if any.
func (r *Result) ScopeFor(node syntax.NodeID) (*symbols.LocalScope, bool) {
	s, ok := r.byNode[node]
	return s, ok
}

// Scopes returns the number of scopes in the bound tree.
func (r *Result) Scopes() int { return len(r.byNode) }

// Binder builds scope trees for one syntax tree.
type Binder struct {
	tree *syntax.Tree
	opts Options
}

func New(tree *syntax.Tree, opts Options) *Binder {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	return &Binder{tree: tree, opts: opts}
}

// Bind builds the scope tree rooted at the tree's root node and collects
// semantic diagnostics. A returned error means the scope tree could not be
// built (an internal error); user-facing problems are only ever in Result.Bag.
func (b *Binder) Bind(ctx context.Context) (*Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "bind", 0)
	timer := observ.NewTimer()

	rootID := b.tree.Root()
	if b.tree.Get(rootID) == nil {
		span.End("no root")
		return nil, fmt.Errorf("%w: syntax tree has no root", symbols.ErrInvariantViolation)
	}

	w := &walker{
		tree:   b.tree,
		sem:    semaphore.NewWeighted(int64(b.opts.Jobs - 1)),
		tracer: tracer,
	}
	var root *symbols.LocalScope
	err := timer.Measure("build", func() (err error) {
		root, err = w.bindScope(ctx, rootID, span.ID())
		return err
	})
	if err != nil {
		span.End("failed")
		return nil, err
	}

	res := &Result{
		Chain:  Chain{parents: make(map[*symbols.LocalScope]*symbols.LocalScope)},
		Root:   root,
		Env:    &symbols.Env{Tree: b.tree, Gate: b.opts.Gate},
		Bag:    diag.NewBag(b.opts.MaxDiagnostics),
		byNode: make(map[syntax.NodeID]*symbols.LocalScope),
	}
	res.index(root, nil)

	if err := timer.Measure("validate", func() error { return symbols.Validate(b.tree, root) }); err != nil {
		span.End("invalid")
		return nil, err
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	gate := timer.Begin("gate")
	for d := range symbols.CollectDiagnostics(res.Env, root) {
		reporter.Report(d)
	}
	timer.End(gate, "")
	checks := timer.Begin("checks")
	b.checkDeclarations(res, reporter)
	b.checkReferences(res, reporter)
	res.Bag.Sort()
	timer.End(checks, "")
	res.Timings = timer.Report()

	span.WithExtra("scopes", strconv.Itoa(res.Scopes())).
		WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).
		End("")
	return res, nil
}

func (r *Result) index(s, parent *symbols.LocalScope) {
	r.byNode[s.EnclosingSyntax()] = s
	if parent != nil {
		r.parents[s] = parent
	}
	for _, child := range s.ChildScopes() {
		r.index(child, s)
	}
}

// walker carries the state shared by concurrent subtree builds.
type walker struct {
	tree   *syntax.Tree
	sem    *semaphore.Weighted
	tracer trace.Tracer
}

// bindScope builds the scope opened by id together with all nested scopes.
// parent is the trace span of the enclosing scope.
func (w *walker) bindScope(ctx context.Context, id syntax.NodeID, parent uint64) (*symbols.LocalScope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := w.tree.Get(id)
	if n == nil {
		return nil, fmt.Errorf("%w: scope node %d does not exist", symbols.ErrInvariantViolation, id)
	}
	span := trace.Begin(w.tracer, trace.ScopeNode, n.Kind.String(), parent)
	defer span.End("")

	decls, nested := w.contents(n)
	locals := make([]*symbols.LocalVariable, 0, len(decls))
	for _, decl := range decls {
		v, err := symbols.NewLocalVariable(w.tree, id, decl)
		if err != nil {
			return nil, fmt.Errorf("bind %s node %d: %w", n.Kind, id, err)
		}
		locals = append(locals, v)
	}
	scope, err := symbols.NewLocalScope(n.Text, id, locals, nil)
	if err != nil {
		return nil, fmt.Errorf("bind %s node %d: %w", n.Kind, id, err)
	}
	span.WithExtra("locals", strconv.Itoa(len(locals)))
	if len(nested) == 0 {
		return scope, nil
	}
	children, err := w.bindAll(ctx, nested, span.ID())
	if err != nil {
		return nil, err
	}
	// Join: graft all finished children in one step.
	scope, err = scope.ReplaceChildren(children)
	if err != nil {
		return nil, fmt.Errorf("bind %s node %d: %w", n.Kind, id, err)
	}
	span.WithExtra("children", strconv.Itoa(len(children)))
	return scope, nil
}

// bindAll binds the given subtrees and returns their scopes in input order.
// Subtrees run on spare workers when available and inline otherwise, so nested
// calls never wait on a slot held by their own ancestors.
func (w *walker) bindAll(ctx context.Context, ids []syntax.NodeID, parent uint64) ([]*symbols.LocalScope, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	out := make([]*symbols.LocalScope, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		if i < len(ids)-1 && w.sem.TryAcquire(1) {
			g.Go(func() error {
				defer w.sem.Release(1)
				s, err := w.bindScope(gctx, id, parent)
				out[i] = s
				return err
			})
			continue
		}
		s, err := w.bindScope(gctx, id, parent)
		if err != nil {
			cancel()
			// A worker's failure is what cancelled this one, if anything did.
			if werr := g.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
				return nil, werr
			}
			return nil, err
		}
		out[i] = s
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// contents splits what n owns into declared identifiers and the
// scope-introducing nodes nested in it. Both look through constructs that do
// not open a scope themselves (if, expressions) and stop at nested scopes,
// whose contents belong to them.
func (w *walker) contents(n *syntax.Node) (decls, nested []syntax.NodeID) {
	for _, child := range n.Children {
		w.tree.Walk(child, func(id syntax.NodeID, c *syntax.Node) bool {
			switch {
			case c.Kind.IntroducesScope():
				nested = append(nested, id)
				return false
			case c.Kind == syntax.KindIdent && c.Decl:
				decls = append(decls, id)
			}
			return true
		})
	}
	return decls, nested
}
