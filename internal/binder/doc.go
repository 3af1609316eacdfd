// Package binder walks a syntax tree and produces the tree of local scopes
// that mirrors it.
//
// Scopes are built depth-first. A scope is first created with its locals and
// no children; once every nested scope is finished it is grafted with a single
// ReplaceChildren call. Sibling subtrees touch disjoint data and are bound
// concurrently, bounded by Options.Jobs.
//
// Name resolution across scopes lives here rather than in symbols.LocalScope,
// which only answers for its own locals: Chain walks the parent links the
// binder records.
package binder
