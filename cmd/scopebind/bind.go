package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"scopebind/internal/source"
	"scopebind/internal/symbols"
	"scopebind/internal/syntax"
)

var bindCmd = &cobra.Command{
	Use:   "bind [flags] <fixture.toml>",
	Short: "Print the local scope tree of a fixture",
	Args:  cobra.ExactArgs(1),
	RunE:  runBind,
}

func runBind(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, source.NewFileSet(), args[0])
	if err != nil {
		return err
	}
	res, err := s.bind(cmd.Context())
	if err != nil {
		return fmt.Errorf("bind failed: %w", err)
	}
	renderScopeTree(cmd.OutOrStdout(), s.fixture.Tree, res.Root)
	return nil
}

type scopeRow struct {
	label  string
	path   string
	locals string
}

// renderScopeTree prints one scope per line, indented by depth, followed by
// its child-index path and its locals in aligned columns:
//
//	program          []
//	  for "outer"    [0]  item, 1bad (invalid)
func renderScopeTree(w io.Writer, tree *syntax.Tree, root *symbols.LocalScope) {
	var rows []scopeRow
	var walk func(s *symbols.LocalScope, path []int)
	walk = func(s *symbols.LocalScope, path []int) {
		rows = append(rows, scopeRow{
			label:  scopeLabel(tree, s, len(path)),
			path:   formatScopePath(path),
			locals: localsSummary(s),
		})
		for i := range s.NumChildScopes() {
			walk(s.ChildScope(i), append(path[:len(path):len(path)], i))
		}
	}
	walk(root, nil)

	labelWidth, pathWidth := 0, 0
	for _, r := range rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r.label))
		pathWidth = max(pathWidth, len(r.path))
	}
	for _, r := range rows {
		line := runewidth.FillRight(r.label, labelWidth) + "  " + runewidth.FillRight(r.path, pathWidth)
		if r.locals != "" {
			line += "  " + r.locals
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func scopeLabel(tree *syntax.Tree, s *symbols.LocalScope, depth int) string {
	label := strings.Repeat("  ", depth) + tree.Kind(s.EnclosingSyntax()).String()
	if s.Name() != "" {
		label += " " + strconv.Quote(s.Name())
	}
	return label
}

func localsSummary(s *symbols.LocalScope) string {
	names := make([]string, 0, s.NumLocals())
	for _, v := range s.AllDeclarations() {
		if v.NameValid() {
			names = append(names, v.Name())
		} else {
			names = append(names, v.Name()+" (invalid)")
		}
	}
	return strings.Join(names, ", ")
}

// formatScopePath renders child indices as "[0.2]"; the root is "[]".
func formatScopePath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, ".") + "]"
}

// parseScopePath accepts "", "." or dot-separated child indices such as "0.2".
func parseScopePath(s string) ([]int, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" || s == "." {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	path := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid scope path %q: component %q is not a child index", s, p)
		}
		path[i] = n
	}
	return path, nil
}

// scopeAt follows path from root.
func scopeAt(root *symbols.LocalScope, path []int) (*symbols.LocalScope, error) {
	cur := root
	for depth, i := range path {
		if i >= cur.NumChildScopes() {
			return nil, fmt.Errorf("scope %s has %d child scopes, no index %d",
				formatScopePath(path[:depth]), cur.NumChildScopes(), i)
		}
		cur = cur.ChildScope(i)
	}
	return cur, nil
}
