package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"scopebind/internal/source"
	"scopebind/internal/symbols"
)

var findCmd = &cobra.Command{
	Use:   "find [flags] <fixture.toml> <pattern>",
	Short: "List every local declaration whose name matches a glob pattern",
	Long: `List every local declaration of every scope whose name matches pattern (e.g. "it*", "{a,b}?").
Declarations with malformed names are listed too and marked as invalid.`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().Bool("valid-only", false, "skip declarations with malformed names")
}

func runFind(cmd *cobra.Command, args []string) error {
	validOnly, err := cmd.Flags().GetBool("valid-only")
	if err != nil {
		return fmt.Errorf("failed to get valid-only flag: %w", err)
	}
	g, err := glob.Compile(args[1])
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", args[1], err)
	}

	s, err := openSession(cmd, source.NewFileSet(), args[0])
	if err != nil {
		return err
	}
	res, err := s.bind(cmd.Context())
	if err != nil {
		return fmt.Errorf("bind failed: %w", err)
	}

	matches := findDeclarations(res.Root, g, validOnly)
	writeMatches(cmd.OutOrStdout(), s.fs, matches)
	if len(matches) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no declarations match %q\n", args[1])
	}
	return nil
}

type declMatch struct {
	path []int
	decl *symbols.LocalVariable
}

// findDeclarations visits scopes in pre-order and each scope's locals in
// declaration order.
func findDeclarations(root *symbols.LocalScope, g glob.Glob, validOnly bool) []declMatch {
	var out []declMatch
	var walk func(s *symbols.LocalScope, path []int)
	walk = func(s *symbols.LocalScope, path []int) {
		for _, v := range s.AllDeclarations() {
			if validOnly && !v.NameValid() {
				continue
			}
			if g.Match(v.Name()) {
				out = append(out, declMatch{path: path, decl: v})
			}
		}
		for i := range s.NumChildScopes() {
			walk(s.ChildScope(i), append(path[:len(path):len(path)], i))
		}
	}
	walk(root, nil)
	return out
}

func writeMatches(w io.Writer, fs *source.FileSet, matches []declMatch) {
	for _, m := range matches {
		pos, _ := fs.Resolve(m.decl.Span())
		line := fmt.Sprintf("%s:%d:%d: %s in %s", fileName(fs, m.decl.Span().File), pos.Line, pos.Col, strconv.Quote(m.decl.Name()), formatScopePath(m.path))
		if !m.decl.NameValid() {
			line += " (invalid)"
		}
		fmt.Fprintln(w, line)
	}
}
