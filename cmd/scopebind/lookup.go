package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"scopebind/internal/binder"
	"scopebind/internal/source"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [flags] <fixture.toml> <scope-path> <name>",
	Short: "Resolve a name from a scope outwards",
	Long: `Resolve name starting at the scope addressed by scope-path, a dot-separated list of child
indices from the root ("." for the root itself, "0.1" for the second child of the first child).
The innermost visible declaration is printed; --all prints every visible one, innermost first.`,
	Args: cobra.ExactArgs(3),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().Bool("all", false, "print every visible declaration, including shadowed ones")
	lookupCmd.Flags().Bool("local", false, "only search the addressed scope itself")
}

func runLookup(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	local, err := cmd.Flags().GetBool("local")
	if err != nil {
		return fmt.Errorf("failed to get local flag: %w", err)
	}
	path, err := parseScopePath(args[1])
	if err != nil {
		return err
	}

	s, err := openSession(cmd, source.NewFileSet(), args[0])
	if err != nil {
		return err
	}
	res, err := s.bind(cmd.Context())
	if err != nil {
		return fmt.Errorf("bind failed: %w", err)
	}
	scope, err := scopeAt(res.Root, path)
	if err != nil {
		return err
	}

	name := args[2]
	var found []binder.Resolution
	switch {
	case local:
		for _, v := range scope.DeclarationsByName(name) {
			found = append(found, binder.Resolution{Symbol: v, Scope: scope})
		}
	case all:
		found = res.ResolveAll(scope, name)
	default:
		if r, ok := res.Resolve(scope, name); ok {
			found = append(found, r)
		}
	}
	if !all && len(found) > 1 {
		found = found[:1]
	}

	if len(found) == 0 {
		return fmt.Errorf("%s is not declared in scope %s or any enclosing scope",
			strconv.Quote(name), formatScopePath(path))
	}
	writeResolutions(cmd.OutOrStdout(), s.fs, path, found)
	return nil
}

func writeResolutions(w io.Writer, fs *source.FileSet, from []int, found []binder.Resolution) {
	for _, r := range found {
		// Depth counts steps towards the root
		declScope := from[:max(len(from)-r.Depth, 0)]
		pos, _ := fs.Resolve(r.Symbol.Span())
		fmt.Fprintf(w, "%s:%d:%d: %s declared in %s (depth %d)\n",
			fileName(fs, r.Symbol.Span().File), pos.Line, pos.Col,
			strconv.Quote(r.Symbol.Name()), formatScopePath(declScope), r.Depth)
	}
}

func fileName(fs *source.FileSet, id source.FileID) string {
	if f := fs.Get(id); f != nil {
		return f.Path
	}
	return "<unknown>"
}
