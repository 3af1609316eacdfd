package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scopebind/internal/cache"
	"scopebind/internal/diag"
	"scopebind/internal/diagfmt"
	"scopebind/internal/source"
	"scopebind/internal/trace"
	"scopebind/internal/ui"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <fixture.toml>...",
	Short: "Bind fixtures and report their diagnostics",
	Long:  `Bind each fixture, then report gated constructs, duplicate, shadowing and unresolved names. Exits with status 1 when any error is reported.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	diagCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	diagCmd.Flags().Bool("no-context", false, "do not print source lines under diagnostics")
	diagCmd.Flags().Bool("cache", false, "reuse and store results in the on-disk cache")
	diagCmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/scopebind)")
	diagCmd.Flags().Bool("drop-cache", false, "remove every cached result before running")
	diagCmd.Flags().Var(&diagUI, "ui", "show progress while binding (auto|on|off)")
	diagCmd.Flags().Bool("timings", false, "print bind phase timings to stderr")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	noContext, err := cmd.Flags().GetBool("no-context")
	if err != nil {
		return fmt.Errorf("failed to get no-context flag: %w", err)
	}

	dc, err := openCache(cmd)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	var bag *diag.Bag
	if diagUI.showBoard(isTerminal(os.Stdout), isTerminal(os.Stderr)) {
		bag, err = diagnoseWithBoard(cmd, fs, args, dc)
	} else {
		bag, err = diagnoseAll(cmd, fs, args, dc, ui.NopSink{})
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		jsonOpts := diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: withNotes}
		if err := diagfmt.JSON(out, bag, fs, jsonOpts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   !noContext,
			ShowNotes: withNotes,
		})
	}

	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// diagnoseAll processes fixtures one after another; each may install its own
// identifier comparison, so they never overlap. The merged bag is sorted.
func diagnoseAll(cmd *cobra.Command, fs *source.FileSet, paths []string, dc *cache.DiskCache, sink ui.Sink) (*diag.Bag, error) {
	merged := diag.NewBag(len(paths))
	for _, p := range paths {
		sink.Emit(ui.Event{File: p})
		s, err := openSession(cmd, fs, p)
		if err != nil {
			sink.Emit(ui.Event{File: p, Done: true, Result: ui.Result{Failed: true}})
			return nil, err
		}
		out, err := diagnose(cmd, s, dc)
		if err != nil {
			sink.Emit(ui.Event{File: p, Done: true, Result: ui.Result{Failed: true}})
			return nil, err
		}
		sink.Emit(ui.Event{File: p, Done: true, Result: out.result()})
		merged.Merge(out.bag)
	}
	merged.Sort()
	return merged, nil
}

// fixtureOutcome is what diag learned about one fixture.
type fixtureOutcome struct {
	bag    *diag.Bag
	scopes int
	locals int
	cached bool
}

func (o fixtureOutcome) result() ui.Result {
	return ui.Result{
		Scopes:   o.scopes,
		Locals:   o.locals,
		Errors:   o.bag.Count(diag.SevError),
		Warnings: o.bag.Count(diag.SevWarning),
		Cached:   o.cached,
	}
}

// openCache returns nil unless --cache or --drop-cache was given.
func openCache(cmd *cobra.Command) (*cache.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, err
	}
	drop, err := cmd.Flags().GetBool("drop-cache")
	if err != nil {
		return nil, err
	}
	if !enabled && !drop {
		return nil, nil
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	dc, err := cache.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if drop {
		if err := dc.DropAll(); err != nil {
			return nil, fmt.Errorf("drop cache: %w", err)
		}
	}
	if !enabled {
		return nil, nil
	}
	return dc, nil
}

// diagnose serves the bag from dc when possible, otherwise binds and stores
// the summary. A nil dc always binds.
func diagnose(cmd *cobra.Command, s *session, dc *cache.DiskCache) (fixtureOutcome, error) {
	tracer := trace.FromContext(cmd.Context())
	key := s.cacheKey()

	var summary cache.Summary
	hit, err := dc.Get(key, &summary)
	if err != nil {
		// a corrupt entry is rebuilt rather than reported
		trace.Point(tracer, trace.ScopeDriver, "cache", "unreadable entry: "+err.Error(), 0)
	}
	if hit {
		trace.Point(tracer, trace.ScopeDriver, "cache", "hit "+key.String(), 0)
		return fixtureOutcome{
			bag:    summary.Bag(s.fixture.File),
			scopes: len(summary.Scopes),
			locals: summary.Locals(),
			cached: true,
		}, nil
	}

	res, err := s.bind(cmd.Context())
	if err != nil {
		return fixtureOutcome{}, fmt.Errorf("bind failed: %w", err)
	}
	if timings, _ := cmd.Flags().GetBool("timings"); timings {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timings.Summary(s.path))
	}
	fresh := cache.Summarize(res)
	if err := dc.Put(key, fresh); err != nil {
		return fixtureOutcome{}, fmt.Errorf("store cache entry: %w", err)
	}
	return fixtureOutcome{bag: res.Bag, scopes: res.Scopes(), locals: fresh.Locals()}, nil
}
