package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scopebind/internal/binder"
	"scopebind/internal/cache"
	"scopebind/internal/config"
	"scopebind/internal/fixture"
	"scopebind/internal/ident"
	"scopebind/internal/source"
	"scopebind/internal/version"
)

// session is one fixture loaded under one configuration.
type session struct {
	path    string
	raw     []byte
	cfg     config.Config
	opts    binder.Options
	fs      *source.FileSet
	fixture *fixture.Fixture
}

// openSession loads configuration and the fixture at path into fs, installs
// the configured identifier comparison and applies flag overrides.
func openSession(cmd *cobra.Command, fs *source.FileSet, path string) (*session, error) {
	cfg, err := loadConfig(cmd, path)
	if err != nil {
		return nil, err
	}
	cmp, err := cfg.Comparer()
	if err != nil {
		return nil, err
	}
	ident.SetDefault(cmp)

	opts, err := cfg.BinderOptions()
	if err != nil {
		return nil, err
	}
	flags := cmd.Root().PersistentFlags()
	if jobs, err := flags.GetInt("jobs"); err != nil {
		return nil, err
	} else if jobs >= 0 {
		opts.Jobs = jobs
	}
	if maxDiags, err := flags.GetInt("max-diagnostics"); err != nil {
		return nil, err
	} else if maxDiags > 0 {
		opts.MaxDiagnostics = maxDiags
	}

	// #nosec G304 -- path is provided by the user
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	fx, err := fixture.Load(fs, path)
	if err != nil {
		return nil, err
	}
	return &session{path: path, raw: raw, cfg: cfg, opts: opts, fs: fs, fixture: fx}, nil
}

// loadConfig honours --config, then scopebind.toml next to the fixture, then defaults.
func loadConfig(cmd *cobra.Command, fixturePath string) (config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if explicit != "" {
		return config.Load(explicit)
	}
	candidate := filepath.Join(filepath.Dir(fixturePath), config.FileName)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return config.Config{}, err
	}
	return config.Load(candidate)
}

func (s *session) bind(ctx context.Context) (*binder.Result, error) {
	return binder.New(s.fixture.Tree, s.opts).Bind(ctx)
}

// cacheKey covers the fixture text, the effective settings and the binary
// version. Jobs is left out since it never changes the result.
func (s *session) cacheKey() cache.Digest {
	settings := fmt.Sprintf("%+v|gate=%v|shadow=%t|max=%d",
		s.cfg.Lookup, s.opts.Gate.Kinds(), s.opts.Shadowing, s.opts.MaxDiagnostics)
	return cache.Key(s.raw, []byte(settings), []byte(version.Version))
}
