// Package config loads scopebind.toml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"scopebind/internal/binder"
	"scopebind/internal/ident"
	"scopebind/internal/symbols"
	"scopebind/internal/syntax"
)

// FileName is the configuration file looked up next to fixtures.
const FileName = "scopebind.toml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Lookup struct {
	Comparison string `toml:"comparison"`
	Normalize  bool   `toml:"normalize"`
}

type Gate struct {
	Unsupported []string `toml:"unsupported"`
}

type Binder struct {
	Jobs           int  `toml:"jobs"`
	Shadowing      bool `toml:"shadowing"`
	MaxDiagnostics int  `toml:"max_diagnostics"`
}

// Config mirrors the sections of scopebind.toml.
type Config struct {
	Lookup Lookup `toml:"lookup"`
	Gate   Gate   `toml:"gate"`
	Binder Binder `toml:"binder"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		Lookup: Lookup{Comparison: ident.Ordinal.String()},
		Gate:   Gate{Unsupported: []string{syntax.KindFor.String()}},
		Binder: Binder{Shadowing: true, MaxDiagnostics: 100},
	}
}

// Load reads path on top of Default. Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := ident.ParsePolicy(c.Lookup.Comparison); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.gate(); err != nil {
		errs = append(errs, err)
	}
	if c.Binder.Jobs < 0 {
		errs = append(errs, fmt.Errorf("binder.jobs must not be negative, got %d", c.Binder.Jobs))
	}
	if c.Binder.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("binder.max_diagnostics must not be negative, got %d", c.Binder.MaxDiagnostics))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Comparer returns the identifier comparison policy to install process-wide.
func (c Config) Comparer() (ident.Comparer, error) {
	policy, err := ident.ParsePolicy(c.Lookup.Comparison)
	if err != nil {
		return ident.Comparer{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return ident.Comparer{Policy: policy, Normalize: c.Lookup.Normalize}, nil
}

func (c Config) gate() (symbols.FeatureGate, error) {
	kinds := make([]syntax.Kind, 0, len(c.Gate.Unsupported))
	for _, name := range c.Gate.Unsupported {
		kind, err := syntax.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return symbols.FeatureGate{}, fmt.Errorf("gate.unsupported: %w", err)
		}
		if !kind.IntroducesScope() {
			return symbols.FeatureGate{}, fmt.Errorf("gate.unsupported: %q does not open a scope", name)
		}
		kinds = append(kinds, kind)
	}
	return symbols.NewFeatureGate(kinds...), nil
}

// BinderOptions converts the [binder] and [gate] sections.
func (c Config) BinderOptions() (binder.Options, error) {
	gate, err := c.gate()
	if err != nil {
		return binder.Options{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return binder.Options{
		Gate:           gate,
		Jobs:           c.Binder.Jobs,
		Shadowing:      c.Binder.Shadowing,
		MaxDiagnostics: c.Binder.MaxDiagnostics,
	}, nil
}
