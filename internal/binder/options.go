package binder

import "scopebind/internal/symbols"

// Options tunes a Binder. The zero value runs GOMAXPROCS workers with an empty gate.
type Options struct {
	Gate           symbols.FeatureGate
	Jobs           int  // parallel subtrees; <= 0 means GOMAXPROCS
	Shadowing      bool // warn when a local hides one from an enclosing scope
	MaxDiagnostics int
}

// DefaultOptions mirrors the defaults of the configuration file.
func DefaultOptions() Options {
	return Options{
		Gate:           symbols.DefaultGate(),
		Shadowing:      true,
		MaxDiagnostics: 100,
	}
}
