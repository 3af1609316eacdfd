// Package diag defines the diagnostic records produced by binding.
//
// A Diagnostic carries a Severity, a stable Code, a short Message and the
// primary source.Span it is anchored at, plus optional Notes pointing at
// related locations (e.g. "first declared here").
//
// Producers emit through a Reporter (BagReporter, DedupReporter) or return
// diagnostics as data; they never turn semantic findings into Go errors.
// Rendering lives in the CLI. Consumers must not reinterpret Severity.
package diag
