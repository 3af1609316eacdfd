// Package ident holds the identifier comparison policy shared by every name
// lookup in the process.
package ident

import (
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Policy selects how identifier text is compared.
type Policy uint8

const (
	// Ordinal compares identifiers byte for byte.
	Ordinal Policy = iota
	// OrdinalIgnoreCase compares identifiers after Unicode case folding.
	OrdinalIgnoreCase
)

func (p Policy) String() string {
	switch p {
	case Ordinal:
		return "ordinal"
	case OrdinalIgnoreCase:
		return "ordinal-ignore-case"
	default:
		return "unknown"
	}
}

// ParsePolicy converts the textual form used in configuration files.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ordinal", "case-sensitive":
		return Ordinal, nil
	case "ordinal-ignore-case", "case-insensitive":
		return OrdinalIgnoreCase, nil
	default:
		return Ordinal, fmt.Errorf("invalid identifier comparison %q (expected: ordinal|ordinal-ignore-case)", s)
	}
}

// Comparer matches identifiers under a Policy, optionally NFC-normalising first.
type Comparer struct {
	Policy    Policy
	Normalize bool
}

// Key returns the canonical form of s; two identifiers match iff their keys are equal.
func (c Comparer) Key(s string) string {
	if c.Normalize {
		s = norm.NFC.String(s)
	}
	if c.Policy == OrdinalIgnoreCase {
		s = cases.Fold().String(s)
	}
	return s
}

// Equal reports whether a and b name the same identifier.
func (c Comparer) Equal(a, b string) bool {
	if c.Policy == Ordinal && !c.Normalize {
		return a == b
	}
	return c.Key(a) == c.Key(b)
}

func (c Comparer) String() string {
	if c.Normalize {
		return c.Policy.String() + "+nfc"
	}
	return c.Policy.String()
}

var current atomic.Pointer[Comparer]

func init() {
	current.Store(&Comparer{Policy: Ordinal})
}

// Default returns the process-wide comparer.
func Default() Comparer {
	return *current.Load()
}

// SetDefault replaces the process-wide comparer and returns the previous one.
// It is meant to be called once at start-up, before binding begins.
func SetDefault(c Comparer) Comparer {
	prev := current.Swap(&c)
	return *prev
}

// Equal compares a and b under the process-wide policy.
func Equal(a, b string) bool {
	return Default().Equal(a, b)
}
