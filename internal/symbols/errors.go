package symbols

import "errors"

// ErrInvariantViolation marks a malformed scope tree. It signals a bug in the
// code building the tree, never a problem in user input.
var ErrInvariantViolation = errors.New("scope invariant violation")
