package automaton

import (
	"github.com/pkg/errors"
)

// Invalid-argument conditions surfaced to callers.  Contract
// violations by construction collaborators (out-of-range decision
// indices, queries before the graph is populated) panic instead; they
// indicate a defect, not a recoverable state.
var (
	ErrStateIndexRange = errors.New("state index out of range")
	ErrDuplicateMode   = errors.New("mode already defined")
)
