// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"

	"github.com/Annany2002/nebula-canvas/internal/command"
)

// Non-fatal reasons a single command is skipped. They never cross the
// engine boundary as errors; they appear in the Report and the log.
var (
	ErrUnresolvedPath   = errors.New("path did not resolve")
	ErrUnknownPreset    = errors.New("unknown preset")
	ErrComponentExists  = errors.New("component id already exists")
	ErrComponentLimit   = errors.New("component limit reached")
	ErrTargetNotInOrder = errors.New("move target is not in the layout order")
)

// InvalidInputError is returned when the design or the command list fails
// schema validation. Nothing is applied.
type InvalidInputError struct {
	Input string // "design" or "commands"
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Input, e.Err)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// PerCommandFault wraps anything else that went wrong while applying one
// command: a malformed query, a merge into a non-object, a recovered panic,
// or a result that would violate the design schema.
type PerCommandFault struct {
	Op    command.Op
	Cause error
}

func (e *PerCommandFault) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *PerCommandFault) Unwrap() error {
	return e.Cause
}

func fault(op command.Op, format string, args ...any) error {
	return &PerCommandFault{Op: op, Cause: fmt.Errorf(format, args...)}
}

// isSkip reports whether err is one of the benign no-op reasons.
func isSkip(err error) bool {
	return errors.Is(err, ErrUnresolvedPath) ||
		errors.Is(err, ErrUnknownPreset) ||
		errors.Is(err, ErrComponentExists) ||
		errors.Is(err, ErrComponentLimit) ||
		errors.Is(err, ErrTargetNotInOrder)
}
