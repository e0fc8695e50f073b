// internal/engine/engine.go
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Annany2002/nebula-canvas/internal/command"
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/logger"
	"github.com/Annany2002/nebula-canvas/internal/preset"
)

var customLog = logger.NewLogger()

// Engine applies command lists to designs. It holds only read-only
// collaborators, so one Engine may serve concurrent callers.
type Engine struct {
	catalog *preset.Catalog
	log     logrus.FieldLogger
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger replaces the package logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine resolving apply_preset against catalog.
func New(catalog *preset.Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: catalog, log: customLog}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the committed design plus what happened to each command.
type Result struct {
	Design design.Design `json:"schema"`
	Report Report        `json:"report"`
}

// ApplyRaw validates a raw design and a raw `{commands: [...]}` document and
// applies the commands. Validation failure is an *InvalidInputError.
func (e *Engine) ApplyRaw(designJSON, commandsJSON []byte) (Result, error) {
	d, err := design.Parse(designJSON)
	if err != nil {
		return Result{}, &InvalidInputError{Input: "design", Err: err}
	}
	list, err := command.ParseList(commandsJSON)
	if err != nil {
		return Result{}, &InvalidInputError{Input: "commands", Err: err}
	}
	return e.Apply(d, list)
}

// Apply runs every command in order against a private copy of d. d is never
// modified. A command that cannot be applied is skipped and recorded in the
// report; it never aborts the batch. The returned design always satisfies
// design.Validate.
func (e *Engine) Apply(d design.Design, list command.List) (Result, error) {
	if err := design.Validate(d); err != nil {
		return Result{}, &InvalidInputError{Input: "design", Err: err}
	}

	draft := d.Clone()
	report := Report{Outcomes: make([]Outcome, 0, len(list.Commands))}

	for i, cmd := range list.Commands {
		next, err := e.step(draft, cmd)
		outcome := Outcome{Index: i, Op: cmd.Op, Status: StatusApplied}
		entry := e.log.WithFields(logrus.Fields{"index": i, "op": cmd.Op})

		switch {
		case err == nil:
			draft = next
			entry.Debug("Engine: command applied")
		case isSkip(err):
			outcome.Status, outcome.Reason = StatusSkipped, err.Error()
			entry.WithError(err).Info("Engine: command skipped")
		default:
			outcome.Status, outcome.Reason = StatusFailed, err.Error()
			entry.WithError(err).Warn("Engine: command failed")
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return Result{Design: draft, Report: report}, nil
}

// step applies cmd to a clone of draft and returns the clone. Any error or
// panic leaves draft as the authoritative state.
func (e *Engine) step(draft design.Design, cmd command.Command) (next design.Design, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PerCommandFault{Op: cmd.Op, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	work := draft.Clone()
	if err := e.dispatch(&work, cmd); err != nil {
		return draft, err
	}
	if err := design.Validate(work); err != nil {
		return draft, &PerCommandFault{Op: cmd.Op, Cause: err}
	}
	return work, nil
}

func (e *Engine) dispatch(d *design.Design, cmd command.Command) error {
	switch cmd.Op {
	case command.OpSetStyle:
		return setStyle(d, cmd)
	case command.OpUpdate:
		return update(d, cmd)
	case command.OpAddComponent:
		return addComponent(d, cmd)
	case command.OpRemoveComponent:
		return removeComponent(d, cmd)
	case command.OpMoveComponent:
		return moveComponent(d, cmd)
	case command.OpReplaceComponent:
		return replaceComponent(d, cmd)
	case command.OpApplyPreset:
		p, ok := e.catalog.Lookup(cmd.Preset)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, cmd.Preset)
		}
		applyPreset(d, p)
		return nil
	default:
		return fault(cmd.Op, "unsupported op")
	}
}
