// internal/command/codec.go
package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Annany2002/nebula-canvas/internal/design"
)

// ErrInvalidCommand is matched (via errors.Is) by every SchemaValidationError.
var ErrInvalidCommand = errors.New("invalid command list")

// SchemaValidationError describes the first command that failed validation.
// Index is -1 when the envelope itself is malformed.
type SchemaValidationError struct {
	Index   int
	Op      Op
	Message string
}

func (e *SchemaValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidCommand, e.Message)
	}
	if e.Op == "" {
		return fmt.Sprintf("%v: commands[%d]: %s", ErrInvalidCommand, e.Index, e.Message)
	}
	return fmt.Sprintf("%v: commands[%d] (%s): %s", ErrInvalidCommand, e.Index, e.Op, e.Message)
}

func (e *SchemaValidationError) Unwrap() error {
	return ErrInvalidCommand
}

// wireCommand is the JSON shape shared by every op.
type wireCommand struct {
	Op       Op              `json:"op"`
	Path     *string         `json:"path,omitempty"`
	From     *string         `json:"from,omitempty"`
	To       *string         `json:"to,omitempty"`
	Position *Position       `json:"position,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// ParseList decodes and validates a `{ "commands": [...] }` document.
func ParseList(raw []byte) (List, error) {
	var envelope struct {
		Commands []json.RawMessage `json:"commands"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return List{}, &SchemaValidationError{Index: -1, Message: err.Error()}
	}
	if envelope.Commands == nil {
		return List{}, &SchemaValidationError{Index: -1, Message: "commands is required"}
	}

	list := List{Commands: make([]Command, 0, len(envelope.Commands))}
	for i, rawCmd := range envelope.Commands {
		cmd, err := parse(rawCmd)
		if err != nil {
			err.Index = i
			return List{}, err
		}
		list.Commands = append(list.Commands, cmd)
	}
	return list, nil
}

// Parse decodes and validates a single command object.
func Parse(raw []byte) (Command, error) {
	cmd, err := parse(raw)
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// UnmarshalJSON validates while decoding so a List can be bound directly.
func (c *Command) UnmarshalJSON(raw []byte) error {
	cmd, err := parse(raw)
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}

func parse(raw []byte) (Command, *SchemaValidationError) {
	var w wireCommand
	if err := json.Unmarshal(raw, &w); err != nil {
		return Command{}, &SchemaValidationError{Message: err.Error()}
	}
	fail := func(format string, args ...any) (Command, *SchemaValidationError) {
		return Command{}, &SchemaValidationError{Op: w.Op, Message: fmt.Sprintf(format, args...)}
	}

	cmd := Command{Op: w.Op}
	switch w.Op {
	case OpSetStyle:
		if w.Path == nil {
			return fail("path is required")
		}
		patch, err := design.ParseStylePatch(w.Value)
		if err != nil {
			return fail("value: %v", err)
		}
		cmd.Path, cmd.Style = *w.Path, patch

	case OpUpdate:
		if w.Path == nil {
			return fail("path is required")
		}
		fields, err := decodeObject(w.Value)
		if err != nil {
			return fail("value: %v", err)
		}
		cmd.Path, cmd.Fields = *w.Path, fields

	case OpAddComponent:
		c, err := design.ParseComponent(w.Value)
		if err != nil {
			return fail("value: %v", err)
		}
		cmd.Component = c

	case OpRemoveComponent:
		if w.Path == nil {
			return fail("path is required")
		}
		cmd.Path = *w.Path

	case OpMoveComponent:
		if w.From == nil || w.To == nil {
			return fail("from and to are required")
		}
		cmd.From, cmd.To, cmd.Position = *w.From, *w.To, PositionAfter
		if w.Position != nil {
			switch *w.Position {
			case PositionBefore, PositionAfter, PositionInside:
				cmd.Position = *w.Position
			default:
				return fail("position must be one of before, after, inside, got %q", *w.Position)
			}
		}

	case OpReplaceComponent:
		if w.Path == nil {
			return fail("path is required")
		}
		c, err := design.ParseComponent(w.Value)
		if err != nil {
			return fail("value: %v", err)
		}
		cmd.Path, cmd.Component = *w.Path, c

	case OpApplyPreset:
		var key string
		if err := json.Unmarshal(w.Value, &key); err != nil || key == "" {
			return fail("value must be a non-empty preset key")
		}
		cmd.Preset = key

	case "":
		return fail("op is required")

	default:
		return fail("unknown op %q", w.Op)
	}
	return cmd, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("must be a JSON object")
	}
	var out map[string]any
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarshalJSON encodes the command in its wire shape.
func (c Command) MarshalJSON() ([]byte, error) {
	w := wireCommand{Op: c.Op}
	var value any
	switch c.Op {
	case OpSetStyle:
		w.Path, value = &c.Path, c.Style
	case OpUpdate:
		w.Path, value = &c.Path, c.Fields
	case OpAddComponent:
		value = c.Component
	case OpRemoveComponent:
		w.Path = &c.Path
	case OpMoveComponent:
		pos := c.Position
		if pos == "" {
			pos = PositionAfter
		}
		w.From, w.To, w.Position = &c.From, &c.To, &pos
	case OpReplaceComponent:
		w.Path, value = &c.Path, c.Component
	case OpApplyPreset:
		value = c.Preset
	}
	if value != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	return json.Marshal(w)
}
