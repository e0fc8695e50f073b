// internal/command/command.go
package command

import (
	"github.com/Annany2002/nebula-canvas/internal/design"
)

// Op tags the kind of edit a Command performs.
type Op string

const (
	OpSetStyle         Op = "set_style"
	OpUpdate           Op = "update"
	OpAddComponent     Op = "add_component"
	OpRemoveComponent  Op = "remove_component"
	OpMoveComponent    Op = "move_component"
	OpReplaceComponent Op = "replace_component"
	OpApplyPreset      Op = "apply_preset"
)

// Ops lists every accepted op tag.
var Ops = []Op{
	OpSetStyle, OpUpdate, OpAddComponent, OpRemoveComponent,
	OpMoveComponent, OpReplaceComponent, OpApplyPreset,
}

// Position is where move_component places the moved id relative to the target.
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	// PositionInside is accepted but the layout is flat, so it behaves like after.
	PositionInside Position = "inside"
)

// Command is one requested edit. Only the fields used by Op are meaningful:
//
//	set_style          Path, Style
//	update             Path, Fields
//	add_component      Component
//	remove_component   Path
//	move_component     From, To, Position
//	replace_component  Path, Component
//	apply_preset       Preset
type Command struct {
	Op        Op
	Path      string
	From      string
	To        string
	Position  Position
	Style     design.StylePatch
	Fields    map[string]any
	Component design.Component
	Preset    string
}

// List is the translator's output envelope.
type List struct {
	Commands []Command `json:"commands"`
}

func SetStyle(path string, patch design.StylePatch) Command {
	return Command{Op: OpSetStyle, Path: path, Style: patch}
}

func Update(path string, fields map[string]any) Command {
	return Command{Op: OpUpdate, Path: path, Fields: fields}
}

func AddComponent(c design.Component) Command {
	return Command{Op: OpAddComponent, Component: c}
}

func RemoveComponent(path string) Command {
	return Command{Op: OpRemoveComponent, Path: path}
}

func MoveComponent(from, to string, position Position) Command {
	if position == "" {
		position = PositionAfter
	}
	return Command{Op: OpMoveComponent, From: from, To: to, Position: position}
}

func ReplaceComponent(path string, c design.Component) Command {
	return Command{Op: OpReplaceComponent, Path: path, Component: c}
}

func ApplyPreset(key string) Command {
	return Command{Op: OpApplyPreset, Preset: key}
}
