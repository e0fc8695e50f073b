// api/models/canvas_models.go
package models

import (
	"encoding/json"

	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/engine"
)

// --- Schema Request/Response Structs ---

// SaveSchemaRequest replaces the caller's stored design. When History is
// sent it replaces the stored history too; otherwise Schema is pushed onto it.
type SaveSchemaRequest struct {
	Schema       json.RawMessage   `json:"schema" binding:"required"`
	History      []json.RawMessage `json:"history"`
	HistoryIndex *int              `json:"historyIndex"`
}

// CommandsRequest carries either a ready command list or a prompt to
// translate. Commands wins when both are present.
type CommandsRequest struct {
	Commands json.RawMessage `json:"commands"`
	Prompt   string          `json:"prompt" binding:"max=2000"`
}

// ApplyRequest is the stateless engine entry point body.
type ApplyRequest struct {
	Schema   json.RawMessage `json:"schema" binding:"required"`
	Commands json.RawMessage `json:"commands" binding:"required"`
}

// AIRequest asks for a command list for prompt against schema.
type AIRequest struct {
	Prompt string          `json:"prompt" binding:"required,max=2000"`
	Schema json.RawMessage `json:"schema" binding:"required"`
}

// SchemaRecordResponse is the caller's stored design with its history.
type SchemaRecordResponse struct {
	Schema       design.Design   `json:"schema"`
	History      []design.Design `json:"history"`
	HistoryIndex int             `json:"historyIndex"`
	CanUndo      bool            `json:"canUndo"`
	CanRedo      bool            `json:"canRedo"`
}

// ApplyResponse is returned by every endpoint that runs the engine.
type ApplyResponse struct {
	Schema  design.Design `json:"schema"`
	Report  engine.Report `json:"report"`
	Summary string        `json:"summary"`
}

// CommandsResponse is the stored record after a command batch, plus its report.
type CommandsResponse struct {
	SchemaRecordResponse
	Report  engine.Report `json:"report"`
	Summary string        `json:"summary"`
}

// PresetsResponse lists the keys apply_preset accepts.
type PresetsResponse struct {
	Presets []string `json:"presets"`
}
