// api/handlers/schema_handler.go
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Annany2002/nebula-canvas/api/middleware"
	"github.com/Annany2002/nebula-canvas/api/models"
	"github.com/Annany2002/nebula-canvas/config"
	"github.com/Annany2002/nebula-canvas/internal/command"
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/domain"
	"github.com/Annany2002/nebula-canvas/internal/engine"
	"github.com/Annany2002/nebula-canvas/internal/history"
	"github.com/Annany2002/nebula-canvas/internal/storage"
)

// CommandTranslator turns a prompt into a command list for a design.
type CommandTranslator interface {
	Translate(ctx context.Context, prompt string, d design.Design) (command.List, error)
}

// SchemaHandler serves the caller's stored design and its history.
type SchemaHandler struct {
	DB         *sql.DB
	Cfg        *config.Config
	Engine     *engine.Engine
	Translator CommandTranslator
}

// NewSchemaHandler creates a new SchemaHandler with dependencies.
func NewSchemaHandler(db *sql.DB, cfg *config.Config, eng *engine.Engine, tr CommandTranslator) *SchemaHandler {
	return &SchemaHandler{
		DB:         db,
		Cfg:        cfg,
		Engine:     eng,
		Translator: tr,
	}
}

// GetSchema returns the stored record, creating the default design on first access.
func (h *SchemaHandler) GetSchema(c *gin.Context) {
	userID, rec, ok := h.load(c)
	if !ok {
		return
	}
	customLog.Debugf("GetSchema: loaded schema for user %s", userID)
	c.JSON(http.StatusOK, h.recordResponse(rec))
}

// SaveSchema validates and stores a design sent by the client.
func (h *SchemaHandler) SaveSchema(c *gin.Context) {
	var req models.SaveSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("SaveSchema binding error: %v", err)
		_ = c.Error(err)
		return
	}

	d, err := design.Parse(req.Schema)
	if err != nil {
		_ = c.Error(err)
		return
	}

	userID, rec, ok := h.load(c)
	if !ok {
		return
	}

	if req.History != nil {
		entries := make([]design.Design, 0, len(req.History))
		for i, raw := range req.History {
			snap, err := design.Parse(raw)
			if err != nil {
				_ = c.Error(fmt.Errorf("history[%d]: %w", i, err))
				return
			}
			entries = append(entries, snap)
		}
		cursor := history.Latest
		if req.HistoryIndex != nil {
			cursor = *req.HistoryIndex
		}
		rec.History, rec.HistoryIndex = trimHistory(entries, cursor, h.Cfg.HistoryMaxSteps)
		rec.Schema = d
	} else {
		buf := rec.Buffer(h.Cfg.HistoryMaxSteps)
		buf.Push(d)
		rec.SetBuffer(buf)
	}

	if err := storage.UpsertSchemaRecord(c.Request.Context(), h.DB, userID, rec); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Infof("SaveSchema: schema saved for user %s", userID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "record": h.recordResponse(rec)})
}

// ApplyCommands runs a command list, or a prompt translated into one,
// against the stored design and commits the result to history.
func (h *SchemaHandler) ApplyCommands(c *gin.Context) {
	var req models.CommandsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("ApplyCommands binding error: %v", err)
		_ = c.Error(err)
		return
	}

	userID, rec, ok := h.load(c)
	if !ok {
		return
	}

	var list command.List
	switch {
	case len(req.Commands) > 0:
		parsed, err := command.ParseList(commandEnvelope(req.Commands))
		if err != nil {
			_ = c.Error(&engine.InvalidInputError{Input: "commands", Err: err})
			return
		}
		list = parsed
	default:
		translated, err := h.Translator.Translate(c.Request.Context(), req.Prompt, rec.Schema)
		if err != nil {
			_ = c.Error(err)
			return
		}
		list = translated
	}

	result, err := h.Engine.Apply(rec.Schema, list)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// A batch that changes nothing leaves history alone.
	if result.Report.Applied() > 0 {
		buf := rec.Buffer(h.Cfg.HistoryMaxSteps)
		buf.Push(result.Design)
		rec.SetBuffer(buf)
		if err := storage.UpsertSchemaRecord(c.Request.Context(), h.DB, userID, rec); err != nil {
			_ = c.Error(err)
			return
		}
	}

	customLog.WithFields(logrus.Fields{
		"user":    userID,
		"applied": result.Report.Applied(),
		"skipped": result.Report.Skipped(),
		"failed":  result.Report.Failed(),
	}).Info("ApplyCommands: batch processed")

	c.JSON(http.StatusOK, models.CommandsResponse{
		SchemaRecordResponse: h.recordResponse(rec),
		Report:               result.Report,
		Summary:              result.Report.Summary(),
	})
}

// Undo steps the stored history back one snapshot.
func (h *SchemaHandler) Undo(c *gin.Context) {
	h.step(c, (*history.Buffer).Undo, history.ErrNothingToUndo)
}

// Redo steps the stored history forward one snapshot.
func (h *SchemaHandler) Redo(c *gin.Context) {
	h.step(c, (*history.Buffer).Redo, history.ErrNothingToRedo)
}

func (h *SchemaHandler) step(c *gin.Context, move func(*history.Buffer) (design.Design, bool), none error) {
	userID, rec, ok := h.load(c)
	if !ok {
		return
	}

	buf := rec.Buffer(h.Cfg.HistoryMaxSteps)
	if _, moved := move(buf); !moved {
		_ = c.Error(none)
		return
	}
	rec.SetBuffer(buf)

	if err := storage.UpsertSchemaRecord(c.Request.Context(), h.DB, userID, rec); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.recordResponse(rec))
}

// load resolves the caller and their record, attaching any error to c.
func (h *SchemaHandler) load(c *gin.Context) (string, *domain.SchemaRecord, bool) {
	userID, err := middleware.UserID(c)
	if err != nil {
		_ = c.Error(err)
		return "", nil, false
	}

	rec, err := storage.LoadOrCreateSchemaRecord(c.Request.Context(), h.DB, userID)
	if err != nil {
		customLog.Warnf("Failed to load schema for user %s: %v", userID, err)
		_ = c.Error(err)
		return "", nil, false
	}
	return userID, rec, true
}

func (h *SchemaHandler) recordResponse(rec *domain.SchemaRecord) models.SchemaRecordResponse {
	return models.SchemaRecordResponse{
		Schema:       rec.Schema,
		History:      rec.History,
		HistoryIndex: rec.HistoryIndex,
		CanUndo:      history.CanUndo(rec.HistoryIndex, len(rec.History)),
		CanRedo:      history.CanRedo(rec.HistoryIndex, len(rec.History)),
	}
}

// trimHistory keeps the newest limit entries of a client-supplied history
// and shifts the cursor to match. Out-of-range cursors become Latest.
func trimHistory(entries []design.Design, cursor, limit int) ([]design.Design, int) {
	if limit < 1 {
		limit = history.DefaultCap
	}
	if cursor < history.Latest || cursor >= len(entries) {
		cursor = history.Latest
	}
	if over := len(entries) - limit; over > 0 {
		entries = entries[over:]
		if cursor != history.Latest {
			cursor = max(cursor-over, 0)
		}
	}
	return entries, cursor
}

// commandEnvelope wraps a bare command array in the {"commands": [...]}
// document the command parser reads.
func commandEnvelope(commands []byte) []byte {
	out := make([]byte, 0, len(commands)+14)
	out = append(out, `{"commands":`...)
	out = append(out, commands...)
	return append(out, '}')
}
