// api/handlers/design_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-canvas/api/models"
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/engine"
	"github.com/Annany2002/nebula-canvas/internal/preset"
)

// DesignHandler exposes the engine, translator and preset catalog without
// touching stored state.
type DesignHandler struct {
	Engine     *engine.Engine
	Catalog    *preset.Catalog
	Translator CommandTranslator
}

// NewDesignHandler creates a new DesignHandler with dependencies.
func NewDesignHandler(eng *engine.Engine, catalog *preset.Catalog, tr CommandTranslator) *DesignHandler {
	return &DesignHandler{
		Engine:     eng,
		Catalog:    catalog,
		Translator: tr,
	}
}

// Translate answers POST /api/ai with the command list for a prompt.
func (h *DesignHandler) Translate(c *gin.Context) {
	var req models.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Translate binding error: %v", err)
		_ = c.Error(err)
		return
	}

	d, err := design.Parse(req.Schema)
	if err != nil {
		_ = c.Error(&engine.InvalidInputError{Input: "design", Err: err})
		return
	}

	list, err := h.Translator.Translate(c.Request.Context(), req.Prompt, d)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Apply runs a command list against a design sent in the request.
func (h *DesignHandler) Apply(c *gin.Context) {
	var req models.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Apply binding error: %v", err)
		_ = c.Error(err)
		return
	}

	result, err := h.Engine.ApplyRaw(req.Schema, commandEnvelope(req.Commands))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.ApplyResponse{
		Schema:  result.Design,
		Report:  result.Report,
		Summary: result.Report.Summary(),
	})
}

// ListPresets returns the keys apply_preset accepts.
func (h *DesignHandler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, models.PresetsResponse{Presets: h.Catalog.Keys()})
}
