// api/handlers/data_handler.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-canvas/internal/core"
	"github.com/Annany2002/nebula-canvas/internal/showdata"
)

// ShowSource supplies the show catalogue.
type ShowSource interface {
	Shows(ctx context.Context) ([]showdata.Show, error)
}

// DataHandler serves the show data the dashboard renders.
type DataHandler struct {
	Shows ShowSource
}

// NewDataHandler creates a new DataHandler with dependencies.
func NewDataHandler(shows ShowSource) *DataHandler {
	return &DataHandler{Shows: shows}
}

// ListShows returns the flattened shows, optionally sorted and limited.
func (h *DataHandler) ListShows(c *gin.Context) {
	queryParams := c.Request.URL.Query()

	opts, err := core.ParseShowQueryOptions(queryParams)
	if err != nil {
		_ = c.Error(err)
		return
	}
	for key := range queryParams {
		if !core.IsReservedParam(key) {
			customLog.Warnf("ListShows: ignoring unknown query parameter %q", key)
		}
	}

	shows, err := h.Shows.Shows(c.Request.Context())
	if err != nil {
		customLog.Warnf("ListShows: fetch failed: %v", err)
		_ = c.Error(err)
		return
	}

	if opts.SortBy != "" {
		showdata.SortShows(shows, opts.SortBy, opts.SortOrder == "desc")
	}
	c.JSON(http.StatusOK, showdata.Take(shows, opts.Limit))
}

// Summary returns show counts by genre and premiere month.
func (h *DataHandler) Summary(c *gin.Context) {
	shows, err := h.Shows.Shows(c.Request.Context())
	if err != nil {
		customLog.Warnf("Summary: fetch failed: %v", err)
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, showdata.Summarize(shows))
}
