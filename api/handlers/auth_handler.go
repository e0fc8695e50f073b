// api/handlers/auth_handler.go
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-canvas/api/models"
	"github.com/Annany2002/nebula-canvas/config"
	"github.com/Annany2002/nebula-canvas/internal/auth"
	"github.com/Annany2002/nebula-canvas/internal/core"
	"github.com/Annany2002/nebula-canvas/internal/logger"
	"github.com/Annany2002/nebula-canvas/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(db *sql.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// Login maps a display name to its stable user id, registering the name on
// first use, and issues a JWT for it.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(err)
		return
	}

	displayName := core.NormalizeDisplayName(req.DisplayName)
	if !core.IsValidDisplayName(displayName) {
		_ = c.Error(core.ErrInvalidDisplayName)
		return
	}

	user, err := storage.FindOrCreateUser(c.Request.Context(), h.DB, displayName)
	if err != nil {
		customLog.Warnf("Login failed for display name %q: %v", displayName, err)
		_ = c.Error(err)
		return
	}

	tokenString, err := auth.GenerateJWT(user.UserID, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to generate JWT for user %s: %v", user.UserID, err)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Message:     "Logged in successfully",
		UserID:      user.UserID,
		DisplayName: user.DisplayName,
		Token:       tokenString,
	})
}
