// api/middleware/combined_auth_middleware.go
package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/nebula-canvas/config"
	"github.com/Annany2002/nebula-canvas/internal/auth"
	"github.com/Annany2002/nebula-canvas/internal/core"
	"github.com/Annany2002/nebula-canvas/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// UserIDHeader is the mock identity header accepted in place of a token.
const UserIDHeader = "x-user-id"

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userId"

// CombinedAuthMiddleware identifies the caller by either a bearer token or
// the x-user-id header. A bearer token wins when both are sent.
func CombinedAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			userID string
			scheme string
			err    error
		)

		switch {
		case c.GetHeader("Authorization") != "":
			scheme = "bearer"
			userID, err = bearerUserID(c.GetHeader("Authorization"), cfg.JWTSecret)

		case c.GetHeader(UserIDHeader) != "":
			scheme = "header"
			userID = strings.TrimSpace(c.GetHeader(UserIDHeader))
			if !core.IsValidUserID(userID) {
				err = fmt.Errorf("%w: %s must be a user id issued by /auth/login", auth.ErrUnauthorized, UserIDHeader)
			}

		default:
			err = auth.ErrMissingIdentity
		}

		if err != nil {
			customLog.Warnf("CombinedAuthMiddleware: Authentication failed (Scheme: %s): %v", scheme, err)
			_ = c.Error(err)
			c.Abort()
			return
		}

		customLog.Debugf("CombinedAuthMiddleware: Auth success. UserID: %s (Scheme: %s)", userID, scheme)
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the id set by CombinedAuthMiddleware.
func UserID(c *gin.Context) (string, error) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		return "", auth.ErrMissingIdentity
	}
	return userID, nil
}
