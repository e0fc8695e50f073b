// api/middleware/auth_middleware.go
package middleware

import (
	"fmt"
	"strings"

	"github.com/Annany2002/nebula-canvas/internal/auth"
)

// bearerUserID validates an "Authorization: Bearer <jwt>" header value and
// returns the user id it carries.
func bearerUserID(authHeader, secret string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: authorization header format must be Bearer {token}", auth.ErrTokenMalformed)
	}

	userID, err := auth.ValidateJWT(strings.TrimSpace(parts[1]), secret)
	if err != nil {
		customLog.Printf("AuthMiddleware: Token validation failed: %v", err)
		return "", err
	}
	return userID, nil
}
