// internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Annany2002/nebula-canvas/api/models"
	"github.com/Annany2002/nebula-canvas/internal/logger"
)

var (
	ErrTokenMalformed     = errors.New("malformed token")
	ErrTokenExpired       = errors.New("token is expired or not valid yet")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenClaimsInvalid = errors.New("invalid token claims")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingIdentity    = errors.New("no user identity on request")
	customLog             = logger.NewLogger()
)

// Issuer is stamped into every token this service signs and required on
// every token it accepts.
const Issuer = "nebula-canvas"

var signingMethod = jwt.SigningMethodHS256

// GenerateJWT signs a session token for userID that expires after ttl.
func GenerateJWT(userID, jwtSecret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := models.CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		customLog.Warnf("GenerateJWT: signing failed for user %s: %v", userID, err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ValidateJWT checks signature, method, issuer and lifetime of tokenString
// and returns the user id it was issued for.
func ValidateJWT(tokenString, jwtSecret string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)

	var claims models.CustomClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		customLog.Warnf("ValidateJWT: %v", err)
		return "", classify(err)
	}

	if claims.UserID == "" {
		customLog.Warn("ValidateJWT: token carries no user id")
		return "", ErrTokenClaimsInvalid
	}
	return claims.UserID, nil
}

// classify maps jwt library errors onto this package's sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrTokenClaimsInvalid
	default:
		return ErrTokenInvalid
	}
}
