// internal/core/validation.go
package core

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidDisplayName is returned for names IsValidDisplayName rejects.
var ErrInvalidDisplayName = errors.New("display name may only contain letters, digits, spaces and _ . - ' (max 64 characters)")

// Display names: letters, digits, spaces, and a little punctuation.
var displayNameRegex = regexp.MustCompile(`^[\p{L}\p{N} _.\-']+$`)

// NormalizeDisplayName trims surrounding space and collapses inner runs of
// whitespace, so "  Ada   Lovelace " and "Ada Lovelace" map to one user.
func NormalizeDisplayName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// IsValidDisplayName checks a normalized display name for format and length.
func IsValidDisplayName(name string) bool {
	return len(name) > 0 && len(name) <= 64 && displayNameRegex.MatchString(name)
}

// IsValidUserID reports whether id is a canonical UUID, the form every user
// id minted at login takes.
func IsValidUserID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == strings.ToLower(id)
}
