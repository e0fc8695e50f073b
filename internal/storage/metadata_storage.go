// internal/storage/metadata_storage.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Annany2002/nebula-canvas/internal/domain"
)

// Specific errors for user operations
var (
	ErrUserNotFound = errors.New("user not found")
)

// --- User Operations ---

// FindOrCreateUser returns the user registered under displayName, minting a
// new id the first time the name is seen.
func FindOrCreateUser(ctx context.Context, db *sql.DB, displayName string) (*domain.User, error) {
	user, err := FindUserByDisplayName(ctx, db, displayName)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	userID := uuid.NewString()
	_, err = db.ExecContext(ctx, `INSERT INTO users (user_id, display_name) VALUES (?, ?)`, userID, displayName)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			// Another request registered the same name first.
			return FindUserByDisplayName(ctx, db, displayName)
		}
		customLog.Warnf("Storage: Failed to insert user %s: %v", displayName, err)
		return nil, fmt.Errorf("database error during user creation: %w", err)
	}

	customLog.Infof("Storage: Registered display name %q as %s", displayName, userID)
	return FindUserByDisplayName(ctx, db, displayName)
}

// FindUserByDisplayName retrieves a user by display name.
func FindUserByDisplayName(ctx context.Context, db *sql.DB, displayName string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, `SELECT user_id, display_name, created_at FROM users WHERE display_name = ? LIMIT 1`, displayName)
	return scanUser(row, displayName)
}

// FindUserByUserId retrieves a user by id.
func FindUserByUserId(ctx context.Context, db *sql.DB, userID string) (*domain.User, error) {
	row := db.QueryRowContext(ctx, `SELECT user_id, display_name, created_at FROM users WHERE user_id = ? LIMIT 1`, userID)
	return scanUser(row, userID)
}

func scanUser(row *sql.Row, key string) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.UserID, &user.DisplayName, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		customLog.Warnf("Storage: Failed to find user %s: %v", key, err)
		return nil, fmt.Errorf("database error finding user: %w", err)
	}
	return &user, nil
}
