// internal/storage/schema_storage.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/domain"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrCorruptRecord  = errors.New("stored schema record is invalid")
)

// LoadSchemaRecord reads the saved design and history for userID.
func LoadSchemaRecord(ctx context.Context, db *sql.DB, userID string) (*domain.SchemaRecord, error) {
	selectSQL := `SELECT schema_json, history_json, history_index, updated_at FROM user_schemas WHERE user_id = ? LIMIT 1`

	var schemaJSON, historyJSON string
	rec := &domain.SchemaRecord{}
	err := db.QueryRowContext(ctx, selectSQL, userID).Scan(&schemaJSON, &historyJSON, &rec.HistoryIndex, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		customLog.Warnf("Storage: Failed to load schema for user %s: %v", userID, err)
		return nil, fmt.Errorf("database error loading schema: %w", err)
	}

	rec.Schema, err = design.Parse([]byte(schemaJSON))
	if err != nil {
		customLog.Warnf("Storage: Stored schema for user %s fails validation: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(historyJSON), &entries); err != nil {
		return nil, fmt.Errorf("%w: history: %v", ErrCorruptRecord, err)
	}
	rec.History = make([]design.Design, 0, len(entries))
	for i, raw := range entries {
		d, err := design.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: history[%d]: %v", ErrCorruptRecord, i, err)
		}
		rec.History = append(rec.History, d)
	}
	return rec, nil
}

// UpsertSchemaRecord writes rec for userID. Concurrent writers are
// last-write-wins.
func UpsertSchemaRecord(ctx context.Context, db *sql.DB, userID string, rec *domain.SchemaRecord) error {
	schemaJSON, err := json.Marshal(rec.Schema)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	history := rec.History
	if history == nil {
		history = []design.Design{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	upsertSQL := `
	INSERT INTO user_schemas (user_id, schema_json, history_json, history_index, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(user_id) DO UPDATE SET
		schema_json = excluded.schema_json,
		history_json = excluded.history_json,
		history_index = excluded.history_index,
		updated_at = CURRENT_TIMESTAMP;`
	if _, err := db.ExecContext(ctx, upsertSQL, userID, string(schemaJSON), string(historyJSON), rec.HistoryIndex); err != nil {
		customLog.Warnf("Storage: Failed to save schema for user %s: %v", userID, err)
		return fmt.Errorf("database error saving schema: %w", err)
	}
	return nil
}

// LoadOrCreateSchemaRecord returns the stored record, creating and saving a
// record holding the default design on first access.
func LoadOrCreateSchemaRecord(ctx context.Context, db *sql.DB, userID string) (*domain.SchemaRecord, error) {
	rec, err := LoadSchemaRecord(ctx, db, userID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	rec = domain.NewSchemaRecord(design.Default())
	if err := UpsertSchemaRecord(ctx, db, userID, rec); err != nil {
		return nil, err
	}
	customLog.Infof("Storage: Created default schema for user %s", userID)
	return rec, nil
}
