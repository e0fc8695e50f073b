// internal/storage/database_storage.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Driver registration

	"github.com/Annany2002/nebula-canvas/config"
	"github.com/Annany2002/nebula-canvas/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

var schemaStatements = []struct {
	name string
	sql  string
}{
	{"users", `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY NOT NULL,
		display_name TEXT UNIQUE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`},
	{"user_schemas", `
	CREATE TABLE IF NOT EXISTS user_schemas (
		user_id TEXT PRIMARY KEY NOT NULL,
		schema_json TEXT NOT NULL,
		history_json TEXT NOT NULL DEFAULT '[]',
		history_index INTEGER NOT NULL DEFAULT -1,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`},
}

// ConnectDB opens the SQLite database named by cfg and ensures the
// 'users' and 'user_schemas' tables exist.
func ConnectDB(cfg *config.Config) (*sql.DB, error) {
	if err := os.MkdirAll(cfg.DatabaseDir, 0o750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.DatabaseDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return OpenDB(context.Background(), filepath.Join(cfg.DatabaseDir, cfg.DatabaseFile))
}

// OpenDB opens and migrates the database file at dbPath.
func OpenDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	customLog.Printf("Storage: Initializing database: %s", dbPath)

	// WAL and a 5s busy timeout so concurrent saves queue instead of failing.
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates any missing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt.sql); err != nil {
			customLog.Warnf("Storage: Failed to create %s table: %v", stmt.name, err)
			return fmt.Errorf("failed to ensure %s table: %w", stmt.name, err)
		}
		customLog.Debugf("Storage: %s table ensured.", stmt.name)
	}
	return nil
}
