package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFindOrCreateUserIsStable(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first, err := FindOrCreateUser(ctx, db, "ada")
	require.NoError(t, err)
	require.NotEmpty(t, first.UserID)

	again, err := FindOrCreateUser(ctx, db, "ada")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, again.UserID)

	other, err := FindOrCreateUser(ctx, db, "grace")
	require.NoError(t, err)
	assert.NotEqual(t, first.UserID, other.UserID)

	byID, err := FindUserByUserId(ctx, db, first.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ada", byID.DisplayName)

	_, err = FindUserByUserId(ctx, db, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSchemaRecordRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := LoadSchemaRecord(ctx, db, "u1")
	require.ErrorIs(t, err, ErrRecordNotFound)

	rec, err := LoadOrCreateSchemaRecord(ctx, db, "u1")
	require.NoError(t, err)
	assert.Equal(t, design.Default(), rec.Schema)
	assert.Len(t, rec.History, 1)
	assert.Equal(t, -1, rec.HistoryIndex)

	changed := design.Default()
	changed.Styles.Theme = "dark"
	rec.Schema = changed
	rec.History = append(rec.History, changed)
	rec.HistoryIndex = 0
	require.NoError(t, UpsertSchemaRecord(ctx, db, "u1", rec))

	loaded, err := LoadSchemaRecord(ctx, db, "u1")
	require.NoError(t, err)
	assert.Equal(t, changed, loaded.Schema)
	assert.Equal(t, []design.Design{design.Default(), changed}, loaded.History)
	assert.Equal(t, 0, loaded.HistoryIndex)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestUpsertLastWriteWins(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, theme := range []string{"dark", "light", "dark"} {
		d := design.Default()
		d.Styles.Theme = theme
		require.NoError(t, UpsertSchemaRecord(ctx, db, "u1", domain.NewSchemaRecord(d)))
	}

	loaded, err := LoadSchemaRecord(ctx, db, "u1")
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Schema.Styles.Theme)
}

func TestLoadSchemaRecordRejectsCorruptRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO user_schemas (user_id, schema_json) VALUES (?, ?)`, "u1", `{"styles":{}}`)
	require.NoError(t, err)

	_, err = LoadSchemaRecord(ctx, db, "u1")
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestLoadSchemaRecordDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT schema_json, history_json, history_index, updated_at FROM user_schemas`)).
		WithArgs("u1").
		WillReturnError(errors.New("disk I/O error"))

	_, err = LoadSchemaRecord(context.Background(), db, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRecordNotFound)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSchemaRecordDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_schemas`)).
		WithArgs("u1", sqlmock.AnyArg(), sqlmock.AnyArg(), -1).
		WillReturnError(errors.New("database is locked"))

	err = UpsertSchemaRecord(context.Background(), db, "u1", domain.NewSchemaRecord(design.Default()))
	assert.ErrorContains(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateUserDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, display_name, created_at FROM users WHERE display_name = ?`)).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "display_name", "created_at"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (user_id, display_name)`)).
		WithArgs(sqlmock.AnyArg(), "ada").
		WillReturnError(errors.New("read-only database"))

	_, err = FindOrCreateUser(context.Background(), db, "ada")
	assert.ErrorContains(t, err, "read-only database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), db)
	assert.ErrorContains(t, err, "users")
	assert.NoError(t, mock.ExpectationsWereMet())
}
