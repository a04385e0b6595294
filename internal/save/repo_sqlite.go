package save

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// OpenSQLite opens (creating if necessary) the save database and applies
// pending migrations.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := applyMigrations(db, migrationFS, "migrations"); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return db, nil
}

// SQLiteRepository stores one save blob per mode slot in a local SQLite
// database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, mode run.Mode, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saves (mode, blob, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(mode) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`,
		string(mode), blob, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("write save slot %s: %w", mode, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, mode run.Mode) ([]byte, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT blob FROM saves WHERE mode = ?`, string(mode)).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read save slot %s: %w", mode, err)
	}
	return blob, nil
}

func (r *SQLiteRepository) Has(ctx context.Context, mode run.Mode) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM saves WHERE mode = ?`, string(mode)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe save slot %s: %w", mode, err)
	}
	return true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, mode run.Mode) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM saves WHERE mode = ?`, string(mode)); err != nil {
		return fmt.Errorf("delete save slot %s: %w", mode, err)
	}
	return nil
}
