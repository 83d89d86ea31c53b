// Package sqlite provides a SQLite-backed save-slot store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nathoo/towercore/storage"
	"github.com/nathoo/towercore/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists save slots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite save store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ApplyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts or replaces the slot.
func (s *Store) Save(ctx context.Context, slot storage.Slot, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidateName(slot.Name); err != nil {
		return err
	}
	savedAt := slot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO save_slots (name, floor, saved_at, doc) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   floor = excluded.floor,
		   saved_at = excluded.saved_at,
		   doc = excluded.doc`,
		slot.Name, slot.Floor, savedAt.UTC().UnixMilli(), doc,
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot.Name, err)
	}
	return nil
}

// Load returns the document saved under name.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	var doc []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT doc FROM save_slots WHERE name = ?`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", name, err)
	}
	return doc, nil
}

// List returns every slot sorted by name.
func (s *Store) List(ctx context.Context) ([]storage.Slot, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, floor, saved_at FROM save_slots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []storage.Slot
	for rows.Next() {
		var (
			slot    storage.Slot
			savedAt int64
		)
		if err := rows.Scan(&slot.Name, &slot.Floor, &savedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slot.SavedAt = time.UnixMilli(savedAt).UTC()
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}
