// Package store handles SQLite persistence of the export history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/menureport/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// createdAtLayout is fixed width so created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for export records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			subject TEXT NOT NULL,
			format TEXT NOT NULL,
			filename TEXT NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			pages INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_subject ON exports(subject);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordExport stores one delivered artifact and returns its id.
func (s *Store) RecordExport(ctx context.Context, rec model.ExportRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (created_at, subject, format, filename, path, bytes, pages)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt.UTC().Format(createdAtLayout),
		rec.Subject,
		string(rec.Format),
		rec.Filename,
		rec.Path,
		rec.Bytes,
		rec.Pages,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert export: %w", err)
	}
	return res.LastInsertId()
}

// HistoryFilter narrows ListExports. Zero values mean no restriction.
type HistoryFilter struct {
	Limit   int
	Subject string
	Format  model.ExportFormat
}

// ListExports returns the most recent exports first.
func (s *Store) ListExports(ctx context.Context, f HistoryFilter) ([]model.ExportRecord, error) {
	query := `SELECT id, created_at, subject, format, filename, path, bytes, pages FROM exports WHERE 1=1`
	var args []any
	if f.Subject != "" {
		query += ` AND subject = ?`
		args = append(args, f.Subject)
	}
	if f.Format != "" {
		query += ` AND format = ?`
		args = append(args, string(f.Format))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.ExportRecord
	for rows.Next() {
		var (
			rec     model.ExportRecord
			created string
			format  string
		)
		if err := rows.Scan(&rec.ID, &created, &rec.Subject, &format, &rec.Filename, &rec.Path, &rec.Bytes, &rec.Pages); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse export time: %w", err)
		}
		rec.Format = model.ExportFormat(format)
		out = append(out, rec)
	}
	return out, rows.Err()
}
