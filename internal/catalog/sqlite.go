package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store is a SQLite catalog of exported tables.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens or creates the catalog database at path. ":memory:" opens a
// private in-memory catalog.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}

	// one connection, so an in-memory database is shared by every query
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS catalog_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- one row per Go type; types that inherit their ancestor's table
		-- share a name
		CREATE TABLE IF NOT EXISTS tables (
			type            TEXT PRIMARY KEY,
			position        INTEGER NOT NULL,
			name            TEXT NOT NULL,
			schema_name     TEXT NOT NULL,
			table_name      TEXT NOT NULL,
			inherit_table   INTEGER NOT NULL,
			inherit_columns INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS columns (
			type        TEXT NOT NULL,
			position    INTEGER NOT NULL,
			path        TEXT NOT NULL,
			name        TEXT NOT NULL,
			primary_key INTEGER NOT NULL,
			foreign_key INTEGER NOT NULL,
			PRIMARY KEY (type, path)
		);

		CREATE TABLE IF NOT EXISTS foreign_keys (
			type       TEXT NOT NULL,
			path       TEXT NOT NULL,
			ref_table  TEXT NOT NULL,
			ref_column TEXT NOT NULL,
			PRIMARY KEY (type, path)
		);

		CREATE TABLE IF NOT EXISTS metadata (
			type       TEXT NOT NULL,
			path       TEXT NOT NULL,
			key        TEXT NOT NULL,
			value_json TEXT NOT NULL,
			PRIMARY KEY (type, path, key)
		);

		INSERT OR REPLACE INTO catalog_meta (key, value) VALUES ('version', '` + Version + `');
	`

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return nil
}

// Write replaces the catalog content with snap and records its fingerprint.
func (s *Store) Write(ctx context.Context, snap *Snapshot) error {
	fp, err := snap.Fingerprint()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin catalog write: %w", err)
	}

	if err := writeSnapshot(ctx, tx, snap, fp); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}

	return nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, snap *Snapshot, fp string) error {
	for _, table := range []string{"tables", "columns", "foreign_keys", "metadata"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, t := range snap.Tables {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tables (type, position, name, schema_name, table_name, inherit_table, inherit_columns)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.Type, i, t.QualifiedName(), t.Schema, t.Name, t.InheritTable, t.InheritColumns,
		); err != nil {
			return fmt.Errorf("failed to write table %s: %w", t.Type, err)
		}

		if err := writeMetadata(ctx, tx, t.Type, "", t.Metadata); err != nil {
			return err
		}

		for j, c := range t.Columns {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO columns (type, position, path, name, primary_key, foreign_key)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				t.Type, j, c.Path, c.Name, c.PrimaryKey, c.ForeignKey,
			); err != nil {
				return fmt.Errorf("failed to write column %s.%s: %w", t.Type, c.Path, err)
			}

			if c.References != nil {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO foreign_keys (type, path, ref_table, ref_column) VALUES (?, ?, ?, ?)`,
					t.Type, c.Path, c.References.Table, c.References.Column,
				); err != nil {
					return fmt.Errorf("failed to write foreign key %s.%s: %w", t.Type, c.Path, err)
				}
			}

			if err := writeMetadata(ctx, tx, t.Type, c.Path, c.Metadata); err != nil {
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO catalog_meta (key, value) VALUES ('fingerprint', ?)`, fp,
	); err != nil {
		return fmt.Errorf("failed to write fingerprint: %w", err)
	}

	return nil
}

func writeMetadata(ctx context.Context, tx *sql.Tx, typ, path string, md map[string]any) error {
	for key, v := range md {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode metadata %q of %s: %w", key, typ, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO metadata (type, path, key, value_json) VALUES (?, ?, ?, ?)`,
			typ, path, key, string(data),
		); err != nil {
			return fmt.Errorf("failed to write metadata %q of %s: %w", key, typ, err)
		}
	}

	return nil
}

// Fingerprint returns the fingerprint of the last written snapshot, or ""
// when nothing was written yet.
func (s *Store) Fingerprint(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fp string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = 'fingerprint'`).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to read fingerprint: %w", err)
	}

	return fp, nil
}

// TableNames returns the qualified table names of the stored types in
// export order. Types sharing a table repeat its name.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT name FROM tables ORDER BY position`)
}

// Types returns the stored types in export order.
func (s *Store) Types(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT type FROM tables ORDER BY position`)
}

// ColumnNames returns the column names of a stored type in column order.
func (s *Store) ColumnNames(ctx context.Context, typ string) ([]string, error) {
	return s.strings(ctx, `SELECT name FROM columns WHERE type = ? ORDER BY position`, typ)
}

// References returns the foreign keys of a stored type as column name to
// "table.column" of the referenced column.
func (s *Store) References(ctx context.Context, typ string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.name, f.ref_table, f.ref_column
		 FROM foreign_keys f JOIN columns c ON c.type = f.type AND c.path = f.path
		 WHERE f.type = ?`, typ)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)

	for rows.Next() {
		var col, refTable, refCol string
		if err := rows.Scan(&col, &refTable, &refCol); err != nil {
			return nil, fmt.Errorf("failed to read foreign keys: %w", err)
		}

		out[col] = refTable + "." + refCol
	}

	return out, rows.Err()
}

// Metadata returns the decoded metadata of a type (path "") or of one of
// its member paths.
func (s *Store) Metadata(ctx context.Context, typ, path string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value_json FROM metadata WHERE type = ? AND path = ?`, typ, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer rows.Close()

	out := make(map[string]any)

	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}

		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode metadata %q: %w", key, err)
		}

		out[key] = v
	}

	return out, rows.Err()
}

func (s *Store) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to query catalog: %w", err)
		}

		out = append(out, v)
	}

	return out, rows.Err()
}

// Export writes snap into the catalog database at path.
func Export(ctx context.Context, path string, snap *Snapshot) error {
	s, err := Open(path)
	if err != nil {
		return err
	}

	if err := s.Write(ctx, snap); err != nil {
		s.Close()
		return err
	}

	return s.Close()
}
