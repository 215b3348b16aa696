package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
)

// SetupSchema creates the table SQLSource stores files in. It is idempotent
// and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaFiles = `
CREATE TABLE IF NOT EXISTS parsifal_files (
    path TEXT PRIMARY KEY,
    dir  TEXT NOT NULL,
    body TEXT NOT NULL
);
`
		indexDir = `CREATE INDEX IF NOT EXISTS parsifal_files_dir ON parsifal_files (dir);`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaFiles); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}
	if _, err = tx.Exec(indexDir); err != nil {
		return fmt.Errorf("could not create index: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// SQLSource serves template files stored in a SQLite database, so a whole
// template tree can be shipped as one file. It holds prepared statements for
// every query it runs.
type SQLSource struct {
	db       *sql.DB
	stmtRead *sql.Stmt
	stmtList *sql.Stmt
	stmtPut  *sql.Stmt
	logger   *slog.Logger
}

// NewSQLSource prepares the statements used against db. SetupSchema must have
// been called on db first. A nil logger discards log output.
func NewSQLSource(db *sql.DB, logger *slog.Logger) (*SQLSource, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	stmtRead, err := db.Prepare(`SELECT body FROM parsifal_files WHERE path = ?;`)
	if err != nil {
		return nil, err
	}

	stmtList, err := db.Prepare(`SELECT path FROM parsifal_files WHERE dir = ? ORDER BY path;`)
	if err != nil {
		_ = stmtRead.Close()
		return nil, err
	}

	stmtPut, err := db.Prepare(`
INSERT INTO parsifal_files (path, dir, body) VALUES (?, ?, ?)
ON CONFLICT(path) DO UPDATE SET body = excluded.body;`)
	if err != nil {
		_ = stmtRead.Close()
		_ = stmtList.Close()
		return nil, err
	}

	return &SQLSource{
		db:       db,
		stmtRead: stmtRead,
		stmtList: stmtList,
		stmtPut:  stmtPut,
		logger:   logger,
	}, nil
}

// Close releases the prepared statements. It does not close the database.
func (s *SQLSource) Close() {
	_ = s.stmtRead.Close()
	_ = s.stmtList.Close()
	_ = s.stmtPut.Close()
}

// ReadFile returns the stored body of name.
func (s *SQLSource) ReadFile(ctx context.Context, name string) (string, error) {
	p, err := cleanPath(name)
	if err != nil {
		return "", err
	}
	var body string
	if err = s.stmtRead.QueryRowContext(ctx, p).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return body, nil
}

// ListFiles returns the paths stored directly under dir, sorted by name.
// An empty directory and a missing one both give an empty list.
func (s *SQLSource) ListFiles(ctx context.Context, dir string) ([]string, error) {
	p, err := cleanPath(dir)
	if err != nil {
		return nil, err
	}
	rows, err := s.stmtList.QueryContext(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", p, err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Put stores body under name, replacing any previous body.
func (s *SQLSource) Put(ctx context.Context, name, body string) error {
	p, err := cleanPath(name)
	if err != nil {
		return err
	}
	if p == "." {
		return fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	if _, err = s.stmtPut.ExecContext(ctx, p, path.Dir(p), body); err != nil {
		return fmt.Errorf("failed to store %s: %w", p, err)
	}
	return nil
}

// Import copies every regular file of fsys into the store, keeping relative
// paths. The whole import runs in one transaction and returns the number of
// files written.
func (s *SQLSource) Import(ctx context.Context, fsys fs.FS) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction for import: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	stmtPut := tx.StmtContext(ctx, s.stmtPut)

	count := 0
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		if _, err = stmtPut.ExecContext(ctx, p, path.Dir(p), string(data)); err != nil {
			return fmt.Errorf("failed to store %s: %w", p, err)
		}
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit import: %w", err)
	}

	s.logger.InfoContext(ctx, "Imported template files",
		slog.Int("files_imported", count),
	)
	return count, nil
}
