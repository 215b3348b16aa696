package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/CTAG07/Parsifal/pkg/engine"
	"github.com/CTAG07/Parsifal/pkg/source"
)

// initDB opens the template database with the driver chosen at build time.
// SQLite allows a single writer, so the pool is limited to one connection.
func initDB(dataSource string) (*sql.DB, error) {
	db, err := sql.Open(sqlDriver, dataSource)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// openSource returns the file source for the run: the SQLite store when a
// database is configured, the template directory otherwise. The returned
// function releases it.
func openSource(ctx context.Context, opts *Options, logger *slog.Logger) (engine.Source, func(), error) {
	if opts.Database == "" {
		logger.Debug("Reading templates from directory", "dir", opts.Dir)
		return source.NewDirSource(opts.Dir), func() {}, nil
	}

	db, err := initDB(opts.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err = source.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to set up template schema: %w", err)
	}
	s, err := source.NewSQLSource(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create template store: %w", err)
	}
	release := func() {
		s.Close()
		_ = db.Close()
	}

	if opts.Import {
		if _, err = s.Import(ctx, os.DirFS(opts.Dir)); err != nil {
			release()
			return nil, nil, fmt.Errorf("failed to import %s: %w", opts.Dir, err)
		}
	}
	logger.Debug("Reading templates from database", "database", opts.Database)
	return s, release, nil
}
