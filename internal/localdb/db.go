// Package localdb opens the per-installation SQLite file that keeps the
// persisted session marker, migrating it on first use.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/equilibri/internal/dbx"
	"github.com/dmitrijs2005/equilibri/internal/filex"
	"github.com/dmitrijs2005/equilibri/internal/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded local migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Local)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrations.LocalDir); err != nil {
		return fmt.Errorf("migrate local db: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the SQLite file at path and migrates it.
// The caller owns the returned handle.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("local db: %w", err)
	}

	db, err := dbx.Open(ctx, "sqlite", path)
	if err != nil {
		return nil, err
	}

	// one writer at a time keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
