package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/equilibri/internal/dbx"
)

// MemoryDSN selects the in-process store explicitly.
const MemoryDSN = "memory"

// openDB is a seam for tests.
var openDB = dbx.Open

// Open returns the manager for dsn together with its database handle.
// An empty dsn or MemoryDSN yields the in-process store and a nil handle.
// Otherwise the PostgreSQL database is reached and migrated; the caller
// closes the returned handle.
func Open(ctx context.Context, dsn string) (RepositoryManager, *sql.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || dsn == MemoryDSN {
		return NewMemoryRepositoryManager(), nil, nil
	}

	db, err := openDB(ctx, "pgx", dsn)
	if err != nil {
		return nil, nil, err
	}

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate credential store: %w", err)
	}
	return m, db, nil
}
