package markers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/dmitrijs2005/equilibri/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM markers WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load marker[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Store(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO markers (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store marker[%s]: %w", key, err)
	}
	return nil
}

// Erase removes the key. Erasing an absent key is not an error.
func (r *SQLiteRepository) Erase(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM markers WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to erase marker[%s]: %w", key, err)
	}
	return nil
}
