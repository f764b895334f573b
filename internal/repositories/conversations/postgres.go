// Package conversations provides the PostgreSQL-backed conversation
// repository.
package conversations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/dmitrijs2005/equilibri/internal/dbx"
	"github.com/dmitrijs2005/equilibri/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts conv and fills in its ID and CreatedAt. An unknown owner
// yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	query :=
		`INSERT INTO conversations (user_id, title)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, conv.UserID, conv.Title).Scan(&conv.ID, &conv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return conv, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	query :=
		`SELECT c.id, c.title, c.created_at, COUNT(m.id)
		 FROM conversations c
		 LEFT JOIN messages m ON m.conversation_id = c.id
		 WHERE c.user_id = $1
		 GROUP BY c.id, c.title, c.created_at
		 ORDER BY c.created_at DESC, c.id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var item models.ConversationSummary
		if err := rows.Scan(&item.ID, &item.Title, &item.CreatedAt, &item.MessageCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	query :=
		`SELECT id, user_id, title, created_at FROM conversations
		 WHERE id = $1
		 `

	conv := &models.Conversation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return conv, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
