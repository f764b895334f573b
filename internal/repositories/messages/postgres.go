// Package messages provides the PostgreSQL-backed message log.
package messages

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (conversation_id, role, body)
		 SELECT $1::bigint, $2, $3
		 WHERE EXISTS (SELECT 1 FROM conversations WHERE id = $1::bigint)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, msg.ConversationID, string(msg.Role), msg.Text).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		// conversation removed between the check and the insert
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

func (r *PostgresRepository) ListByConversation(ctx context.Context, conversationID int64) ([]models.Message, error) {
	query :=
		`SELECT id, conversation_id, role, body, created_at FROM messages
		 WHERE conversation_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Message, 0)
	for rows.Next() {
		var (
			item models.Message
			role string
		)
		if err := rows.Scan(&item.ID, &item.ConversationID, &role, &item.Text, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.Role = models.Role(role)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByConversation(ctx context.Context, conversationID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = $1`, conversationID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
