package messages

import (
	"context"

	"github.com/dmitrijs2005/equilibri/internal/models"
)

// Repository is the append-only message log of conversations.
type Repository interface {
	// Append stores msg and fills in ID and CreatedAt. A missing
	// conversation yields common.ErrorNotFound.
	Append(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]models.Message, error)
	DeleteByConversation(ctx context.Context, conversationID int64) error
}
