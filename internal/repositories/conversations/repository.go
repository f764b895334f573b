package conversations

import (
	"context"

	"github.com/dmitrijs2005/equilibri/internal/models"
)

// Repository stores conversations. Missing rows are reported as
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, conv *models.Conversation) (*models.Conversation, error)
	// ListByUser returns the user's conversations newest first, ties broken
	// by the higher ID. The slice is empty, not nil, when there are none.
	ListByUser(ctx context.Context, userID int64) ([]models.ConversationSummary, error)
	GetByID(ctx context.Context, id int64) (*models.Conversation, error)
	// Delete removes the conversation only if userID owns it. Its messages
	// go with it.
	Delete(ctx context.Context, userID, id int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}
