package users

import (
	"context"

	"github.com/dmitrijs2005/equilibri/internal/models"
)

// Repository stores registered accounts. Create returns common.ErrConflict
// when the login is taken; lookups return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
