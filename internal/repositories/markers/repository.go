package markers

import (
	"context"
)

// Repository keeps small keyed values in the local database.
// Load returns common.ErrorNotFound for a missing key.
type Repository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, value []byte) error
	Erase(ctx context.Context, key string) error
}
