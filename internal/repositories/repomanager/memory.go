package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/equilibri/internal/dbx"
	"github.com/dmitrijs2005/equilibri/internal/repositories/conversations"
	"github.com/dmitrijs2005/equilibri/internal/repositories/memory"
	"github.com/dmitrijs2005/equilibri/internal/repositories/messages"
	"github.com/dmitrijs2005/equilibri/internal/repositories/users"
)

// MemoryRepositoryManager serves every repository from one in-process store.
// The handle argument is ignored, so callers may pass nil.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.store.Users() }

func (m *MemoryRepositoryManager) Conversations(dbx.DBTX) conversations.Repository {
	return m.store.Conversations()
}

func (m *MemoryRepositoryManager) Messages(dbx.DBTX) messages.Repository { return m.store.Messages() }
