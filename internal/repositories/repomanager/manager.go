package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/equilibri/internal/dbx"
	"github.com/dmitrijs2005/equilibri/internal/repositories/conversations"
	"github.com/dmitrijs2005/equilibri/internal/repositories/messages"
	"github.com/dmitrijs2005/equilibri/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a handle (*sql.DB or *sql.Tx).
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Conversations(db dbx.DBTX) conversations.Repository
	Messages(db dbx.DBTX) messages.Repository
}
