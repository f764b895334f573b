// Package app is the composition root: it opens both databases, builds the
// services once and tracks the session of the running process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/equilibri/internal/assistant"
	"github.com/dmitrijs2005/equilibri/internal/config"
	"github.com/dmitrijs2005/equilibri/internal/dbx"
	"github.com/dmitrijs2005/equilibri/internal/localdb"
	"github.com/dmitrijs2005/equilibri/internal/logging"
	"github.com/dmitrijs2005/equilibri/internal/models"
	"github.com/dmitrijs2005/equilibri/internal/repositories/repomanager"
	"github.com/dmitrijs2005/equilibri/internal/services"
	"github.com/dmitrijs2005/equilibri/internal/session"
)

// ErrNotLoggedIn is returned by conversation operations while no session
// is open.
var ErrNotLoggedIn = errors.New("not logged in")

type App struct {
	logger logging.Logger

	db    *sql.DB
	local *sql.DB

	auth     *services.AuthService
	store    *services.ConversationService
	ctrl     *services.Controller
	sessions *session.Manager

	mu      sync.Mutex
	current string
}

// New opens the credential store and the local marker database and wires
// the services. An unreachable credential store yields an error wrapping
// common.ErrStorageUnavailable.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	responder, err := assistant.New(assistant.Config{
		Mode:    cfg.AssistantMode,
		BaseURL: cfg.AssistantBaseURL,
		APIKey:  cfg.AssistantAPIKey,
		Model:   cfg.AssistantModel,
	})
	if err != nil {
		return nil, err
	}

	rm, db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}

	local, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("local database: %w", err)
	}

	// a nil *sql.DB must reach the services as a nil interface
	var handle dbx.DBTX
	if db != nil {
		handle = db
	}

	sessions := session.NewManager()
	store := services.NewConversationService(handle, rm, logger)
	a := &App{
		logger:   logger,
		db:       db,
		local:    local,
		auth:     services.NewAuthService(handle, rm, local, cfg, logger),
		store:    store,
		ctrl:     services.NewController(sessions, store, responder, cfg.AssistantTimeout, logger),
		sessions: sessions,
	}

	logger.Info(ctx, "app initialized", "assistant_mode", cfg.AssistantMode, "in_memory_store", db == nil)
	return a, nil
}

// Close releases both database handles.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.local != nil {
		errs = append(errs, a.local.Close())
	}
	return errors.Join(errs...)
}

// openSession replaces the current session with a new one for user.
func (a *App) openSession(ctx context.Context, user *models.User) session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != "" {
		_, _ = a.sessions.End(a.current)
	}
	s := a.sessions.Open(user.ID, user.Login)
	a.current = s.ID
	a.logger.Info(ctx, "session opened", "session_id", s.ID, "user_id", user.ID, "active_sessions", a.sessions.ActiveCount())
	return s
}

// Current returns the open session, if any.
func (a *App) Current() (session.Session, bool) {
	a.mu.Lock()
	id := a.current
	a.mu.Unlock()
	if id == "" {
		return session.Session{}, false
	}
	s, err := a.sessions.Get(id)
	if err != nil {
		return session.Session{}, false
	}
	return s, true
}

func (a *App) currentID() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == "" {
		return "", ErrNotLoggedIn
	}
	return a.current, nil
}

// Restore resumes the session named by the local marker.
func (a *App) Restore(ctx context.Context) (session.Session, bool) {
	user, ok := a.auth.RestoreUser(ctx)
	if !ok {
		return session.Session{}, false
	}
	return a.openSession(ctx, user), true
}

func (a *App) Register(ctx context.Context, login string, password []byte) error {
	return a.auth.Register(ctx, login, password)
}

// Login authenticates, writes the marker and opens a session.
func (a *App) Login(ctx context.Context, login string, password []byte) (session.Session, error) {
	user, err := a.auth.Login(ctx, login, password)
	if err != nil {
		return session.Session{}, err
	}
	return a.openSession(ctx, user), nil
}

// Logout ends the current session and erases the marker. Logging out with
// no session open only erases the marker.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	if a.current != "" {
		_, _ = a.sessions.End(a.current)
		a.current = ""
	}
	a.logger.Info(ctx, "logged out", "active_sessions", a.sessions.ActiveCount())
	a.mu.Unlock()
	return a.auth.ClearSession(ctx)
}

func (a *App) ListConversations(ctx context.Context) ([]models.ConversationSummary, error) {
	id, err := a.currentID()
	if err != nil {
		return nil, err
	}
	return a.ctrl.ListConversations(ctx, id)
}

func (a *App) NewChat(ctx context.Context, title string) (*models.Conversation, error) {
	id, err := a.currentID()
	if err != nil {
		return nil, err
	}
	return a.ctrl.NewChat(ctx, id, title)
}

func (a *App) SelectConversation(ctx context.Context, conversationID int64) error {
	id, err := a.currentID()
	if err != nil {
		return err
	}
	return a.ctrl.SelectConversation(ctx, id, conversationID)
}

func (a *App) SendMessage(ctx context.Context, text string) (*services.Exchange, error) {
	id, err := a.currentID()
	if err != nil {
		return nil, err
	}
	return a.ctrl.SendMessage(ctx, id, text)
}

func (a *App) ClearActive(ctx context.Context) error {
	id, err := a.currentID()
	if err != nil {
		return err
	}
	return a.ctrl.ClearActive(ctx, id)
}

func (a *App) DeleteConversation(ctx context.Context, conversationID int64) error {
	id, err := a.currentID()
	if err != nil {
		return err
	}
	return a.ctrl.DeleteConversation(ctx, id, conversationID)
}

func (a *App) ActiveConversation(ctx context.Context) (*services.ConversationView, error) {
	id, err := a.currentID()
	if err != nil {
		return nil, err
	}
	return a.ctrl.ActiveConversation(ctx, id)
}
