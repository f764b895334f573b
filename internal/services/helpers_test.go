package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/equilibri/internal/assistant"
	"github.com/dmitrijs2005/equilibri/internal/config"
	"github.com/dmitrijs2005/equilibri/internal/localdb"
	"github.com/dmitrijs2005/equilibri/internal/logging"
	"github.com/dmitrijs2005/equilibri/internal/repositories/repomanager"
	"github.com/dmitrijs2005/equilibri/internal/session"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rm       *repomanager.MemoryRepositoryManager
	local    *sql.DB
	cfg      *config.Config
	auth     *AuthService
	store    *ConversationService
	sessions *session.Manager
	ctrl     *Controller
}

func newLocalDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := localdb.Open(context.Background(), filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newFixture(t *testing.T, responder assistant.Responder) *fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionSecret = "test-secret"
	cfg.AssistantTimeout = time.Second

	if responder == nil {
		responder = assistant.EchoResponder{}
	}

	f := &fixture{
		rm:       repomanager.NewMemoryRepositoryManager(),
		local:    newLocalDB(t),
		cfg:      cfg,
		sessions: session.NewManager(),
	}
	log := logging.Discard()
	f.auth = NewAuthService(nil, f.rm, f.local, cfg, log)
	f.store = NewConversationService(nil, f.rm, log)
	f.ctrl = NewController(f.sessions, f.store, responder, cfg.AssistantTimeout, log)
	return f
}

// login registers a user, logs in and opens a session for it.
func (f *fixture) login(t *testing.T, login, password string) session.Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, login, []byte(password)))
	u, err := f.auth.Login(ctx, login, []byte(password))
	require.NoError(t, err)
	return f.sessions.Open(u.ID, u.Login)
}

// stubResponder returns reply or err, optionally blocking until unblock is closed.
type stubResponder struct {
	reply   string
	err     error
	started chan struct{}
	unblock chan struct{}
	calls   int
	last    assistant.Request
}

func (s *stubResponder) Respond(ctx context.Context, req assistant.Request) (string, error) {
	s.calls++
	s.last = req
	if s.started != nil {
		close(s.started)
	}
	if s.unblock != nil {
		select {
		case <-s.unblock:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}
