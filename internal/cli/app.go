package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/equilibri/internal/models"
	"github.com/dmitrijs2005/equilibri/internal/services"
	"github.com/dmitrijs2005/equilibri/internal/session"
)

// Core is what the front end needs from the application. *app.App
// implements it.
type Core interface {
	Restore(ctx context.Context) (session.Session, bool)
	Current() (session.Session, bool)
	Register(ctx context.Context, login string, password []byte) error
	Login(ctx context.Context, login string, password []byte) (session.Session, error)
	Logout(ctx context.Context) error
	ListConversations(ctx context.Context) ([]models.ConversationSummary, error)
	NewChat(ctx context.Context, title string) (*models.Conversation, error)
	SelectConversation(ctx context.Context, conversationID int64) error
	SendMessage(ctx context.Context, text string) (*services.Exchange, error)
	ClearActive(ctx context.Context) error
	DeleteConversation(ctx context.Context, conversationID int64) error
	ActiveConversation(ctx context.Context) (*services.ConversationView, error)
}

type App struct {
	core   Core
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(core Core, in io.Reader, out io.Writer) *App {
	return &App{core: core, reader: bufio.NewReader(in), out: out}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.core.Current()
	return ok
}

func (a *App) getStatus() string {
	s, ok := a.core.Current()
	if !ok {
		return ""
	}
	if s.ActiveConversationID != 0 {
		return fmt.Sprintf(" (%s #%d)", s.Login, s.ActiveConversationID)
	}
	return fmt.Sprintf(" (%s)", s.Login)
}

// Run resumes a saved session or greets a logged-out user, then blocks in
// the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to Equilibri (type 'help' for commands)")

	if s, ok := a.core.Restore(ctx); ok {
		a.println(fmt.Sprintf("Welcome back, %s!", s.Login))
		_ = a.List(ctx)
	} else {
		a.println("Please log in or register.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
