package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/equilibri/internal/assistant"
	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/dmitrijs2005/equilibri/internal/logging"
	"github.com/dmitrijs2005/equilibri/internal/models"
	"github.com/dmitrijs2005/equilibri/internal/session"
)

// Exchange is the outcome of one send. Assistant is nil when the reply
// could not be produced or stored.
type Exchange struct {
	User      *models.Message
	Assistant *models.Message
}

// ConversationView is what the presentation layer renders for the active
// conversation.
type ConversationView struct {
	Conversation models.Conversation
	Messages     []models.Message
}

// DefaultReplyTimeout bounds an assistant call when no positive timeout is
// given to NewController.
const DefaultReplyTimeout = 30 * time.Second

// Controller runs the operations on a session's active conversation. The
// cursor only moves on select, new chat, deletion of the active
// conversation and logout; failed writes and failed replies leave it alone.
type Controller struct {
	sessions  *session.Manager
	store     *ConversationService
	responder assistant.Responder
	timeout   time.Duration
	logger    logging.Logger
}

// NewController wires the controller and installs the store's delete hook
// so that deleting a conversation unsets every cursor pointing at it. A
// non-positive timeout is replaced by DefaultReplyTimeout.
func NewController(sessions *session.Manager, store *ConversationService, responder assistant.Responder, timeout time.Duration, logger logging.Logger) *Controller {
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	store.SetDeleteHook(func(userID, conversationID int64) {
		sessions.ReleaseConversation(userID, conversationID)
	})
	return &Controller{
		sessions:  sessions,
		store:     store,
		responder: responder,
		timeout:   timeout,
		logger:    logger,
	}
}

func (c *Controller) activeID(sessionID string) (session.Session, error) {
	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return sess, err
	}
	if sess.ActiveConversationID == 0 {
		return sess, common.ErrNoActiveConversation
	}
	return sess, nil
}

// SelectConversation makes conversationID the session's active
// conversation.
func (c *Controller) SelectConversation(ctx context.Context, sessionID string, conversationID int64) error {
	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	conv, err := c.store.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv.UserID != sess.UserID {
		c.logger.Warn(ctx, "conversation of another user requested",
			"session_id", sessionID, "user_id", sess.UserID, "conversation_id", conversationID)
		return common.ErrPermissionDenied
	}

	return c.sessions.SetCursor(sessionID, conv.ID)
}

// SendMessage appends the user's text to the active conversation, asks the
// assistant for a reply and appends that too. The user message is durable
// before the assistant is called. Only one send per session may be in
// flight; a second one gets common.ErrBusy.
func (c *Controller) SendMessage(ctx context.Context, sessionID, text string) (*Exchange, error) {
	sess, err := c.activeID(sessionID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", common.ErrInvalidArgument)
	}

	release, err := c.sessions.BeginSend(sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	convID := sess.ActiveConversationID
	log := c.logger.With("session_id", sessionID, "conversation_id", convID)

	history, err := c.store.Messages(ctx, convID)
	if err != nil {
		return nil, err
	}

	userMsg, err := c.store.AppendMessage(ctx, convID, models.RoleUser, text)
	if err != nil {
		return nil, err
	}
	ex := &Exchange{User: userMsg}

	reply, err := c.respond(ctx, assistant.Request{ConversationID: convID, History: history, Input: text})
	if err != nil {
		log.Warn(ctx, "assistant failed, user message kept", "error", err)
		return ex, fmt.Errorf("%w: %v", common.ErrCollaboratorFailure, err)
	}

	ex.Assistant, err = c.store.AppendMessage(ctx, convID, models.RoleAssistant, reply)
	if err != nil {
		return ex, err
	}

	_ = c.sessions.Touch(sessionID)
	log.Debug(ctx, "exchange stored", "user_message_id", userMsg.ID, "assistant_message_id", ex.Assistant.ID)
	return ex, nil
}

func (c *Controller) respond(ctx context.Context, req assistant.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.responder.Respond(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("empty reply")
	}
	return reply, nil
}

// ClearActive removes every message of the active conversation.
func (c *Controller) ClearActive(ctx context.Context, sessionID string) error {
	sess, err := c.activeID(sessionID)
	if err != nil {
		return err
	}
	return c.store.ClearMessages(ctx, sess.ActiveConversationID)
}

// NewChat creates a conversation for the session's user and selects it.
func (c *Controller) NewChat(ctx context.Context, sessionID, title string) (*models.Conversation, error) {
	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	conv, err := c.store.CreateConversation(ctx, sess.UserID, title)
	if err != nil {
		return nil, err
	}
	if err := c.sessions.SetCursor(sessionID, conv.ID); err != nil {
		return nil, err
	}
	return conv, nil
}

// DeleteConversation deletes one of the session user's conversations. If it
// was active in any of the user's sessions, those cursors become unset.
func (c *Controller) DeleteConversation(ctx context.Context, sessionID string, conversationID int64) error {
	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return c.store.DeleteConversation(ctx, sess.UserID, conversationID)
}

func (c *Controller) ListConversations(ctx context.Context, sessionID string) ([]models.ConversationSummary, error) {
	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return c.store.ListConversations(ctx, sess.UserID)
}

// ActiveConversation returns the active conversation with its messages.
func (c *Controller) ActiveConversation(ctx context.Context, sessionID string) (*ConversationView, error) {
	sess, err := c.activeID(sessionID)
	if err != nil {
		return nil, err
	}

	conv, err := c.store.GetConversation(ctx, sess.ActiveConversationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// removed behind this process's back
			_ = c.sessions.ClearCursor(sessionID)
			return nil, common.ErrNoActiveConversation
		}
		return nil, err
	}
	msgs, err := c.store.Messages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return &ConversationView{Conversation: *conv, Messages: msgs}, nil
}
