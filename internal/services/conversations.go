package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/dmitrijs2005/equilibri/internal/dbx"
	"github.com/dmitrijs2005/equilibri/internal/logging"
	"github.com/dmitrijs2005/equilibri/internal/models"
	"github.com/dmitrijs2005/equilibri/internal/repositories/repomanager"
)

// DeleteHook is told about every deleted conversation.
type DeleteHook func(userID, conversationID int64)

// ConversationService owns the rules around conversations and their
// message logs. Every write reaches the store before the call returns.
type ConversationService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	logger      logging.Logger

	mu       sync.RWMutex
	onDelete DeleteHook
}

func NewConversationService(db dbx.DBTX, m repomanager.RepositoryManager, logger logging.Logger) *ConversationService {
	return &ConversationService{db: db, repomanager: m, logger: logger}
}

// SetDeleteHook replaces the hook run after a successful delete.
func (s *ConversationService) SetDeleteHook(hook DeleteHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDelete = hook
}

// storeError maps a repository error to the service vocabulary.
func storeError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrNotFound
	}
	return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
}

// ListConversations returns the user's conversations, newest first.
func (s *ConversationService) ListConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	list, err := s.repomanager.Conversations(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "listing conversations failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}
	if list == nil {
		list = []models.ConversationSummary{}
	}
	return list, nil
}

// CreateConversation starts an empty conversation for userID. A blank title
// becomes "Chat N", N being the user's conversation count plus one.
func (s *ConversationService) CreateConversation(ctx context.Context, userID int64, title string) (*models.Conversation, error) {
	repo := s.repomanager.Conversations(s.db)

	title = strings.TrimSpace(title)
	if title == "" {
		n, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return nil, storeError(err)
		}
		title = fmt.Sprintf(common.DefaultConversationTitleFormat, n+1)
	}

	conv, err := repo.Create(ctx, &models.Conversation{UserID: userID, Title: title})
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "creating conversation failed", "user_id", userID, "error", err)
		}
		return nil, storeError(err)
	}

	s.logger.Info(ctx, "conversation created", "user_id", userID, "conversation_id", conv.ID)
	return conv, nil
}

// DeleteConversation removes a conversation of userID with all its
// messages. A conversation that is missing or owned by someone else is
// common.ErrNotFound.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, conversationID int64) error {
	if err := s.repomanager.Conversations(s.db).Delete(ctx, userID, conversationID); err != nil {
		return storeError(err)
	}

	s.mu.RLock()
	hook := s.onDelete
	s.mu.RUnlock()
	if hook != nil {
		hook(userID, conversationID)
	}

	s.logger.Info(ctx, "conversation deleted", "user_id", userID, "conversation_id", conversationID)
	return nil
}

func (s *ConversationService) GetConversation(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	conv, err := s.repomanager.Conversations(s.db).GetByID(ctx, conversationID)
	if err != nil {
		return nil, storeError(err)
	}
	return conv, nil
}

// AppendMessage adds one message to the end of the conversation's log.
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID int64, role models.Role, text string) (*models.Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrInvalidArgument, role)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is empty", common.ErrInvalidArgument)
	}

	msg, err := s.repomanager.Messages(s.db).Append(ctx, &models.Message{
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
	})
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "appending message failed", "conversation_id", conversationID, "error", err)
		}
		return nil, storeError(err)
	}
	return msg, nil
}

// Messages returns the conversation's log in insertion order.
func (s *ConversationService) Messages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.repomanager.Messages(s.db).ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, storeError(err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// ClearMessages empties the log; the conversation itself stays.
func (s *ConversationService) ClearMessages(ctx context.Context, conversationID int64) error {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return err
	}
	if err := s.repomanager.Messages(s.db).DeleteByConversation(ctx, conversationID); err != nil {
		s.logger.Error(ctx, "clearing conversation failed", "conversation_id", conversationID, "error", err)
		return storeError(err)
	}
	s.logger.Info(ctx, "conversation cleared", "conversation_id", conversationID)
	return nil
}
