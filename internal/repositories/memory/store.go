// Package memory is an in-process credential store serving the same
// repository interfaces as the PostgreSQL implementations. It is used when
// no database DSN is configured and by service tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/dmitrijs2005/equilibri/internal/models"
	"github.com/dmitrijs2005/equilibri/internal/repositories/conversations"
	"github.com/dmitrijs2005/equilibri/internal/repositories/messages"
	"github.com/dmitrijs2005/equilibri/internal/repositories/users"
)

// Store holds all tables behind one lock, so a conversation delete and its
// message cascade are observed atomically.
type Store struct {
	mu sync.RWMutex

	users   map[int64]models.User
	logins  map[string]int64
	convs   map[int64]models.Conversation
	msgs    map[int64][]models.Message
	seq     [3]int64
	nowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[int64]models.User),
		logins:  make(map[string]int64),
		convs:   make(map[int64]models.Conversation),
		msgs:    make(map[int64][]models.Message),
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Each table has its own ID sequence, like the BIGSERIAL columns.
const (
	userSeq = iota
	convSeq
	msgSeq
)

// nextID must be called with mu held.
func (s *Store) nextID(table int) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) Users() users.Repository                 { return userRepo{s} }
func (s *Store) Conversations() conversations.Repository { return convRepo{s} }
func (s *Store) Messages() messages.Repository           { return messageRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logins[user.Login]; ok {
		return nil, common.ErrConflict
	}
	user.ID = s.nextID(userSeq)
	user.CreatedAt = s.nowFunc()
	s.users[user.ID] = *user
	s.logins[user.Login] = user.ID
	return user, nil
}

func (r userRepo) GetByLogin(_ context.Context, login string) (*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.logins[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

type convRepo struct{ s *Store }

func (r convRepo) Create(_ context.Context, conv *models.Conversation) (*models.Conversation, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[conv.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	conv.ID = s.nextID(convSeq)
	conv.CreatedAt = s.nowFunc()
	s.convs[conv.ID] = *conv
	return conv, nil
}

func (r convRepo) ListByUser(_ context.Context, userID int64) ([]models.ConversationSummary, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.ConversationSummary, 0)
	for _, c := range s.convs {
		if c.UserID != userID {
			continue
		}
		result = append(result, models.ConversationSummary{
			ID:           c.ID,
			Title:        c.Title,
			CreatedAt:    c.CreatedAt,
			MessageCount: len(s.msgs[c.ID]),
		})
	}
	slices.SortFunc(result, func(a, b models.ConversationSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}

func (r convRepo) GetByID(_ context.Context, id int64) (*models.Conversation, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.convs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r convRepo) Delete(_ context.Context, userID, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convs[id]
	if !ok || c.UserID != userID {
		return common.ErrorNotFound
	}
	delete(s.convs, id)
	delete(s.msgs, id)
	return nil
}

func (r convRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.convs {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

type messageRepo struct{ s *Store }

func (r messageRepo) Append(_ context.Context, msg *models.Message) (*models.Message, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.convs[msg.ConversationID]; !ok {
		return nil, common.ErrorNotFound
	}
	msg.ID = s.nextID(msgSeq)
	msg.CreatedAt = s.nowFunc()
	s.msgs[msg.ConversationID] = append(s.msgs[msg.ConversationID], *msg)
	return msg, nil
}

func (r messageRepo) ListByConversation(_ context.Context, conversationID int64) ([]models.Message, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]models.Message, 0, len(s.msgs[conversationID])), s.msgs[conversationID]...), nil
}

func (r messageRepo) DeleteByConversation(_ context.Context, conversationID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.msgs, conversationID)
	return nil
}
