// Package session keeps the process-local registry of logged-in sessions and
// their active-conversation cursors.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

var ErrSessionNotFound = errors.New("session not found")

// Session associates the running process with a user. ActiveConversationID
// is zero while no conversation is selected.
type Session struct {
	ID                   string
	UserID               int64
	Login                string
	Status               Status
	ActiveConversationID int64
	StartedAt            time.Time
	LastActivityAt       time.Time
}

type entry struct {
	s    Session
	send *semaphore.Weighted
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Open registers a new active session for the user with the cursor unset.
func (m *Manager) Open(userID int64, login string) Session {
	now := m.now()
	e := &entry{
		s: Session{
			ID:             uuid.NewString(),
			UserID:         userID,
			Login:          login,
			Status:         StatusActive,
			StartedAt:      now,
			LastActivityAt: now,
		},
		send: semaphore.NewWeighted(1),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[e.s.ID] = e
	return e.s
}

// lookup must be called with mu held.
func (m *Manager) lookup(sessionID string) (*entry, error) {
	e, ok := m.sessions[sessionID]
	if !ok || e.s.Status != StatusActive {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Get returns a copy of the session.
func (m *Manager) Get(sessionID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, err := m.lookup(sessionID)
	if err != nil {
		return Session{}, err
	}
	return e.s, nil
}

func (m *Manager) Touch(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	e.s.LastActivityAt = m.now()
	return nil
}

// SetCursor points the session at conversationID. Ownership is checked by
// the caller.
func (m *Manager) SetCursor(sessionID string, conversationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(sessionID)
	if err != nil {
		return err
	}
	e.s.ActiveConversationID = conversationID
	e.s.LastActivityAt = m.now()
	return nil
}

// ClearCursor unsets the session's active conversation.
func (m *Manager) ClearCursor(sessionID string) error {
	return m.SetCursor(sessionID, 0)
}

// ReleaseConversation unsets the cursor of every session of userID that
// points at conversationID. It returns the number of sessions touched.
func (m *Manager) ReleaseConversation(userID, conversationID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.sessions {
		if e.s.UserID == userID && e.s.ActiveConversationID == conversationID {
			e.s.ActiveConversationID = 0
			n++
		}
	}
	return n
}

// BeginSend claims the session's single send slot without blocking. The
// returned release func must be called once the exchange is over; while the
// slot is held further calls fail with common.ErrBusy.
func (m *Manager) BeginSend(sessionID string) (func(), error) {
	m.mu.RLock()
	e, err := m.lookup(sessionID)
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if !e.send.TryAcquire(1) {
		return nil, common.ErrBusy
	}
	var once sync.Once
	return func() { once.Do(func() { e.send.Release(1) }) }, nil
}

// End marks the session ended and drops it from the registry.
func (m *Manager) End(sessionID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.lookup(sessionID)
	if err != nil {
		return Session{}, err
	}
	e.s.Status = StatusEnded
	e.s.ActiveConversationID = 0
	e.s.LastActivityAt = m.now()
	delete(m.sessions, sessionID)
	return e.s, nil
}

// ActiveCount reports how many sessions are open.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.sessions {
		if e.s.Status == StatusActive {
			count++
		}
	}
	return count
}
