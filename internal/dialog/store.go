package dialog

import (
	"sync"

	"github.com/m3rciful/recruitbot/internal/i18n"
)

// Store keeps one Session per user. Implementations must be safe for
// concurrent use.
type Store interface {
	// GetOrCreate returns the user's session, creating a fresh one on first contact.
	GetOrCreate(userID int64) Session
	// Update applies fn to the user's session atomically and stores the result.
	Update(userID int64, fn func(Session) Session) Session
	// Reset starts a new submission cycle at the main menu, keeping only the language.
	Reset(userID int64, lang i18n.Language) Session
	// Restart drops everything and returns the user to language selection.
	Restart(userID int64) Session
	// Len reports the number of tracked sessions.
	Len() int
}

// memoryStore is the in-process Store. Sessions are never evicted.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]Session)}
}

func (m *memoryStore) GetOrCreate(userID int64) Session {
	m.mu.RLock()
	sess, ok := m.sessions[userID]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(userID)
}

// Update holds the write lock while fn runs, so fn must not block.
func (m *memoryStore) Update(userID int64, fn func(Session) Session) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := fn(m.getOrCreateLocked(userID))
	next.UserID = userID
	m.sessions[userID] = next
	return next
}

func (m *memoryStore) Reset(userID int64, lang i18n.Language) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := newCycle(userID, lang)
	m.sessions[userID] = sess
	return sess
}

func (m *memoryStore) Restart(userID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := NewSession(userID)
	m.sessions[userID] = sess
	return sess
}

func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memoryStore) getOrCreateLocked(userID int64) Session {
	if sess, ok := m.sessions[userID]; ok {
		return sess
	}
	sess := NewSession(userID)
	m.sessions[userID] = sess
	return sess
}
