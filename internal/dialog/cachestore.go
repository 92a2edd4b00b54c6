package dialog

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/m3rciful/recruitbot/internal/i18n"
)

// expiringStore is a Store whose sessions are dropped after ttl without a
// message. A user returning after that starts over at language selection.
type expiringStore struct {
	// mu serializes read-modify-write cycles; the cache locks each call only.
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
}

// NewExpiringStore returns a Store that forgets sessions idle for longer
// than ttl. A ttl <= 0 yields the non-evicting memory store.
func NewExpiringStore(ttl time.Duration) Store {
	if ttl <= 0 {
		return NewMemoryStore()
	}
	return &expiringStore{
		items: cache.New(ttl, cleanupEvery(ttl)),
		ttl:   ttl,
	}
}

func cleanupEvery(ttl time.Duration) time.Duration {
	if ttl < 2*time.Minute {
		return ttl
	}
	return ttl / 2
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *expiringStore) load(userID int64) Session {
	if v, ok := s.items.Get(cacheKey(userID)); ok {
		return v.(Session)
	}
	return NewSession(userID)
}

func (s *expiringStore) save(sess Session) Session {
	s.items.Set(cacheKey(sess.UserID), sess, s.ttl)
	return sess
}

func (s *expiringStore) GetOrCreate(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(s.load(userID))
}

func (s *expiringStore) Update(userID int64, fn func(Session) Session) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.load(userID))
	next.UserID = userID
	return s.save(next)
}

func (s *expiringStore) Reset(userID int64, lang i18n.Language) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(newCycle(userID, lang))
}

func (s *expiringStore) Restart(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(NewSession(userID))
}

// Len may include expired sessions the janitor has not swept yet.
func (s *expiringStore) Len() int {
	return s.items.ItemCount()
}
