package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps live sessions in-process so a principal's tenant cache survives
// across requests. Entries expire after a fixed TTL from creation.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*storeEntry
}

type storeEntry struct {
	sess      *Session
	expiresAt time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*storeEntry),
	}
}

// Put registers a session and returns its opaque ID.
func (st *Store) Put(sess *Session) string {
	id := uuid.New().String()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.purge()
	st.sessions[id] = &storeEntry{sess: sess, expiresAt: time.Now().Add(st.ttl)}
	return id
}

// Get returns the live session for id, or false when unknown or expired.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	entry, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		st.Delete(id)
		return nil, false
	}
	return entry.sess, true
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// purge drops expired entries. Caller holds st.mu.
func (st *Store) purge() {
	now := time.Now()
	for id, entry := range st.sessions {
		if now.After(entry.expiresAt) {
			delete(st.sessions, id)
		}
	}
}
