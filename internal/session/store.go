package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rm-hull/image-enhancer/internal/enhance"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	enhance  EnhanceFunc
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		enhance:  enhance.Enhance,
		now:      time.Now,
	}
}

// Create registers a new session for original. The enhanced image starts
// out as the original with reset parameters.
func (st *Store) Create(original *enhance.PixelBuffer) (*Session, error) {
	if original == nil {
		return nil, fmt.Errorf("failed to create session: %w", enhance.ErrInvalidInput)
	}
	if _, err := enhance.NewPixelBuffer(original.Width, original.Height, original.Pix); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := st.now()
	s := &Session{
		ID:         id,
		Created:    now,
		original:   original,
		enhance:    st.enhance,
		now:        st.now,
		params:     enhance.Reset(),
		enhanced:   original,
		lastAccess: now,
	}

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s, nil
}

// Get returns the session and marks it as recently used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch()
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Evict removes sessions idle for longer than ttl and returns how many
// were removed.
func (st *Store) Evict(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func newID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
