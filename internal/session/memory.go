package session

import (
	"errors"
	"sync"
	"time"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

var ErrEmptySessionID = errors.New("empty session id")

type Store interface {
	Append(sessionID string, m types.Message) error
	Get(sessionID string) ([]types.Message, error)
	SetTyping(sessionID string, typing bool)
	Typing(sessionID string) bool
	// Claim hands the pending user turn to exactly one caller. It returns the
	// history and true only when the last message is from the user and no
	// other caller holds the claim.
	Claim(sessionID string) ([]types.Message, bool)
	// Release drops the claim and lowers the typing flag.
	Release(sessionID string)
}

// MemoryStore keeps chat sessions in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	max     int
	data    map[string][]types.Message
	typing  map[string]bool
	claimed map[string]bool
	updated map[string]time.Time
}

// NewMemoryStore returns a store that keeps at most maxMessages per session
// (oldest dropped first). maxMessages <= 0 means unbounded.
func NewMemoryStore(maxMessages int) *MemoryStore {
	return &MemoryStore{
		max:     maxMessages,
		data:    make(map[string][]types.Message),
		typing:  make(map[string]bool),
		claimed: make(map[string]bool),
		updated: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Append(sessionID string, m types.Message) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append(s.data[sessionID], m)
	if s.max > 0 && len(msgs) > s.max {
		msgs = append([]types.Message(nil), msgs[len(msgs)-s.max:]...)
	}
	s.data[sessionID] = msgs
	s.updated[sessionID] = time.Now()
	return nil
}

func (s *MemoryStore) Get(sessionID string) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyOf(s.data[sessionID]), nil
}

// SetTyping raises or lowers the flag. Lowering is ignored while a reply is
// claimed; Release lowers it when that reply is done.
func (s *MemoryStore) SetTyping(sessionID string, typing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if typing {
		s.typing[sessionID] = true
		return
	}
	if !s.claimed[sessionID] {
		delete(s.typing, sessionID)
	}
}

func (s *MemoryStore) Typing(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing[sessionID]
}

func (s *MemoryStore) Claim(sessionID string) ([]types.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed[sessionID] {
		return nil, false
	}
	msgs := s.data[sessionID]
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != types.RoleUser {
		// stale flag, nobody is going to answer
		delete(s.typing, sessionID)
		return nil, false
	}
	s.claimed[sessionID] = true
	s.typing[sessionID] = true
	return copyOf(msgs), true
}

func (s *MemoryStore) Release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claimed, sessionID)
	delete(s.typing, sessionID)
}

// Touch creates the session if needed and marks it as recently used.
func (s *MemoryStore) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[sessionID]; !ok {
		s.data[sessionID] = nil
	}
	s.updated[sessionID] = time.Now()
}

// Len reports how many sessions are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Sweep forgets sessions not updated for idle. Sessions with a reply in
// flight are kept.
func (s *MemoryStore) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, at := range s.updated {
		if s.claimed[id] || !at.Before(cutoff) {
			continue
		}
		delete(s.data, id)
		delete(s.typing, id)
		delete(s.updated, id)
		n++
	}
	return n
}

func copyOf(msgs []types.Message) []types.Message {
	out := make([]types.Message, len(msgs))
	copy(out, msgs)
	return out
}
