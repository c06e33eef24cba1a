package repository

import (
	"context"
	"sync"
	"time"

	"meme-generator/models"
)

type memoryEntry struct {
	state     models.SessionState
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory until they expire
// Implements SessionRepositoryInterface
type MemorySessionRepository struct {
	ttl      time.Duration
	sessions map[string]memoryEntry
	mutex    sync.RWMutex
	now      func() time.Time
}

// Ensure MemorySessionRepository implements SessionRepositoryInterface
var _ SessionRepositoryInterface = (*MemorySessionRepository)(nil)

// NewMemorySessionRepository creates a new MemorySessionRepository
// ttl 0 keeps sessions until they are deleted
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// Get returns the stored state of a session
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (models.SessionState, error) {
	r.mutex.RLock()
	entry, ok := r.sessions[id]
	r.mutex.RUnlock()

	if !ok || r.expired(entry) {
		return models.SessionState{}, ErrSessionNotFound
	}
	return entry.state, nil
}

// Save stores the state of a session and refreshes its expiry
func (r *MemorySessionRepository) Save(ctx context.Context, state models.SessionState) error {
	entry := memoryEntry{state: state}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sessions[state.ID] = entry
	r.sweepLocked()
	return nil
}

// Delete removes a session
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	delete(r.sessions, id)
	r.mutex.Unlock()
	return nil
}

func (r *MemorySessionRepository) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt)
}

// sweepLocked drops expired sessions; caller holds the write lock
func (r *MemorySessionRepository) sweepLocked() {
	for id, entry := range r.sessions {
		if r.expired(entry) {
			delete(r.sessions, id)
		}
	}
}
