package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"meme-generator/models"
	"meme-generator/repository"
	"meme-generator/state"

	"github.com/google/uuid"
)

// DefaultPageSize is how many templates each "Load More" reveals
const DefaultPageSize = 4

const catalogStoreAttempts = 3

// SessionService owns the editor state of every session and applies one transition at a time
// Implements SessionServiceInterface
type SessionService struct {
	catalog    CatalogClientInterface
	repository repository.SessionRepositoryInterface
	pageSize   int
	retryDelay time.Duration

	// Serializes read-modify-write of session state
	mutex sync.Mutex
	loads sync.WaitGroup
}

// Ensure SessionService implements SessionServiceInterface
var _ SessionServiceInterface = (*SessionService)(nil)

// NewSessionService creates a new SessionService
func NewSessionService(catalog CatalogClientInterface, repo repository.SessionRepositoryInterface, pageSize int) *SessionService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SessionService{
		catalog:    catalog,
		repository: repo,
		pageSize:   pageSize,
		retryDelay: 200 * time.Millisecond,
	}
}

// Start creates a session and begins its one catalog load in the background
func (s *SessionService) Start(ctx context.Context) (models.SessionSnapshot, error) {
	st := state.NewSession(uuid.NewString(), s.pageSize)
	if err := s.repository.Save(ctx, st); err != nil {
		return models.SessionSnapshot{}, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("🆕 Session started: %s", st.ID)

	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		s.loadCatalog(st.ID)
	}()

	return state.Snapshot(st), nil
}

// loadCatalog runs detached from the request that started the session.
// Storing the result is retried so that catalogLoading is not left raised by one failed write;
// a store that stays unreachable for every attempt still leaves the flag set.
func (s *SessionService) loadCatalog(sessionID string) {
	ctx := context.Background()
	templates, loadErr := s.catalog.LoadCatalog(ctx)
	if loadErr != nil {
		log.Printf("❌ Session %s: catalog load failed: %v", sessionID, loadErr)
	}

	var err error
	for attempt := 1; attempt <= catalogStoreAttempts; attempt++ {
		_, err = s.update(ctx, sessionID, func(st models.SessionState) (models.SessionState, error) {
			if loadErr != nil {
				return state.CatalogFailed(st, loadErr), nil
			}
			return state.CatalogLoaded(st, templates), nil
		})
		if err == nil || errors.Is(err, repository.ErrSessionNotFound) {
			break
		}
		log.Printf("⚠️  Session %s: failed to store catalog result attempt=%d/%d err=%v", sessionID, attempt, catalogStoreAttempts, err)
		if attempt < catalogStoreAttempts {
			time.Sleep(s.retryDelay)
		}
	}
	if err != nil {
		log.Printf("❌ Session %s: failed to store catalog result: %v", sessionID, err)
		return
	}
	if loadErr == nil {
		log.Printf("✓ Session %s: catalog ready with %d templates", sessionID, len(templates))
	}
}

// Wait blocks until every background catalog load has finished
func (s *SessionService) Wait() {
	s.loads.Wait()
}

func (s *SessionService) update(ctx context.Context, sessionID string, apply func(models.SessionState) (models.SessionState, error)) (models.SessionState, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	st, err := s.repository.Get(ctx, sessionID)
	if err != nil {
		return models.SessionState{}, err
	}
	next, err := apply(st)
	if err != nil {
		return st, err
	}
	if err := s.repository.Save(ctx, next); err != nil {
		return st, fmt.Errorf("failed to save session: %w", err)
	}
	return next, nil
}

func (s *SessionService) snapshotAfter(ctx context.Context, sessionID string, apply func(models.SessionState) (models.SessionState, error)) (models.SessionSnapshot, error) {
	st, err := s.update(ctx, sessionID, apply)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	return state.Snapshot(st), nil
}

// Get returns the full state of a session
func (s *SessionService) Get(ctx context.Context, sessionID string) (models.SessionState, error) {
	return s.repository.Get(ctx, sessionID)
}

// Snapshot returns the client view of a session
func (s *SessionService) Snapshot(ctx context.Context, sessionID string) (models.SessionSnapshot, error) {
	st, err := s.repository.Get(ctx, sessionID)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	return state.Snapshot(st), nil
}

// LoadMore reveals the next page of templates
func (s *SessionService) LoadMore(ctx context.Context, sessionID string) (models.SessionSnapshot, error) {
	return s.snapshotAfter(ctx, sessionID, func(st models.SessionState) (models.SessionState, error) {
		return state.LoadMore(st), nil
	})
}

// Select picks a template for editing
func (s *SessionService) Select(ctx context.Context, sessionID string, templateID string) (models.SessionSnapshot, error) {
	return s.snapshotAfter(ctx, sessionID, func(st models.SessionState) (models.SessionState, error) {
		return state.Select(st, templateID)
	})
}

// SetText replaces the caption text
func (s *SessionService) SetText(ctx context.Context, sessionID string, text string) (models.SessionSnapshot, error) {
	return s.snapshotAfter(ctx, sessionID, func(st models.SessionState) (models.SessionState, error) {
		return state.SetText(st, text), nil
	})
}

// OnDragComplete commits the caption's resting offset
func (s *SessionService) OnDragComplete(ctx context.Context, sessionID string, finalOffset models.Offset) (models.SessionSnapshot, error) {
	return s.snapshotAfter(ctx, sessionID, func(st models.SessionState) (models.SessionState, error) {
		return state.SetOffset(st, finalOffset), nil
	})
}
