package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"interview-assistant/internal/domain/entities"
	"interview-assistant/internal/domain/interfaces/repository"
	"interview-assistant/internal/infra/logger"
	memrepo "interview-assistant/internal/infra/repository"
)

const sessionCollection = "InterviewSessions"

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionReset marks a turn whose result arrived after the session
	// was reset; the stale result is discarded, never applied.
	ErrSessionReset = errors.New("session was reset while the turn was in flight")
)

// SessionService is the session state store. It serializes mutations per
// session key via a dedicated lock and keeps no cross-session state.
type SessionService struct {
	SessionRepository repository.Repository[entities.SessionState]
	Ctx               context.Context
	Logger            *logger.Logger
	locks             sync.Map // session id -> *sync.Mutex
}

func NewSessionService(sessionRepository repository.Repository[entities.SessionState], ctx context.Context, logger *logger.Logger) *SessionService {
	return &SessionService{
		SessionRepository: sessionRepository,
		Ctx:               ctx,
		Logger:            logger,
	}
}

func (ss *SessionService) sessionLock(sessionID string) *sync.Mutex {
	lock, _ := ss.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Initialize creates a fully-defaulted session if none exists yet. Calling
// it on an existing session is a no-op returning the current state.
func (ss *SessionService) Initialize(sessionID string) (entities.SessionState, error) {
	lock := ss.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := ss.SessionRepository.FindByID(ss.Ctx, sessionCollection, sessionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, memrepo.ErrNotFound) {
		ss.Logger.Error(fmt.Sprintf("Failed to look up session %s: %v", sessionID, err))
		return entities.SessionState{}, fmt.Errorf("failed to look up session %s: %w", sessionID, err)
	}

	state := entities.NewSessionState(sessionID)
	created, err := ss.SessionRepository.Create(ss.Ctx, sessionCollection, sessionID, state)
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to initialize session %s: %v", sessionID, err))
		return entities.SessionState{}, fmt.Errorf("failed to initialize session %s: %w", sessionID, err)
	}

	ss.Logger.Info(fmt.Sprintf("Initialized session %s", sessionID))
	return created, nil
}

func (ss *SessionService) Find(sessionID string) (entities.SessionState, error) {
	state, err := ss.SessionRepository.FindByID(ss.Ctx, sessionCollection, sessionID)
	if err != nil {
		if errors.Is(err, memrepo.ErrNotFound) {
			return entities.SessionState{}, ErrSessionNotFound
		}
		return entities.SessionState{}, err
	}
	return state, nil
}

// Reset unconditionally restores defaults and bumps the epoch so that any
// in-flight turn against the old state is discarded when it returns.
func (ss *SessionService) Reset(sessionID string) (entities.SessionState, error) {
	lock := ss.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	current, err := ss.SessionRepository.FindByID(ss.Ctx, sessionCollection, sessionID)
	if err != nil {
		if errors.Is(err, memrepo.ErrNotFound) {
			return entities.SessionState{}, ErrSessionNotFound
		}
		return entities.SessionState{}, err
	}

	state := entities.NewSessionState(sessionID)
	state.Epoch = current.Epoch + 1

	updated, err := ss.SessionRepository.Update(ss.Ctx, sessionCollection, sessionID, state)
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to reset session %s: %v", sessionID, err))
		return entities.SessionState{}, fmt.Errorf("failed to reset session %s: %w", sessionID, err)
	}

	ss.Logger.Info(fmt.Sprintf("Reset session %s", sessionID))
	return updated, nil
}

// Mutate loads the session, applies fn under the session lock and persists
// the result. When fn returns an error nothing is written.
func (ss *SessionService) Mutate(sessionID string, fn func(*entities.SessionState) error) (entities.SessionState, error) {
	lock := ss.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := ss.SessionRepository.FindByID(ss.Ctx, sessionCollection, sessionID)
	if err != nil {
		if errors.Is(err, memrepo.ErrNotFound) {
			return entities.SessionState{}, ErrSessionNotFound
		}
		return entities.SessionState{}, err
	}

	if err := fn(&state); err != nil {
		return state, err
	}

	state.UpdatedAt = time.Now()
	updated, err := ss.SessionRepository.Update(ss.Ctx, sessionCollection, sessionID, state)
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to update session %s: %v", sessionID, err))
		return entities.SessionState{}, fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}

	return updated, nil
}
