package Iservices

import "interview-assistant/internal/domain/entities"

// ISessionService owns the per-session state store. Mutations within a
// session are serialized; Mutate runs fn under the session's lock and
// persists the result only when fn returns nil.
type ISessionService interface {
	Initialize(sessionID string) (entities.SessionState, error)
	Find(sessionID string) (entities.SessionState, error)
	Reset(sessionID string) (entities.SessionState, error)
	Mutate(sessionID string, fn func(*entities.SessionState) error) (entities.SessionState, error)
}
