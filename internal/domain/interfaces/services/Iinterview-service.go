package Iservices

import "interview-assistant/internal/domain/entities"

type IInterviewService interface {
	Start(sessionID string, profile entities.CandidateProfile) (entities.SessionState, error)
	Answer(sessionID string, utterance string) (entities.SessionState, string, error)
	Skip(sessionID string) (entities.SessionState, error)
	Reset(sessionID string) (entities.SessionState, error)
	Session(sessionID string) (entities.SessionState, error)
	Analytics(sessionID string) (entities.AnalyticsSnapshot, error)
}
