package dto

import "interview-assistant/internal/domain/entities"

type StartInterviewRequest struct {
	SessionID    string `json:"session_id,omitempty"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Requirements string `json:"requirements"`
}

type AnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type VoiceAnswerRequest struct {
	SessionID   string `json:"session_id"`
	AudioBase64 string `json:"audio_base64"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type SynthesizeRequest struct {
	Text string `json:"text"`
}

type SessionResponse struct {
	SessionID       string                     `json:"session_id"`
	Stage           string                     `json:"stage"`
	CurrentQuestion int                        `json:"current_question"`
	QuestionBudget  int                        `json:"question_budget"`
	Candidate       entities.CandidateProfile  `json:"candidate_info"`
	Questions       *entities.QuestionSet      `json:"interview_questions,omitempty"`
	Transcript      []entities.TranscriptEntry `json:"transcript"`
}

type AnswerResponse struct {
	Session     SessionResponse `json:"session"`
	Reply       string          `json:"reply"`
	Transcribed string          `json:"transcribed,omitempty"`
}

// AnalyticsResponse labels the metrics as synthetic: the values are random
// demo data, not a real signal.
type AnalyticsResponse struct {
	SessionID string                     `json:"session_id"`
	Synthetic bool                       `json:"synthetic"`
	Analytics entities.AnalyticsSnapshot `json:"analytics"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewSessionResponse(state entities.SessionState, budget int) SessionResponse {
	return SessionResponse{
		SessionID:       state.SessionID,
		Stage:           string(state.Stage),
		CurrentQuestion: state.CurrentQuestion,
		QuestionBudget:  budget,
		Candidate:       state.Candidate,
		Questions:       state.Questions,
		Transcript:      state.Transcript,
	}
}
