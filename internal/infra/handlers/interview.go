package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"interview-assistant/internal/domain/dto"
	"interview-assistant/internal/domain/entities"
	Iservices "interview-assistant/internal/domain/interfaces/services"
	"interview-assistant/internal/infra/logger"
	"interview-assistant/internal/infra/services"

	"github.com/google/uuid"
)

type InterviewHandlers struct {
	Logger           *logger.Logger
	InterviewService Iservices.IInterviewService
	QuestionBudget   int
}

func NewInterviewHandlers(logger *logger.Logger, interviewService Iservices.IInterviewService, questionBudget int) *InterviewHandlers {
	return &InterviewHandlers{Logger: logger, InterviewService: interviewService, QuestionBudget: questionBudget}
}

// StartInterview validates the candidate form, creates the session (with a
// server-minted id when the client supplies none) and generates the
// question set.
func (ih *InterviewHandlers) StartInterview(w http.ResponseWriter, r *http.Request) {
	var req dto.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	profile := entities.CandidateProfile{
		Name:         req.Name,
		Position:     req.Position,
		Requirements: req.Requirements,
	}
	state, err := ih.InterviewService.Start(req.SessionID, profile)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingProfileFields):
			writeError(w, http.StatusBadRequest, "Please fill in all required fields before starting the interview.")
		case errors.Is(err, services.ErrInterviewAlreadyStarted):
			writeError(w, http.StatusConflict, "Interview already started for this session.")
		default:
			ih.Logger.Error(fmt.Sprintf("Failed to start interview for session %s: %v", req.SessionID, err))
			writeError(w, http.StatusBadGateway, "Failed to generate interview questions. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewSessionResponse(state, ih.QuestionBudget))
}

// Answer processes one text utterance as a turn.
func (ih *InterviewHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	var req dto.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	state, reply, err := ih.InterviewService.Answer(req.SessionID, req.Answer)
	if err != nil {
		writeTurnError(ih.Logger, w, req.SessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AnswerResponse{
		Session: dto.NewSessionResponse(state, ih.QuestionBudget),
		Reply:   reply,
	})
}

func (ih *InterviewHandlers) Skip(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	state, err := ih.InterviewService.Skip(req.SessionID)
	if err != nil {
		writeTurnError(ih.Logger, w, req.SessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewSessionResponse(state, ih.QuestionBudget))
}

func (ih *InterviewHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	state, err := ih.InterviewService.Reset(req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found.")
			return
		}
		ih.Logger.Error(fmt.Sprintf("Failed to reset session %s: %v", req.SessionID, err))
		writeError(w, http.StatusInternalServerError, "Failed to reset the interview.")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewSessionResponse(state, ih.QuestionBudget))
}

func (ih *InterviewHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id query parameter is required")
		return
	}

	state, err := ih.InterviewService.Session(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load the session.")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewSessionResponse(state, ih.QuestionBudget))
}

func (ih *InterviewHandlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id query parameter is required")
		return
	}

	snapshot, err := ih.InterviewService.Analytics(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load analytics.")
		return
	}

	writeJSON(w, http.StatusOK, dto.AnalyticsResponse{
		SessionID: sessionID,
		Synthetic: true,
		Analytics: snapshot,
	})
}

func writeTurnError(logger *logger.Logger, w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found.")
	case errors.Is(err, services.ErrEmptyUtterance):
		writeError(w, http.StatusBadRequest, "Answer must not be empty.")
	case errors.Is(err, services.ErrInterviewNotActive):
		writeError(w, http.StatusConflict, "Interview is not in progress for this session.")
	case errors.Is(err, services.ErrSessionReset):
		writeError(w, http.StatusConflict, "Session was reset; the turn was discarded.")
	default:
		logger.Error(fmt.Sprintf("Turn failed for session %s: %v", sessionID, err))
		writeError(w, http.StatusBadGateway, "Failed to process your answer. Please try again.")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}
