package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"interview-assistant/internal/domain/dto"
	"interview-assistant/internal/domain/entities"
	"interview-assistant/internal/infra/handlers"
	"interview-assistant/internal/infra/logger"
	"interview-assistant/internal/infra/provider"
	"interview-assistant/internal/infra/routes"
	"interview-assistant/internal/infra/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInterviewService struct {
	startFunc     func(sessionID string, profile entities.CandidateProfile) (entities.SessionState, error)
	answerFunc    func(sessionID, utterance string) (entities.SessionState, string, error)
	skipFunc      func(sessionID string) (entities.SessionState, error)
	resetFunc     func(sessionID string) (entities.SessionState, error)
	sessionFunc   func(sessionID string) (entities.SessionState, error)
	analyticsFunc func(sessionID string) (entities.AnalyticsSnapshot, error)
}

func (f *fakeInterviewService) Start(sessionID string, profile entities.CandidateProfile) (entities.SessionState, error) {
	return f.startFunc(sessionID, profile)
}

func (f *fakeInterviewService) Answer(sessionID, utterance string) (entities.SessionState, string, error) {
	return f.answerFunc(sessionID, utterance)
}

func (f *fakeInterviewService) Skip(sessionID string) (entities.SessionState, error) {
	return f.skipFunc(sessionID)
}

func (f *fakeInterviewService) Reset(sessionID string) (entities.SessionState, error) {
	return f.resetFunc(sessionID)
}

func (f *fakeInterviewService) Session(sessionID string) (entities.SessionState, error) {
	return f.sessionFunc(sessionID)
}

func (f *fakeInterviewService) Analytics(sessionID string) (entities.AnalyticsSnapshot, error) {
	return f.analyticsFunc(sessionID)
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Transcribe(audio []byte) (string, error) {
	return f.text, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(text string) ([]byte, error) {
	if text == "" {
		return nil, provider.ErrEmptySpeechText
	}
	return f.audio, f.err
}

func newTestRouter(svc *fakeInterviewService, recognizer *fakeRecognizer, synthesizer *fakeSynthesizer) *mux.Router {
	log := logger.NewLogger(context.Background(), true)
	router := mux.NewRouter()
	r := routes.NewRoutes(
		router,
		handlers.NewInterviewHandlers(log, svc, 10),
		handlers.NewSpeechHandlers(log, svc, recognizer, synthesizer, 10),
	)
	r.Init()
	return router
}

func interviewingState(sessionID string) entities.SessionState {
	state := entities.NewSessionState(sessionID)
	state.Stage = entities.StageInterviewing
	state.Candidate = entities.CandidateProfile{Name: "Alex", Position: "Backend Engineer", Requirements: "Go"}
	state.Questions = &entities.QuestionSet{Text: "1. Tell me about yourself"}
	return state
}

func postJSON(t *testing.T, router *mux.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStartInterviewMintsSessionID(t *testing.T) {
	var gotSessionID string
	svc := &fakeInterviewService{
		startFunc: func(sessionID string, profile entities.CandidateProfile) (entities.SessionState, error) {
			gotSessionID = sessionID
			return interviewingState(sessionID), nil
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/interview/start", dto.StartInterviewRequest{
		Name: "Alex", Position: "Backend Engineer", Requirements: "Go",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, gotSessionID)

	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gotSessionID, resp.SessionID)
	assert.Equal(t, string(entities.StageInterviewing), resp.Stage)
	assert.Equal(t, 10, resp.QuestionBudget)
}

func TestStartInterviewKeepsClientSessionID(t *testing.T) {
	svc := &fakeInterviewService{
		startFunc: func(sessionID string, profile entities.CandidateProfile) (entities.SessionState, error) {
			return interviewingState(sessionID), nil
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/interview/start", dto.StartInterviewRequest{
		SessionID: "client-chosen", Name: "Alex", Position: "Backend Engineer", Requirements: "Go",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "client-chosen", resp.SessionID)
}

func TestStartInterviewErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"incomplete profile", services.ErrMissingProfileFields, http.StatusBadRequest},
		{"already started", services.ErrInterviewAlreadyStarted, http.StatusConflict},
		{"generation failure", assert.AnError, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeInterviewService{
				startFunc: func(sessionID string, profile entities.CandidateProfile) (entities.SessionState, error) {
					return entities.SessionState{}, tc.err
				},
			}
			router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

			rec := postJSON(t, router, "/interview/start", dto.StartInterviewRequest{
				Name: "Alex", Position: "Backend Engineer", Requirements: "Go",
			})
			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAnswerReturnsReplyAndSession(t *testing.T) {
	svc := &fakeInterviewService{
		answerFunc: func(sessionID, utterance string) (entities.SessionState, string, error) {
			state := interviewingState(sessionID)
			state.CurrentQuestion = 1
			return state, "Why Go?", nil
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/interview/answer", dto.AnswerRequest{SessionID: "s1", Answer: "six years"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Why Go?", resp.Reply)
	assert.Equal(t, 1, resp.Session.CurrentQuestion)
	assert.Empty(t, resp.Transcribed)
}

func TestAnswerTurnErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown session", services.ErrSessionNotFound, http.StatusNotFound},
		{"empty answer", services.ErrEmptyUtterance, http.StatusBadRequest},
		{"not active", services.ErrInterviewNotActive, http.StatusConflict},
		{"reset mid-turn", services.ErrSessionReset, http.StatusConflict},
		{"upstream failure", assert.AnError, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeInterviewService{
				answerFunc: func(sessionID, utterance string) (entities.SessionState, string, error) {
					return entities.SessionState{}, "", tc.err
				},
			}
			router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

			rec := postJSON(t, router, "/interview/answer", dto.AnswerRequest{SessionID: "s1", Answer: "x"})
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestVoiceAnswerTranscribesThenAnswers(t *testing.T) {
	var gotUtterance string
	svc := &fakeInterviewService{
		answerFunc: func(sessionID, utterance string) (entities.SessionState, string, error) {
			gotUtterance = utterance
			return interviewingState(sessionID), "Good answer.", nil
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{text: "I would use channels"}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/interview/voice", dto.VoiceAnswerRequest{
		SessionID:   "s1",
		AudioBase64: base64.StdEncoding.EncodeToString([]byte("pcm")),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "I would use channels", gotUtterance)

	var resp dto.AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Good answer.", resp.Reply)
	assert.Equal(t, "I would use channels", resp.Transcribed)
}

func TestVoiceAnswerRecognitionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no speech", provider.ErrNoSpeech, http.StatusUnprocessableEntity},
		{"device unavailable", provider.ErrDeviceUnavailable, http.StatusServiceUnavailable},
		{"service unreachable", provider.ErrServiceUnreachable, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&fakeInterviewService{}, &fakeRecognizer{err: tc.err}, &fakeSynthesizer{})

			rec := postJSON(t, router, "/interview/voice", dto.VoiceAnswerRequest{
				SessionID:   "s1",
				AudioBase64: base64.StdEncoding.EncodeToString([]byte("pcm")),
			})
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestVoiceAnswerRejectsBadBase64(t *testing.T) {
	router := newTestRouter(&fakeInterviewService{}, &fakeRecognizer{}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/interview/voice", dto.VoiceAnswerRequest{
		SessionID:   "s1",
		AudioBase64: "not base64!!!",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSkipReturnsUpdatedSession(t *testing.T) {
	svc := &fakeInterviewService{
		skipFunc: func(sessionID string) (entities.SessionState, error) {
			state := interviewingState(sessionID)
			state.CurrentQuestion = 3
			return state, nil
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/interview/skip", dto.SessionRequest{SessionID: "s1"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.CurrentQuestion)
}

func TestResetUnknownSessionIs404(t *testing.T) {
	svc := &fakeInterviewService{
		resetFunc: func(sessionID string) (entities.SessionState, error) {
			return entities.SessionState{}, services.ErrSessionNotFound
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/interview/reset", dto.SessionRequest{SessionID: "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionRequiresSessionID(t *testing.T) {
	router := newTestRouter(&fakeInterviewService{}, &fakeRecognizer{}, &fakeSynthesizer{})

	req := httptest.NewRequest(http.MethodGet, "/interview/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSessionReturnsState(t *testing.T) {
	svc := &fakeInterviewService{
		sessionFunc: func(sessionID string) (entities.SessionState, error) {
			return interviewingState(sessionID), nil
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

	req := httptest.NewRequest(http.MethodGet, "/interview/session?session_id=s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "Alex", resp.Candidate.Name)
}

func TestGetAnalyticsIsLabeledSynthetic(t *testing.T) {
	svc := &fakeInterviewService{
		analyticsFunc: func(sessionID string) (entities.AnalyticsSnapshot, error) {
			return entities.AnalyticsSnapshot{
				EmotionHistory:    []string{"Calm"},
				TechnicalScore:    42,
				QuestionsAnswered: 3,
				InterviewDuration: 120,
			}, nil
		},
	}
	router := newTestRouter(svc, &fakeRecognizer{}, &fakeSynthesizer{})

	req := httptest.NewRequest(http.MethodGet, "/interview/analytics?session_id=s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AnalyticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Synthetic)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, 42, resp.Analytics.TechnicalScore)
}

func TestSynthesizeReturnsAudio(t *testing.T) {
	router := newTestRouter(&fakeInterviewService{}, &fakeRecognizer{}, &fakeSynthesizer{audio: []byte("mp3 bytes")})

	rec := postJSON(t, router, "/speech/synthesize", dto.SynthesizeRequest{Text: "Tell me about yourself."})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("mp3 bytes"), rec.Body.Bytes())
}

func TestSynthesizeEmptyTextIs400(t *testing.T) {
	router := newTestRouter(&fakeInterviewService{}, &fakeRecognizer{}, &fakeSynthesizer{})

	rec := postJSON(t, router, "/speech/synthesize", dto.SynthesizeRequest{Text: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&fakeInterviewService{}, &fakeRecognizer{}, &fakeSynthesizer{})

	req := httptest.NewRequest(http.MethodGet, "/healthCheck", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
