package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"interview-assistant/internal/domain/dto"
	Iservices "interview-assistant/internal/domain/interfaces/services"
	"interview-assistant/internal/infra/logger"
	"interview-assistant/internal/infra/provider"
)

type SpeechHandlers struct {
	Logger           *logger.Logger
	InterviewService Iservices.IInterviewService
	Recognizer       provider.ISpeechToTextProvider
	Synthesizer      provider.ITextToSpeechProvider
	QuestionBudget   int
}

func NewSpeechHandlers(logger *logger.Logger, interviewService Iservices.IInterviewService, recognizer provider.ISpeechToTextProvider, synthesizer provider.ITextToSpeechProvider, questionBudget int) *SpeechHandlers {
	return &SpeechHandlers{
		Logger:           logger,
		InterviewService: interviewService,
		Recognizer:       recognizer,
		Synthesizer:      synthesizer,
		QuestionBudget:   questionBudget,
	}
}

// VoiceAnswer transcribes an audio answer and processes it as a turn.
// Every recognition failure is a distinct, non-fatal outcome: the client
// may simply record again.
func (sh *SpeechHandlers) VoiceAnswer(w http.ResponseWriter, r *http.Request) {
	var req dto.VoiceAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio_base64 is not valid base64")
		return
	}

	text, err := sh.Recognizer.Transcribe(audio)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrNoSpeech):
			writeError(w, http.StatusUnprocessableEntity, "Could not understand audio. Please speak clearly and try again.")
		case errors.Is(err, provider.ErrDeviceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "Error accessing microphone. Please check your microphone settings.")
		default:
			sh.Logger.Error(fmt.Sprintf("Speech recognition failed for session %s: %v", req.SessionID, err))
			writeError(w, http.StatusBadGateway, "Could not request results from speech recognition service.")
		}
		return
	}

	state, reply, err := sh.InterviewService.Answer(req.SessionID, text)
	if err != nil {
		writeTurnError(sh.Logger, w, req.SessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AnswerResponse{
		Session:     dto.NewSessionResponse(state, sh.QuestionBudget),
		Reply:       reply,
		Transcribed: text,
	})
}

// Synthesize returns spoken audio for the supplied text. Empty input is
// rejected before any call to the synthesis engine.
func (sh *SpeechHandlers) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req dto.SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	audio, err := sh.Synthesizer.Synthesize(req.Text)
	if err != nil {
		if errors.Is(err, provider.ErrEmptySpeechText) {
			writeError(w, http.StatusBadRequest, "Empty text provided for speech conversion.")
			return
		}
		sh.Logger.Error(fmt.Sprintf("Speech synthesis failed: %v", err))
		writeError(w, http.StatusBadGateway, "Error in text-to-speech.")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
