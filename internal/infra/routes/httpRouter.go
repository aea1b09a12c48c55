package routes

import (
	"encoding/json"
	"net/http"

	"interview-assistant/internal/infra/handlers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Routes struct {
	Mux              *mux.Router
	InterviewHandler *handlers.InterviewHandlers
	SpeechHandler    *handlers.SpeechHandlers
}

func NewRoutes(mux *mux.Router, interviewHandler *handlers.InterviewHandlers, speechHandler *handlers.SpeechHandlers) *Routes {
	return &Routes{mux, interviewHandler, speechHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/interview/start", r.InterviewHandler.StartInterview).Methods(http.MethodPost)
	r.Mux.HandleFunc("/interview/answer", r.InterviewHandler.Answer).Methods(http.MethodPost)
	r.Mux.HandleFunc("/interview/voice", r.SpeechHandler.VoiceAnswer).Methods(http.MethodPost)
	r.Mux.HandleFunc("/interview/skip", r.InterviewHandler.Skip).Methods(http.MethodPost)
	r.Mux.HandleFunc("/interview/reset", r.InterviewHandler.Reset).Methods(http.MethodPost)
	r.Mux.HandleFunc("/interview/session", r.InterviewHandler.GetSession).Methods(http.MethodGet)
	r.Mux.HandleFunc("/interview/analytics", r.InterviewHandler.GetAnalytics).Methods(http.MethodGet)

	r.Mux.HandleFunc("/speech/synthesize", r.SpeechHandler.Synthesize).Methods(http.MethodPost)

	r.Mux.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
