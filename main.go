package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"interview-assistant/internal/config"
	"interview-assistant/internal/domain/entities"
	Iservices "interview-assistant/internal/domain/interfaces/services"
	"interview-assistant/internal/infra/handlers"
	"interview-assistant/internal/infra/logger"
	"interview-assistant/internal/infra/provider"
	"interview-assistant/internal/infra/repository"
	"interview-assistant/internal/infra/routes"
	"interview-assistant/internal/infra/services"
	"interview-assistant/internal/infra/tracking"
	"interview-assistant/internal/middleware"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)

	// Required credential; startup aborts when it is missing.
	apiKey := config.GetEnv("GROQ_API_KEY")

	interviewCfg, err := config.LoadInterviewConfig(config.GetEnvOrDefault("INTERVIEW_CONFIG", "config/interview.yaml"))
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to load interview config: %v", err))
	}

	questionFormat, err := services.ParseQuestionFormat(config.GetEnvOrDefault("QUESTION_FORMAT", "structured"))
	if err != nil {
		log.Fatal(fmt.Sprintf("Invalid QUESTION_FORMAT: %v", err))
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	sessionRepo := repository.NewMemoryRepository[entities.SessionState]()

	var llmSvc Iservices.ILLMService = services.NewGroqService(log, apiKey)
	var sessionSvc Iservices.ISessionService = services.NewSessionService(sessionRepo, ctx, log)
	var questionSvc Iservices.IQuestionService = services.NewQuestionService(log, llmSvc, interviewCfg, questionFormat)
	var analyticsSvc Iservices.IAnalyticsService = services.NewAnalyticsService()

	tracker := tracking.NewTracker(log, config.GetEnvOrDefault("ANALYTICS_COLLECTOR_URL", ""))

	var interviewSvc Iservices.IInterviewService = services.NewInterviewService(
		log, sessionSvc, questionSvc, analyticsSvc, llmSvc, tracker, interviewCfg.QuestionBudget,
	)

	speechClient := &http.Client{Timeout: 45 * time.Second}
	recognizer := provider.NewRecognizerProvider(log, speechClient, config.GetEnvOrDefault("SPEECH_API_URL", "http://localhost:5005"))
	synthesizer := provider.NewSynthesizerProvider(log, speechClient, config.GetEnvOrDefault("TTS_API_URL", "http://localhost:5006"))

	interviewHandlers := handlers.NewInterviewHandlers(log, interviewSvc, interviewCfg.QuestionBudget)
	speechHandlers := handlers.NewSpeechHandlers(log, interviewSvc, recognizer, synthesizer, interviewCfg.QuestionBudget)

	routes := routes.NewRoutes(
		router,
		interviewHandlers,
		speechHandlers,
	)

	routes.Init()

	port := config.GetEnvOrDefault("PORT", "8080")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
