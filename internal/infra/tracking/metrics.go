package tracking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "sessions_started_total",
		Help:      "Number of interview sessions started.",
	})

	TurnsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "turns_processed_total",
		Help:      "Number of answer turns processed successfully.",
	})

	QuestionsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "questions_skipped_total",
		Help:      "Number of questions skipped.",
	})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "llm_requests_total",
		Help:      "Outbound chat completion requests by outcome.",
	}, []string{"outcome"})
)
