package services

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"interview-assistant/internal/domain/entities"
)

// The analytics values are synthetic demo data: random draws and clamped
// additive increments, not the output of any real signal processing.

var emotions = []string{"Confident", "Nervous", "Enthusiastic", "Calm"}

const (
	scoreIncrementMin = 5
	scoreIncrementMax = 15
	scoreCeiling      = 100
)

type AnalyticsService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewAnalyticsServiceWithSeed pins the random source, for tests.
func NewAnalyticsServiceWithSeed(seed int64) *AnalyticsService {
	return &AnalyticsService{rng: rand.New(rand.NewSource(seed))}
}

// RecordTurn applies one turn's worth of synthetic updates: one emotion
// draw and a random [5,15] increment per score, clamped into [0,100].
func (as *AnalyticsService) RecordTurn(snapshot *entities.AnalyticsSnapshot) {
	as.mu.Lock()
	defer as.mu.Unlock()

	snapshot.EmotionHistory = append(snapshot.EmotionHistory, emotions[as.rng.Intn(len(emotions))])

	snapshot.TechnicalScore = clampScore(snapshot.TechnicalScore + as.increment())
	snapshot.BehavioralScore = clampScore(snapshot.BehavioralScore + as.increment())
	snapshot.CommunicationScore = clampScore(snapshot.CommunicationScore + as.increment())
	snapshot.ConfidenceScore = clampScore(snapshot.ConfidenceScore + as.increment())
	snapshot.ExperienceAlignment = clampScore(snapshot.ExperienceAlignment + as.increment())

	snapshot.QuestionsAnswered++
}

// Snapshot returns the session's analytics with the duration recomputed
// from wall-clock time, rounded to the nearest second.
func (as *AnalyticsService) Snapshot(state entities.SessionState) entities.AnalyticsSnapshot {
	snapshot := state.Analytics
	snapshot.InterviewDuration = int(math.Round(time.Since(state.StartTime).Seconds()))
	return snapshot
}

func (as *AnalyticsService) increment() int {
	return scoreIncrementMin + as.rng.Intn(scoreIncrementMax-scoreIncrementMin+1)
}

func clampScore(value int) int {
	if value < 0 {
		return 0
	}
	if value > scoreCeiling {
		return scoreCeiling
	}
	return value
}
