package entities

import (
	"fmt"
	"strings"
	"time"
)

// Stage is the coarse phase of an interview session.
type Stage string

const (
	StageInitial      Stage = "initial"
	StageInterviewing Stage = "interviewing"
	StageComplete     Stage = "complete"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CandidateProfile is set exactly once per session and is immutable once
// the interview starts.
type CandidateProfile struct {
	Name         string `json:"name"`
	Position     string `json:"position"`
	Requirements string `json:"requirements"`
}

func (cp CandidateProfile) Complete() bool {
	return strings.TrimSpace(cp.Name) != "" &&
		strings.TrimSpace(cp.Position) != "" &&
		strings.TrimSpace(cp.Requirements) != ""
}

type QuestionItem struct {
	Category     string   `json:"category"`
	MainQuestion string   `json:"main_question"`
	SubQuestions []string `json:"sub_questions"`
}

// QuestionSet holds the questions generated once per session, either as
// parsed items (structured mode) or as an opaque text block (text mode).
type QuestionSet struct {
	Items []QuestionItem `json:"items,omitempty"`
	Text  string         `json:"text,omitempty"`
}

func (qs *QuestionSet) Structured() bool {
	return qs != nil && len(qs.Items) > 0
}

// Render flattens the question set into the textual form fed to the LLM
// turn context.
func (qs *QuestionSet) Render() string {
	if qs == nil {
		return ""
	}
	if !qs.Structured() {
		return qs.Text
	}

	var b strings.Builder
	for i, item := range qs.Items {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, item.Category, item.MainQuestion)
		for _, sub := range item.SubQuestions {
			fmt.Fprintf(&b, "   - %s\n", sub)
		}
	}
	return b.String()
}

type TranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyticsSnapshot carries the synthetic per-session metrics. Scores are
// clamped into [0,100] on every update; InterviewDuration is recomputed
// from StartTime on every read.
type AnalyticsSnapshot struct {
	EmotionHistory      []string `json:"emotion"`
	TechnicalScore      int      `json:"technical_score"`
	BehavioralScore     int      `json:"behavioral_score"`
	CommunicationScore  int      `json:"communication_score"`
	ConfidenceScore     int      `json:"confidence_score"`
	ExperienceAlignment int      `json:"experience_alignment"`
	InterviewDuration   int      `json:"interview_duration"`
	QuestionsAnswered   int      `json:"questions_answered"`
}

func NewAnalyticsSnapshot() AnalyticsSnapshot {
	return AnalyticsSnapshot{EmotionHistory: []string{}}
}

// SessionState is the per-session record. One instance per session key;
// mutations within a session are serialized by the session service, and
// Epoch guards against applying a turn that finished after a reset.
type SessionState struct {
	SessionID       string            `json:"session_id"`
	Stage           Stage             `json:"stage"`
	CurrentQuestion int               `json:"current_question"`
	Candidate       CandidateProfile  `json:"candidate_info"`
	Questions       *QuestionSet      `json:"interview_questions,omitempty"`
	Transcript      []TranscriptEntry `json:"transcript"`
	Analytics       AnalyticsSnapshot `json:"analytics"`
	Epoch           int64             `json:"epoch"`
	StartTime       time.Time         `json:"start_time"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func NewSessionState(sessionID string) SessionState {
	now := time.Now()
	return SessionState{
		SessionID:  sessionID,
		Stage:      StageInitial,
		Transcript: []TranscriptEntry{},
		Analytics:  NewAnalyticsSnapshot(),
		StartTime:  now,
		UpdatedAt:  now,
	}
}
