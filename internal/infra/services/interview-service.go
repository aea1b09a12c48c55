package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"interview-assistant/internal/domain/dto"
	"interview-assistant/internal/domain/entities"
	Iservices "interview-assistant/internal/domain/interfaces/services"
	"interview-assistant/internal/infra/logger"
	"interview-assistant/internal/infra/tracking"
)

var (
	ErrMissingProfileFields    = errors.New("name, position and requirements are all required")
	ErrInterviewAlreadyStarted = errors.New("interview already started for this session")
	ErrInterviewNotActive      = errors.New("interview is not in progress for this session")
	ErrEmptyUtterance          = errors.New("empty answer provided")
)

const interviewerSystemPrompt = `You are an AI interviewer conducting a professional job interview. Follow this structured approach:
1. If this is the first interaction (no conversation history):
   - Generate and ask the first question from the structured question list
2. For subsequent interactions:
   - Analyze the candidate's response
   - Provide brief, constructive feedback if needed
   - Ask relevant follow-up questions based on their answer
   - When satisfied with the response, move to the next question in the sequence
3. Maintain professional interview etiquette and tone
4. Keep responses concise but informative
5. Track progress through questions and adapt based on candidate's responses

Remember to:
- Stay focused on the current question topic
- Ask for clarification when needed
- Provide smooth transitions between questions
- End each response with a clear question for the candidate`

// InterviewService drives the session through its stages: question
// generation at start, one LLM turn per answer, skip and reset.
type InterviewService struct {
	Logger           *logger.Logger
	SessionService   Iservices.ISessionService
	QuestionService  Iservices.IQuestionService
	AnalyticsService Iservices.IAnalyticsService
	LLM              Iservices.ILLMService
	Tracker          *tracking.Tracker
	QuestionBudget   int
}

func NewInterviewService(
	logger *logger.Logger,
	sessionService Iservices.ISessionService,
	questionService Iservices.IQuestionService,
	analyticsService Iservices.IAnalyticsService,
	llm Iservices.ILLMService,
	tracker *tracking.Tracker,
	questionBudget int,
) *InterviewService {
	return &InterviewService{
		Logger:           logger,
		SessionService:   sessionService,
		QuestionService:  questionService,
		AnalyticsService: analyticsService,
		LLM:              llm,
		Tracker:          tracker,
		QuestionBudget:   questionBudget,
	}
}

// Start validates the candidate form, generates the question set and moves
// the session into the interviewing stage. The question index stays at 0;
// it counts completed answer/skip actions, not the question on screen.
func (is *InterviewService) Start(sessionID string, profile entities.CandidateProfile) (entities.SessionState, error) {
	if !profile.Complete() {
		return entities.SessionState{}, ErrMissingProfileFields
	}

	state, err := is.SessionService.Initialize(sessionID)
	if err != nil {
		return entities.SessionState{}, err
	}
	if state.Stage != entities.StageInitial {
		return state, ErrInterviewAlreadyStarted
	}

	questions, err := is.QuestionService.Generate(profile)
	if err != nil {
		return state, err
	}

	state, err = is.SessionService.Mutate(sessionID, func(s *entities.SessionState) error {
		if s.Stage != entities.StageInitial {
			return ErrInterviewAlreadyStarted
		}
		s.Candidate = profile
		s.Questions = questions
		s.Stage = entities.StageInterviewing
		s.StartTime = time.Now()
		return nil
	})
	if err != nil {
		return state, err
	}

	tracking.SessionsStarted.Inc()
	is.Tracker.Track("interview_started", map[string]string{"session_id": sessionID, "position": profile.Position})
	is.Logger.Info(fmt.Sprintf("Interview started for session %s (%s)", sessionID, profile.Position))
	return state, nil
}

// Answer runs one turn. The user's utterance is recorded before the LLM
// call and is never retracted; a failed call leaves the question index and
// the assistant side of the transcript untouched.
func (is *InterviewService) Answer(sessionID string, utterance string) (entities.SessionState, string, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return entities.SessionState{}, "", ErrEmptyUtterance
	}

	var (
		epoch      int64
		history    []dto.ChatMessage
		turnPrompt string
	)

	state, err := is.SessionService.Mutate(sessionID, func(s *entities.SessionState) error {
		if s.Stage != entities.StageInterviewing {
			return ErrInterviewNotActive
		}

		// Prior transcript only: the entry appended below is carried in
		// the turn context instead.
		history = make([]dto.ChatMessage, 0, len(s.Transcript))
		for _, entry := range s.Transcript {
			history = append(history, dto.ChatMessage{Role: entry.Role, Content: entry.Content})
		}

		s.Transcript = append(s.Transcript, entities.TranscriptEntry{
			Role:      entities.RoleUser,
			Content:   utterance,
			Timestamp: time.Now(),
		})

		epoch = s.Epoch
		turnPrompt = buildTurnContext(*s, utterance)
		return nil
	})
	if err != nil {
		return state, "", err
	}

	messages := make([]dto.ChatMessage, 0, len(history)+2)
	messages = append(messages, dto.ChatMessage{Role: "system", Content: interviewerSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, dto.ChatMessage{Role: entities.RoleUser, Content: turnPrompt})

	reply, err := is.LLM.Chat(messages)
	if err != nil {
		is.Logger.Error(fmt.Sprintf("Interviewer reply failed for session %s: %v", sessionID, err))
		return state, "", fmt.Errorf("failed to get interviewer reply: %w", err)
	}

	state, err = is.SessionService.Mutate(sessionID, func(s *entities.SessionState) error {
		if s.Epoch != epoch {
			return ErrSessionReset
		}

		s.Transcript = append(s.Transcript, entities.TranscriptEntry{
			Role:      entities.RoleAssistant,
			Content:   reply,
			Timestamp: time.Now(),
		})

		is.AnalyticsService.RecordTurn(&s.Analytics)

		s.CurrentQuestion++
		if s.CurrentQuestion > is.QuestionBudget {
			s.Stage = entities.StageComplete
		}
		return nil
	})
	if err != nil {
		return state, "", err
	}

	tracking.TurnsProcessed.Inc()
	is.Tracker.Track("turn_processed", map[string]string{"session_id": sessionID})
	if state.Stage == entities.StageComplete {
		is.Logger.Info(fmt.Sprintf("Interview complete for session %s", sessionID))
	}
	return state, reply, nil
}

// Skip advances the question counter with no LLM call, no transcript entry
// and no analytics update.
func (is *InterviewService) Skip(sessionID string) (entities.SessionState, error) {
	state, err := is.SessionService.Mutate(sessionID, func(s *entities.SessionState) error {
		if s.Stage != entities.StageInterviewing {
			return ErrInterviewNotActive
		}
		s.CurrentQuestion++
		if s.CurrentQuestion > is.QuestionBudget {
			s.Stage = entities.StageComplete
		}
		return nil
	})
	if err != nil {
		return state, err
	}

	tracking.QuestionsSkipped.Inc()
	is.Tracker.Track("question_skipped", map[string]string{"session_id": sessionID})
	return state, nil
}

func (is *InterviewService) Reset(sessionID string) (entities.SessionState, error) {
	return is.SessionService.Reset(sessionID)
}

func (is *InterviewService) Session(sessionID string) (entities.SessionState, error) {
	return is.SessionService.Find(sessionID)
}

func (is *InterviewService) Analytics(sessionID string) (entities.AnalyticsSnapshot, error) {
	state, err := is.SessionService.Find(sessionID)
	if err != nil {
		return entities.AnalyticsSnapshot{}, err
	}
	return is.AnalyticsService.Snapshot(state), nil
}

func buildTurnContext(state entities.SessionState, utterance string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate Name: %s\n", state.Candidate.Name)
	fmt.Fprintf(&b, "Position: %s\n", state.Candidate.Position)
	fmt.Fprintf(&b, "Job Requirements: %s\n", state.Candidate.Requirements)
	fmt.Fprintf(&b, "Current Question Number: %d\n", state.CurrentQuestion)
	fmt.Fprintf(&b, "Interview Questions: %s\n", state.Questions.Render())
	fmt.Fprintf(&b, "User Input: %s", utterance)
	return b.String()
}
