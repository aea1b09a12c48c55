package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"interview-assistant/internal/config"
	"interview-assistant/internal/domain/dto"
	"interview-assistant/internal/domain/entities"
	Iservices "interview-assistant/internal/domain/interfaces/services"
	"interview-assistant/internal/infra/logger"
)

// QuestionFormat is the declared response variant of the question provider.
// It is decided once at construction, never sniffed per call.
type QuestionFormat string

const (
	FormatStructured QuestionFormat = "structured"
	FormatText       QuestionFormat = "text"
)

func ParseQuestionFormat(value string) (QuestionFormat, error) {
	switch QuestionFormat(value) {
	case FormatStructured, FormatText:
		return QuestionFormat(value), nil
	default:
		return "", fmt.Errorf("unknown question format %q (want %q or %q)", value, FormatStructured, FormatText)
	}
}

const questionCacheCapacity = 100

// questionCacheTTL is nominal only: cached entries are never aged out, so
// callers must not assume freshness beyond process lifetime.
const questionCacheTTL = 15 * time.Minute

var ErrEmptyQuestionReply = errors.New("question generation returned an empty reply")

// QuestionService generates the interview question set from a candidate
// profile with a single LLM call. Identical profiles are served from a
// bounded memo cache.
type QuestionService struct {
	Logger    *logger.Logger
	LLM       Iservices.ILLMService
	Interview *config.InterviewConfig
	Format    QuestionFormat

	mu    sync.Mutex
	cache map[string]*entities.QuestionSet
	order []string
}

func NewQuestionService(logger *logger.Logger, llm Iservices.ILLMService, interview *config.InterviewConfig, format QuestionFormat) *QuestionService {
	return &QuestionService{
		Logger:    logger,
		LLM:       llm,
		Interview: interview,
		Format:    format,
		cache:     make(map[string]*entities.QuestionSet),
	}
}

// Generate makes at most one outbound attempt; there is no retry.
func (qs *QuestionService) Generate(profile entities.CandidateProfile) (*entities.QuestionSet, error) {
	key := cacheKey(profile)

	qs.mu.Lock()
	if cached, ok := qs.cache[key]; ok {
		qs.mu.Unlock()
		return cached, nil
	}
	qs.mu.Unlock()

	reply, err := qs.LLM.Chat([]dto.ChatMessage{
		{Role: "system", Content: qs.buildQuestionPrompt(profile)},
	})
	if err != nil {
		qs.Logger.Error(fmt.Sprintf("Failed to generate interview questions: %v", err))
		return nil, fmt.Errorf("failed to generate interview questions: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		qs.Logger.Error("Question generation returned an empty reply")
		return nil, ErrEmptyQuestionReply
	}

	var set *entities.QuestionSet
	if qs.Format == FormatStructured {
		set, err = parseStructuredQuestions(reply, qs.Interview.QuestionBudget)
		if err != nil {
			qs.Logger.Error(fmt.Sprintf("Rejected structured question reply: %v", err))
			return nil, err
		}
	} else {
		set = &entities.QuestionSet{Text: reply}
	}

	qs.storeInCache(key, set)
	return set, nil
}

func cacheKey(profile entities.CandidateProfile) string {
	key, _ := json.Marshal(profile)
	return string(key)
}

func (qs *QuestionService) storeInCache(key string, set *entities.QuestionSet) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	if _, exists := qs.cache[key]; exists {
		return
	}

	if len(qs.order) >= questionCacheCapacity {
		oldest := qs.order[0]
		qs.order = qs.order[1:]
		delete(qs.cache, oldest)
	}

	qs.cache[key] = set
	qs.order = append(qs.order, key)
}

func (qs *QuestionService) buildQuestionPrompt(profile entities.CandidateProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a structured set of %d interview questions for a %s position.\n",
		qs.Interview.QuestionBudget, profile.Position)
	fmt.Fprintf(&b, "The candidate's name is %s.\n", profile.Name)
	fmt.Fprintf(&b, "Job Requirements: %s\n\n", profile.Requirements)

	b.WriteString("Format the questions into these categories:\n")
	for i, category := range qs.Interview.Categories {
		fmt.Fprintf(&b, "%d. %s (%d questions)\n", i+1, category.Name, category.Count)
	}
	b.WriteString("\n")

	if qs.Format == FormatStructured {
		fmt.Fprintf(&b, "Return ONLY a JSON array with exactly %d objects, one per question, ", qs.Interview.QuestionBudget)
		b.WriteString("each with the keys \"category\", \"main_question\" and \"sub_questions\" ")
		fmt.Fprintf(&b, "(%d-%d follow-up sub-questions per item). No prose outside the JSON.",
			qs.Interview.MinSubQuestions, qs.Interview.MaxSubQuestions)
	} else {
		b.WriteString("Return the questions as a formatted list with categories.")
	}

	return b.String()
}

// parseStructuredQuestions accepts a bare JSON array or an object with a
// "questions" key. Markdown fences and wrapper quoting are stripped first;
// when the payload still is not well-formed, parsing starts at the first
// opening bracket.
func parseStructuredQuestions(raw string, want int) (*entities.QuestionSet, error) {
	cleaned := cleanJSONReply(raw)

	items, err := decodeQuestionItems(cleaned)
	if err != nil {
		return nil, fmt.Errorf("malformed structured question reply: %w", err)
	}

	if len(items) != want {
		return nil, fmt.Errorf("structured reply has %d questions, want %d", len(items), want)
	}

	for i, item := range items {
		if strings.TrimSpace(item.Category) == "" {
			return nil, fmt.Errorf("question %d is missing category", i+1)
		}
		if strings.TrimSpace(item.MainQuestion) == "" {
			return nil, fmt.Errorf("question %d is missing main_question", i+1)
		}
		if len(item.SubQuestions) == 0 {
			return nil, fmt.Errorf("question %d is missing sub_questions", i+1)
		}
	}

	return &entities.QuestionSet{Items: items}, nil
}

func decodeQuestionItems(cleaned string) ([]entities.QuestionItem, error) {
	var items []entities.QuestionItem
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Questions []entities.QuestionItem `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Questions, nil
}

// cleanJSONReply removes markdown fences and wrapper quoting from an LLM
// reply and seeks the first opening bracket when the payload is not
// strictly well-formed JSON.
func cleanJSONReply(reply string) string {
	reply = strings.ReplaceAll(reply, "```json", "")
	reply = strings.ReplaceAll(reply, "```", "")
	reply = strings.TrimSpace(reply)

	if strings.HasPrefix(reply, "\"") && strings.HasSuffix(reply, "\"") {
		if unquoted, err := strconv.Unquote(reply); err == nil {
			reply = strings.TrimSpace(unquoted)
		}
	}

	if json.Valid([]byte(reply)) {
		return reply
	}

	start := strings.IndexAny(reply, "[{")
	if start > 0 {
		reply = reply[start:]
	}
	return reply
}
