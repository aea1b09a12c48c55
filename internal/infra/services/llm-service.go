package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"interview-assistant/internal/config"
	"interview-assistant/internal/domain/dto"
	"interview-assistant/internal/infra/logger"
	"interview-assistant/internal/infra/tracking"
)

// GroqService talks to an OpenAI-compatible chat-completions endpoint.
// One call type, no streaming, no retries.
type GroqService struct {
	Logger      *logger.Logger
	HttpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
}

func NewGroqService(logger *logger.Logger, apiKey string) *GroqService {
	return &GroqService{
		Logger: logger,
		HttpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     config.GetEnvOrDefault("GROQ_API_URL", "https://api.groq.com/openai/v1"),
		model:       config.GetEnvOrDefault("GROQ_MODEL", "mixtral-8x7b-32768"),
		temperature: config.GetEnvAsFloatOrDefault("GROQ_TEMPERATURE", 0.7),
		maxTokens:   config.GetEnvAsIntOrDefault("GROQ_MAX_TOKENS", 1024),
	}
}

func (s *GroqService) Chat(messages []dto.ChatMessage) (string, error) {
	text, err := s.chat(messages)
	if err != nil {
		tracking.LLMRequests.WithLabelValues("error").Inc()
		return "", err
	}
	tracking.LLMRequests.WithLabelValues("success").Inc()
	return text, nil
}

func (s *GroqService) chat(messages []dto.ChatMessage) (string, error) {
	request := dto.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", s.baseURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Chat completion request failed: %v", err))
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.Logger.Error(fmt.Sprintf("Chat completion returned HTTP %d: %s", resp.StatusCode, string(body)))
		return "", fmt.Errorf("chat completion HTTP %d: %s", resp.StatusCode, string(body))
	}

	var completion dto.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal chat response: %w", err)
	}

	if completion.Error != nil {
		return "", fmt.Errorf("chat completion API error: %s", completion.Error.Message)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
