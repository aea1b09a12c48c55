package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"interview-assistant/internal/domain/dto"
	"interview-assistant/internal/infra/logger"
)

var ErrEmptySpeechText = errors.New("empty text provided for speech conversion")

// SynthesizerProvider converts interviewer replies to speech through an
// external text-to-speech service. The synthesized audio is buffered
// through a temporary file that is removed on every exit path.
type SynthesizerProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string
	Language   string
}

func NewSynthesizerProvider(logger *logger.Logger, httpClient *http.Client, baseURL string) *SynthesizerProvider {
	return &SynthesizerProvider{
		Logger:     logger,
		HttpClient: httpClient,
		BaseURL:    baseURL,
		Language:   "en",
	}
}

func (sp *SynthesizerProvider) Synthesize(text string) ([]byte, error) {
	// Rejected before any outbound call is attempted.
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySpeechText
	}

	payload, err := json.Marshal(dto.SynthesizeUpstreamRequest{Text: text, Lang: sp.Language})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/synthesize", sp.BaseURL)
	resp, err := sp.HttpClient.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Speech synthesis request failed: %v", err))
		return nil, fmt.Errorf("speech synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		sp.Logger.Error(fmt.Sprintf("Speech synthesis returned HTTP %d: %s", resp.StatusCode, string(body)))
		return nil, fmt.Errorf("speech synthesis HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "response-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create audio file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			sp.Logger.Warn(fmt.Sprintf("Failed to clean up audio file %s: %v", tmp.Name(), err))
		}
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind audio file: %w", err)
	}

	audio, err := io.ReadAll(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech synthesis produced no audio")
	}
	return audio, nil
}
