package provider

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"interview-assistant/internal/domain/dto"
	"interview-assistant/internal/infra/logger"
)

// The three failure classes of speech recognition are distinct, non-fatal
// outcomes; the caller stays able to retry after any of them.
var (
	ErrNoSpeech           = errors.New("could not understand audio")
	ErrServiceUnreachable = errors.New("speech recognition service unreachable")
	ErrDeviceUnavailable  = errors.New("audio capture unavailable")
)

const (
	defaultListenTimeout   = 10 * time.Second
	defaultPhraseTimeLimit = 30 * time.Second
)

// RecognizerProvider sends captured audio to an external speech-to-text
// service and maps its failure modes onto the sentinel errors above.
type RecognizerProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	BaseURL    string

	ListenTimeout   time.Duration
	PhraseTimeLimit time.Duration
}

func NewRecognizerProvider(logger *logger.Logger, httpClient *http.Client, baseURL string) *RecognizerProvider {
	return &RecognizerProvider{
		Logger:          logger,
		HttpClient:      httpClient,
		BaseURL:         baseURL,
		ListenTimeout:   defaultListenTimeout,
		PhraseTimeLimit: defaultPhraseTimeLimit,
	}
}

func (rp *RecognizerProvider) Transcribe(audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: no audio captured", ErrDeviceUnavailable)
	}

	payload, err := json.Marshal(dto.TranscribeRequest{
		AudioBase64:            base64.StdEncoding.EncodeToString(audio),
		TimeoutSeconds:         int(rp.ListenTimeout.Seconds()),
		PhraseTimeLimitSeconds: int(rp.PhraseTimeLimit.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcription request: %w", err)
	}

	url := fmt.Sprintf("%s/recognize", rp.BaseURL)
	resp, err := rp.HttpClient.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		rp.Logger.Error(fmt.Sprintf("Speech recognition request failed: %v", err))
		return "", fmt.Errorf("%w: %v", ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrServiceUnreachable, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnprocessableEntity, http.StatusNotFound:
		return "", ErrNoSpeech
	case http.StatusServiceUnavailable:
		return "", ErrDeviceUnavailable
	default:
		rp.Logger.Error(fmt.Sprintf("Speech recognition returned HTTP %d: %s", resp.StatusCode, string(body)))
		return "", fmt.Errorf("%w: HTTP %d", ErrServiceUnreachable, resp.StatusCode)
	}

	var result dto.TranscribeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrServiceUnreachable, err)
	}

	if result.Text == "" {
		return "", ErrNoSpeech
	}
	return result.Text, nil
}
