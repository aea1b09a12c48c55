package tracking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"interview-assistant/internal/infra/logger"
)

const (
	maxConsecutiveFailures = 3
	blockedMarker          = "ERR_BLOCKED_BY_CLIENT"
)

var errBlockedByClient = errors.New("tracking blocked by client")

// Tracker forwards usage events to an optional collector, best effort. It
// is an explicit circuit breaker: after 3 consecutive failures, or
// immediately on a client-block signal, it disables itself and silently
// no-ops. It never propagates an error to the caller's primary operation.
type Tracker struct {
	Logger     *logger.Logger
	HttpClient *http.Client

	collectorURL string

	mu       sync.Mutex
	enabled  bool
	failures int
}

func NewTracker(logger *logger.Logger, collectorURL string) *Tracker {
	return &Tracker{
		Logger:       logger,
		HttpClient:   &http.Client{Timeout: 5 * time.Second},
		collectorURL: collectorURL,
		enabled:      true,
	}
}

func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Track records one event. With no collector configured it is a no-op
// beyond the local Prometheus counters, which the call sites bump directly.
func (t *Tracker) Track(event string, fields map[string]string) {
	t.mu.Lock()
	if !t.enabled || t.collectorURL == "" {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	if err := t.post(event, fields); err != nil {
		t.recordFailure(err)
		return
	}

	t.mu.Lock()
	t.failures = 0
	t.mu.Unlock()
}

func (t *Tracker) recordFailure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if errors.Is(err, errBlockedByClient) {
		t.enabled = false
		t.Logger.Debug("Tracking disabled: blocked by client")
		return
	}

	t.failures++
	if t.failures >= maxConsecutiveFailures {
		t.enabled = false
		t.Logger.Debug(fmt.Sprintf("Tracking disabled after %d failed attempts", maxConsecutiveFailures))
	}
}

func (t *Tracker) post(event string, fields map[string]string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"fields":    fields,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	resp, err := t.HttpClient.Post(t.collectorURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		if strings.Contains(err.Error(), blockedMarker) {
			return errBlockedByClient
		}
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusForbidden || strings.Contains(string(body), blockedMarker) {
		return errBlockedByClient
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("collector returned HTTP %d", resp.StatusCode)
	}
	return nil
}
