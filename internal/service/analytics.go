package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const analyticsUserAgent = "stack-settlement/1.0"

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AnalyticsEvent is the body of an Umami /api/send request.
type AnalyticsEvent struct {
	Type    string                `json:"type"`
	Payload AnalyticsEventPayload `json:"payload"`
}

// AnalyticsEventPayload describes a single custom event.
type AnalyticsEventPayload struct {
	Website  string         `json:"website"`
	Name     string         `json:"name"`
	Hostname string         `json:"hostname,omitempty"`
	URL      string         `json:"url,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// AnalyticsTracker implements ports.Analytics against an Umami-compatible
// collector. Sends happen in the background and never report failure.
type AnalyticsTracker struct {
	endpoint   string
	websiteID  string
	hostname   string
	timeout    time.Duration
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewAnalyticsTracker creates a tracker posting to {baseURL}/api/send.
// An empty baseURL or websiteID disables it.
func NewAnalyticsTracker(baseURL, websiteID, hostname string, timeout time.Duration, httpClient HTTPClient, log zerolog.Logger) *AnalyticsTracker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	endpoint := ""
	if baseURL != "" {
		endpoint = strings.TrimRight(baseURL, "/") + "/api/send"
	}
	return &AnalyticsTracker{
		endpoint:   endpoint,
		websiteID:  websiteID,
		hostname:   hostname,
		timeout:    timeout,
		httpClient: httpClient,
		log:        log,
	}
}

// Enabled reports whether events are sent anywhere.
func (a *AnalyticsTracker) Enabled() bool {
	return a.endpoint != "" && a.websiteID != ""
}

// Track sends event asynchronously (fire-and-forget).
func (a *AnalyticsTracker) Track(_ context.Context, event string, data map[string]any) {
	if !a.Enabled() {
		return
	}
	body, err := json.Marshal(AnalyticsEvent{
		Type: "event",
		Payload: AnalyticsEventPayload{
			Website:  a.websiteID,
			Name:     event,
			Hostname: a.hostname,
			URL:      "/" + event,
			Data:     data,
		},
	})
	if err != nil {
		a.log.Warn().Err(err).Str("event", event).Msg("analytics: failed to marshal event")
		return
	}
	go a.send(event, body)
}

func (a *AnalyticsTracker) send(event string, body []byte) {
	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		a.log.Warn().Err(err).Str("event", event).Msg("analytics: failed to create request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", analyticsUserAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.log.Warn().Err(err).Str("event", event).Msg("analytics: delivery failed")
		return
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.log.Warn().Str("event", event).Int("status", resp.StatusCode).Msg("analytics: non-2xx response")
	}
}

type noopAnalytics struct{}

func (noopAnalytics) Track(context.Context, string, map[string]any) {}
