package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/pkg/httpclient"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerEventType      = "X-MarketVisit-Event"
	headerArea           = "X-MarketVisit-Area"
)

// webhookPublisher posts each event as JSON to a configured URL.
type webhookPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  httpclient.Client
	log     logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &webhookPublisher{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyClient(timeout),
		log:     logger.Ensure(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := evt.dedupeKey()
	resp, err := w.client.Do(ctx, httpclient.Request{
		Method:  w.method,
		URL:     w.url,
		Headers: w.requestHeaders(evt, key),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("deliver %s: %w", key, err)
	}
	if status := resp.StatusCode(); status < 200 || status > 299 {
		return fmt.Errorf("webhook rejected %s with status %d: %s", key, status, bodySnippet(resp.Body()))
	}

	w.log.DebugObj("webhook accepted store event", "publisher_http_delivery", map[string]any{
		"publisher_id": w.id,
		"event_key":    key,
		"status":       resp.StatusCode(),
	})
	return nil
}

// requestHeaders layers the event headers over the configured static ones.
func (w *webhookPublisher) requestHeaders(evt Event, key string) map[string]string {
	headers := make(map[string]string, len(w.headers)+4)
	for k, v := range w.headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"
	headers[headerIdempotencyKey] = key
	headers[headerEventType] = evt.attributes()["event_type"]
	headers[headerArea] = evt.AreaID
	return headers
}

func bodySnippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}
