// Package webhook delivers notifications to a Discord-style webhook
// endpoint with bounded-effort retry.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/herald/pkg/logger"
	"github.com/okian/herald/pkg/metrics"
)

// Default delivery configuration constants.
const (
	defaultRequestTimeout = 30 * time.Second
	defaultSuccessPause   = 500 * time.Millisecond
)

// Author identifies the embed's author line.
type Author struct {
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// Embed is a rich notification card.
type Embed struct {
	Title       string  `json:"title,omitempty"`
	Author      *Author `json:"author,omitempty"`
	URL         string  `json:"url,omitempty"`
	Description string  `json:"description,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"` // ISO-8601
}

// Message is the webhook payload: optional plain text plus at most one
// embed in this system's usage.
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Policy controls the retry schedule. The zero adjustments of Default()
// reproduce the unbounded schedule: wait 1s after the first failure, then
// next = previous × 1.5 + 1s, growing without cap, forever. MaxAttempts
// and MaxBackoff exist so tests and cautious deployments can bound it.
type Policy struct {
	Initial     time.Duration
	Multiplier  float64
	Increment   time.Duration
	MaxBackoff  time.Duration // 0 = uncapped
	MaxAttempts int           // 0 = unbounded
}

// DefaultPolicy returns the unbounded retry schedule.
func DefaultPolicy() Policy {
	return Policy{
		Initial:    time.Second,
		Multiplier: 1.5,
		Increment:  time.Second,
	}
}

// Next computes the backoff that follows prev.
func (p Policy) Next(prev time.Duration) time.Duration {
	next := time.Duration(float64(prev)*p.Multiplier) + p.Increment
	if p.MaxBackoff > 0 && next > p.MaxBackoff {
		next = p.MaxBackoff
	}
	return next
}

// Dispatcher posts messages to one webhook endpoint. The endpoint is an
// explicit constructor argument; there is no process-wide destination.
type Dispatcher struct {
	url          string
	client       *http.Client
	policy       Policy
	successPause time.Duration
	log          logger.Logger
}

// New creates a dispatcher for the given endpoint.
func New(url string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		url:          url,
		client:       &http.Client{Timeout: defaultRequestTimeout},
		policy:       DefaultPolicy(),
		successPause: defaultSuccessPause,
		log:          logger.Get().Named("webhook"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send serializes and delivers one message, retrying per the policy. It
// blocks the caller for the full duration of retries; with the default
// unbounded policy it only returns early when ctx is canceled. After a
// successful delivery it pauses briefly to stay under the destination's
// rate limits.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	backoff := d.policy.Initial
	for attempt := 1; ; attempt++ {
		err := d.post(ctx, body)
		if err == nil {
			metrics.RecordNotificationSent()
			return sleep(ctx, d.successPause)
		}

		metrics.RecordNotificationRetry()
		d.log.Warn(ctx, "webhook delivery failed",
			logger.Int("attempt", attempt),
			logger.Any("backoff", backoff),
			logger.Error(err),
		)
		if d.policy.MaxAttempts > 0 && attempt >= d.policy.MaxAttempts {
			metrics.RecordNotificationDropped()
			return fmt.Errorf("%w after %d attempts: %v", ErrDeliveryFailed, attempt, err)
		}
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
		backoff = d.policy.Next(backoff)
	}
}

// post performs one delivery attempt. Any non-2xx status is a failure.
func (d *Dispatcher) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}

// sleep waits for d or until ctx is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("delivery canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
