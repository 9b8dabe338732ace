// Command test-notify fires one sample notification at a webhook URL so a
// channel can be verified before pointing the watcher at it.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/herald/internal/adapters/webhook"
	"github.com/okian/herald/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
)

func main() {
	var (
		url      = flag.String("url", "", "Webhook URL to post to (required)")
		content  = flag.String("content", "", "Optional plain-text content")
		attempts = flag.Int("attempts", defaultAttempts, "Delivery attempts before giving up")
	)
	flag.Parse()

	if *url == "" {
		os.Stderr.WriteString("usage: test-notify -url <webhook-url> [-content <text>] [-attempts <n>]\n")
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	runID := uuid.NewString()
	policy := webhook.DefaultPolicy()
	policy.MaxAttempts = *attempts

	d := webhook.New(*url, webhook.WithPolicy(policy))
	msg := webhook.Message{
		Content: *content,
		Embeds: []webhook.Embed{{
			Title:       "herald test notification",
			Description: "If you can read this, the channel is wired correctly.\nRun id: " + runID,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	}

	if err := d.Send(ctx, msg); err != nil {
		os.Stderr.WriteString("delivery failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Get().Info(ctx, "test notification delivered", logger.String("run_id", runID))
}
