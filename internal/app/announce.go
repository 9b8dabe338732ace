package app

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/herald/internal/adapters/store"
	"github.com/okian/herald/internal/adapters/webhook"
	"github.com/okian/herald/internal/domain/watermark"
	"github.com/okian/herald/pkg/logger"
	"github.com/okian/herald/pkg/metrics"
)

// Announcer watches the question stream and relays each new question to
// the question channel. It is independent of score state and shares
// nothing with the sweeper except the dispatch path.
type Announcer struct {
	store    store.Store
	notifier Notifier
	contest  int64
	baseURL  string

	mark *watermark.Mark

	log logger.Logger
}

// NewAnnouncer creates an announcer for one contest.
func NewAnnouncer(st store.Store, notifier Notifier, contestID int64, baseURL string, log logger.Logger) *Announcer {
	return &Announcer{
		store:    st,
		notifier: notifier,
		contest:  contestID,
		baseURL:  baseURL,
		log:      log.Named("announce"),
	}
}

// Init seeds the question watermark from the store's current maximum.
func (a *Announcer) Init(ctx context.Context) error {
	maxID, err := a.store.MaxQuestionID(ctx, a.contest)
	if err != nil {
		return fmt.Errorf("seed question watermark: %w", err)
	}
	a.mark = watermark.New(maxID)
	a.log.Info(ctx, "question watermark seeded", logger.Int64("last_id", maxID))
	return nil
}

// Tick announces every question newer than the watermark, in ascending id
// order. The watermark advances after each successful delivery, so a
// failure mid-batch never repeats the questions already announced.
func (a *Announcer) Tick(ctx context.Context) error {
	questions, err := a.store.QuestionsAfter(ctx, a.contest, a.mark.Last())
	if err != nil {
		return fmt.Errorf("fetch new questions: %w", err)
	}

	for _, q := range questions {
		msg := webhook.Message{Embeds: []webhook.Embed{{
			Title: fmt.Sprintf("New question from %s", q.Asker()),
			Author: &webhook.Author{
				Name: q.Asker(),
				URL:  fmt.Sprintf("%s/contest/%d/user/%d/edit", a.baseURL, a.contest, q.ParticipationID),
			},
			URL:         fmt.Sprintf("%s/contest/%d/questions", a.baseURL, a.contest),
			Description: fmt.Sprintf("**%s**\n%s", q.Subject, q.Text),
			Timestamp:   q.Timestamp.UTC().Format(time.RFC3339),
		}}}
		if err := a.notifier.Send(ctx, msg); err != nil {
			return fmt.Errorf("dispatch question %d: %w", q.ID, err)
		}
		metrics.RecordQuestionAnnounced()
		a.mark.Advance(q.ID)
		a.log.Info(ctx, "question announced",
			logger.Int64("question_id", q.ID),
			logger.String("username", q.Username),
		)
	}
	return nil
}
