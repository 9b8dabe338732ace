package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/herald/internal/adapters/repository"
	"github.com/okian/herald/internal/adapters/store"
	"github.com/okian/herald/internal/adapters/webhook"
	"github.com/okian/herald/internal/domain/model"
	"github.com/okian/herald/internal/domain/rank"
	"github.com/okian/herald/internal/domain/score"
	"github.com/okian/herald/internal/domain/watermark"
	"github.com/okian/herald/pkg/logger"
	"github.com/okian/herald/pkg/metrics"
)

// Sweeper runs the score side of the watch: watermark fast path, full
// re-aggregation, diff against the rolling baseline, and one notification
// per changed user. All state is owned by this loop and touched only
// between iterations.
type Sweeper struct {
	store       store.Store
	notifier    Notifier
	snapshots   *repository.SnapshotStore
	contest     model.Contest
	agg         *score.Aggregator
	baseURL     string
	visibleRows int
	debug       bool

	mark     *watermark.Mark
	baseline *score.Snapshot

	log logger.Logger
}

// NewSweeper creates a sweeper for one contest.
func NewSweeper(st store.Store, notifier Notifier, snapshots *repository.SnapshotStore, contest model.Contest, baseURL string, visibleRows int, debug bool, log logger.Logger) *Sweeper {
	return &Sweeper{
		store:       st,
		notifier:    notifier,
		snapshots:   snapshots,
		contest:     contest,
		agg:         score.NewAggregator(st, contest.ID),
		baseURL:     baseURL,
		visibleRows: visibleRows,
		debug:       debug,
		log:         log.Named("sweep"),
	}
}

// Init seeds the submission watermark from the store's current maximum so
// only future submissions trigger notifications.
func (s *Sweeper) Init(ctx context.Context) error {
	maxID, err := s.store.MaxSubmissionID(ctx, s.contest.ID)
	if err != nil {
		return fmt.Errorf("seed submission watermark: %w", err)
	}
	s.mark = watermark.New(maxID)
	s.log.Info(ctx, "submission watermark seeded", logger.Int64("last_id", maxID))
	return nil
}

// Tick runs one sweep. On any error the sweeper's state is left exactly
// as it was when the tick started; the next tick re-derives everything.
func (s *Sweeper) Tick(ctx context.Context) error {
	maxID, err := s.store.MaxSubmissionID(ctx, s.contest.ID)
	if err != nil {
		return fmt.Errorf("check submission watermark: %w", err)
	}
	if maxID == s.mark.Last() {
		metrics.RecordSweepSkipped()
		return nil
	}

	start := time.Now()
	snap, err := s.agg.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("aggregate snapshot: %w", err)
	}

	baseline := s.baseline
	next := snap
	if baseline != nil && baseline.Width() != snap.Width() {
		// Task set changed between passes; the old vectors are not
		// comparable. Adopt the new snapshot silently, in debug mode too.
		s.log.Info(ctx, "task set changed; baseline reset",
			logger.Int("old_width", baseline.Width()),
			logger.Int("new_width", snap.Width()),
		)
	} else {
		var deferred []string
		for _, change := range score.Changes(baseline, snap, s.debug) {
			if err := s.notify(ctx, snap, change); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					// Race with the platform: the score moved but the causal
					// submission is not visible yet. Keep the user's old
					// baseline row so the change re-derives on a later pass.
					s.log.Warn(ctx, "causal submission not found; change deferred",
						logger.String("username", change.Username),
						logger.String("task", snap.TaskNames[change.TaskIndex]),
					)
					deferred = append(deferred, change.Username)
					continue
				}
				return err
			}
			// Roll the baseline forward for this user so a mid-pass failure
			// later does not repeat the notification next tick.
			if s.baseline != nil {
				s.baseline.Rows[change.Username] = snap.Rows[change.Username]
			}
		}
		if len(deferred) > 0 {
			next = deferredBaseline(snap, baseline, deferred)
		}
	}

	s.baseline = next
	s.snapshots.Replace(snap)
	s.mark.Advance(maxID)
	metrics.UpdateSnapshotSize(len(snap.Rows), len(snap.TaskNames))
	metrics.RecordSweep(float64(time.Since(start).Milliseconds()))
	return nil
}

// deferredBaseline clones snap for use as the next diff baseline, keeping
// the old rows of users whose change was deferred so the change is
// re-detected on the next pass. The published snapshot stays fresh; only
// the diff baseline lags.
func deferredBaseline(snap, baseline *score.Snapshot, deferred []string) *score.Snapshot {
	next := &score.Snapshot{
		TaskNames:  snap.TaskNames,
		Precisions: snap.Precisions,
		Rows:       make(map[string][]float64, len(snap.Rows)),
	}
	for username, row := range snap.Rows {
		next.Rows[username] = row
	}
	for _, username := range deferred {
		var old []float64
		if baseline != nil {
			old = baseline.Rows[username]
		}
		if old == nil {
			old = make([]float64, snap.Width())
		}
		next.Rows[username] = old
	}
	return next
}

// notify looks up the causal submission and dispatches one score-change
// notification with the rendered standings table.
func (s *Sweeper) notify(ctx context.Context, snap *score.Snapshot, change score.Change) error {
	taskName := snap.TaskNames[change.TaskIndex]
	sub, err := s.store.LatestScoredSubmission(ctx, s.contest.ID, change.Username, taskName)
	if err != nil {
		return err
	}
	metrics.RecordScoreChange()

	prec := snap.Precisions[change.TaskIndex]
	delta := strconv.FormatFloat(change.New-change.Old, 'f', prec, 64)
	if change.New >= change.Old {
		delta = "+" + delta
	}
	total := strconv.FormatFloat(snap.Total(change.Username), 'f', snap.MaxPrecision(), 64)
	table := rank.Render(snap, change.Username, s.visibleRows)

	msg := webhook.Message{Embeds: []webhook.Embed{{
		Title: fmt.Sprintf("%s scored %s on %s", change.Username, delta, taskName),
		URL:   fmt.Sprintf("%s/contest/%d/submission/%d", s.baseURL, s.contest.ID, sub.ID),
		Description: fmt.Sprintf("**%s**: %s points, new total **%s**\n```diff\n%s\n```",
			taskName, delta, total, table),
		Timestamp: sub.Timestamp.UTC().Format(time.RFC3339),
	}}}

	if err := s.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("dispatch score notification: %w", err)
	}
	s.log.Info(ctx, "score change notified",
		logger.String("username", change.Username),
		logger.String("task", taskName),
		logger.Float64("old", change.Old),
		logger.Float64("new", change.New),
	)
	return nil
}
