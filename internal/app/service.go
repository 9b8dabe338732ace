// Package app wires the store, the two polling loops, and the dispatchers
// into one long-running service.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/herald/internal/adapters/repository"
	"github.com/okian/herald/internal/adapters/store"
	"github.com/okian/herald/internal/adapters/webhook"
	"github.com/okian/herald/internal/domain/model"
	"github.com/okian/herald/internal/domain/rank"
	"github.com/okian/herald/pkg/logger"
	"github.com/okian/herald/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultPollInterval = 5 * time.Second
	defaultVisibleRows  = 10
)

// Notifier delivers one message to a notification channel. The webhook
// dispatcher implements it; tests substitute fakes.
type Notifier interface {
	Send(ctx context.Context, msg webhook.Message) error
}

// Service runs the score sweep and the question watch on one shared
// interval. Everything inside an iteration is synchronous: a slow or
// retrying delivery delays the next scheduled sweep, which is accepted —
// contest score-change volume is low and delivery correctness wins over
// latency.
type Service struct {
	mu sync.Mutex

	store            store.Store
	scoreNotifier    Notifier
	questionNotifier Notifier
	snapshots        *repository.SnapshotStore

	contestID   int64
	contest     model.Contest
	baseURL     string
	interval    time.Duration
	visibleRows int
	debug       bool

	sweeper   *Sweeper
	announcer *Announcer

	started bool

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPollInterval sets the shared polling interval.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithVisibleRows sets the leaderboard row limit for notifications.
func WithVisibleRows(rows int) Option {
	return func(s *Service) {
		if rows > 0 {
			s.visibleRows = rows
		}
	}
}

// WithBaseURL sets the contest web interface base used for deep links.
func WithBaseURL(base string) Option {
	return func(s *Service) {
		s.baseURL = base
	}
}

// WithDebug enables first-pass notifications for debugging: an absent
// baseline is treated as all zeros instead of suppressing events.
func WithDebug(debug bool) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// New constructs the service around an already-connected store and the
// two channel dispatchers.
func New(st store.Store, scoreNotifier, questionNotifier Notifier, contestID int64, opts ...Option) *Service {
	s := &Service{
		store:            st,
		scoreNotifier:    scoreNotifier,
		questionNotifier: questionNotifier,
		snapshots:        repository.NewSnapshotStore(),
		contestID:        contestID,
		interval:         defaultPollInterval,
		visibleRows:      defaultVisibleRows,
		log:              nil, // resolved in Start
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the contest and seeds both watermarks. Failure here is
// fatal to the process: the caller must not enter the loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	contest, err := s.store.Contest(ctx, s.contestID)
	if err != nil {
		return fmt.Errorf("resolve contest: %w", err)
	}
	s.contest = contest

	s.sweeper = NewSweeper(s.store, s.scoreNotifier, s.snapshots, contest, s.baseURL, s.visibleRows, s.debug, s.log)
	s.announcer = NewAnnouncer(s.store, s.questionNotifier, contest.ID, s.baseURL, s.log)

	if err := s.sweeper.Init(ctx); err != nil {
		return err
	}
	if err := s.announcer.Init(ctx); err != nil {
		return err
	}

	s.started = true
	s.log.Info(ctx, "watching contest",
		logger.Int64("contest_id", contest.ID),
		logger.String("contest", contest.Name),
		logger.Any("interval", s.interval),
	)
	return nil
}

// Run drives both loops until ctx is canceled. Cancellation is honored
// between iterations; a delivery already retrying finishes or is cut off
// by its own context check.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.iterate(ctx)
		select {
		case <-ctx.Done():
			s.log.Info(ctx, "watch loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// iterate runs one sweep and one announcement pass. A failure in either
// is logged and isolated: state stays as it was at the start of the
// failed pass, and the other loop still runs.
func (s *Service) iterate(ctx context.Context) {
	if err := s.sweeper.Tick(ctx); err != nil {
		s.log.Error(ctx, "sweep failed", logger.Error(err))
		metrics.RecordSweepFailure()
	}
	if ctx.Err() != nil {
		return
	}
	if err := s.announcer.Tick(ctx); err != nil {
		s.log.Error(ctx, "announcement pass failed", logger.Error(err))
	}
}

// Stop releases the store connections.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.store.Close()
	s.started = false
	s.log.Info(context.Background(), "service stopped")
}

// TopN exposes the current standings for the debug HTTP surface.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.snapshots.TopN(ctx, n)
}

// Table renders the full current standings table without a highlight.
func (s *Service) Table(ctx context.Context) (string, error) {
	snap := s.snapshots.Latest()
	if snap == nil {
		return "", repository.ErrNoSnapshot
	}
	return rank.Render(snap, "", len(snap.Rows)), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"contest_id":   s.contestID,
		"interval":     s.interval.String(),
		"visible_rows": s.visibleRows,
		"users":        s.snapshots.Count(ctx),
	}
	if s.started {
		stats["contest"] = s.contest.Name
		stats["last_submission_id"] = s.sweeper.mark.Last()
		stats["last_question_id"] = s.announcer.mark.Last()
	}
	return stats
}
