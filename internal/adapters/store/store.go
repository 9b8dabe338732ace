// Package store reads contest state from the shared contest database.
//
// The database is owned by the contest platform; this package only ever
// issues read queries and must tolerate data changing between calls.
package store

import (
	"context"

	"github.com/okian/herald/internal/domain/model"
)

// Store is the read interface the watcher needs from the contest database.
type Store interface {
	// Contest looks up the monitored contest. Returns ErrNotFound if the
	// id is unknown.
	Contest(ctx context.Context, id int64) (model.Contest, error)

	// Tasks returns the contest's tasks ordered by their contest position.
	Tasks(ctx context.Context, contestID int64) ([]model.Task, error)

	// Users returns every contestant with a non-hidden participation.
	Users(ctx context.Context, contestID int64) ([]model.User, error)

	// MaxSubmissionID returns the highest id among qualifying submissions,
	// or 0 when there are none. Used as the sweep fast-path watermark.
	MaxSubmissionID(ctx context.Context, contestID int64) (int64, error)

	// BestScores returns each user's best qualifying score for a task.
	BestScores(ctx context.Context, taskID int64) (map[string]float64, error)

	// ScoredResults returns all qualifying submission results for a task,
	// including the raw per-subtask breakdown.
	ScoredResults(ctx context.Context, taskID int64) ([]model.ScoredResult, error)

	// LatestScoredSubmission finds the most recent qualifying submission
	// by a user on a task. Returns ErrNotFound when none exists, which
	// callers treat as a transient race with the platform.
	LatestScoredSubmission(ctx context.Context, contestID int64, username, taskName string) (model.Submission, error)

	// MaxQuestionID returns the highest question id for the contest, or 0.
	MaxQuestionID(ctx context.Context, contestID int64) (int64, error)

	// QuestionsAfter returns questions with id greater than after, in
	// ascending id order.
	QuestionsAfter(ctx context.Context, contestID, after int64) ([]model.Question, error)

	// Close releases the underlying connections.
	Close()
}
