package score

import (
	"context"
	"fmt"

	"github.com/okian/herald/internal/domain/model"
)

// Source provides the read queries the aggregator needs. The store adapter
// implements it against the contest database.
type Source interface {
	// Tasks returns the contest's tasks in stable position order.
	Tasks(ctx context.Context, contestID int64) ([]model.Task, error)

	// Users returns every contestant with a visible participation.
	Users(ctx context.Context, contestID int64) ([]model.User, error)

	// BestScores returns each user's best qualifying submission score for a
	// task scored under ScoreModeMax.
	BestScores(ctx context.Context, taskID int64) (map[string]float64, error)

	// ScoredResults returns every qualifying submission result for a task
	// scored under ScoreModeMaxSubtask, with its raw breakdown.
	ScoredResults(ctx context.Context, taskID int64) ([]model.ScoredResult, error)
}

// Aggregator builds a full score snapshot for one contest.
type Aggregator struct {
	src       Source
	contestID int64
}

// NewAggregator creates an aggregator bound to a contest.
func NewAggregator(src Source, contestID int64) *Aggregator {
	return &Aggregator{src: src, contestID: contestID}
}

// Snapshot queries the store and produces the current score snapshot.
// Every known user gets a zero-initialized row; the trailing slot of each
// row accumulates the total. The result is independent of submission
// retrieval order: each reduction is a commutative max or sum.
func (a *Aggregator) Snapshot(ctx context.Context) (*Snapshot, error) {
	tasks, err := a.src.Tasks(ctx, a.contestID)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	users, err := a.src.Users(ctx, a.contestID)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	snap := &Snapshot{
		TaskNames:  make([]string, len(tasks)),
		Precisions: make([]int, len(tasks)),
		Rows:       make(map[string][]float64, len(users)),
	}
	for i, t := range tasks {
		snap.TaskNames[i] = t.Name
		snap.Precisions[i] = t.ScorePrecision
	}
	for _, u := range users {
		snap.Rows[u.Username] = make([]float64, len(tasks)+1)
	}

	total := len(tasks)
	for i, t := range tasks {
		scores, err := a.taskScores(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
		for username, value := range scores {
			row, ok := snap.Rows[username]
			if !ok {
				// Submission from a user outside the visible participation
				// set; ignore it rather than invent a row.
				continue
			}
			row[i] = value
			row[total] += value
		}
	}
	return snap, nil
}

// taskScores reduces a task's qualifying submissions to one score per user
// according to the task's score mode.
func (a *Aggregator) taskScores(ctx context.Context, t model.Task) (map[string]float64, error) {
	if t.ScoreMode != model.ScoreModeMaxSubtask {
		return a.src.BestScores(ctx, t.ID)
	}

	results, err := a.src.ScoredResults(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	// best[user][subtask] keeps the maximum value ever achieved on that
	// subtask across all qualifying submissions.
	best := make(map[string]Breakdown)
	for _, r := range results {
		b := BreakdownOrFallback(r.ScoreDetails, r.Score)
		user, ok := best[r.Username]
		if !ok {
			user = make(Breakdown, len(b))
			best[r.Username] = user
		}
		for idx, value := range b {
			if value > user[idx] {
				user[idx] = value
			}
		}
	}

	scores := make(map[string]float64, len(best))
	for username, subtasks := range best {
		sum := 0.0
		for _, value := range subtasks {
			sum += value
		}
		scores[username] = sum
	}
	return scores, nil
}
