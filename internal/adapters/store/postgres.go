package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/herald/internal/domain/model"
	"github.com/okian/herald/pkg/metrics"
)

// Submissions qualify for scoring when they are official, made through a
// non-hidden participation of the monitored contest, scored against the
// task's active dataset, and scored positively.
const qualifyingJoins = `
	FROM submission_results sr
	JOIN submissions s ON sr.submission_id = s.id
	JOIN tasks t ON s.task_id = t.id AND sr.dataset_id = t.active_dataset_id
	JOIN participations p ON s.participation_id = p.id
	JOIN users u ON p.user_id = u.id`

// Postgres implements Store against the contest platform's database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the contest database and verifies reachability.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open contest database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping contest database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (pg *Postgres) Close() {
	pg.pool.Close()
}

// Contest looks up the monitored contest.
func (pg *Postgres) Contest(ctx context.Context, id int64) (model.Contest, error) {
	defer observe("contest")()
	var c model.Contest
	err := pg.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, '') FROM contests WHERE id = $1`,
		id).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Contest{}, fmt.Errorf("contest %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Contest{}, fmt.Errorf("query contest: %w", err)
	}
	return c, nil
}

// Tasks returns the contest's tasks ordered by position. The order fixes
// each task's slot in every score vector built from it.
func (pg *Postgres) Tasks(ctx context.Context, contestID int64) ([]model.Task, error) {
	defer observe("tasks")()
	rows, err := pg.pool.Query(ctx,
		`SELECT id, name, score_precision, score_mode
		 FROM tasks WHERE contest_id = $1 ORDER BY num`,
		contestID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		var mode string
		if err := rows.Scan(&t.ID, &t.Name, &t.ScorePrecision, &mode); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Position = len(tasks)
		t.ScoreMode = model.ScoreMode(mode)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Users returns every contestant with a non-hidden participation.
func (pg *Postgres) Users(ctx context.Context, contestID int64) ([]model.User, error) {
	defer observe("users")()
	rows, err := pg.pool.Query(ctx,
		`SELECT u.username, u.first_name, u.last_name
		 FROM users u
		 JOIN participations p ON p.user_id = u.id
		 WHERE p.contest_id = $1 AND NOT p.hidden
		 ORDER BY u.username`,
		contestID)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// MaxSubmissionID returns the highest qualifying submission id, or 0.
func (pg *Postgres) MaxSubmissionID(ctx context.Context, contestID int64) (int64, error) {
	defer observe("max_submission_id")()
	var max int64
	err := pg.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(s.id), 0)
		 FROM submissions s
		 JOIN participations p ON s.participation_id = p.id
		 WHERE p.contest_id = $1 AND s.official AND NOT p.hidden`,
		contestID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("query max submission id: %w", err)
	}
	return max, nil
}

// BestScores returns each user's best qualifying score for a task.
func (pg *Postgres) BestScores(ctx context.Context, taskID int64) (map[string]float64, error) {
	defer observe("best_scores")()
	rows, err := pg.pool.Query(ctx,
		`SELECT u.username, MAX(sr.score)`+qualifyingJoins+`
		 WHERE t.id = $1 AND s.official AND NOT p.hidden AND sr.score > 0
		 GROUP BY u.username`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("query best scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var username string
		var score float64
		if err := rows.Scan(&username, &score); err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		scores[username] = score
	}
	return scores, rows.Err()
}

// ScoredResults returns all qualifying submission results for a task.
func (pg *Postgres) ScoredResults(ctx context.Context, taskID int64) ([]model.ScoredResult, error) {
	defer observe("scored_results")()
	rows, err := pg.pool.Query(ctx,
		`SELECT u.username, sr.score, COALESCE(sr.score_details::text, '')`+qualifyingJoins+`
		 WHERE t.id = $1 AND s.official AND NOT p.hidden AND sr.score > 0`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("query scored results: %w", err)
	}
	defer rows.Close()

	var results []model.ScoredResult
	for rows.Next() {
		var r model.ScoredResult
		var details string
		if err := rows.Scan(&r.Username, &r.Score, &details); err != nil {
			return nil, fmt.Errorf("scan scored result: %w", err)
		}
		r.ScoreDetails = []byte(details)
		results = append(results, r)
	}
	return results, rows.Err()
}

// LatestScoredSubmission finds the most recent qualifying submission by a
// user on a task.
func (pg *Postgres) LatestScoredSubmission(ctx context.Context, contestID int64, username, taskName string) (model.Submission, error) {
	defer observe("latest_scored_submission")()
	sub := model.Submission{Username: username, TaskName: taskName}
	err := pg.pool.QueryRow(ctx,
		`SELECT s.id, sr.score, s.timestamp`+qualifyingJoins+`
		 WHERE p.contest_id = $1 AND u.username = $2 AND t.name = $3
		   AND s.official AND sr.score > 0
		 ORDER BY s.timestamp DESC
		 LIMIT 1`,
		contestID, username, taskName).Scan(&sub.ID, &sub.Score, &sub.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Submission{}, fmt.Errorf("submission by %q on %q: %w", username, taskName, ErrNotFound)
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("query latest submission: %w", err)
	}
	return sub, nil
}

// MaxQuestionID returns the highest question id for the contest, or 0.
func (pg *Postgres) MaxQuestionID(ctx context.Context, contestID int64) (int64, error) {
	defer observe("max_question_id")()
	var max int64
	err := pg.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(q.id), 0)
		 FROM questions q
		 JOIN participations p ON q.participation_id = p.id
		 WHERE p.contest_id = $1`,
		contestID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("query max question id: %w", err)
	}
	return max, nil
}

// QuestionsAfter returns questions newer than the watermark in ascending
// id order.
func (pg *Postgres) QuestionsAfter(ctx context.Context, contestID, after int64) ([]model.Question, error) {
	defer observe("questions_after")()
	rows, err := pg.pool.Query(ctx,
		`SELECT q.id, u.username, u.first_name, u.last_name, p.id,
		        COALESCE(q.subject, ''), COALESCE(q.text, ''), q.question_timestamp
		 FROM questions q
		 JOIN participations p ON q.participation_id = p.id
		 JOIN users u ON p.user_id = u.id
		 WHERE p.contest_id = $1 AND q.id > $2
		 ORDER BY q.id`,
		contestID, after)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Username, &q.FirstName, &q.LastName,
			&q.ParticipationID, &q.Subject, &q.Text, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// observe times one store query for the metrics histogram.
func observe(query string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreQueryDuration(query, float64(time.Since(start).Milliseconds()))
	}
}
