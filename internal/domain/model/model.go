// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// ScoreMode selects how a task's score is derived from its submissions.
// Values mirror the score_mode column of the contest database.
type ScoreMode string

const (
	// ScoreModeMax scores a task as the single best qualifying submission.
	ScoreModeMax ScoreMode = "max"
	// ScoreModeMaxSubtask scores a task as the sum of the best result ever
	// achieved on each subtask, across all qualifying submissions.
	ScoreModeMaxSubtask ScoreMode = "max_subtask"
)

// Contest identifies the monitored contest.
type Contest struct {
	ID          int64
	Name        string
	Description string
}

// Task is one contest task. Position is the task's ordinal within the
// contest and fixes the task's slot in every score vector of a snapshot.
type Task struct {
	ID             int64
	Name           string
	Position       int
	ScorePrecision int // decimal places for display
	ScoreMode      ScoreMode
}

// User is a contestant. Username is unique and keys the snapshot.
type User struct {
	Username  string
	FirstName string
	LastName  string
}

// DisplayName joins the name components, falling back to the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Submission is a single qualifying submission, cited in notifications as
// the cause of an observed score change.
type Submission struct {
	ID        int64
	Username  string
	TaskName  string
	Score     float64
	Timestamp time.Time
}

// ScoredResult is one qualifying submission result row for a task under
// ScoreModeMaxSubtask. ScoreDetails carries the raw per-subtask breakdown
// as stored; parsing happens in the score package.
type ScoredResult struct {
	Username     string
	Score        float64
	ScoreDetails []byte
}

// Question is a contestant question awaiting an answer. IDs increase
// monotonically and drive the announcement watermark.
type Question struct {
	ID              int64
	Username        string
	FirstName       string
	LastName        string
	ParticipationID int64
	Subject         string
	Text            string
	Timestamp       time.Time
}

// Asker returns the display name of the question's author.
func (q Question) Asker() string {
	return User{Username: q.Username, FirstName: q.FirstName, LastName: q.LastName}.DisplayName()
}
