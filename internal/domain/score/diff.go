package score

import (
	"sort"
)

// Change reports that one user's score on one task moved between two
// snapshots.
type Change struct {
	Username  string
	TaskIndex int
	Old       float64
	New       float64
}

// Changes compares a baseline snapshot against a fresh one and returns the
// detected score changes, at most one per user.
//
// A nil or empty baseline means this is the first observation: nothing is
// reported unless debug is set, in which case the baseline is treated as
// all zeros so every nonzero score surfaces. A width mismatch (task set
// changed between passes) invalidates the baseline entirely and suppresses
// all events for the pass.
//
// Within one pass a user's tasks are scanned in task order and the first
// differing task is reported; the user's baseline row is then considered
// replaced by the new one, so no further events are emitted for that user.
// Users are visited in sorted username order for deterministic output.
func Changes(prev, next *Snapshot, debug bool) []Change {
	if next == nil {
		return nil
	}
	baseline := prev
	if baseline == nil || len(baseline.Rows) == 0 {
		if !debug {
			return nil
		}
		baseline = &Snapshot{TaskNames: next.TaskNames, Precisions: next.Precisions}
	}
	if baseline.Width() != next.Width() {
		return nil
	}

	usernames := make([]string, 0, len(next.Rows))
	for username := range next.Rows {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	var changes []Change
	taskCount := len(next.TaskNames)
	for _, username := range usernames {
		row := next.Rows[username]
		old := baseline.Rows[username]
		if old == nil {
			old = make([]float64, next.Width())
		}
		if old[taskCount] == row[taskCount] {
			continue
		}
		for i := 0; i < taskCount; i++ {
			if old[i] != row[i] {
				changes = append(changes, Change{
					Username:  username,
					TaskIndex: i,
					Old:       old[i],
					New:       row[i],
				})
				break
			}
		}
	}
	return changes
}
