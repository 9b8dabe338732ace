// Package score computes full score snapshots for a contest and diffs
// successive snapshots to detect per-user, per-task changes.
package score

// Snapshot is a complete, internally consistent score table for all users
// at one point in time. Every row has len(TaskNames)+1 entries: one score
// per task in task order, then the total. Task order is fixed when the
// snapshot is built and never changes within it.
type Snapshot struct {
	TaskNames  []string
	Precisions []int
	Rows       map[string][]float64
}

// Width returns the row length of the snapshot, including the total slot.
func (s *Snapshot) Width() int {
	return len(s.TaskNames) + 1
}

// Total returns a user's total score, or 0 for an unknown user.
func (s *Snapshot) Total(username string) float64 {
	row, ok := s.Rows[username]
	if !ok || len(row) == 0 {
		return 0
	}
	return row[len(row)-1]
}

// MaxPrecision returns the widest display precision among all tasks.
// The total column is formatted with it.
func (s *Snapshot) MaxPrecision() int {
	p := 0
	for _, prec := range s.Precisions {
		if prec > p {
			p = prec
		}
	}
	return p
}

// Equal reports whether two snapshots hold entry-for-entry identical rows
// with identical task ordering.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if other == nil || s.Width() != other.Width() || len(s.Rows) != len(other.Rows) {
		return false
	}
	for i, name := range s.TaskNames {
		if other.TaskNames[i] != name {
			return false
		}
	}
	for username, row := range s.Rows {
		otherRow, ok := other.Rows[username]
		if !ok || len(otherRow) != len(row) {
			return false
		}
		for i, v := range row {
			if otherRow[i] != v {
				return false
			}
		}
	}
	return true
}
