// Package rank renders a score snapshot as a fixed-width leaderboard.
package rank

import (
	"sort"
	"strconv"
	"strings"

	"github.com/okian/herald/internal/domain/score"
)

// Markers and filler used in the rendered table. The table is posted
// inside a fenced diff block, so the highlight marker doubles as the
// diff "added line" prefix.
const (
	markerHighlight = "+ "
	markerPlain     = "  "
	ellipsisRow     = "..."
)

// row is one leaderboard line before formatting.
type row struct {
	rank     int
	username string
	cells    []string // formatted task scores plus total
}

// Render turns a snapshot into a rank-ordered text table highlighting one
// user. At most limit contestant rows are shown; the highlighted user's
// row is appended past the cut when their position exceeds it, followed by
// an ellipsis row. Users with bit-identical totals share a rank; the rank
// after a tie run is the 1-based row position, so ranks need not be
// contiguous.
func Render(snap *score.Snapshot, highlight string, limit int) string {
	if snap == nil || limit < 1 {
		return ""
	}

	usernames := make([]string, 0, len(snap.Rows))
	for username := range snap.Rows {
		usernames = append(usernames, username)
	}
	sort.Slice(usernames, func(i, j int) bool {
		ti, tj := snap.Total(usernames[i]), snap.Total(usernames[j])
		if ti != tj {
			return ti > tj
		}
		return usernames[i] < usernames[j]
	})

	totalPrec := snap.MaxPrecision()
	rows := make([]row, len(usernames))
	for i, username := range usernames {
		values := snap.Rows[username]
		cells := make([]string, len(values))
		for t := 0; t < len(snap.TaskNames); t++ {
			cells[t] = strconv.FormatFloat(values[t], 'f', snap.Precisions[t], 64)
		}
		cells[len(values)-1] = strconv.FormatFloat(values[len(values)-1], 'f', totalPrec, 64)

		r := row{rank: i + 1, username: username, cells: cells}
		if i > 0 && snap.Total(username) == snap.Total(usernames[i-1]) {
			r.rank = rows[i-1].rank
		}
		rows[i] = r
	}

	header := append([]string{"#", "User"}, snap.TaskNames...)
	header = append(header, "Total")

	// Column widths cover the header and every row, including rows past
	// the cut: the highlighted row may be appended from anywhere.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		if w := len(strconv.Itoa(r.rank)); w > widths[0] {
			widths[0] = w
		}
		if len(r.username) > widths[1] {
			widths[1] = len(r.username)
		}
		for i, cell := range r.cells {
			if len(cell) > widths[i+2] {
				widths[i+2] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeLine(&b, markerPlain, header, widths)

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	b.WriteString(markerPlain + strings.Join(sep, "-+-") + "\n")

	ellipsisDone := false
	for i, r := range rows {
		marker := markerPlain
		if r.username == highlight {
			marker = markerHighlight
		}
		switch {
		case i < limit:
			writeLine(&b, marker, r.fields(), widths)
		case r.username == highlight:
			writeLine(&b, marker, r.fields(), widths)
			if !ellipsisDone {
				b.WriteString(markerPlain + ellipsisRow + "\n")
				ellipsisDone = true
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// fields returns the row's cells prefixed with rank and username.
func (r row) fields() []string {
	return append([]string{strconv.Itoa(r.rank), r.username}, r.cells...)
}

// writeLine pads each field to its column width and joins with pipes.
// Numeric columns are right-aligned; the user column is left-aligned.
func writeLine(b *strings.Builder, marker string, fields []string, widths []int) {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if i == 1 {
			parts[i] = f + strings.Repeat(" ", widths[i]-len(f))
		} else {
			parts[i] = strings.Repeat(" ", widths[i]-len(f)) + f
		}
	}
	b.WriteString(marker + strings.Join(parts, " | ") + "\n")
}
