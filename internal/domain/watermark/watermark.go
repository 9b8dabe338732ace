// Package watermark tracks the highest entity id already processed, used
// to detect "new since last check" without re-reading history.
package watermark

// Mark is a monotonically increasing watermark over entity ids. Each Mark
// is owned by exactly one polling loop and is never touched concurrently,
// so no locking is needed.
type Mark struct {
	last int64
}

// New creates a mark initialized to the given id. Initializing from the
// store's current maximum at startup means only future entities are
// treated as new.
func New(last int64) *Mark {
	return &Mark{last: last}
}

// Last returns the highest id processed so far.
func (m *Mark) Last() int64 {
	return m.last
}

// Advance moves the mark up to id and reports whether it moved. A mark
// never decreases; advancing to an id at or below the current one is a
// no-op.
func (m *Mark) Advance(id int64) bool {
	if id <= m.last {
		return false
	}
	m.last = id
	return true
}
