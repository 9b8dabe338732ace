package score

import (
	"encoding/json"
)

// Breakdown maps a subtask index to the score value achieved on it.
type Breakdown map[int]float64

// subtaskDetail mirrors one element of the stored score details array.
type subtaskDetail struct {
	Idx           *int     `json:"idx"`
	MaxScore      *float64 `json:"max_score"`
	ScoreFraction *float64 `json:"score_fraction"`
}

// ParseBreakdown decodes a raw per-subtask score breakdown. The second
// return value reports whether the breakdown was usable; callers fall back
// to single-subtask scoring when it is false. A breakdown is unusable when
// it is absent, malformed, empty, or missing any of the expected fields.
func ParseBreakdown(raw []byte) (Breakdown, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var details []subtaskDetail
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, false
	}
	if len(details) == 0 {
		return nil, false
	}
	b := make(Breakdown, len(details))
	for _, d := range details {
		if d.Idx == nil || d.MaxScore == nil || d.ScoreFraction == nil {
			return nil, false
		}
		b[*d.Idx] = *d.MaxScore * *d.ScoreFraction
	}
	return b, true
}

// BreakdownOrFallback parses raw details and substitutes a single-subtask
// breakdown carrying the whole submission score when parsing fails.
func BreakdownOrFallback(raw []byte, score float64) Breakdown {
	if b, ok := ParseBreakdown(raw); ok {
		return b
	}
	return Breakdown{1: score}
}
