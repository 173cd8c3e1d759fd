package engine

import (
	"math"
	"time"
)

// minElapsed guards WPM against division by near-zero elapsed time.
const minElapsed = 100 * time.Millisecond

// LiveMetrics is the set of figures derivable at any point of a session.
type LiveMetrics struct {
	WPM          float64
	Accuracy     float64
	RawErrorRate float64
	Consistency  float64
	Elapsed      time.Duration
}

// Summary is the finalized result of a terminal session.
type Summary struct {
	WPM          float64
	Accuracy     float64
	RawErrorRate float64
	Consistency  float64
	Duration     time.Duration
	WeakKeys     []KeyStat
}

// computeMetrics derives all figures from the outcome log. The log is the
// single source of truth; nothing here reads mutable accumulators, so two
// calls over the same log always agree.
func computeMetrics(outcomes []Outcome, cursor int, elapsed time.Duration) LiveMetrics {
	correctChars := 0
	incorrect := 0
	firstCorrect := 0
	seen := -1
	for _, o := range outcomes {
		if o.Correct {
			correctChars++
		} else {
			incorrect++
		}
		if o.Index > seen {
			seen = o.Index
			if o.Correct && o.Index < cursor {
				firstCorrect++
			}
		}
	}

	m := LiveMetrics{Elapsed: elapsed}
	if elapsed >= minElapsed && correctChars > 0 {
		minutes := elapsed.Minutes()
		m.WPM = (float64(correctChars) / 5.0) / minutes
	}
	if cursor > 0 {
		m.Accuracy = float64(firstCorrect) / float64(cursor)
	}
	if len(outcomes) > 0 {
		m.RawErrorRate = float64(incorrect) / float64(len(outcomes))
	}
	m.Consistency = consistency(outcomes)
	return m
}

// consistency measures evenness of pacing as 1 minus the coefficient of
// variation of inter-keystroke deltas, clamped to [0,1]. Only correct
// first-attempt outcomes count, so correction pauses do not penalize it,
// and deltas spanning a pause are dropped rather than charged as a stall.
func consistency(outcomes []Outcome) float64 {
	var deltas []float64
	var prev time.Time
	havePrev := false
	gap := false
	samples := 0
	seen := -1
	for _, o := range outcomes {
		if o.SpanStart {
			gap = true
		}
		first := o.Index > seen
		if first {
			seen = o.Index
		}
		if !first || !o.Correct {
			continue
		}
		samples++
		if havePrev && !gap {
			deltas = append(deltas, o.At.Sub(prev).Seconds())
		}
		prev = o.At
		havePrev = true
		gap = false
	}
	if samples < 3 || len(deltas) == 0 {
		return 1.0
	}
	mean := 0.0
	for _, d := range deltas {
		mean += d
	}
	mean /= float64(len(deltas))
	if mean <= 0 {
		return 1.0
	}
	variance := 0.0
	for _, d := range deltas {
		diff := d - mean
		variance += diff * diff
	}
	variance /= float64(len(deltas))
	cv := math.Sqrt(variance) / mean
	if cv > 1 {
		return 0.0
	}
	return 1.0 - cv
}
