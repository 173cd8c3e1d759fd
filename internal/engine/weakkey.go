package engine

import (
	"sort"
	"time"
)

// KeyStat aggregates attempts, errors, and latency for one logical key.
type KeyStat struct {
	Key          rune
	Attempts     uint32
	Errors       uint32
	TotalLatency time.Duration
}

// ErrorRate returns errors over attempts, or 0 for an unused key.
func (k KeyStat) ErrorRate() float64 {
	if k.Attempts == 0 {
		return 0
	}
	return float64(k.Errors) / float64(k.Attempts)
}

// AvgLatency returns the mean inter-keystroke latency for the key.
func (k KeyStat) AvgLatency() time.Duration {
	if k.Attempts == 0 {
		return 0
	}
	return k.TotalLatency / time.Duration(k.Attempts)
}

// RankConfig controls weak-key ranking. Weights trade error rate against
// latency; keys with fewer than MinAttempts are excluded as noise.
type RankConfig struct {
	MinAttempts   uint32
	ErrorWeight   float64
	LatencyWeight float64
}

// DefaultRankConfig returns equal weighting with a minimum of 3 attempts.
func DefaultRankConfig() RankConfig {
	return RankConfig{
		MinAttempts:   3,
		ErrorWeight:   1.0,
		LatencyWeight: 1.0,
	}
}

// keyTracker accumulates KeyStats for a single session. Entries are never
// removed while the session lives.
type keyTracker struct {
	stats map[rune]*KeyStat
}

func newKeyTracker() *keyTracker {
	return &keyTracker{stats: map[rune]*KeyStat{}}
}

func (t *keyTracker) record(key rune, correct bool, latency time.Duration, hasLatency bool) {
	entry, ok := t.stats[key]
	if !ok {
		entry = &KeyStat{Key: key}
		t.stats[key] = entry
	}
	entry.Attempts++
	if !correct {
		entry.Errors++
	}
	if hasLatency && latency > 0 {
		entry.TotalLatency += latency
	}
}

// all returns every KeyStat sorted by key.
func (t *keyTracker) all() []KeyStat {
	out := make([]KeyStat, 0, len(t.stats))
	for _, entry := range t.stats {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// rank orders keys descending by weakness score. Latency is normalized
// against the slowest ranked key so both score terms live in [0,1].
func (t *keyTracker) rank(cfg RankConfig) []KeyStat {
	candidates := make([]KeyStat, 0, len(t.stats))
	maxLatency := time.Duration(0)
	for _, entry := range t.stats {
		if entry.Attempts < cfg.MinAttempts {
			continue
		}
		candidates = append(candidates, *entry)
		if avg := entry.AvgLatency(); avg > maxLatency {
			maxLatency = avg
		}
	}
	score := func(k KeyStat) float64 {
		s := k.ErrorRate() * cfg.ErrorWeight
		if maxLatency > 0 {
			s += (float64(k.AvgLatency()) / float64(maxLatency)) * cfg.LatencyWeight
		}
		return s
	}
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := score(candidates[i]), score(candidates[j])
		if si == sj {
			return candidates[i].Key < candidates[j].Key
		}
		return si > sj
	})
	return candidates
}
