package stats

import (
	"fmt"
	"io"
	"sort"

	"keydrill/internal/model"
)

// RankedKey is a key aggregate with its computed weakness score.
type RankedKey struct {
	model.KeyAggregate
	Score float64
}

// RankWeakKeys scores stored key aggregates the same way a live session
// ranks them: error rate weighted against normalized average latency. Keys
// with fewer than minAttempts attempts are skipped.
func RankWeakKeys(aggs []model.KeyAggregate, minAttempts int, errWeight, latWeight float64) []RankedKey {
	candidates := make([]RankedKey, 0, len(aggs))
	maxLatency := 0.0
	for _, agg := range aggs {
		if agg.Attempts < minAttempts {
			continue
		}
		if lat := avgLatencyMs(agg); lat > maxLatency {
			maxLatency = lat
		}
		candidates = append(candidates, RankedKey{KeyAggregate: agg})
	}
	for i := range candidates {
		errRate := float64(candidates[i].Errors) / float64(candidates[i].Attempts)
		normLat := 0.0
		if maxLatency > 0 {
			normLat = avgLatencyMs(candidates[i].KeyAggregate) / maxLatency
		}
		candidates[i].Score = errRate*errWeight + normLat*latWeight
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Key < candidates[j].Key
		}
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// SelectWeakKeys returns the first runes of the top-scored keys, for biasing
// drill generation.
func SelectWeakKeys(aggs []model.KeyAggregate, top, minAttempts int, errWeight, latWeight float64) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	ranked := RankWeakKeys(aggs, minAttempts, errWeight, latWeight)
	if top <= 0 || top > len(ranked) {
		top = len(ranked)
	}
	for i := 0; i < top; i++ {
		runes := []rune(ranked[i].Key)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}

// RenderWeakKeyTable prints the ranked weak keys.
func RenderWeakKeyTable(w io.Writer, ranked []RankedKey) error {
	if len(ranked) == 0 {
		_, err := fmt.Fprintln(w, "No key stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Weak Keys"); err != nil {
		return err
	}
	headers := []string{"Key", "Score", "Error Rate", "Avg Latency (ms)", "Attempts", "Errors"}
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		label := r.Key
		if label == " " {
			label = "<space>"
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%.3f", r.Score),
			fmt.Sprintf("%.2f%%", float64(r.Errors)/float64(r.Attempts)*100),
			fmt.Sprintf("%.1f", avgLatencyMs(r.KeyAggregate)),
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Errors),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func avgLatencyMs(agg model.KeyAggregate) float64 {
	if agg.Attempts == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.Attempts)
}
