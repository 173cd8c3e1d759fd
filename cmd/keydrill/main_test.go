package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keydrill/internal/model"
	"keydrill/internal/statsui"
	"keydrill/internal/store"
)

func openPlainStatsStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "keydrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Errorf("close store: %v", cerr)
		}
	})
	return st
}

func TestRunPlainStats(t *testing.T) {
	st := openPlainStatsStore(t)
	ctx := context.Background()
	start := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	for i, wpm := range []float64{38, 42, 45} {
		result := model.SessionResult{
			StartedAt:   start.Add(time.Duration(i) * time.Hour),
			EndedAt:     start.Add(time.Duration(i)*time.Hour + time.Minute),
			Lesson:      "home-row",
			Lang:        "en",
			Mode:        "strict",
			WPM:         wpm,
			Accuracy:    0.94,
			Consistency: 0.8,
			Chars:       110,
			Errors:      7,
			DurationMs:  60000,
		}
		_, err := st.InsertSession(ctx, result, []model.KeyResult{
			{Key: "f", Attempts: 12, Errors: 3, LatencySumMs: 2400},
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	var buf bytes.Buffer
	rank := statsui.RankOptions{MinAttempts: 3, ErrorWeight: 1.0, LatencyWeight: 1.0}
	if err := runPlainStats(&buf, st, model.StatsConfig{CurveWindow: 2}, rank); err != nil {
		t.Fatalf("runPlainStats failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Summary", "Sessions: 3", "WPM trend:", "Learning Curves", "Weak Keys", "f"} {
		if !strings.Contains(out, want) {
			t.Errorf("plain stats output missing %q:\n%s", want, out)
		}
	}
}

func TestRunPlainStatsEmptyStore(t *testing.T) {
	st := openPlainStatsStore(t)
	var buf bytes.Buffer
	rank := statsui.RankOptions{MinAttempts: 3, ErrorWeight: 1.0, LatencyWeight: 1.0}
	if err := runPlainStats(&buf, st, model.StatsConfig{}, rank); err != nil {
		t.Fatalf("runPlainStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Errorf("expected empty-store notice, got:\n%s", buf.String())
	}
}
