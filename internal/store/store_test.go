package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keydrill/internal/model"
)

var baseTime = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "keydrill.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func sampleSession(offset time.Duration, lang string, wpm float64) model.SessionResult {
	start := baseTime.Add(offset)
	return model.SessionResult{
		StartedAt:    start,
		EndedAt:      start.Add(time.Minute),
		Lesson:       "home-row",
		Lang:         lang,
		Mode:         "strict",
		WPM:          wpm,
		Accuracy:     0.95,
		RawErrorRate: 0.05,
		Consistency:  0.8,
		Chars:        120,
		Errors:       6,
		DurationMs:   60000,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.InsertSession(ctx, sampleSession(0, "en", 40), nil)
	require.NoError(t, err)
	id2, err := s.InsertSession(ctx, sampleSession(time.Hour, "en", 45), nil)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	sessions, err := s.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 40.0, sessions[0].WPM)
	assert.Equal(t, 45.0, sessions[1].WPM)
	assert.True(t, sessions[0].EndedAt.Before(sessions[1].EndedAt))
	assert.Equal(t, "home-row", sessions[0].Lesson)
	assert.Equal(t, "strict", sessions[0].Mode)
}

func TestListSessionsFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.InsertSession(ctx, sampleSession(0, "en", 40), nil)
	require.NoError(t, err)
	_, err = s.InsertSession(ctx, sampleSession(time.Hour, "de", 30), nil)
	require.NoError(t, err)

	byLang, err := s.ListSessions(ctx, model.StatsConfig{Lang: "de"})
	require.NoError(t, err)
	require.Len(t, byLang, 1)
	assert.Equal(t, 30.0, byLang[0].WPM)

	since := baseTime.Add(30 * time.Minute)
	recent, err := s.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 30.0, recent[0].WPM)
}

func TestKeyStatsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.InsertSession(ctx, sampleSession(0, "en", 40), []model.KeyResult{
		{Key: "a", Attempts: 10, Errors: 2, LatencySumMs: 1500},
		{Key: "s", Attempts: 8, Errors: 0, LatencySumMs: 900},
	})
	require.NoError(t, err)

	aggs, err := s.ListKeyAggregatesForSessions(ctx, []int64{id})
	require.NoError(t, err)
	require.Len(t, aggs, 2)
	byKey := make(map[string]model.KeyAggregate, len(aggs))
	for _, a := range aggs {
		byKey[a.Key] = a
	}
	assert.Equal(t, 10, byKey["a"].Attempts)
	assert.Equal(t, 2, byKey["a"].Errors)
	assert.Equal(t, int64(1500), byKey["a"].LatencySumMs)
	assert.Equal(t, 8, byKey["s"].Attempts)
}

func TestInsertSessionRollsBackOnKeyConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Duplicate key violates the (session_id, key) primary key mid-insert.
	_, err := s.InsertSession(ctx, sampleSession(0, "en", 40), []model.KeyResult{
		{Key: "a", Attempts: 4, Errors: 1, LatencySumMs: 400},
		{Key: "a", Attempts: 2, Errors: 0, LatencySumMs: 200},
	})
	require.Error(t, err)

	sessions, err := s.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// The failed transaction must not hold the connection hostage.
	id, err := s.InsertSession(ctx, sampleSession(time.Minute, "en", 41), []model.KeyResult{
		{Key: "b", Attempts: 3, Errors: 1, LatencySumMs: 300},
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestGetWeakKeysWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Oldest session should fall outside a window of 2.
	_, err := s.InsertSession(ctx, sampleSession(0, "en", 40), []model.KeyResult{
		{Key: "q", Attempts: 5, Errors: 5, LatencySumMs: 2000},
	})
	require.NoError(t, err)
	_, err = s.InsertSession(ctx, sampleSession(time.Hour, "en", 41), []model.KeyResult{
		{Key: "a", Attempts: 4, Errors: 1, LatencySumMs: 600},
	})
	require.NoError(t, err)
	_, err = s.InsertSession(ctx, sampleSession(2*time.Hour, "en", 42), []model.KeyResult{
		{Key: "a", Attempts: 6, Errors: 2, LatencySumMs: 800},
	})
	require.NoError(t, err)

	aggs, err := s.GetWeakKeys(ctx, 2, "en")
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, "a", aggs[0].Key)
	assert.Equal(t, 10, aggs[0].Attempts)
	assert.Equal(t, 3, aggs[0].Errors)
	assert.Equal(t, int64(1400), aggs[0].LatencySumMs)
}

func TestGetWeakKeysLangFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.InsertSession(ctx, sampleSession(0, "en", 40), []model.KeyResult{
		{Key: "a", Attempts: 4, Errors: 1, LatencySumMs: 600},
	})
	require.NoError(t, err)
	_, err = s.InsertSession(ctx, sampleSession(time.Hour, "de", 30), []model.KeyResult{
		{Key: "z", Attempts: 3, Errors: 2, LatencySumMs: 900},
	})
	require.NoError(t, err)

	aggs, err := s.GetWeakKeys(ctx, 10, "de")
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, "z", aggs[0].Key)

	all, err := s.GetWeakKeys(ctx, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetWeakKeysZeroWindow(t *testing.T) {
	s := openTestStore(t)
	aggs, err := s.GetWeakKeys(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Empty(t, aggs)
}
