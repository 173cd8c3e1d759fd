// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang          string
	Mode          string
	Lesson        string
	DrillWords    int
	WeakTop       int
	WeakWindow    int
	MinAttempts   int
	ErrorWeight   float64
	LatencyWeight float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionResult captures a completed typing session for persistence.
type SessionResult struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Lesson       string
	Lang         string
	Mode         string
	WPM          float64
	Accuracy     float64
	RawErrorRate float64
	Consistency  float64
	Chars        int
	Errors       int
	DurationMs   int64
}

// KeyResult stores per-key stats for a session.
type KeyResult struct {
	Key          string
	Attempts     int
	Errors       int
	LatencySumMs int64
}

// KeyAggregate aggregates key stats across sessions.
type KeyAggregate struct {
	Key          string
	Attempts     int
	Errors       int
	LatencySumMs int64
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID   int64
	EndedAt     time.Time
	Lesson      string
	Mode        string
	WPM         float64
	Accuracy    float64
	Consistency float64
	Chars       int
	Errors      int
	DurationMs  int64
}
