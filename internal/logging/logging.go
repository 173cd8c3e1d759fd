// Package logging sets up the file-backed diagnostic logger. Stdout and
// stderr belong to the TUI, so diagnostics go to a log file under the XDG
// data directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	logger  zerolog.Logger
	logFile *os.File
	ready   bool
)

// Init opens the diagnostics log in dir and configures the package logger.
func Init(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(dir, "keydrill.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	writer := zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	logger = zerolog.New(writer).With().Timestamp().Int("pid", os.Getpid()).Logger()
	ready = true
	return nil
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	ready = false
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...any) {
	if ready {
		logger.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...any) {
	if ready {
		logger.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// Infof logs a formatted informational message.
func Infof(format string, args ...any) {
	if ready {
		logger.Info().Msg(fmt.Sprintf(format, args...))
	}
}

// SessionSaved logs a persisted session with its headline figures.
func SessionSaved(id int64, lesson string, wpm, accuracy float64) {
	if ready {
		logger.Info().
			Int64("session_id", id).
			Str("lesson", lesson).
			Float64("wpm", wpm).
			Float64("accuracy", accuracy).
			Msg("session saved")
	}
}
