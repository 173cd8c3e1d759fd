package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"keydrill/internal/engine"
	"keydrill/internal/model"
	"keydrill/internal/store"
)

func newTestModel(t *testing.T, mode, text string) (*Model, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	m, err := NewModel(model.Config{Lang: "en", Mode: mode}, st, func() (string, engine.LessonInfo) {
		return text, engine.LessonInfo{Title: "test lesson"}
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m, st
}

func pressRune(m *Model, r rune) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestModelMarksCells(t *testing.T) {
	m, _ := newTestModel(t, "strict", "abc")
	pressRune(m, 'a')
	pressRune(m, 'x')
	if m.cells[0] != cellCorrect {
		t.Fatalf("expected first cell correct, got %v", m.cells[0])
	}
	if m.cells[1] != cellIncorrect {
		t.Fatalf("expected second cell incorrect, got %v", m.cells[1])
	}
	if m.sess.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", m.sess.Cursor())
	}
}

func TestModelForgivingRetryHoldsCursor(t *testing.T) {
	m, _ := newTestModel(t, "forgiving", "abc")
	pressRune(m, 'x')
	if m.cells[0] != cellRetry {
		t.Fatalf("expected retry cell, got %v", m.cells[0])
	}
	if m.sess.Cursor() != 0 {
		t.Fatalf("expected cursor held at 0, got %d", m.sess.Cursor())
	}
	pressRune(m, 'a')
	if m.cells[0] != cellCorrected {
		t.Fatalf("expected corrected cell after fix, got %v", m.cells[0])
	}
	if m.sess.Cursor() != 1 {
		t.Fatalf("expected cursor 1 after fix, got %d", m.sess.Cursor())
	}
}

func TestModelCompletionPersistsAndResets(t *testing.T) {
	m, st := newTestModel(t, "strict", "ab")
	pressRune(m, 'a')
	pressRune(m, 'b')

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(sessions))
	}
	if sessions[0].Lesson != "test lesson" {
		t.Fatalf("expected lesson title, got %q", sessions[0].Lesson)
	}
	if sessions[0].Chars != 2 {
		t.Fatalf("expected 2 chars, got %d", sessions[0].Chars)
	}

	// Fresh session over the provider's next text.
	if m.sess.Phase() != engine.PhaseNotStarted {
		t.Fatalf("expected fresh session, got %v", m.sess.Phase())
	}
	for _, c := range m.cells {
		if c != cellPending {
			t.Fatalf("expected pending cells after reset")
		}
	}
}

func TestModelPauseBlocksInput(t *testing.T) {
	m, _ := newTestModel(t, "strict", "abc")
	pressRune(m, 'a')
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.sess.Phase() != engine.PhasePaused {
		t.Fatalf("expected paused, got %v", m.sess.Phase())
	}
	pressRune(m, 'b')
	if m.sess.Cursor() != 1 {
		t.Fatalf("expected cursor unchanged while paused, got %d", m.sess.Cursor())
	}
	if !strings.Contains(m.renderFooter(), "Paused") {
		t.Fatalf("expected paused footer")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.sess.Phase() != engine.PhaseRunning {
		t.Fatalf("expected running after resume, got %v", m.sess.Phase())
	}
	pressRune(m, 'b')
	if m.sess.Cursor() != 2 {
		t.Fatalf("expected cursor 2 after resume, got %d", m.sess.Cursor())
	}
}

func TestModelAbortOnQuit(t *testing.T) {
	m, _ := newTestModel(t, "strict", "abc")
	pressRune(m, 'a')
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.sess.Phase() != engine.PhaseAborted {
		t.Fatalf("expected aborted, got %v", m.sess.Phase())
	}
}
