// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keydrill/internal/engine"
	"keydrill/internal/logging"
	"keydrill/internal/model"
	"keydrill/internal/store"
)

// cellKind is the rendered state of one target position.
type cellKind int

const (
	cellPending cellKind = iota
	cellCorrect
	cellCorrected
	cellIncorrect
	cellRetry
)

// TextProvider supplies the next target text and its lesson metadata.
type TextProvider func() (string, engine.LessonInfo)

type tickMsg time.Time

// ReloadMsg tells the model its text provider has fresh content. The next
// session picks it up; the current one is left alone.
type ReloadMsg struct{}

// Model implements the Bubble Tea practice UI on top of an engine session.
type Model struct {
	cfg  model.Config
	mode engine.Mode
	rank engine.RankConfig
	st   *store.Store
	next TextProvider

	sess        *engine.Session
	targetRunes []rune
	cells       []cellKind

	width  int
	height int

	startedAt time.Time

	lastWPM float64
	lastAcc float64
	hasLast bool
}

// NewModel constructs a practice model. The first target text comes from the
// provider immediately so View has something to show before the first key.
func NewModel(cfg model.Config, st *store.Store, next TextProvider) (*Model, error) {
	mode, err := engine.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	rank := engine.DefaultRankConfig()
	if cfg.MinAttempts > 0 {
		rank.MinAttempts = uint32(cfg.MinAttempts)
	}
	if cfg.ErrorWeight > 0 {
		rank.ErrorWeight = cfg.ErrorWeight
	}
	if cfg.LatencyWeight > 0 {
		rank.LatencyWeight = cfg.LatencyWeight
	}
	m := &Model{
		cfg:  cfg,
		mode: mode,
		rank: rank,
		st:   st,
		next: next,
	}
	if err := m.resetSession(); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, tickEvery()
	case ReloadMsg:
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.abortSession()
			return m, tea.Quit
		case tea.KeyEsc:
			m.togglePause()
			return m, nil
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
			return m, nil
		case tea.KeyEnter:
			m.handleRunes([]rune{'\n'})
			return m, nil
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.targetRunes) == 0 {
		return ""
	}
	cursorIndex := -1
	if m.sess.Cursor() < len(m.targetRunes) {
		cursorIndex = m.sess.Cursor()
	}
	styledRunes := buildStyledRunes(m.targetRunes, m.cells, cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleRunes(runes []rune) {
	if m.sess.Phase() == engine.PhasePaused {
		return
	}
	for _, r := range runes {
		now := time.Now()
		if m.sess.Phase() == engine.PhaseNotStarted {
			if err := m.sess.Start(m.mode, now); err != nil {
				logging.Errorf("start session: %v", err)
				return
			}
			m.startedAt = now
		}
		res, err := m.sess.Submit(engine.Keystroke{Value: r, At: now})
		if err != nil {
			return
		}
		m.applyResult(res)
		if m.sess.Phase() == engine.PhaseCompleted {
			m.finishSession(now)
			if err := m.resetSession(); err != nil {
				logging.Errorf("next session: %v", err)
			}
			return
		}
	}
}

func (m *Model) applyResult(res engine.Result) {
	idx := res.Outcome.Index
	if idx < 0 || idx >= len(m.cells) {
		return
	}
	switch res.Kind {
	case engine.ResultRetry:
		m.cells[idx] = cellRetry
	case engine.ResultAdvance:
		switch {
		case !res.Outcome.Correct:
			m.cells[idx] = cellIncorrect
		case res.Outcome.Corrected:
			m.cells[idx] = cellCorrected
		default:
			m.cells[idx] = cellCorrect
		}
	}
}

func (m *Model) togglePause() {
	now := time.Now()
	switch m.sess.Phase() {
	case engine.PhaseRunning:
		if err := m.sess.Pause(now); err != nil {
			logging.Warnf("pause: %v", err)
		}
	case engine.PhasePaused:
		if err := m.sess.Resume(now); err != nil {
			logging.Warnf("resume: %v", err)
		}
	}
}

func (m *Model) abortSession() {
	phase := m.sess.Phase()
	if phase != engine.PhaseRunning && phase != engine.PhasePaused {
		return
	}
	if err := m.sess.Abort(time.Now()); err != nil {
		logging.Warnf("abort: %v", err)
	}
}

func (m *Model) resetSession() error {
	text, info := m.next()
	target := engine.NewTarget(text)
	if target.Len() == 0 {
		return engine.ErrEmptyText
	}
	m.sess = engine.New(target, info, m.rank)
	m.targetRunes = []rune(text)
	m.cells = make([]cellKind, target.Len())
	m.startedAt = time.Time{}
	return nil
}

func (m *Model) loadFooterStats() {
	sessions, err := m.st.ListSessions(context.Background(), model.StatsConfig{Lang: m.cfg.Lang})
	if err != nil {
		logging.Errorf("load session stats: %v", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
}

func (m *Model) renderFooter() string {
	if m.sess.Phase() == engine.PhasePaused {
		return pausedStyle.Render("Paused · esc to resume · ctrl+c to quit")
	}
	snap := m.sess.Snapshot(time.Now(), 0)
	segments := []string{
		m.sess.Info().Title,
		m.mode.String(),
		fmt.Sprintf("Progress %d%%", int(snap.Progress*100)),
	}
	if m.sess.Phase() == engine.PhaseRunning {
		segments = append(segments, fmt.Sprintf("%.1f WPM · %.1f%% · cons %.2f",
			snap.Metrics.WPM, snap.Metrics.Accuracy*100, snap.Metrics.Consistency))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) finishSession(endedAt time.Time) {
	summary, err := m.sess.Summary()
	if err != nil {
		logging.Errorf("session summary: %v", err)
		return
	}
	outcomes := m.sess.Outcomes()
	errorCount := 0
	for _, o := range outcomes {
		if !o.Correct {
			errorCount++
		}
	}
	info := m.sess.Info()
	result := model.SessionResult{
		StartedAt:    m.startedAt,
		EndedAt:      endedAt,
		Lesson:       info.Title,
		Lang:         m.cfg.Lang,
		Mode:         m.mode.String(),
		WPM:          summary.WPM,
		Accuracy:     summary.Accuracy,
		RawErrorRate: summary.RawErrorRate,
		Consistency:  summary.Consistency,
		Chars:        m.sess.Cursor(),
		Errors:       errorCount,
		DurationMs:   summary.Duration.Milliseconds(),
	}
	keyResults := make([]model.KeyResult, 0, len(m.sess.KeyStats()))
	for _, ks := range m.sess.KeyStats() {
		keyResults = append(keyResults, model.KeyResult{
			Key:          string(ks.Key),
			Attempts:     int(ks.Attempts),
			Errors:       int(ks.Errors),
			LatencySumMs: ks.TotalLatency.Milliseconds(),
		})
	}
	id, err := m.st.InsertSession(context.Background(), result, keyResults)
	if err != nil {
		logging.Errorf("save session: %v", err)
	} else {
		logging.SessionSaved(id, result.Lesson, result.WPM, result.Accuracy)
	}
	m.lastWPM = summary.WPM
	m.lastAcc = summary.Accuracy
	m.hasLast = true
}
