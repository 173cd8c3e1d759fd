package engine

import (
	"fmt"
	"time"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhasePaused
	PhaseCompleted
	PhaseAborted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseCompleted:
		return "completed"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase is Completed or Aborted.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAborted
}

// Mode selects the matching policy for a session.
type Mode int

const (
	// ModeStrict records a mismatch and advances anyway.
	ModeStrict Mode = iota
	// ModeForgiving records a mismatch and holds the cursor until the
	// expected character is typed.
	ModeForgiving
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeForgiving {
		return "forgiving"
	}
	return "strict"
}

// ParseMode maps a mode name to a Mode. Unknown names default to strict.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "strict", "":
		return ModeStrict, nil
	case "forgiving":
		return ModeForgiving, nil
	default:
		return ModeStrict, fmt.Errorf("unknown mode %q (use strict or forgiving)", s)
	}
}

// Keystroke is one resolved input character with its monotonic timestamp.
// The engine is agnostic to key codes and modifiers; the input boundary
// delivers the final composed character.
type Keystroke struct {
	Value rune
	At    time.Time
}

// Outcome records one attempt at a target index. The outcome log is
// append-only and is the authoritative history of the session.
type Outcome struct {
	Index     int
	Expected  rune
	Typed     rune
	Correct   bool
	At        time.Time
	Corrected bool
	// SpanStart marks the first keystroke of an active typing span: the
	// session's first key, or the first key after a resume. No
	// inter-keystroke interval is measured across it.
	SpanStart bool
}

// ResultKind classifies the effect of a submitted keystroke.
type ResultKind int

const (
	// ResultIgnored means the keystroke had no effect on the session.
	ResultIgnored ResultKind = iota
	// ResultAdvance means the cursor moved past the current index.
	ResultAdvance
	// ResultRetry means the mismatch was logged and the same character is
	// re-presented (forgiving mode only).
	ResultRetry
)

// Result is the outcome of a Submit call.
type Result struct {
	Kind    ResultKind
	Outcome Outcome
}

// LessonInfo carries lesson metadata supplied at session start. The engine
// does not interpret it; it is passed through to the summary consumer.
type LessonInfo struct {
	Title         string
	Language      string
	Difficulty    string
	EstimatedTime time.Duration
}

// Session tracks one practice run over a Target. All methods are
// synchronous and bounded-time; callers serialize Submit against queries.
type Session struct {
	target Target
	info   LessonInfo
	mode   Mode
	rank   RankConfig

	phase    Phase
	cursor   int
	outcomes []Outcome

	startedAt   time.Time
	endedAt     time.Time
	pausedAt    time.Time
	pausedTotal time.Duration

	lastKeyAt time.Time
	retries   int

	keys *keyTracker
}

// New creates a session over target. The session is NotStarted until
// Start is called.
func New(target Target, info LessonInfo, rank RankConfig) *Session {
	return &Session{
		target: target,
		info:   info,
		rank:   rank,
		phase:  PhaseNotStarted,
		keys:   newKeyTracker(),
	}
}

// Start transitions NotStarted to Running with the given matching mode.
func (s *Session) Start(mode Mode, at time.Time) error {
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("start from %s: %w", s.phase, ErrInvalidState)
	}
	if s.target.Len() == 0 {
		return ErrEmptyText
	}
	s.mode = mode
	s.phase = PhaseRunning
	s.startedAt = at
	return nil
}

// Pause transitions Running to Paused.
func (s *Session) Pause(at time.Time) error {
	if s.phase != PhaseRunning {
		return fmt.Errorf("pause from %s: %w", s.phase, ErrInvalidState)
	}
	s.phase = PhasePaused
	s.pausedAt = at
	return nil
}

// Resume transitions Paused back to Running. Time spent paused is excluded
// from elapsed time, and the latency chain restarts so the paused span is
// not charged to the next key.
func (s *Session) Resume(at time.Time) error {
	if s.phase != PhasePaused {
		return fmt.Errorf("resume from %s: %w", s.phase, ErrInvalidState)
	}
	s.pausedTotal += at.Sub(s.pausedAt)
	s.pausedAt = time.Time{}
	s.lastKeyAt = time.Time{}
	s.phase = PhaseRunning
	return nil
}

// Abort terminates the session from Running or Paused.
func (s *Session) Abort(at time.Time) error {
	if s.phase != PhaseRunning && s.phase != PhasePaused {
		return fmt.Errorf("abort from %s: %w", s.phase, ErrInvalidState)
	}
	if s.phase == PhasePaused {
		s.pausedTotal += at.Sub(s.pausedAt)
		s.pausedAt = time.Time{}
	}
	s.phase = PhaseAborted
	s.endedAt = at
	return nil
}

// Submit matches one keystroke against the current expected character.
// Matching looks only at the current position; no lookahead, no
// backtracking. A rejected submit leaves the session unchanged.
func (s *Session) Submit(ks Keystroke) (Result, error) {
	if s.phase != PhaseRunning {
		return Result{Kind: ResultIgnored}, ErrSessionNotActive
	}

	expected := s.target.At(s.cursor)
	correct := matches(expected, ks.Value)

	var latency time.Duration
	hasLatency := !s.lastKeyAt.IsZero()
	if hasLatency {
		latency = ks.At.Sub(s.lastKeyAt)
	}
	s.lastKeyAt = ks.At

	out := Outcome{
		Index:     s.cursor,
		Expected:  expected.Value,
		Typed:     ks.Value,
		Correct:   correct,
		At:        ks.At,
		SpanStart: !hasLatency,
	}

	if s.mode == ModeForgiving && !correct {
		s.outcomes = append(s.outcomes, out)
		s.retries++
		s.keys.record(expected.Value, false, latency, hasLatency)
		return Result{Kind: ResultRetry, Outcome: out}, nil
	}

	out.Corrected = s.retries > 0
	s.outcomes = append(s.outcomes, out)
	s.retries = 0
	s.cursor++
	s.keys.record(expected.Value, correct, latency, hasLatency)

	if s.cursor == s.target.Len() {
		s.phase = PhaseCompleted
		s.endedAt = ks.At
	}
	return Result{Kind: ResultAdvance, Outcome: out}, nil
}

// matches decides correctness for one expected character. Whitespace
// targets accept any whitespace-equivalent value to tolerate composed
// input delivering enter for space.
func matches(expected ExpectedChar, typed rune) bool {
	if expected.Class == ClassWhitespace {
		return Classify(typed) == ClassWhitespace
	}
	return typed == expected.Value
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Mode returns the matching mode selected at Start.
func (s *Session) Mode() Mode {
	return s.mode
}

// Cursor returns the current target index in [0, Len].
func (s *Session) Cursor() int {
	return s.cursor
}

// Target returns the session's target text.
func (s *Session) Target() Target {
	return s.target
}

// Info returns the lesson metadata supplied at construction.
func (s *Session) Info() LessonInfo {
	return s.info
}

// Outcomes returns a copy of the outcome log.
func (s *Session) Outcomes() []Outcome {
	out := make([]Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// Elapsed returns active typing time up to now, excluding paused spans.
// For a terminal session the end timestamp is used instead of now.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	end := now
	if !s.endedAt.IsZero() {
		end = s.endedAt
	}
	elapsed := end.Sub(s.startedAt) - s.pausedTotal
	if s.phase == PhasePaused {
		elapsed -= now.Sub(s.pausedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Snapshot is the live view exposed to the rendering collaborator.
type Snapshot struct {
	Phase    Phase
	Cursor   int
	Length   int
	Recent   []Outcome
	Metrics  LiveMetrics
	Progress float64
}

// Snapshot derives the live view at the given time, including up to lastN
// most recent outcomes.
func (s *Session) Snapshot(now time.Time, lastN int) Snapshot {
	recent := s.outcomes
	if lastN >= 0 && len(recent) > lastN {
		recent = recent[len(recent)-lastN:]
	}
	cp := make([]Outcome, len(recent))
	copy(cp, recent)

	progress := 0.0
	if s.target.Len() > 0 {
		progress = float64(s.cursor) / float64(s.target.Len())
	}
	return Snapshot{
		Phase:    s.phase,
		Cursor:   s.cursor,
		Length:   s.target.Len(),
		Recent:   cp,
		Metrics:  computeMetrics(s.outcomes, s.cursor, s.Elapsed(now)),
		Progress: progress,
	}
}

// Metrics derives live metrics from the outcome log at the given time.
func (s *Session) Metrics(now time.Time) LiveMetrics {
	return computeMetrics(s.outcomes, s.cursor, s.Elapsed(now))
}

// KeyStats returns the per-key statistics accumulated so far, sorted by key.
func (s *Session) KeyStats() []KeyStat {
	return s.keys.all()
}

// WeakKeys ranks keys by weakness under the session's rank configuration.
func (s *Session) WeakKeys() []KeyStat {
	return s.keys.rank(s.rank)
}

// Summary finalizes metrics for a terminal session.
func (s *Session) Summary() (Summary, error) {
	if !s.phase.Terminal() {
		return Summary{}, fmt.Errorf("summary in %s: %w", s.phase, ErrInvalidState)
	}
	m := computeMetrics(s.outcomes, s.cursor, s.Elapsed(s.endedAt))
	return Summary{
		WPM:          m.WPM,
		Accuracy:     m.Accuracy,
		RawErrorRate: m.RawErrorRate,
		Consistency:  m.Consistency,
		Duration:     m.Elapsed,
		WeakKeys:     s.keys.rank(s.rank),
	}, nil
}
