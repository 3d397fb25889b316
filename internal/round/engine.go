// Package round runs a single timed play-through of one game: question
// sequencing, answer evaluation, scoring, the per-question countdown and
// hint visibility.
//
// The engine is a small state machine:
//
//	InProgress --Submit/timeout--> Feedback --Advance--> InProgress | Finished
//
// Abandon moves any phase to Abandoned. Every transition is serialized by
// one mutex and every disarm bumps the timer generation, so a countdown tick
// that arrives late is dropped instead of submitting twice.
package round

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/events"
	"github.com/vovakirdan/photo-quiz/internal/progress"
	"github.com/vovakirdan/photo-quiz/internal/settings"
)

// QuestionSeconds is the time budget for each question.
const QuestionSeconds = 15

// Phase is the engine state.
type Phase int

const (
	InProgress Phase = iota
	Feedback
	Finished
	Abandoned
)

func (p Phase) String() string {
	switch p {
	case InProgress:
		return "in_progress"
	case Feedback:
		return "feedback"
	case Finished:
		return "finished"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Config is the per-session snapshot of the user settings.
type Config struct {
	Difficulty   catalog.Difficulty
	SoundEnabled bool
	HintsEnabled bool
	TimerEnabled bool
}

// ConfigFromSettings takes the round-relevant fields from s.
func ConfigFromSettings(s settings.Settings) Config {
	return Config{
		Difficulty:   s.Difficulty,
		SoundEnabled: s.SoundEnabled,
		HintsEnabled: s.HintsEnabled,
		TimerEnabled: s.TimerEnabled,
	}
}

// Reporter receives the result of a finished round.
type Reporter interface {
	RecordSessionResult(gameID string, score, questionCount int) (progress.Outcome, error)
}

// Notifier plays the wrong-answer cue. Calls are fire-and-forget.
type Notifier interface {
	PlayIncorrect()
}

// NopNotifier ignores every call.
type NopNotifier struct{}

func (NopNotifier) PlayIncorrect() {}

// Snapshot is a copy of the engine state for rendering.
type Snapshot struct {
	GameID     string
	GameName   string
	Difficulty catalog.Difficulty
	Phase      Phase
	Empty      bool // The selected tier has no questions

	QuestionIndex int
	QuestionCount int
	Question      catalog.Question // Zero once Finished

	Score    int
	Selected int  // -1 when nothing was chosen
	Correct  bool // Valid in Feedback
	Feedback string

	TimerEnabled bool
	Remaining    int

	HintsEnabled bool
	HintVisible  bool

	// Set once Finished and reported.
	Outcome   progress.Outcome
	Reported  bool
	ReportErr error
}

// Event carries the engine state after a change.
type Event struct {
	Snapshot Snapshot
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the wrong-answer notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithRealtime drives the countdown from a wall-clock ticker instead of
// explicit Tick calls.
func WithRealtime(interval time.Duration) Option {
	return func(e *Engine) {
		e.realtime = interval
	}
}

// WithLogger sets the logger used for report failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine drives one play-through of a game.
type Engine struct {
	mu sync.Mutex

	game      catalog.Game
	questions []catalog.Question
	cfg       Config

	reporter Reporter
	notifier Notifier
	logger   *log.Logger
	broker   *events.Broker[Event]

	realtime  time.Duration
	countdown *Countdown
	gen       uint64 // Bumped on every arm and disarm
	armed     bool

	phase     Phase
	index     int
	score     int
	selected  int
	correct   bool
	feedback  string
	remaining int

	hintsEnabled bool // Per-session override, seeded from Config
	hintShown    bool

	outcome   progress.Outcome
	reported  bool
	reportErr error
}

// New starts a round of game using the tier chosen by cfg.Difficulty.
// An empty tier yields an engine that is already Finished and reports
// nothing.
func New(game catalog.Game, cfg Config, reporter Reporter, opts ...Option) (*Engine, error) {
	questions := game.Questions(cfg.Difficulty)
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("round: game %q %s question %d: %w", game.ID, cfg.Difficulty, i, err)
		}
	}

	e := &Engine{
		game:         game,
		questions:    questions,
		cfg:          cfg,
		reporter:     reporter,
		notifier:     NopNotifier{},
		logger:       log.New(io.Discard),
		broker:       events.NewBroker[Event](),
		selected:     -1,
		hintsEnabled: cfg.HintsEnabled,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.realtime > 0 && cfg.TimerEnabled {
		e.countdown = NewCountdown(e.realtime, e.tickFrom)
	}

	if len(questions) == 0 {
		e.phase = Finished
		return e, nil
	}

	e.phase = InProgress
	e.armLocked()
	return e, nil
}

// Game returns the game being played.
func (e *Engine) Game() catalog.Game {
	return e.game
}

// Config returns the settings the round started with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Submit answers the current question. A nil selection counts as wrong.
func (e *Engine) Submit(selected *int) error {
	e.mu.Lock()
	if err := e.submitLocked(selected); err != nil {
		e.mu.Unlock()
		return err
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(snap)
	return nil
}

// SubmitIndex answers the current question with option i.
func (e *Engine) SubmitIndex(i int) error {
	return e.Submit(&i)
}

// Timeout answers the current question with no selection.
func (e *Engine) Timeout() error {
	return e.Submit(nil)
}

// Advance leaves Feedback for the next question, or finishes the round and
// reports the result after the last one.
func (e *Engine) Advance() error {
	e.mu.Lock()
	if e.phase != Feedback {
		phase := e.phase
		e.mu.Unlock()
		return fmt.Errorf("round: cannot advance in phase %s: %w", phase, core.ErrInvalidState)
	}

	e.index++
	e.selected = -1
	e.correct = false
	e.feedback = ""
	e.hintShown = false

	if e.index < len(e.questions) {
		e.phase = InProgress
		e.armLocked()
	} else {
		e.phase = Finished
		e.reportLocked()
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(snap)
	return nil
}

// Tick counts down one second of the current question. At zero the
// question times out. Ticks outside InProgress or with the timer off are
// ignored.
func (e *Engine) Tick() error {
	e.mu.Lock()
	if !e.tickLocked() {
		e.mu.Unlock()
		return nil
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(snap)
	return nil
}

// tickFrom is the countdown callback.
func (e *Engine) tickFrom(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || !e.tickLocked() {
		e.mu.Unlock()
		return
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(snap)
}

// Abandon ends the round without reporting. Later transitions fail and late
// ticks are dropped.
func (e *Engine) Abandon() {
	e.mu.Lock()
	if e.phase == Abandoned {
		e.mu.Unlock()
		return
	}
	e.disarmLocked()
	e.phase = Abandoned
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(snap)
	e.broker.Close()
}

// ToggleHints flips the per-session hint setting.
func (e *Engine) ToggleHints() {
	e.mu.Lock()
	e.hintsEnabled = !e.hintsEnabled
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(snap)
}

// ShowHint reveals the current question's hint.
func (e *Engine) ShowHint() error {
	e.mu.Lock()
	if e.phase != InProgress && e.phase != Feedback {
		phase := e.phase
		e.mu.Unlock()
		return fmt.Errorf("round: no question to hint in phase %s: %w", phase, core.ErrInvalidState)
	}
	e.hintShown = true
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.publish(snap)
	return nil
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers for state change events.
func (e *Engine) Subscribe(buffer int) *events.Subscription[Event] {
	return e.broker.Subscribe(buffer)
}

func (e *Engine) submitLocked(selected *int) error {
	if e.phase != InProgress {
		return fmt.Errorf("round: cannot submit in phase %s: %w", e.phase, core.ErrInvalidState)
	}
	q := e.questions[e.index]
	if selected != nil && (*selected < 0 || *selected >= len(q.Options)) {
		return fmt.Errorf("round: option %d out of range [0,%d): %w", *selected, len(q.Options), core.ErrInvalidState)
	}

	e.disarmLocked()

	e.selected = -1
	if selected != nil {
		e.selected = *selected
	}
	e.correct = e.selected == q.CorrectIndex
	if e.correct {
		e.score++
		e.feedback = "Correct!"
	} else {
		e.feedback = fmt.Sprintf("Wrong. The correct answer was %s.", q.Correct().Name)
		if e.cfg.SoundEnabled {
			go e.notifier.PlayIncorrect()
		}
	}
	e.phase = Feedback
	return nil
}

// tickLocked reports whether the state changed.
func (e *Engine) tickLocked() bool {
	if e.phase != InProgress || !e.armed {
		return false
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		// Cannot fail: phase is InProgress and selection is nil.
		_ = e.submitLocked(nil)
	}
	return true
}

func (e *Engine) armLocked() {
	e.gen++
	if !e.cfg.TimerEnabled {
		e.armed = false
		return
	}
	e.armed = true
	e.remaining = QuestionSeconds
	if e.countdown != nil {
		e.countdown.Start(e.gen)
	}
}

func (e *Engine) disarmLocked() {
	e.gen++
	e.armed = false
	if e.countdown != nil {
		e.countdown.Stop()
	}
}

func (e *Engine) reportLocked() {
	if e.reported || e.reporter == nil {
		return
	}
	e.reported = true
	e.outcome, e.reportErr = e.reporter.RecordSessionResult(e.game.ID, e.score, len(e.questions))
	if e.reportErr != nil {
		e.logger.Warn("could not record session result",
			"game", e.game.ID, "score", e.score, "error", e.reportErr)
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		GameID:        e.game.ID,
		GameName:      e.game.Name,
		Difficulty:    e.cfg.Difficulty,
		Phase:         e.phase,
		Empty:         len(e.questions) == 0,
		QuestionIndex: e.index,
		QuestionCount: len(e.questions),
		Score:         e.score,
		Selected:      e.selected,
		Correct:       e.correct,
		Feedback:      e.feedback,
		TimerEnabled:  e.cfg.TimerEnabled,
		Remaining:     e.remaining,
		HintsEnabled:  e.hintsEnabled,
		HintVisible:   e.hintShown && e.hintsEnabled,
		Outcome:       e.outcome,
		Reported:      e.reported,
		ReportErr:     e.reportErr,
	}
	if e.index < len(e.questions) && (e.phase == InProgress || e.phase == Feedback) {
		s.Question = e.questions[e.index]
	}
	return s
}

func (e *Engine) publish(s Snapshot) {
	e.broker.Publish(Event{Snapshot: s})
}
