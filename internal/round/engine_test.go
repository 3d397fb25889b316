package round

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/progress"
)

type call struct {
	gameID       string
	score, count int
}

type fakeReporter struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (r *fakeReporter) RecordSessionResult(gameID string, score, count int) (progress.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{gameID, score, count})
	return progress.Outcome{
		Record: progress.Record{GameID: gameID, HighScore: score, Progress: score * progress.PointsPerCorrect},
		Score:  score,
	}, r.err
}

func (r *fakeReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type chanNotifier chan struct{}

func (c chanNotifier) PlayIncorrect() { c <- struct{}{} }

func question(text string, correct int) catalog.Question {
	return catalog.Question{
		Text: text,
		Options: []catalog.AnswerOption{
			{Name: "Dog", Image: "dog"},
			{Name: "Cat", Image: "cat"},
			{Name: "Bird", Image: "bird"},
		},
		CorrectIndex: correct,
		Hint:         "It barks",
	}
}

func testGame() catalog.Game {
	return catalog.Game{
		ID:     "animals",
		Name:   "Animals",
		Easy:   []catalog.Question{question("e1", 0)},
		Medium: []catalog.Question{question("m1", 0), question("m2", 1)},
		Hard:   []catalog.Question{question("h1", 2), question("h2", 2), question("h3", 1)},
	}
}

func config() Config {
	return Config{Difficulty: catalog.Medium, SoundEnabled: true, HintsEnabled: true, TimerEnabled: true}
}

func mustEngine(t *testing.T, g catalog.Game, cfg Config, r Reporter, opts ...Option) *Engine {
	t.Helper()
	e, err := New(g, cfg, r, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

func TestNewStartsInProgress(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})
	s := e.Snapshot()
	if s.Phase != InProgress {
		t.Errorf("Expected InProgress, got %s", s.Phase)
	}
	if s.QuestionIndex != 0 || s.Score != 0 || s.Selected != -1 {
		t.Errorf("Unexpected initial snapshot: %+v", s)
	}
	if s.Remaining != QuestionSeconds {
		t.Errorf("Expected %d seconds, got %d", QuestionSeconds, s.Remaining)
	}
	if s.Question.Text != "m1" {
		t.Errorf("Expected first medium question, got %q", s.Question.Text)
	}
}

func TestDifficultySelectsTier(t *testing.T) {
	tests := []struct {
		difficulty catalog.Difficulty
		want       int
	}{
		{catalog.Easy, 1},
		{catalog.Medium, 2},
		{catalog.Hard, 3},
		{"", 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			cfg := config()
			cfg.Difficulty = tt.difficulty
			e := mustEngine(t, testGame(), cfg, &fakeReporter{})
			if n := e.Snapshot().QuestionCount; n != tt.want {
				t.Errorf("Expected %d questions, got %d", tt.want, n)
			}
		})
	}
}

func TestEmptyTierFinishesImmediately(t *testing.T) {
	g := testGame()
	g.Hard = nil
	cfg := config()
	cfg.Difficulty = catalog.Hard
	r := &fakeReporter{}

	e := mustEngine(t, g, cfg, r)
	s := e.Snapshot()
	if s.Phase != Finished || !s.Empty {
		t.Errorf("Expected Finished and Empty, got %+v", s)
	}
	if err := e.SubmitIndex(0); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("Submit on empty round = %v, want ErrInvalidState", err)
	}
	if err := e.Tick(); err != nil {
		t.Errorf("Tick() failed: %v", err)
	}
	if r.count() != 0 {
		t.Errorf("Empty round must not report, got %d calls", r.count())
	}
}

func TestNewRejectsMalformedQuestion(t *testing.T) {
	g := testGame()
	g.Medium = []catalog.Question{{Text: "bad", Options: []catalog.AnswerOption{{Name: "x"}, {Name: "y"}}, CorrectIndex: 5}}
	if _, err := New(g, config(), &fakeReporter{}); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("New() = %v, want ErrConfiguration", err)
	}
}

func TestCorrectAnswer(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})

	if err := e.SubmitIndex(0); err != nil {
		t.Fatalf("SubmitIndex() failed: %v", err)
	}
	s := e.Snapshot()
	if s.Phase != Feedback || !s.Correct || s.Score != 1 {
		t.Errorf("Unexpected snapshot after correct answer: %+v", s)
	}
	if s.Feedback != "Correct!" {
		t.Errorf("Expected Correct!, got %q", s.Feedback)
	}
}

func TestWrongAnswerFeedbackAndSound(t *testing.T) {
	n := make(chanNotifier, 1)
	e := mustEngine(t, testGame(), config(), &fakeReporter{}, WithNotifier(n))

	if err := e.SubmitIndex(2); err != nil {
		t.Fatalf("SubmitIndex() failed: %v", err)
	}
	s := e.Snapshot()
	if s.Correct || s.Score != 0 || s.Selected != 2 {
		t.Errorf("Unexpected snapshot after wrong answer: %+v", s)
	}
	if want := "Wrong. The correct answer was Dog."; s.Feedback != want {
		t.Errorf("Expected %q, got %q", want, s.Feedback)
	}

	select {
	case <-n:
	case <-time.After(time.Second):
		t.Error("Expected incorrect sound to play")
	}
}

func TestSoundDisabled(t *testing.T) {
	n := make(chanNotifier, 1)
	cfg := config()
	cfg.SoundEnabled = false
	e := mustEngine(t, testGame(), cfg, &fakeReporter{}, WithNotifier(n))

	e.SubmitIndex(1)
	select {
	case <-n:
		t.Error("Sound played with sound disabled")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDoubleSubmitIsInvalid(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})

	if err := e.SubmitIndex(0); err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	if err := e.SubmitIndex(0); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("Second submit = %v, want ErrInvalidState", err)
	}
	if s := e.Snapshot(); s.Score != 1 {
		t.Errorf("Expected score 1, got %d", s.Score)
	}
}

func TestSubmitOutOfRange(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})
	for _, i := range []int{-1, 3} {
		if err := e.SubmitIndex(i); !errors.Is(err, core.ErrInvalidState) {
			t.Errorf("SubmitIndex(%d) = %v, want ErrInvalidState", i, err)
		}
	}
	if s := e.Snapshot(); s.Phase != InProgress {
		t.Errorf("Rejected submit changed phase to %s", s.Phase)
	}
}

func TestAdvanceOnlyFromFeedback(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})
	if err := e.Advance(); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("Advance in InProgress = %v, want ErrInvalidState", err)
	}
}

func TestFullRoundReportsOnce(t *testing.T) {
	r := &fakeReporter{}
	e := mustEngine(t, testGame(), config(), r)

	e.SubmitIndex(0) // correct
	if err := e.Advance(); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}
	s := e.Snapshot()
	if s.Phase != InProgress || s.QuestionIndex != 1 || s.Selected != -1 || s.Remaining != QuestionSeconds {
		t.Errorf("Unexpected snapshot for second question: %+v", s)
	}

	e.SubmitIndex(0) // wrong
	if err := e.Advance(); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}

	s = e.Snapshot()
	if s.Phase != Finished || !s.Reported {
		t.Fatalf("Expected reported Finished, got %+v", s)
	}
	if r.count() != 1 {
		t.Fatalf("Expected 1 report, got %d", r.count())
	}
	if got := r.calls[0]; got != (call{"animals", 1, 2}) {
		t.Errorf("Unexpected report %+v", got)
	}
	if s.Outcome.Record.Progress != 5 {
		t.Errorf("Expected outcome progress 5, got %d", s.Outcome.Record.Progress)
	}

	if err := e.Advance(); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("Advance after finish = %v, want ErrInvalidState", err)
	}
	e.Abandon()
	if r.count() != 1 {
		t.Errorf("Abandon after finish reported again")
	}
}

func TestReportErrorKept(t *testing.T) {
	r := &fakeReporter{err: errors.New("disk full")}
	g := testGame()
	cfg := config()
	cfg.Difficulty = catalog.Easy
	e := mustEngine(t, g, cfg, r)

	e.SubmitIndex(0)
	if err := e.Advance(); err != nil {
		t.Fatalf("Advance() failed: %v", err)
	}
	s := e.Snapshot()
	if s.Phase != Finished || s.ReportErr == nil {
		t.Errorf("Expected Finished with report error, got %+v", s)
	}
}

func TestTimeoutAfterQuestionSeconds(t *testing.T) {
	n := make(chanNotifier, 1)
	e := mustEngine(t, testGame(), config(), &fakeReporter{}, WithNotifier(n))

	for i := 0; i < QuestionSeconds-1; i++ {
		e.Tick()
	}
	s := e.Snapshot()
	if s.Phase != InProgress || s.Remaining != 1 {
		t.Fatalf("Expected 1 second left in progress, got %+v", s)
	}

	e.Tick()
	s = e.Snapshot()
	if s.Phase != Feedback || s.Correct || s.Selected != -1 {
		t.Errorf("Expected incorrect timeout feedback, got %+v", s)
	}
	select {
	case <-n:
	case <-time.After(time.Second):
		t.Error("Expected incorrect sound on timeout")
	}

	// Extra ticks in Feedback are ignored.
	e.Tick()
	if s2 := e.Snapshot(); s2.Phase != Feedback || s2.Remaining != 0 {
		t.Errorf("Tick in Feedback changed state: %+v", s2)
	}
}

func TestTimerDisabledIgnoresTicks(t *testing.T) {
	cfg := config()
	cfg.TimerEnabled = false
	e := mustEngine(t, testGame(), cfg, &fakeReporter{})

	for i := 0; i < QuestionSeconds*2; i++ {
		e.Tick()
	}
	if s := e.Snapshot(); s.Phase != InProgress {
		t.Errorf("Expected InProgress with timer off, got %s", s.Phase)
	}
}

func TestAbandon(t *testing.T) {
	r := &fakeReporter{}
	e := mustEngine(t, testGame(), config(), r)

	e.SubmitIndex(0)
	e.Abandon()
	e.Abandon()

	if s := e.Snapshot(); s.Phase != Abandoned {
		t.Errorf("Expected Abandoned, got %s", s.Phase)
	}
	if err := e.Advance(); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("Advance after abandon = %v, want ErrInvalidState", err)
	}
	if err := e.SubmitIndex(0); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("Submit after abandon = %v, want ErrInvalidState", err)
	}
	if err := e.Tick(); err != nil {
		t.Errorf("Late tick failed: %v", err)
	}
	if r.count() != 0 {
		t.Errorf("Abandoned round reported %d times", r.count())
	}
}

func TestStaleGenerationTickDropped(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})
	stale := e.gen

	e.SubmitIndex(0)
	e.Advance() // second question, new generation

	e.tickFrom(stale)
	if s := e.Snapshot(); s.Remaining != QuestionSeconds {
		t.Errorf("Stale tick changed remaining to %d", s.Remaining)
	}

	e.tickFrom(e.gen)
	if s := e.Snapshot(); s.Remaining != QuestionSeconds-1 {
		t.Errorf("Current tick not applied, remaining %d", s.Remaining)
	}
}

func TestHints(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})

	if e.Snapshot().HintVisible {
		t.Fatal("Hint visible before ShowHint")
	}
	if err := e.ShowHint(); err != nil {
		t.Fatalf("ShowHint() failed: %v", err)
	}
	if !e.Snapshot().HintVisible {
		t.Error("Expected hint visible")
	}

	e.ToggleHints()
	s := e.Snapshot()
	if s.HintsEnabled || s.HintVisible {
		t.Errorf("Expected hints off, got %+v", s)
	}
	e.ToggleHints()

	if s := e.Snapshot(); s.Remaining != QuestionSeconds || s.Score != 0 {
		t.Errorf("Hints changed timing or scoring: %+v", s)
	}

	e.SubmitIndex(0)
	e.Advance()
	if e.Snapshot().HintVisible {
		t.Error("Hint visibility should reset on the next question")
	}
}

func TestHintsInitialisedFromConfig(t *testing.T) {
	cfg := config()
	cfg.HintsEnabled = false
	e := mustEngine(t, testGame(), cfg, &fakeReporter{})
	e.ShowHint()
	if e.Snapshot().HintVisible {
		t.Error("Hint visible with session hints off")
	}
}

func TestSubscribePublishesSnapshots(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{})
	sub := e.Subscribe(8)

	e.Tick()
	e.SubmitIndex(0)

	first := <-sub.Events()
	if first.Snapshot.Remaining != QuestionSeconds-1 {
		t.Errorf("Expected tick event, got %+v", first.Snapshot)
	}
	second := <-sub.Events()
	if second.Snapshot.Phase != Feedback {
		t.Errorf("Expected feedback event, got %s", second.Snapshot.Phase)
	}

	e.Abandon()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Error("Subscription not closed after abandon")
	}
}

func TestRealtimeCountdown(t *testing.T) {
	cfg := config()
	cfg.Difficulty = catalog.Easy
	e := mustEngine(t, testGame(), cfg, &fakeReporter{}, WithRealtime(time.Millisecond))
	defer e.Abandon()

	deadline := time.After(2 * time.Second)
	for {
		if e.Snapshot().Phase == Feedback {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Countdown did not time out: %+v", e.Snapshot())
		case <-time.After(5 * time.Millisecond):
		}
	}

	s := e.Snapshot()
	if s.Correct || s.Remaining != 0 {
		t.Errorf("Expected timed-out answer, got %+v", s)
	}
	time.Sleep(20 * time.Millisecond)
	if s2 := e.Snapshot(); s2.Phase != Feedback {
		t.Errorf("Late tick after timeout changed phase to %s", s2.Phase)
	}
}

func TestRealtimeAbandonStopsTicks(t *testing.T) {
	e := mustEngine(t, testGame(), config(), &fakeReporter{}, WithRealtime(time.Millisecond))
	e.Abandon()
	before := e.Snapshot().Remaining
	time.Sleep(20 * time.Millisecond)
	if after := e.Snapshot(); after.Remaining != before || after.Phase != Abandoned {
		t.Errorf("Ticks delivered after abandon: %+v", after)
	}
}
