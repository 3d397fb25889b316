package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/events"
	"github.com/vovakirdan/photo-quiz/internal/unlock"
)

// Store holds one Record per catalog game.
// All mutations are serialized by a single mutex.
type Store struct {
	mu          sync.Mutex
	order       []string // game IDs in catalog order
	records     map[string]*Record
	lockEnabled bool

	persister Persister // Optional, can be nil
	logger    *log.Logger
	broker    *events.Broker[Event]
}

// Option configures a Store.
type Option func(*Store)

// WithPersister sets the durable storage used to load and save records.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore seeds a record for every game, overlays persisted records and
// applies the unlock policy for the given lock mode.
func NewStore(games []catalog.Game, lockEnabled bool, opts ...Option) (*Store, error) {
	s := &Store{
		order:       make([]string, 0, len(games)),
		records:     make(map[string]*Record, len(games)),
		lockEnabled: lockEnabled,
		logger:      log.New(io.Discard),
		broker:      events.NewBroker[Event](),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, g := range games {
		if _, dup := s.records[g.ID]; dup {
			return nil, fmt.Errorf("progress: duplicate game %q: %w", g.ID, core.ErrConfiguration)
		}
		s.order = append(s.order, g.ID)
		s.records[g.ID] = &Record{
			GameID:   g.ID,
			Progress: core.Clamp(g.Progress, 0, MaxProgress),
			Unlocked: g.Unlocked,
		}
	}

	if s.persister != nil {
		saved, err := s.persister.LoadRecords()
		if err != nil {
			return nil, fmt.Errorf("progress: cannot load records: %w", err)
		}
		for _, r := range saved {
			rec, ok := s.records[r.GameID]
			if !ok {
				s.logger.Debug("ignoring record for unknown game", "game", r.GameID)
				continue
			}
			rec.HighScore = max(r.HighScore, 0)
			rec.Progress = core.Clamp(r.Progress, 0, MaxProgress)
			rec.Unlocked = rec.Unlocked || r.Unlocked
		}
	}

	s.reevaluateLocked()
	return s, nil
}

// Get returns the record for a game.
func (s *Store) Get(gameID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[gameID]
	if !ok {
		return Record{}, fmt.Errorf("progress: unknown game %q: %w", gameID, core.ErrNotFound)
	}
	return *rec, nil
}

// All returns every record in catalog order.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.order))
	for i, id := range s.order {
		out[i] = *s.records[id]
	}
	return out
}

// LockEnabled reports whether unlock gating is enforced.
func (s *Store) LockEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockEnabled
}

// Playable reports whether a game may be started under the current lock mode.
func (s *Store) Playable(gameID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[gameID]
	if !ok {
		return false, fmt.Errorf("progress: unknown game %q: %w", gameID, core.ErrNotFound)
	}
	return unlock.Playable(s.lockEnabled, rec.Unlocked), nil
}

// RecordSessionResult applies a finished round to a game's record:
// the high score becomes max(high, score) and progress grows by
// score*PointsPerCorrect, clamped to MaxProgress. With lock mode on, the
// unlock policy is re-applied. Changed records are persisted and published.
//
// A persistence failure is returned alongside a valid Outcome; the
// in-memory state is already updated.
func (s *Store) RecordSessionResult(gameID string, score, questionCount int) (Outcome, error) {
	if score < 0 {
		return Outcome{}, fmt.Errorf("progress: negative score %d: %w", score, core.ErrConfiguration)
	}

	s.mu.Lock()
	rec, ok := s.records[gameID]
	if !ok {
		s.mu.Unlock()
		return Outcome{}, fmt.Errorf("progress: unknown game %q: %w", gameID, core.ErrNotFound)
	}

	before := s.snapshotLocked()

	out := Outcome{
		Score:             score,
		QuestionCount:     questionCount,
		PreviousHighScore: rec.HighScore,
		NewHighScore:      score > rec.HighScore,
	}

	rec.HighScore = max(rec.HighScore, score)
	newProgress := core.Clamp(rec.Progress+score*PointsPerCorrect, 0, MaxProgress)
	out.ProgressGained = newProgress - rec.Progress
	rec.Progress = newProgress

	if s.lockEnabled {
		s.reevaluateLocked()
	}

	changed := s.changedLocked(before)
	for _, r := range changed {
		if r.GameID != gameID && r.Unlocked && !before[r.GameID].Unlocked {
			out.Unlocked = append(out.Unlocked, r.GameID)
		}
	}
	out.Record = *rec
	lockEnabled := s.lockEnabled
	err := s.persistLocked(changed)
	s.mu.Unlock()

	for _, r := range changed {
		s.broker.Publish(Event{Kind: RecordUpdated, Record: r, LockEnabled: lockEnabled})
	}
	return out, err
}

// SetLockMode switches unlock gating on or off.
// Disabling unlocks every game; enabling keeps existing unlocks and grants
// those earned by progress. Calling it again with the same value is a no-op
// apart from the notification.
func (s *Store) SetLockMode(enabled bool) error {
	s.mu.Lock()
	before := s.snapshotLocked()
	s.lockEnabled = enabled
	s.reevaluateLocked()
	changed := s.changedLocked(before)
	err := s.persistLocked(changed)
	s.mu.Unlock()

	for _, r := range changed {
		s.broker.Publish(Event{Kind: RecordUpdated, Record: r, LockEnabled: enabled})
	}
	s.broker.Publish(Event{Kind: LockModeChanged, LockEnabled: enabled})
	return err
}

// Subscribe registers for change notifications.
func (s *Store) Subscribe(buffer int) *events.Subscription[Event] {
	return s.broker.Subscribe(buffer)
}

// Close ends every subscription.
func (s *Store) Close() {
	s.broker.Close()
}

// reevaluateLocked applies the unlock policy. Caller holds s.mu.
func (s *Store) reevaluateLocked() {
	progress := make([]int, len(s.order))
	current := make([]bool, len(s.order))
	for i, id := range s.order {
		progress[i] = s.records[id].Progress
		current[i] = s.records[id].Unlocked
	}

	flags := unlock.Reevaluate(progress, current, s.lockEnabled)
	for i, id := range s.order {
		s.records[id].Unlocked = flags[i]
	}
}

func (s *Store) snapshotLocked() map[string]Record {
	snap := make(map[string]Record, len(s.records))
	for id, r := range s.records {
		snap[id] = *r
	}
	return snap
}

// changedLocked returns records that differ from before, in catalog order.
func (s *Store) changedLocked(before map[string]Record) []Record {
	var changed []Record
	for _, id := range s.order {
		if cur := *s.records[id]; cur != before[id] {
			changed = append(changed, cur)
		}
	}
	return changed
}

func (s *Store) persistLocked(records []Record) error {
	if s.persister == nil || len(records) == 0 {
		return nil
	}
	if err := s.persister.SaveRecords(records); err != nil {
		s.logger.Warn("could not persist progress", "records", len(records), "error", err)
		return fmt.Errorf("progress: cannot save records: %w", err)
	}
	return nil
}
