// Package progress owns per-game progress, high scores and unlock flags.
//
// Store is the only writer of Records. Round results and lock-mode changes go
// through it; it re-applies the unlock policy, persists changed records and
// notifies subscribers.
package progress

// PointsPerCorrect is the progress awarded for each correct answer.
const PointsPerCorrect = 5

// MaxProgress is the progress ceiling.
const MaxProgress = 100

// Record is the progress state of one game.
type Record struct {
	GameID    string
	HighScore int
	Progress  int // 0..MaxProgress
	Unlocked  bool
}

// Outcome describes the effect of one recorded session.
type Outcome struct {
	Record            Record
	Score             int
	QuestionCount     int
	PreviousHighScore int
	NewHighScore      bool
	ProgressGained    int
	// Unlocked lists games that became unlocked because of this session.
	Unlocked []string
}

// EventKind identifies what changed in the store.
type EventKind int

const (
	// RecordUpdated is published for each record whose fields changed.
	RecordUpdated EventKind = iota
	// LockModeChanged is published after SetLockMode.
	LockModeChanged
)

func (k EventKind) String() string {
	switch k {
	case RecordUpdated:
		return "record_updated"
	case LockModeChanged:
		return "lock_mode_changed"
	default:
		return "unknown"
	}
}

// Event is a change notification.
type Event struct {
	Kind        EventKind
	Record      Record // Set for RecordUpdated
	LockEnabled bool
}

// Persister is the durable storage behind the store.
type Persister interface {
	// LoadRecords returns previously saved records; unknown game IDs are ignored.
	LoadRecords() ([]Record, error)
	// SaveRecords writes the given records atomically.
	SaveRecords(records []Record) error
}
