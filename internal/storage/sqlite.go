// Package storage provides SQLite-based persistence for quiz progress,
// session history and settings.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/progress"
	"github.com/vovakirdan/photo-quiz/internal/settings"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Store is the durable backend for the progress store and settings.
var (
	_ progress.Persister = (*Store)(nil)
	_ settings.KV        = (*Store)(nil)
)

// SessionEntry is one finished round.
type SessionEntry struct {
	ID            string // UUID
	GameID        string
	Difficulty    string
	Score         int
	QuestionCount int
	CreatedAt     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	dbPath, err := core.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS progress (
			game_id TEXT PRIMARY KEY,
			high_score INTEGER NOT NULL DEFAULT 0,
			progress INTEGER NOT NULL DEFAULT 0,
			unlocked INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS sessions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			score INTEGER NOT NULL,
			question_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_game_id ON sessions(game_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_top ON sessions(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadRecords returns every stored progress record.
func (s *Store) LoadRecords() ([]progress.Record, error) {
	rows, err := s.db.Query(
		`SELECT game_id, high_score, progress, unlocked FROM progress ORDER BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	var records []progress.Record
	for rows.Next() {
		var r progress.Record
		if err := rows.Scan(&r.GameID, &r.HighScore, &r.Progress, &r.Unlocked); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SaveRecords upserts the given records in one transaction.
func (s *Store) SaveRecords(records []progress.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO progress (game_id, high_score, progress, unlocked, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(game_id) DO UPDATE SET
		   high_score = excluded.high_score,
		   progress = excluded.progress,
		   unlocked = excluded.unlocked,
		   updated_at = excluded.updated_at`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare progress upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.GameID, r.HighScore, r.Progress, r.Unlocked); err != nil {
			return fmt.Errorf("storage: cannot save progress for %s: %w", r.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit progress: %w", err)
	}
	return nil
}

// ClearProgress deletes every progress record.
func (s *Store) ClearProgress() error {
	if _, err := s.db.Exec("DELETE FROM progress"); err != nil {
		return fmt.Errorf("storage: cannot clear progress: %w", err)
	}
	return nil
}

// SaveSession records a finished round and returns its ID.
// A new UUID is assigned when entry.ID is empty.
func (s *Store) SaveSession(entry SessionEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, game_id, difficulty, score, question_count)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.GameID, entry.Difficulty, entry.Score, entry.QuestionCount,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}

	return entry.ID, nil
}

// RecentSessions returns the latest sessions, newest first.
// An empty gameID returns sessions for every game.
func (s *Store) RecentSessions(gameID string, limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, difficulty, score, question_count, created_at
		 FROM sessions
		 WHERE ? = '' OR game_id = ?
		 ORDER BY seq DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

// TopSessions returns the best sessions for a game.
// Results are ordered by score descending, earlier sessions first on ties.
func (s *Store) TopSessions(gameID string, limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, difficulty, score, question_count, created_at
		 FROM sessions
		 WHERE game_id = ?
		 ORDER BY score DESC, seq ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]SessionEntry, error) {
	defer rows.Close()

	var entries []SessionEntry
	for rows.Next() {
		var e SessionEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Difficulty, &e.Score, &e.QuestionCount, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best session score for the given game.
// Returns 0 if no sessions exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM sessions WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearSessions deletes all sessions for the given game.
func (s *Store) ClearSessions(gameID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// GetSetting returns a stored setting value. ok is false if the key is unset.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot query setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores a setting value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// GameStats contains aggregated session statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM sessions WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM sessions
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.GameID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and the SQLite text forms.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
