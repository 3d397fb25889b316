// Package catalog defines the quiz games, their question tiers and the
// ordered, read-only collection the rest of the application plays from.
package catalog

import (
	"fmt"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

// MinOptions is the smallest number of answer options a question may have.
const MinOptions = 2

// AnswerOption is one selectable picture.
type AnswerOption struct {
	Name  string
	Image string // Opaque image key resolved by the image cache
}

// Question is a single multiple-choice prompt.
type Question struct {
	Text         string
	Options      []AnswerOption
	CorrectIndex int
	Hint         string
}

// Correct returns the correct option.
// The question must have passed Validate.
func (q Question) Correct() AnswerOption {
	return q.Options[q.CorrectIndex]
}

// Validate checks the option count and the correct index.
func (q Question) Validate() error {
	if len(q.Options) < MinOptions {
		return fmt.Errorf("question %q has %d options, need at least %d: %w",
			q.Text, len(q.Options), MinOptions, core.ErrConfiguration)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("question %q correct index %d out of range [0,%d): %w",
			q.Text, q.CorrectIndex, len(q.Options), core.ErrConfiguration)
	}
	return nil
}

// Game is a quiz category with three difficulty tiers.
type Game struct {
	ID          string
	Name        string
	Description string
	Thumbnail   string
	Unlocked    bool // Catalog default before the unlock policy runs
	Progress    int  // Catalog default, clamped to [0,100]

	Easy   []Question
	Medium []Question
	Hard   []Question
}

// Questions returns the tier selected by the difficulty.
func (g Game) Questions(d Difficulty) []Question {
	switch d {
	case Easy:
		return g.Easy
	case Hard:
		return g.Hard
	default:
		return g.Medium
	}
}

// AllQuestions returns every question across all tiers, easy first.
func (g Game) AllQuestions() []Question {
	all := make([]Question, 0, len(g.Easy)+len(g.Medium)+len(g.Hard))
	all = append(all, g.Easy...)
	all = append(all, g.Medium...)
	all = append(all, g.Hard...)
	return all
}

// Catalog is an ordered, immutable list of games.
type Catalog struct {
	games []Game
	index map[string]int
}

// New builds a catalog from games in display order.
// The games are validated; an invalid catalog is rejected.
func New(games []Game) (*Catalog, error) {
	c := &Catalog{
		games: make([]Game, len(games)),
		index: make(map[string]int, len(games)),
	}
	copy(c.games, games)

	for i := range c.games {
		c.games[i].Progress = core.Clamp(c.games[i].Progress, 0, 100)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	for i, g := range c.games {
		c.index[g.ID] = i
	}
	return c, nil
}

// Len returns the number of games.
func (c *Catalog) Len() int {
	return len(c.games)
}

// Games returns a copy of the games in display order.
func (c *Catalog) Games() []Game {
	out := make([]Game, len(c.games))
	copy(out, c.games)
	return out
}

// At returns the game at the given position.
func (c *Catalog) At(i int) (Game, error) {
	if i < 0 || i >= len(c.games) {
		return Game{}, fmt.Errorf("catalog: game index %d: %w", i, core.ErrNotFound)
	}
	return c.games[i], nil
}

// Game returns the game with the given ID.
func (c *Catalog) Game(id string) (Game, error) {
	i, ok := c.index[id]
	if !ok {
		return Game{}, fmt.Errorf("catalog: unknown game %q: %w", id, core.ErrNotFound)
	}
	return c.games[i], nil
}

// Index returns the position of a game, or -1 if unknown.
func (c *Catalog) Index(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// IDs returns the game IDs in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.games))
	for i, g := range c.games {
		ids[i] = g.ID
	}
	return ids
}

// ImageKeys returns every distinct image key (thumbnails and option images)
// in first-seen order. Used to warm the image cache.
func (c *Catalog) ImageKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keys = append(keys, k)
	}

	for _, g := range c.games {
		add(g.Thumbnail)
		for _, q := range g.AllQuestions() {
			for _, o := range q.Options {
				add(o.Image)
			}
		}
	}
	return keys
}
