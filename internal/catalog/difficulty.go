package catalog

import "strings"

// Difficulty selects which question tier a round plays.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// DefaultDifficulty is used when no setting is stored.
const DefaultDifficulty = Medium

// Difficulties lists the tiers in picker order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty parses a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	default:
		return DefaultDifficulty, false
	}
}

// Next returns the following difficulty, wrapping around.
func (d Difficulty) Next() Difficulty {
	switch d {
	case Easy:
		return Medium
	case Medium:
		return Hard
	default:
		return Easy
	}
}

// Prev returns the preceding difficulty, wrapping around.
func (d Difficulty) Prev() Difficulty {
	switch d {
	case Hard:
		return Medium
	case Medium:
		return Easy
	default:
		return Hard
	}
}

func (d Difficulty) String() string {
	return string(d)
}
