package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLCatalog represents the YAML structure of a catalog file.
type YAMLCatalog struct {
	Games []YAMLGame `yaml:"games"`
}

// YAMLGame represents one game. A directory catalog holds one YAMLGame per file.
type YAMLGame struct {
	ID          string         `yaml:"id"`
	Order       int            `yaml:"order,omitempty"` // Sort key for directory catalogs
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Thumbnail   string         `yaml:"thumbnail"`
	Unlocked    bool           `yaml:"unlocked,omitempty"`
	Progress    int            `yaml:"progress,omitempty"`
	Easy        []YAMLQuestion `yaml:"easy"`
	Medium      []YAMLQuestion `yaml:"medium"`
	Hard        []YAMLQuestion `yaml:"hard"`
}

// YAMLQuestion represents a question in YAML format.
type YAMLQuestion struct {
	Text    string       `yaml:"text"`
	Options []YAMLOption `yaml:"options"`
	Correct int          `yaml:"correct"`
	Hint    string       `yaml:"hint,omitempty"`
}

// YAMLOption represents an answer option in YAML format.
type YAMLOption struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
}

// ParseYAML parses a catalog document into games, in file order.
func ParseYAML(data []byte) ([]Game, error) {
	var yc YAMLCatalog
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	games := make([]Game, 0, len(yc.Games))
	for _, yg := range yc.Games {
		games = append(games, yg.toGame())
	}
	return games, nil
}

// ParseGameYAML parses a single-game document.
func ParseGameYAML(data []byte) (YAMLGame, error) {
	var yg YAMLGame
	if err := yaml.Unmarshal(data, &yg); err != nil {
		return YAMLGame{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return yg, nil
}

func (yg YAMLGame) toGame() Game {
	return Game{
		ID:          yg.ID,
		Name:        yg.Name,
		Description: yg.Description,
		Thumbnail:   yg.Thumbnail,
		Unlocked:    yg.Unlocked,
		Progress:    yg.Progress,
		Easy:        toQuestions(yg.Easy),
		Medium:      toQuestions(yg.Medium),
		Hard:        toQuestions(yg.Hard),
	}
}

func toQuestions(yqs []YAMLQuestion) []Question {
	if len(yqs) == 0 {
		return nil
	}
	qs := make([]Question, len(yqs))
	for i, yq := range yqs {
		opts := make([]AnswerOption, len(yq.Options))
		for j, yo := range yq.Options {
			opts[j] = AnswerOption{Name: yo.Name, Image: yo.Image}
		}
		qs[i] = Question{
			Text:         yq.Text,
			Options:      opts,
			CorrectIndex: yq.Correct,
			Hint:         yq.Hint,
		}
	}
	return qs
}
