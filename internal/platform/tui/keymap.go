package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

// KeyMapper translates Bubble Tea key messages to quiz inputs.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a quiz input.
// Digits 1-9 answer the matching option directly.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Input {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.NewInput(core.ActionQuit)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return core.AnswerInput(int(key[0] - '1'))
	}

	switch key {
	case "w", "up", "k": // vim-style k for up
		return core.NewInput(core.ActionUp)
	case "s", "down", "j": // vim-style j for down
		return core.NewInput(core.ActionDown)
	case "left", "h":
		return core.NewInput(core.ActionLeft)
	case "right", "l":
		return core.NewInput(core.ActionRight)
	case "enter", " ":
		return core.NewInput(core.ActionConfirm)
	case "n":
		return core.NewInput(core.ActionNext)
	case "?":
		return core.NewInput(core.ActionHint)
	case "t":
		return core.NewInput(core.ActionToggleHints)
	case "r":
		return core.NewInput(core.ActionRestart)
	case "o":
		return core.NewInput(core.ActionSettings)
	case "tab":
		return core.NewInput(core.ActionScoreboard)
	case "b", "esc":
		return core.NewInput(core.ActionBack)
	}

	return core.NewInput(core.ActionNone)
}
