package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		option int
	}{
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, -1},
		{"q quits", runeKey('q'), core.ActionQuit, -1},
		{"1 answers first", runeKey('1'), core.ActionAnswer, 0},
		{"9 answers ninth", runeKey('9'), core.ActionAnswer, 8},
		{"0 is ignored", runeKey('0'), core.ActionNone, -1},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, -1},
		{"k moves up", runeKey('k'), core.ActionUp, -1},
		{"j moves down", runeKey('j'), core.ActionDown, -1},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, -1},
		{"l moves right", runeKey('l'), core.ActionRight, -1},
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, -1},
		{"space confirms", tea.KeyMsg{Type: tea.KeySpace}, core.ActionConfirm, -1},
		{"n is next", runeKey('n'), core.ActionNext, -1},
		{"? shows hint", runeKey('?'), core.ActionHint, -1},
		{"t toggles hints", runeKey('t'), core.ActionToggleHints, -1},
		{"r restarts", runeKey('r'), core.ActionRestart, -1},
		{"o opens settings", runeKey('o'), core.ActionSettings, -1},
		{"tab opens scoreboard", tea.KeyMsg{Type: tea.KeyTab}, core.ActionScoreboard, -1},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, -1},
		{"b goes back", runeKey('b'), core.ActionBack, -1},
		{"unbound key", runeKey('x'), core.ActionNone, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := km.MapKey(tt.msg)
			if in.Action != tt.action {
				t.Errorf("Expected action %s, got %s", tt.action, in.Action)
			}
			if in.Option != tt.option {
				t.Errorf("Expected option %d, got %d", tt.option, in.Option)
			}
		})
	}
}
