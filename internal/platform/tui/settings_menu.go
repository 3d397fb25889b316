package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/settings"
)

// settingRow describes one line of the settings screen.
type settingRow struct {
	key   string
	label string
}

var settingRows = []settingRow{
	{settings.KeyDifficulty, "Difficulty"},
	{settings.KeySoundEnabled, "Sound"},
	{settings.KeyGameLockEnabled, "Game lock"},
	{settings.KeyHintsEnabled, "Hints"},
	{settings.KeyTimerEnabled, "Timer"},
}

// SettingsModel edits the persisted user settings.
// Every change is saved immediately.
type SettingsModel struct {
	wire      *app.Wire
	values    settings.Settings
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	status    string
	goingBack bool
	quitting  bool
}

// NewSettingsModel creates the settings screen with the stored values.
func NewSettingsModel(w *app.Wire, cfg core.RuntimeConfig) SettingsModel {
	return SettingsModel{
		wire:      w,
		values:    w.Settings(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the settings model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m SettingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := m.keyMapper.MapKey(msg)

	switch input.Action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack, core.ActionSettings:
		m.goingBack = true
	case core.ActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case core.ActionDown:
		if m.cursor < len(settingRows)-1 {
			m.cursor++
		}
	case core.ActionLeft:
		m.change(-1)
	case core.ActionRight, core.ActionConfirm:
		m.change(1)
	}
	return m, nil
}

// change steps the highlighted value and saves the result.
func (m *SettingsModel) change(dir int) {
	next := m.values
	switch settingRows[m.cursor].key {
	case settings.KeyDifficulty:
		if dir < 0 {
			next.Difficulty = next.Difficulty.Prev()
		} else {
			next.Difficulty = next.Difficulty.Next()
		}
	case settings.KeySoundEnabled:
		next.SoundEnabled = !next.SoundEnabled
	case settings.KeyGameLockEnabled:
		next.GameLockEnabled = !next.GameLockEnabled
	case settings.KeyHintsEnabled:
		next.HintsEnabled = !next.HintsEnabled
	case settings.KeyTimerEnabled:
		next.TimerEnabled = !next.TimerEnabled
	}

	if err := m.wire.SaveSettings(next); err != nil {
		m.status = fmt.Sprintf("Could not save: %v", err)
		return
	}
	m.values = next
	m.status = ""
}

// View renders the settings screen.
func (m SettingsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S E T T I N G S"), m.width))
	b.WriteString("\n\n")

	for i, row := range settingRows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		value := m.display(row.key)
		if i == m.cursor {
			value = selectedStyle.Render("< " + value + " >")
		} else {
			value = "  " + value + "  "
		}
		line := fmt.Sprintf("%s%-12s %s", cursor, row.label, value)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(warnStyle.Render(m.status), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Select  |  Left/Right/Enter: Change  |  B: Back  |  Q: Quit"
	b.WriteString(centerText(subtleStyle.Render(controls), m.width))
	b.WriteString("\n")
	return b.String()
}

// display formats a value for the screen.
func (m SettingsModel) display(key string) string {
	v := m.values.Get(key)
	switch v {
	case "true":
		return "On"
	case "false":
		return "Off"
	}
	return v
}

// Values returns the settings as last saved.
func (m SettingsModel) Values() settings.Settings {
	return m.values
}

// IsGoingBack returns true if user wants to return to the index.
func (m SettingsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user requested to quit.
func (m SettingsModel) IsQuitting() bool {
	return m.quitting
}
