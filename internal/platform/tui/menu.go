package tui

import (
	"fmt"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/progress"
)

// MenuItem is one row of the game index.
type MenuItem struct {
	Game     catalog.Game
	Record   progress.Record
	Playable bool
}

// MenuModel is the Bubble Tea model for the game index.
type MenuModel struct {
	wire           *app.Wire
	user           string
	items          []MenuItem
	lockEnabled    bool
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	bar            progressbar.Model
	status         string
	quitting       bool
	selected       string // Set when user starts a playable game
	openSettings   bool
	openScoreboard bool
}

// NewMenuModel creates a new game index.
func NewMenuModel(w *app.Wire, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		wire:      w,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		bar: progressbar.New(
			progressbar.WithDefaultGradient(),
			progressbar.WithWidth(20),
			progressbar.WithoutPercentage(),
		),
	}
	m.refresh()
	return m
}

// WithUser greets user on the index.
func (m MenuModel) WithUser(user string) MenuModel {
	m.user = user
	return m
}

// refresh reloads progress and unlock flags from the store.
func (m *MenuModel) refresh() {
	games := m.wire.Catalog.Games()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		rec, err := m.wire.Progress.Get(g.ID)
		if err != nil {
			continue
		}
		playable, _ := m.wire.Progress.Playable(g.ID)
		items = append(items, MenuItem{Game: g, Record: rec, Playable: playable})
	}
	m.items = items
	m.lockEnabled = m.wire.Progress.LockEnabled()
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case progressEventMsg:
		m.refresh()
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := m.keyMapper.MapKey(msg)
	m.status = ""

	switch input.Action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case core.ActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case core.ActionAnswer:
		if input.Option < len(m.items) {
			m.cursor = input.Option
			m.choose()
		}

	case core.ActionConfirm:
		m.choose()

	case core.ActionSettings:
		m.openSettings = true

	case core.ActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// choose starts the highlighted game, or explains why it is locked.
func (m *MenuModel) choose() {
	if len(m.items) == 0 {
		return
	}
	item := m.items[m.cursor]
	if !item.Playable {
		m.status = m.lockedReason(m.cursor)
		return
	}
	m.selected = item.Game.ID
}

// lockedReason names the game whose progress opens row i.
func (m MenuModel) lockedReason(i int) string {
	if i == 0 {
		return "This game is locked"
	}
	prev := m.items[i-1].Game.Name
	return fmt.Sprintf("%s Reach 50%% in %s to unlock %s", lockIcon, prev, m.items[i].Game.Name)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  P H O T O   Q U I Z  "), m.width))
	b.WriteString("\n\n")
	subtitle := "Choose a game"
	if m.user != "" {
		subtitle = fmt.Sprintf("Welcome, %s. Choose a game", m.user)
	}
	b.WriteString(centerText(subtleStyle.Render(subtitle), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("No games in catalog", m.width))
		b.WriteString("\n")
	}

	nameW := 0
	for _, item := range m.items {
		nameW = max(nameW, len([]rune(item.Game.Name)))
	}

	for i, item := range m.items {
		b.WriteString(centerText(m.renderRow(i, item, nameW), m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		desc := m.items[m.cursor].Game.Description
		if desc != "" {
			b.WriteString("\n")
			b.WriteString(centerText(subtleStyle.Render(truncate(desc, m.width-4)), m.width))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(statusStyle.Render(m.status), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  O: Settings  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(subtleStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// renderRow draws one game line: cursor, lock, name, progress and best score.
func (m MenuModel) renderRow(i int, item MenuItem, nameW int) string {
	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}

	icon := "  "
	if m.lockEnabled && !item.Playable {
		icon = lockIcon
	}

	name := item.Game.Name + strings.Repeat(" ", nameW-len([]rune(item.Game.Name)))
	switch {
	case !item.Playable:
		name = lockedStyle.Render(name)
	case i == m.cursor:
		name = selectedStyle.Render(name)
	}

	pct := float64(item.Record.Progress) / float64(progress.MaxProgress)
	return fmt.Sprintf("%s%s %s  %s %3d%%  Best: %d",
		cursor, icon, name, m.bar.ViewAs(pct), item.Record.Progress, item.Record.HighScore)
}

// Selected returns the ID of the game to start, or "" if none.
func (m MenuModel) Selected() string {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsSettings returns true if user requested the settings screen.
func (m MenuModel) WantsSettings() bool {
	return m.openSettings
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
