package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show game list sidebar
	sidebarWidth       = 22  // Width of game list sidebar
	maxScores          = 100 // Max sessions to load
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/right", "next game"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/left", "prev game"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreSource lists the best sessions of a game.
type ScoreSource interface {
	TopSessions(gameID string, limit int) ([]storage.SessionEntry, error)
}

// ScoreboardModel shows the best rounds per game together with its progress.
type ScoreboardModel struct {
	wire        *app.Wire
	games       []catalog.Game
	gameCursor  int
	source      ScoreSource // nil without a database
	sessions    []storage.SessionEntry
	loadErr     error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(w *app.Wire, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		wire:        w,
		games:       w.Catalog.Games(),
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	if w.DB != nil {
		m.source = w.DB
	}

	m.table = m.createTable()
	if len(m.games) > 0 {
		m.loadScores(m.games[0].ID)
	}
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 8},
		{Title: "Date", Width: 14},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if tableWidth > 50 {
		columns[3].Width = min(tableWidth-30, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores loads the best sessions for the given game.
func (m *ScoreboardModel) loadScores(gameID string) {
	m.sessions, m.loadErr = nil, nil
	if m.source != nil {
		m.sessions, m.loadErr = m.source.TopSessions(gameID, maxScores)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current sessions.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d/%d", s.Score, s.QuestionCount),
			s.Difficulty,
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.loadScores(m.games[m.gameCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor - 1 + len(m.games)) % len(m.games)
				m.loadScores(m.games[m.gameCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil

	case progressEventMsg:
		// New rounds may have been played from another session
		if len(m.games) > 0 {
			m.loadScores(m.games[m.gameCursor].ID)
		}
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if len(m.games) > 0 {
		title = fmt.Sprintf("HIGH SCORES - %s", m.games[m.gameCursor].Name)
	}
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n")
	if summary := m.summary(); summary != "" {
		b.WriteString(centerText(subtleStyle.Render(summary), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// summary shows the progress record of the selected game.
func (m ScoreboardModel) summary() string {
	if len(m.games) == 0 {
		return ""
	}
	rec, err := m.wire.Progress.Get(m.games[m.gameCursor].ID)
	if err != nil {
		return ""
	}
	state := "unlocked"
	if !rec.Unlocked {
		state = "locked"
	}
	return fmt.Sprintf("Progress: %d%%  |  Best: %d  |  %s", rec.Progress, rec.HighScore, state)
}

// renderWideLayout renders the scoreboard with sidebar for game selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := boxStyle.Width(sidebarWidth)

	var sidebar strings.Builder
	sidebar.WriteString("Games\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.games {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.gameCursor {
			cursor = "> "
			style = selectedStyle
		}
		sidebar.WriteString(style.Render(cursor + truncate(g.Name, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", boxStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the scoreboard with game tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	if len(m.games) > 0 {
		tabs := make([]string, len(m.games))
		for i, g := range m.games {
			shortName := truncate(g.Name, 10)
			if i == m.gameCursor {
				tabs[i] = activeTabStyle.Render(shortName)
			} else {
				tabs[i] = subtleStyle.Render(" " + shortName + " ")
			}
		}

		tabLine := strings.Join(tabs, " ")
		if lipgloss.Width(tabLine) > m.width-4 {
			tabLine = fmt.Sprintf("< %s >", m.games[m.gameCursor].Name)
		}
		b.WriteString(centerText(tabLine, m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(centerBlock(boxStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := subtleStyle.Italic(true).Padding(2, 4)
	switch {
	case m.source == nil:
		return emptyStyle.Render("Session history is unavailable.")
	case m.loadErr != nil:
		return warnStyle.Padding(2, 4).Render("Could not load scores: " + m.loadErr.Error())
	case len(m.sessions) == 0:
		return emptyStyle.Render("No rounds recorded yet.\nFinish a round to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
