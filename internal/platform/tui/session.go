package tui

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/events"
	"github.com/vovakirdan/photo-quiz/internal/progress"
	"github.com/vovakirdan/photo-quiz/internal/round"
)

// screen identifies the active view of a session.
type screen int

const (
	screenMenu screen = iota
	screenRound
	screenSettings
	screenScoreboard
)

// sessionResources are the live handles a session must release when it ends,
// including when an SSH client disconnects without quitting.
type sessionResources struct {
	mu     sync.Mutex
	sub    *events.Subscription[progress.Event]
	engine *round.Engine
	closed bool
}

func (r *sessionResources) setEngine(e *round.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed && e != nil {
		e.Abandon()
		return
	}
	r.engine = e
}

// Close ends the progress subscription and abandons a running round.
func (r *sessionResources) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.sub != nil {
		r.sub.Close()
	}
	if r.engine != nil {
		r.engine.Abandon()
	}
}

// SessionModel manages the full quiz session flow:
// menu -> round -> menu, with settings and scoreboard screens.
// It is the top-level model for both local and SSH sessions.
type SessionModel struct {
	wire       *app.Wire
	config     core.RuntimeConfig
	username   string
	notifier   round.Notifier
	res        *sessionResources
	screen     screen
	menu       MenuModel
	round      RoundModel
	settings   SettingsModel
	scoreboard ScoreboardModel
	initCmd    tea.Cmd
	quitting   bool
}

// NewSessionModel creates a session that starts at the game index.
func NewSessionModel(w *app.Wire, cfg core.RuntimeConfig, username string, notifier round.Notifier) SessionModel {
	if notifier == nil {
		notifier = round.NopNotifier{}
	}
	return SessionModel{
		wire:     w,
		config:   cfg,
		username: username,
		notifier: notifier,
		res:      &sessionResources{sub: w.Progress.Subscribe(16)},
		screen:   screenMenu,
		menu:     NewMenuModel(w, cfg).WithUser(username),
	}
}

// NewGameSessionModel creates a session that starts a round of gameID right away.
// If the round cannot start the session stays on the index and shows why.
func NewGameSessionModel(w *app.Wire, cfg core.RuntimeConfig, gameID string, notifier round.Notifier) SessionModel {
	m := NewSessionModel(w, cfg, "", notifier)
	m, cmd := m.openRound(gameID)
	m.initCmd = cmd
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.res.sub), m.initCmd)
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case progressEventMsg:
		m.menu.refresh()
		var cmd tea.Cmd
		if m.screen == screenScoreboard {
			m, cmd = m.updateScoreboard(msg)
		}
		return m, tea.Batch(cmd, waitForProgress(m.res.sub))
	}

	switch m.screen {
	case screenRound:
		return m.updateRound(msg)
	case screenSettings:
		return m.updateSettings(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (SessionModel, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		return m.quit()
	}

	switch {
	case m.menu.Selected() != "":
		id := m.menu.Selected()
		m.menu.selected = ""
		return m.openRound(id)

	case m.menu.WantsSettings():
		m.menu.openSettings = false
		m.settings = NewSettingsModel(m.wire, m.config)
		m.screen = screenSettings
		return m, m.settings.Init()

	case m.menu.WantsScoreboard():
		m.menu.openScoreboard = false
		m.scoreboard = NewScoreboardModel(m.wire, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()
	}

	return m, cmd
}

// openRound starts a round, or stays on the menu with the reason it failed.
func (m SessionModel) openRound(gameID string) (SessionModel, tea.Cmd) {
	rm, err := NewRoundModel(m.wire, gameID, m.notifier, m.config)
	if err != nil {
		m.screen = screenMenu
		m.menu.status = roundError(err)
		return m, nil
	}
	m.round = rm
	m.res.setEngine(rm.Engine())
	m.screen = screenRound
	return m, m.round.Init()
}

// roundError turns a start failure into a status line.
func roundError(err error) string {
	switch {
	case errors.Is(err, app.ErrLocked):
		return lockIcon + " That game is locked"
	case errors.Is(err, core.ErrNotFound):
		return "Unknown game"
	default:
		return err.Error()
	}
}

// updateRound handles updates when a round is on screen.
func (m SessionModel) updateRound(msg tea.Msg) (SessionModel, tea.Cmd) {
	newModel, cmd := m.round.Update(msg)
	if rm, ok := newModel.(RoundModel); ok {
		m.round = rm
	}
	m.res.setEngine(m.round.Engine())

	if m.round.IsQuitting() {
		return m.quit()
	}
	if m.round.BackToMenu() {
		m.res.setEngine(nil)
		m.round = RoundModel{}
		m.menu.refresh()
		m.screen = screenMenu
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateSettings handles updates when the settings screen is shown.
func (m SessionModel) updateSettings(msg tea.Msg) (SessionModel, tea.Cmd) {
	newModel, cmd := m.settings.Update(msg)
	if sm, ok := newModel.(SettingsModel); ok {
		m.settings = sm
	}

	if m.settings.IsQuitting() {
		return m.quit()
	}
	if m.settings.IsGoingBack() {
		m.menu.refresh()
		m.screen = screenMenu
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (SessionModel, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sm, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sm
	}

	if m.scoreboard.IsQuitting() {
		return m.quit()
	}
	if m.scoreboard.IsGoingBack() {
		m.screen = screenMenu
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m SessionModel) quit() (SessionModel, tea.Cmd) {
	m.quitting = true
	m.res.Close()
	return m, tea.Quit
}

// Close releases the session's subscription and running round.
// It is safe to call more than once.
func (m SessionModel) Close() {
	m.res.Close()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenRound:
		return m.round.View()
	case screenSettings:
		return m.settings.View()
	case screenScoreboard:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}

// Screen reports which view is active.
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenRound:
		return "round"
	case screenSettings:
		return "settings"
	case screenScoreboard:
		return "scoreboard"
	default:
		return "menu"
	}
}

// Run runs a local session until the user quits.
// A non-empty gameID starts that game directly.
func Run(w *app.Wire, cfg core.RuntimeConfig, gameID string, notifier round.Notifier) error {
	var model SessionModel
	if gameID != "" {
		model = NewGameSessionModel(w, cfg, gameID, notifier)
	} else {
		model = NewSessionModel(w, cfg, "", notifier)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
