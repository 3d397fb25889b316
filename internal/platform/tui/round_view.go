package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/events"
	"github.com/vovakirdan/photo-quiz/internal/imagecache"
	"github.com/vovakirdan/photo-quiz/internal/round"
)

// lowTimeSeconds turns the countdown red.
const lowTimeSeconds = 5

// imagesLoadedMsg reports that option images were fetched into the cache.
type imagesLoadedMsg struct{}

// RoundModel plays one round and shows the game-over summary.
type RoundModel struct {
	wire       *app.Wire
	gameID     string
	notifier   round.Notifier
	engine     *round.Engine
	sub        *events.Subscription[round.Event]
	snap       round.Snapshot
	cursor     int
	lastChange time.Time // When Remaining last changed
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	timerBar   progressbar.Model
	err        string
	quitting   bool
	backToMenu bool
}

// NewRoundModel starts a round of gameID.
// It fails when the game is unknown or locked.
func NewRoundModel(w *app.Wire, gameID string, notifier round.Notifier, cfg core.RuntimeConfig) (RoundModel, error) {
	if notifier == nil {
		notifier = round.NopNotifier{}
	}
	m := RoundModel{
		wire:      w,
		gameID:    gameID,
		notifier:  notifier,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		timerBar: progressbar.New(
			progressbar.WithSolidFill("39"),
			progressbar.WithoutPercentage(),
		),
	}
	if err := m.start(); err != nil {
		return RoundModel{}, err
	}
	return m, nil
}

// start replaces the current engine with a fresh round.
func (m *RoundModel) start() error {
	engine, err := m.wire.NewRound(m.gameID,
		round.WithRealtime(time.Second),
		round.WithNotifier(m.notifier),
	)
	if err != nil {
		return err
	}
	if m.engine != nil {
		m.engine.Abandon()
	}
	m.engine = engine
	m.sub = engine.Subscribe(16)
	m.snap = engine.Snapshot()
	m.cursor = 0
	m.lastChange = time.Now()
	m.err = ""
	return nil
}

// Init starts listening to the engine and loads the first images.
func (m RoundModel) Init() tea.Cmd {
	return m.listen()
}

// listen returns the commands every fresh round needs.
func (m RoundModel) listen() tea.Cmd {
	cmds := []tea.Cmd{waitForRound(m.engine, m.sub), m.loadImages()}
	if m.snap.TimerEnabled {
		cmds = append(cmds, tickCmd(m.engine, m.config.TickRate))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m RoundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case roundEventMsg:
		if msg.engine != m.engine {
			return m, nil
		}
		cmd := m.apply(msg.snapshot)
		return m, tea.Batch(cmd, waitForRound(m.engine, m.sub))

	case TickMsg:
		// Each round runs its own tick chain; it ends with the round
		if msg.Engine != m.engine || m.snap.Phase == round.Finished || m.snap.Phase == round.Abandoned {
			return m, nil
		}
		return m, tickCmd(m.engine, m.config.TickRate)

	case imagesLoadedMsg:
		return m, nil
	}
	return m, nil
}

// apply adopts a new engine snapshot and returns follow-up work.
func (m *RoundModel) apply(s round.Snapshot) tea.Cmd {
	prev := m.snap
	m.snap = s
	if s.Remaining != prev.Remaining || s.QuestionIndex != prev.QuestionIndex {
		m.lastChange = time.Now()
	}
	if s.QuestionIndex != prev.QuestionIndex && s.Phase == round.InProgress {
		m.cursor = 0
		return m.loadImages()
	}
	return nil
}

// handleKey processes keyboard input for the current phase.
func (m RoundModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	input := m.keyMapper.MapKey(msg)

	switch input.Action {
	case core.ActionQuit:
		m.engine.Abandon()
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		m.engine.Abandon()
		m.backToMenu = true
		return m, nil
	}

	var err error
	switch m.snap.Phase {
	case round.InProgress:
		n := len(m.snap.Question.Options)
		switch input.Action {
		case core.ActionUp, core.ActionLeft:
			if m.cursor > 0 {
				m.cursor--
			}
		case core.ActionDown, core.ActionRight:
			if m.cursor < n-1 {
				m.cursor++
			}
		case core.ActionConfirm:
			err = m.engine.SubmitIndex(m.cursor)
		case core.ActionAnswer:
			if input.Option < n {
				m.cursor = input.Option
				err = m.engine.SubmitIndex(input.Option)
			}
		case core.ActionHint:
			err = m.engine.ShowHint()
		case core.ActionToggleHints:
			m.engine.ToggleHints()
		}

	case round.Feedback:
		switch input.Action {
		case core.ActionConfirm, core.ActionNext:
			err = m.engine.Advance()
		case core.ActionHint:
			err = m.engine.ShowHint()
		case core.ActionToggleHints:
			m.engine.ToggleHints()
		}

	case round.Finished:
		if input.Action == core.ActionRestart || input.Action == core.ActionConfirm {
			if err = m.start(); err == nil {
				return m, m.listen()
			}
		}
	}

	if err != nil {
		m.err = err.Error()
	} else {
		m.err = ""
	}
	cmd := m.apply(m.engine.Snapshot())
	return m, cmd
}

// loadImages fetches the current question's images into the shared cache.
func (m RoundModel) loadImages() tea.Cmd {
	opts := m.snap.Question.Options
	if len(opts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Image != "" {
			keys = append(keys, o.Image)
		}
	}
	cache, loader := m.wire.Images, m.wire.Loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, k := range keys {
			//nolint:errcheck // Missing images render as text only
			imagecache.Fetch(ctx, cache, loader, k)
		}
		return imagesLoadedMsg{}
	}
}

// View renders the round.
func (m RoundModel) View() string {
	if m.quitting {
		return ""
	}
	if m.snap.Phase == round.Finished {
		return m.viewGameOver()
	}

	width := m.config.ScreenW
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.header(), width))
	b.WriteString("\n")
	if m.snap.TimerEnabled {
		m.timerBar.Width = min(40, max(width-10, 10))
		b.WriteString(centerText(m.timerBar.ViewAs(m.timeFraction()), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(m.snap.Question.Text), width))
	b.WriteString("\n\n")
	b.WriteString(centerBlock(m.options(), width))
	b.WriteString("\n\n")

	switch {
	case m.snap.HintVisible && m.snap.Question.Hint != "":
		b.WriteString(centerText(hintStyle.Render("Hint: "+m.snap.Question.Hint), width))
		b.WriteString("\n")
	case m.snap.HintsEnabled && m.snap.Question.Hint != "":
		b.WriteString(centerText(subtleStyle.Render("Press ? for a hint"), width))
		b.WriteString("\n")
	}

	if m.snap.Phase == round.Feedback {
		style := wrongStyle
		if m.snap.Correct {
			style = correctStyle
		}
		b.WriteString(centerText(style.Render(m.snap.Feedback), width))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(centerText(warnStyle.Render(m.err), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "1-9/Enter: Answer  |  ?: Hint  |  T: Toggle hints  |  B: Back"
	if m.snap.Phase == round.Feedback {
		controls = "Enter/N: Next  |  B: Back"
	}
	b.WriteString(centerText(subtleStyle.Render(controls), width))
	b.WriteString("\n")
	return b.String()
}

// header shows game, difficulty, score, position and remaining time.
func (m RoundModel) header() string {
	parts := []string{
		titleStyle.Render(m.snap.GameName),
		subtleStyle.Render(m.snap.Difficulty.String()),
		fmt.Sprintf("Score: %d", m.snap.Score),
		fmt.Sprintf("Question %d/%d", m.snap.QuestionIndex+1, m.snap.QuestionCount),
	}
	if m.snap.TimerEnabled {
		t := fmt.Sprintf("Time: %2ds", m.snap.Remaining)
		if m.snap.Remaining < lowTimeSeconds {
			t = warnStyle.Render(t)
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, "   ")
}

// timeFraction interpolates between engine ticks for a smooth bar.
func (m RoundModel) timeFraction() float64 {
	remaining := float64(m.snap.Remaining)
	if m.snap.Phase == round.InProgress {
		remaining -= time.Since(m.lastChange).Seconds()
	}
	f := remaining / float64(round.QuestionSeconds)
	return max(0, min(1, f))
}

// options renders the answer boxes side by side, with previews when cached.
func (m RoundModel) options() string {
	opts := m.snap.Question.Options
	if len(opts) == 0 {
		return ""
	}

	boxW := (m.config.ScreenW - 2) / len(opts)
	previewW := min(16, boxW-4)
	showPreview := previewW >= 6 && m.config.ScreenH >= 20

	boxes := make([]string, 0, len(opts))
	for i, opt := range opts {
		var content strings.Builder
		if showPreview {
			if img, ok := m.wire.Images.Get(opt.Image); ok {
				content.WriteString(renderPreview(img.Img, previewW, previewW/2))
				content.WriteString("\n")
			}
		}
		label := fmt.Sprintf("%d. %s", i+1, opt.Name)
		if boxW > 6 {
			label = truncate(label, boxW-4)
		}
		content.WriteString(label)

		boxes = append(boxes, boxStyle.BorderForeground(m.borderColor(i)).Render(content.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// borderColor highlights the cursor, then the answer once revealed.
func (m RoundModel) borderColor(i int) lipgloss.Color {
	if m.snap.Phase == round.Feedback {
		switch {
		case i == m.snap.Question.CorrectIndex:
			return borderCorrect
		case i == m.snap.Selected:
			return borderWrong
		}
		return borderNormal
	}
	if i == m.cursor {
		return borderCursor
	}
	return borderNormal
}

// viewGameOver renders the round summary.
func (m RoundModel) viewGameOver() string {
	width := m.config.ScreenW
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("G A M E   O V E R"), width))
	b.WriteString("\n\n")

	if m.snap.Empty {
		b.WriteString(centerText(fmt.Sprintf("No %s questions in %s yet.",
			m.snap.Difficulty, m.snap.GameName), width))
		b.WriteString("\n")
	} else {
		b.WriteString(centerText(fmt.Sprintf("Your score: %d/%d", m.snap.Score, m.snap.QuestionCount), width))
		b.WriteString("\n")

		out := m.snap.Outcome
		if m.snap.Reported {
			if out.NewHighScore {
				b.WriteString(centerText(correctStyle.Render("New High Score!"), width))
				b.WriteString("\n")
			}
			b.WriteString(centerText(fmt.Sprintf("Progress: %d%% (+%d)", out.Record.Progress, out.ProgressGained), width))
			b.WriteString("\n")
			for _, id := range out.Unlocked {
				name := id
				if g, err := m.wire.Catalog.Game(id); err == nil {
					name = g.Name
				}
				b.WriteString(centerText(statusStyle.Render("Unlocked: "+name), width))
				b.WriteString("\n")
			}
		}
		if m.snap.ReportErr != nil {
			b.WriteString(centerText(warnStyle.Render("Progress not saved: "+m.snap.ReportErr.Error()), width))
			b.WriteString("\n")
		}
	}

	if m.err != "" {
		b.WriteString(centerText(warnStyle.Render(m.err), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(subtleStyle.Render("R: Play Again  |  B: Back to Games  |  Q: Quit"), width))
	b.WriteString("\n")
	return b.String()
}

// Snapshot returns the last engine state seen by the view.
func (m RoundModel) Snapshot() round.Snapshot {
	return m.snap
}

// Engine returns the engine of the current round.
func (m RoundModel) Engine() *round.Engine {
	return m.engine
}

// IsQuitting returns true if user requested to quit entirely.
func (m RoundModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the index.
func (m RoundModel) BackToMenu() bool {
	return m.backToMenu
}
