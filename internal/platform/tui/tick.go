// Package tui provides the Bubble Tea front end for the quiz.
// It handles the terminal UI loop, input mapping and screen flow between the
// game index, rounds, settings and the scoreboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/photo-quiz/internal/events"
	"github.com/vovakirdan/photo-quiz/internal/progress"
	"github.com/vovakirdan/photo-quiz/internal/round"
)

// TickMsg is sent to redraw the countdown of the round run by Engine.
type TickMsg struct {
	Engine *round.Engine
	Time   time.Time
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(e *round.Engine, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Engine: e, Time: t}
	})
}

// roundEventMsg carries a state change from a round engine.
type roundEventMsg struct {
	engine   *round.Engine
	snapshot round.Snapshot
}

// waitForRound returns a command that waits for the next engine event.
func waitForRound(e *round.Engine, sub *events.Subscription[round.Event]) tea.Cmd {
	return func() tea.Msg {
		if sub == nil {
			return nil
		}
		select {
		case evt := <-sub.Events():
			return roundEventMsg{engine: e, snapshot: evt.Snapshot}
		case <-sub.Done():
			return nil
		}
	}
}

// progressEventMsg carries a change from the progress store.
type progressEventMsg progress.Event

// waitForProgress returns a command that waits for the next store event.
func waitForProgress(sub *events.Subscription[progress.Event]) tea.Cmd {
	return func() tea.Msg {
		if sub == nil {
			return nil
		}
		select {
		case evt := <-sub.Events():
			return progressEventMsg(evt)
		case <-sub.Done():
			return nil
		}
	}
}
