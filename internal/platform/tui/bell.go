package tui

import (
	"io"
	"sync"
)

// BellNotifier rings the terminal bell on wrong answers.
type BellNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBellNotifier writes the bell to w, typically the terminal or SSH session.
func NewBellNotifier(w io.Writer) *BellNotifier {
	return &BellNotifier{w: w}
}

// PlayIncorrect implements round.Notifier.
func (b *BellNotifier) PlayIncorrect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.w == nil {
		return
	}
	//nolint:errcheck // Best-effort cue
	io.WriteString(b.w, "\a")
}
