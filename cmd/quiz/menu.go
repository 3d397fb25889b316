package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/photo-quiz/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the quiz with the game index",
	Long: `Start the quiz in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a game.
After a round ends, you return to the index to play again.

Controls:
  Up/Down/j/k  - Navigate games
  Enter/Space  - Start game
  O            - Settings
  Tab          - Scoreboard
  Q            - Quit

Examples:
  quiz menu
  quiz menu --fps 60
  quiz menu --db ./quiz.db`,
	Run: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	w := mustOpenWire(cmd)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	prefetch(ctx, w)

	if err := tui.Run(w, runtimeConfig(w), "", tui.NewBellNotifier(os.Stdout)); err != nil {
		fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
		os.Exit(1)
	}
}
