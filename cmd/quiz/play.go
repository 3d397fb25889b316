package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start a round of the specified game at the current difficulty.

Controls:
  1-9          - Answer with that option
  Arrows/Enter - Highlight and submit an option
  N/Enter      - Next question after feedback
  ?            - Show hint
  T            - Toggle hints for this round
  R            - Play again (after game over)
  B/Esc        - Back to the game index
  Q/Ctrl+C     - Quit

Examples:
  quiz play animals
  quiz play landmarks --db ./quiz.db`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	w := mustOpenWire(cmd)
	defer w.Close()

	if _, err := w.Catalog.Game(gameID); err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'quiz list' to see available games.")
		os.Exit(1)
	}
	if playable, _ := w.Progress.Playable(gameID); !playable {
		fmt.Fprintf(os.Stderr, "Error: %v\n", fmt.Errorf("%s: %w", gameID, app.ErrLocked))
		fmt.Fprintln(os.Stderr, "Raise the previous game's progress to 50% or disable game lock.")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	prefetch(ctx, w)

	if err := tui.Run(w, runtimeConfig(w), gameID, tui.NewBellNotifier(os.Stdout)); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
