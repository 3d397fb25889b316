package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/catalog"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show recent rounds and best scores",
	Long: `Without arguments, summarizes every game. With a game ID, lists its
most recent rounds and best score.

Examples:
  quiz scores
  quiz scores animals
  quiz scores animals --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rounds to show")
}

func runScores(cmd *cobra.Command, args []string) {
	w := mustOpenWire(cmd)
	defer w.Close()

	if w.DB == nil {
		fmt.Fprintln(os.Stderr, "Error: session history is unavailable without a database")
		os.Exit(1)
	}

	if len(args) == 0 {
		printSummary(w)
		return
	}

	game, err := w.Catalog.Game(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'quiz list' to see available games.")
		os.Exit(1)
	}
	printGameScores(w, game)
}

// printSummary prints one line of stats per game.
func printSummary(w *app.Wire) {
	stats, err := w.DB.GetAllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Scores")
	fmt.Println()
	fmt.Printf("  %-16s  %-6s  %-5s  %-7s  %-8s  %s\n", "Game", "Rounds", "Best", "Average", "Progress", "Last played")
	fmt.Printf("  %-16s  %-6s  %-5s  %-7s  %-8s  %s\n", "----", "------", "----", "-------", "--------", "-----------")

	for _, g := range w.Catalog.Games() {
		rec, _ := w.Progress.Get(g.ID)
		st, ok := stats[g.ID]
		if !ok {
			fmt.Printf("  %-16s  %-6d  %-5d  %-7s  %7d%%  %s\n", g.Name, 0, rec.HighScore, "-", rec.Progress, "never")
			continue
		}
		fmt.Printf("  %-16s  %-6d  %-5d  %-7.1f  %7d%%  %s\n",
			g.Name, st.GamesCount, rec.HighScore, st.AvgScore, rec.Progress,
			st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}

// printGameScores prints the recent rounds of one game.
func printGameScores(w *app.Wire, game catalog.Game) {
	sessions, err := w.DB.RecentSessions(game.ID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Recent Rounds - %s\n", game.Name)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'quiz play %s' to set the first high score!\n", game.ID)
		return
	}

	fmt.Printf("  %-16s  %-8s  %-10s  %s\n", "Date", "Score", "Difficulty", "ID")
	fmt.Printf("  %-16s  %-8s  %-10s  %s\n", "----", "-----", "----------", "--")
	for _, s := range sessions {
		fmt.Printf("  %-16s  %-8s  %-10s  %s\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d/%d", s.Score, s.QuestionCount),
			s.Difficulty, s.ID)
	}

	fmt.Println()
	if rec, err := w.Progress.Get(game.ID); err == nil {
		fmt.Printf("Best: %d  |  Progress: %d%%\n", rec.HighScore, rec.Progress)
	}
}
