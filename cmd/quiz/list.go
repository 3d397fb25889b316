package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all games",
	Long:  `Shows every game in catalog order with its lock state, progress and high score.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	w := mustOpenWire(cmd)
	defer w.Close()

	games := w.Catalog.Games()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	maxNameLen := 4
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxNameLen = max(maxNameLen, len(g.Name))
	}

	fmt.Printf("  %-*s  %-*s  %-8s  %-8s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "State", "Progress", "Best")
	fmt.Printf("  %-*s  %-*s  %-8s  %-8s  %s\n", maxIDLen, "--", maxNameLen, "----", "-----", "--------", "----")

	for _, g := range games {
		rec, err := w.Progress.Get(g.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		state := "open"
		if playable, _ := w.Progress.Playable(g.ID); !playable {
			state = "locked"
		}
		fmt.Printf("  %-*s  %-*s  %-8s  %7d%%  %d\n",
			maxIDLen, g.ID, maxNameLen, g.Name, state, rec.Progress, rec.HighScore)
	}

	fmt.Println()
	fmt.Println("Run 'quiz play <id>' to play a game.")
}
