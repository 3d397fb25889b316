package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/photo-quiz/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show settings",
	Long: `Prints the stored settings.

Keys:
  difficulty       Easy, Medium or Hard
  soundEnabled     Ring the bell on wrong answers
  gameLockEnabled  Lock games until the previous one reaches 50%
  hintsEnabled     Offer hints during rounds
  timerEnabled     15 second limit per question

Examples:
  quiz settings
  quiz settings set difficulty hard
  quiz settings set gameLockEnabled off`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	Run:   runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettings(cmd *cobra.Command, _ []string) {
	w := mustOpenWire(cmd)
	defer w.Close()

	printSettings(w.Settings())
}

func runSettingsSet(cmd *cobra.Command, args []string) {
	w := mustOpenWire(cmd)
	defer w.Close()

	s, err := w.UpdateSetting(args[0], args[1])
	if err != nil {
		w.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Valid keys: %s\n", strings.Join(settings.Keys(), ", "))
		os.Exit(1)
	}
	if w.DB == nil {
		fmt.Fprintln(os.Stderr, "Warning: database unavailable, the change lasts only for this run")
	}
	printSettings(s)
}

func printSettings(s settings.Settings) {
	for _, key := range settings.Keys() {
		fmt.Printf("  %-16s  %s\n", key, s.Get(key))
	}
}
