// quiz is a photo trivia game for the terminal.
//
// Usage:
//
//	quiz list                       - List games with lock state and progress
//	quiz play <game>                - Play a game
//	quiz menu                       - Game index with settings and scoreboard
//	quiz scores [game]              - Show recent rounds and best scores
//	quiz settings                   - Show settings
//	quiz settings set <key> <value> - Change a setting
//	quiz serve                      - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>   - Config file (default: search ~/.quiz, ./configs)
//	--db <path>       - Database path (default: ~/.quiz/quiz.db)
//	--catalog <path>  - Catalog YAML (default: built-in catalog)
//	--assets <dir>    - Image directory (default: ~/.quiz/assets)
//	--fps <rate>      - UI refresh rate (default: 30)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/photo-quiz/internal/app"
	"github.com/vovakirdan/photo-quiz/internal/config"
	"github.com/vovakirdan/photo-quiz/internal/core"
)

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagCatalog string
	flagAssets  string
	flagFPS     int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Photo Quiz - Picture trivia in your terminal",
	Long: `Photo Quiz is a terminal trivia game. Each game asks picture questions
at the chosen difficulty; good rounds raise your progress and unlock the
next game.

Available commands:
  list      - Show all games with progress
  play      - Play a specific game directly
  menu      - Interactive game index
  scores    - View recent rounds and best scores
  settings  - View or change settings
  serve     - Start SSH server for remote play

Examples:
  quiz list
  quiz play animals
  quiz menu
  quiz settings set difficulty hard
  quiz serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default ~/.quiz/quiz.db)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Path to catalog YAML (default built-in)")
	rootCmd.PersistentFlags().StringVar(&flagAssets, "assets", "", "Directory with question images")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "UI refresh rate (frames per second)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = flagCatalog
	}
	if flags.Changed("assets") {
		cfg.AssetsDir = flagAssets
	}
	if flags.Changed("fps") {
		cfg.TickRate = flagFPS
	}
	return cfg, cfg.Validate()
}

// openWire builds the application from config and flags.
func openWire(cmd *cobra.Command) (*app.Wire, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.NewWire(cfg)
}

// mustOpenWire is openWire for commands that cannot continue without it.
func mustOpenWire(cmd *cobra.Command) *app.Wire {
	w, err := openWire(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return w
}

// runtimeConfig sizes the UI to the local terminal.
func runtimeConfig(w *app.Wire) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.TickRate = w.Config.TickRate
	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = width
		cfg.ScreenH = height
	}
	return cfg
}

// prefetch warms the image cache in the background until ctx ends.
func prefetch(ctx context.Context, w *app.Wire) {
	go func() {
		//nolint:errcheck // Failures are logged by the wire
		w.PrefetchImages(ctx)
	}()
}
