// Package app builds the dependency graph shared by the CLI commands, the
// local TUI and the SSH server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/config"
	"github.com/vovakirdan/photo-quiz/internal/core"
	"github.com/vovakirdan/photo-quiz/internal/imagecache"
	"github.com/vovakirdan/photo-quiz/internal/progress"
	"github.com/vovakirdan/photo-quiz/internal/round"
	"github.com/vovakirdan/photo-quiz/internal/settings"
	"github.com/vovakirdan/photo-quiz/internal/storage"
)

// Wire bundles the stores and services of one running application.
type Wire struct {
	Config   config.Config
	Logger   *log.Logger
	Catalog  *catalog.Catalog
	DB       *storage.Store // nil when the database could not be opened
	KV       settings.KV
	Progress *progress.Store
	Images   *imagecache.Cache
	Loader   imagecache.Loader
}

// Option configures NewWire.
type Option func(*wireOptions)

type wireOptions struct {
	logOut  io.Writer
	catalog *catalog.Catalog
}

// WithLogOutput sends log output to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *wireOptions) {
		o.logOut = w
	}
}

// WithCatalog uses c instead of loading one from cfg.CatalogPath.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *wireOptions) {
		o.catalog = c
	}
}

// NewLogger creates the application logger.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "quiz",
	})
	logger.SetLevel(level)
	return logger
}

// NewWire constructs the dependency graph from cfg.
// A database that cannot be opened degrades to in-memory progress and
// settings with a warning.
func NewWire(cfg config.Config, opts ...Option) (*Wire, error) {
	o := wireOptions{logOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := NewLogger(o.logOut, cfg.Level())

	cat := o.catalog
	if cat == nil {
		path, err := core.ExpandHome(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("app: catalog path: %w", err)
		}
		cat, err = catalog.Load(path)
		if err != nil {
			return nil, fmt.Errorf("app: cannot load catalog: %w", err)
		}
	}

	w := &Wire{
		Config:  cfg,
		Logger:  logger,
		Catalog: cat,
		KV:      settings.NewMemoryKV(),
		Images:  imagecache.New(cfg.ImageCacheBytes()),
		Loader:  newAssetLoader(cfg.AssetsDir, logger),
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		// Continue without storage - quiz still works
		logger.Warn("storage unavailable, progress will not be saved", "path", cfg.DBPath, "error", err)
	} else {
		w.DB = db
		w.KV = db
	}

	prefs, err := settings.Load(w.KV)
	if err != nil {
		logger.Warn("could not read settings, using defaults", "error", err)
	}

	storeOpts := []progress.Option{progress.WithLogger(logger.WithPrefix("progress"))}
	if w.DB != nil {
		storeOpts = append(storeOpts, progress.WithPersister(w.DB))
	}
	w.Progress, err = progress.NewStore(cat.Games(), prefs.GameLockEnabled, storeOpts...)
	if err != nil && w.DB != nil {
		logger.Warn("could not load saved progress, starting fresh", "error", err)
		w.Progress, err = progress.NewStore(cat.Games(), prefs.GameLockEnabled,
			progress.WithLogger(logger.WithPrefix("progress")))
	}
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("app: cannot build progress store: %w", err)
	}

	return w, nil
}

// newAssetLoader reads images from dir, or finds nothing if dir is unusable.
func newAssetLoader(dir string, logger *log.Logger) imagecache.Loader {
	path, err := core.ExpandHome(dir)
	if err == nil && path != "" {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			return imagecache.NewFSLoader(os.DirFS(path))
		}
	}
	logger.Debug("asset directory not available, images disabled", "dir", dir)
	return imagecache.NewFSLoader(nil)
}

// Close releases the database and ends progress subscriptions.
func (w *Wire) Close() error {
	if w.Progress != nil {
		w.Progress.Close()
	}
	if w.DB != nil {
		return w.DB.Close()
	}
	return nil
}

// Settings reads the current settings.
func (w *Wire) Settings() settings.Settings {
	s, err := settings.Load(w.KV)
	if err != nil {
		w.Logger.Warn("could not read settings, using defaults", "error", err)
	}
	return s
}

// SaveSettings stores s and applies a lock mode change to the progress store.
func (w *Wire) SaveSettings(s settings.Settings) error {
	if err := settings.Save(w.KV, s); err != nil {
		return err
	}
	if s.GameLockEnabled != w.Progress.LockEnabled() {
		if err := w.Progress.SetLockMode(s.GameLockEnabled); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSetting parses and stores one setting.
func (w *Wire) UpdateSetting(key, value string) (settings.Settings, error) {
	s := w.Settings()
	if err := s.Set(key, value); err != nil {
		return s, err
	}
	return s, w.SaveSettings(s)
}

// ErrLocked is returned when starting a game that lock mode keeps closed.
var ErrLocked = fmt.Errorf("game is locked: %w", core.ErrInvalidState)

// NewRound starts a round of gameID with the current settings.
func (w *Wire) NewRound(gameID string, opts ...round.Option) (*round.Engine, error) {
	game, err := w.Catalog.Game(gameID)
	if err != nil {
		return nil, err
	}
	playable, err := w.Progress.Playable(gameID)
	if err != nil {
		return nil, err
	}
	if !playable {
		return nil, fmt.Errorf("app: %s: %w", game.Name, ErrLocked)
	}

	cfg := round.ConfigFromSettings(w.Settings())
	reporter := &SessionReporter{
		Progress:   w.Progress,
		Difficulty: cfg.Difficulty,
		Logger:     w.Logger,
	}
	if w.DB != nil {
		reporter.Sessions = w.DB
	}

	opts = append([]round.Option{round.WithLogger(w.Logger.WithPrefix("round"))}, opts...)
	return round.New(game, cfg, reporter, opts...)
}

// PrefetchImages warms the image cache with every image the catalog uses.
func (w *Wire) PrefetchImages(ctx context.Context) (imagecache.PrefetchResult, error) {
	keys := w.Catalog.ImageKeys()
	res, err := imagecache.Prefetch(ctx, w.Images, w.Loader, keys, w.Config.PrefetchWorkers)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.Logger.Warn("image prefetch failed", "error", err)
	}
	w.Logger.Debug("image prefetch done",
		"loaded", res.Loaded, "cached", res.Cached, "missing", res.Missing)
	return res, err
}

// SessionSaver stores finished rounds in the session history.
type SessionSaver interface {
	SaveSession(entry storage.SessionEntry) (string, error)
}

// SessionReporter records a finished round in the progress store and the
// session history.
type SessionReporter struct {
	Progress   *progress.Store
	Sessions   SessionSaver // Optional
	Difficulty catalog.Difficulty
	Logger     *log.Logger
}

var _ round.Reporter = (*SessionReporter)(nil)

// RecordSessionResult implements round.Reporter.
func (r *SessionReporter) RecordSessionResult(gameID string, score, questionCount int) (progress.Outcome, error) {
	out, err := r.Progress.RecordSessionResult(gameID, score, questionCount)
	if err != nil && out.Record.GameID == "" {
		return out, err
	}

	if r.Sessions != nil {
		_, saveErr := r.Sessions.SaveSession(storage.SessionEntry{
			GameID:        gameID,
			Difficulty:    r.Difficulty.String(),
			Score:         score,
			QuestionCount: questionCount,
		})
		if saveErr != nil && r.Logger != nil {
			r.Logger.Warn("could not save session history", "game", gameID, "error", saveErr)
		}
	}
	return out, err
}
