package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/faizmokh/tugas/internal/config"
	"github.com/faizmokh/tugas/internal/files"
	"github.com/faizmokh/tugas/internal/logging"
	"github.com/faizmokh/tugas/internal/prefs"
	"github.com/faizmokh/tugas/internal/storage"
	"github.com/faizmokh/tugas/internal/tracker"
)

// App holds the dependencies shared by every command. The store is opened
// per command invocation and closed when it returns.
type App struct {
	files *files.Manager
	now   func() time.Time

	// logOutput overrides where subcommands log; empty means stderr.
	logOutput string

	cfg    config.Config
	logger *zap.Logger
	db     *storage.DB
	store  *tracker.Store
	prefs  *prefs.Prefs
}

// NewApp binds commands to the base directory managed by manager.
func NewApp(manager *files.Manager) *App {
	return &App{files: manager, now: time.Now}
}

// open loads config, builds the logger and opens the store. The TUI logs to
// a file because it owns the terminal.
func (a *App) open(ctx context.Context, interactive bool) error {
	if a.files == nil {
		return errors.New("files manager is nil")
	}
	if err := a.files.EnsureBaseDir(); err != nil {
		return err
	}

	cfg, err := config.Load(a.files.ConfigPath())
	if err != nil {
		return err
	}

	output := a.logOutput
	switch {
	case interactive:
		output = a.files.LogPath()
	case output == "":
		output = "stderr"
	}
	logger, err := logging.New(cfg.Log.Level, output)
	if err != nil {
		return err
	}

	db, err := storage.Open(a.files.Path(cfg.DBFile))
	if err != nil {
		_ = logger.Sync()
		return fmt.Errorf("open store: %w", err)
	}

	var seed []tracker.Assignment
	if cfg.SeedSamples {
		seed = tracker.SampleAssignments()
	}
	store, err := tracker.Open(ctx, db.Bucket(storage.StateBucket), tracker.Options{
		Classes:      cfg.Classes,
		UndoCapacity: cfg.UndoCapacity,
		Seed:         seed,
		Logger:       logger.Named("tracker"),
	})
	if err != nil {
		_ = db.Close()
		_ = logger.Sync()
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.db = db
	a.store = store
	a.prefs = prefs.New(db.Bucket(storage.PrefsBucket), logger.Named("prefs"))
	return nil
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	a.db = nil
	a.store = nil
	a.prefs = nil
}

func (a *App) today() time.Time {
	return a.now()
}
