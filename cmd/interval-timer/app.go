package main

import (
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RubnSanchz/interval-timer/internal/background"
	"github.com/RubnSanchz/interval-timer/internal/clock"
	"github.com/RubnSanchz/interval-timer/internal/config"
	"github.com/RubnSanchz/interval-timer/internal/logging"
	"github.com/RubnSanchz/interval-timer/internal/storage"
)

// app holds the services shared by every command
type app struct {
	cfg       config.Config
	logger    *log.Logger
	logCloser io.Closer
	clock     clock.Clock
	store     *storage.FileTimerStateStore
	db        *sql.DB
	presets   *storage.SQLitePresetStore
	scheduler *background.LocalScheduler
}

// appOptions selects where log output goes besides the rotated file
type appOptions struct {
	Console io.Writer
	UILines chan<- string
}

func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := config.Load(viper.New(), cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, logCloser := logging.New(logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    opts.Console,
		UILines:    opts.UILines,
	})
	logger.Printf("App: %s %s (data dir %s)", config.AppName, cmd.Name(), cfg.DataDir)

	store, err := storage.NewFileTimerStateStore(cfg.DataDir, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	db, err := storage.OpenSQLite(storage.PresetsDBPath(cfg.DataDir))
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("open presets: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		clock:     clock.System{},
		store:     store,
		db:        db,
		presets:   storage.NewSQLitePresetStore(db, logger),
		scheduler: background.NewLocalScheduler(logger),
	}, nil
}

// deps are the projector collaborators for this process
func (a *app) deps() background.Deps {
	return background.Deps{
		Store:      a.store,
		Scheduler:  a.scheduler,
		Permission: background.StaticPermission(a.cfg.Notifications),
		Clock:      a.clock,
		Logger:     a.logger,
	}
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Printf("App: Failed to close presets db: %v", err)
	}
	if err := a.logCloser.Close(); err != nil {
		a.logger.Printf("App: Failed to close log file: %v", err)
	}
}
