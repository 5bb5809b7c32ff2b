package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sadopc/voyage/internal/config"
	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

// env is everything a command needs, opened from the configuration.
type env struct {
	Config config.Config
	Log    *slog.Logger
	Store  *store.Store
	Trip   *trip.Container
	Lookup *lookup.Client

	closers []io.Closer
}

func open(ctx context.Context, configFile string) (*env, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	e := &env{Config: cfg}
	if e.Log, err = e.openLog(); err != nil {
		return nil, err
	}

	e.Store, err = store.New(cfg.DBPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.closers = append(e.closers, e.Store)

	e.Trip = trip.NewContainer(e.Store, trip.Options{
		Range:          cfg.Range(),
		Region:         cfg.Region(),
		ExchangeRate:   cfg.Trip.ExchangeRate,
		BudgetLimitMYR: cfg.Trip.BudgetLimitMYR,
		Logger:         e.Log,
	})
	e.Trip.Load()

	var gen lookup.Generator
	if cfg.APIKey != "" {
		g, err := lookup.NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			e.Log.Warn("lookups disabled", "error", err)
		} else {
			gen = g
		}
	}
	e.Lookup = lookup.New(gen, lookup.Options{
		Location: cfg.Trip.Location,
		Region:   cfg.Region(),
		Timeout:  cfg.LookupTimeout,
		Logger:   e.Log,
	})

	e.Log.Info("voyage started", "db", cfg.DBPath, "online", e.Lookup.Online())
	return e, nil
}

// openLog sends JSON logs to the configured file. The terminal belongs to
// the UI.
func (e *env) openLog() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.Config.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	if err := os.MkdirAll(filepath.Dir(e.Config.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(e.Config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	e.closers = append(e.closers, f)

	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), nil
}

// Close releases resources in reverse order of opening.
func (e *env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}
