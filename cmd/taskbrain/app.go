package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskbrain/internal/assistant"
	"github.com/sandeepkv93/taskbrain/internal/config"
	"github.com/sandeepkv93/taskbrain/internal/learner"
	"github.com/sandeepkv93/taskbrain/internal/logging"
	"github.com/sandeepkv93/taskbrain/internal/metrics"
	"github.com/sandeepkv93/taskbrain/internal/storage"
	"github.com/sandeepkv93/taskbrain/internal/tracker"
)

// app holds the dependencies every subcommand shares.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	repo     *storage.SQLiteRepository
	metrics  *metrics.Recorder
	service  *assistant.Service
	location *time.Location
}

// newApp opens storage and builds the assistant. When replay is true the
// learner is warmed from the task log before returning.
func newApp(ctx context.Context, cfg *config.Config, replay bool) (*app, error) {
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	loc, err := cfg.Learner.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid learner timezone: %w", err)
	}

	repo, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open task log: %w", err)
	}

	tr, err := newTracker(cfg.Tracker, logger)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	rec := metrics.New()
	l := learner.New(learner.NewStore(), learner.WithLocation(loc), learner.WithLogger(logger))
	svc := assistant.New(l, tr,
		assistant.WithRepository(repo),
		assistant.WithMetrics(rec),
		assistant.WithLogger(logger),
		assistant.WithLocation(loc),
	)

	a := &app{cfg: cfg, logger: logger, repo: repo, metrics: rec, service: svc, location: loc}
	logger.Info(ctx, "taskbrain initialized",
		zap.String("tracker", cfg.Tracker.Kind),
		zap.String("storage", cfg.Storage.Path),
		zap.String("timezone", loc.String()))

	if replay {
		if _, err := svc.Replay(ctx, cfg.Learner.ReplayLimit); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to replay task log: %w", err)
		}
	}
	return a, nil
}

func newTracker(cfg config.TrackerConfig, logger *logging.Logger) (tracker.Tracker, error) {
	switch cfg.Kind {
	case config.TrackerNotion:
		nt, err := tracker.NewNotionTracker(tracker.NotionConfig{
			Token:         cfg.NotionToken,
			ParentPageID:  cfg.ParentPageID,
			DatabaseTitle: cfg.DatabaseTitle,
			BaseURL:       cfg.BaseURL,
			RatePerSecond: cfg.RatePerSecond,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create notion tracker: %w", err)
		}
		return nt, nil
	case config.TrackerLocal, "":
		return tracker.NewLocalTracker(), nil
	default:
		return nil, fmt.Errorf("unknown tracker kind %q", cfg.Kind)
	}
}

// now returns the current time in the learner's timezone.
func (a *app) now() time.Time {
	return time.Now().In(a.location)
}

func (a *app) Close() error {
	return errors.Join(a.repo.Close(), a.logger.Sync())
}
