package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/focusflow/internal/config"
	"github.com/fastygo/focusflow/repository"
	"github.com/fastygo/focusflow/repository/bolt"
	"github.com/fastygo/focusflow/usecase"
	"github.com/fastygo/focusflow/usecase/achievement"
	"github.com/fastygo/focusflow/usecase/progression"
	"github.com/fastygo/focusflow/usecase/tracker"
)

// OpenTracker opens the configured store and loads a tracker from it. The
// caller owns the returned store and must close it.
func OpenTracker(ctx context.Context, cfg *config.Config, effects usecase.Effects, logger *zap.Logger, observers ...usecase.Observer) (*tracker.Tracker, *bolt.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := bolt.Open(cfg.Store.Path, cfg.Store.Bucket, cfg.Store.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
	}

	repo := repository.NewStateRepository(store, cfg.Tracker.ProfileName, logger)
	tr, err := tracker.New(ctx, repo, effects, logger, tracker.Config{
		Rules:     progression.Rules{StreakBonusRate: cfg.Tracker.StreakBonusRate},
		Catalog:   achievement.Catalog(),
		Location:  cfg.Tracker.Location,
		QueueSize: cfg.Tracker.UnlockQueueSize,
	}, observers...)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return tr, store, nil
}
