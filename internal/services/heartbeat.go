package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/focusflow/usecase/tracker"
)

// Clock is the subset of the tracker the heartbeat drives.
type Clock interface {
	Reconcile(ctx context.Context) (tracker.Outcome, error)
	SyncDate(ctx context.Context) (tracker.Outcome, error)
}

// HeartbeatConfig controls how often timers are reconciled and the date is checked.
type HeartbeatConfig struct {
	TickInterval      time.Duration
	DateCheckInterval time.Duration
}

// Heartbeat schedules the periodic timer reconciliation and day-rollover checks.
// Ticks may be skipped or delayed arbitrarily; every pass is computed from
// wall-clock timestamps, so a late tick only defers the update.
type Heartbeat struct {
	clock  Clock
	logger *zap.Logger
	cron   *cron.Cron
	cfg    HeartbeatConfig

	mu      sync.Mutex
	ticks   uint64
	running bool
}

func NewHeartbeat(clock Clock, logger *zap.Logger, cfg HeartbeatConfig) (*Heartbeat, error) {
	if cfg.TickInterval < time.Second {
		cfg.TickInterval = time.Second
	}
	if cfg.DateCheckInterval < time.Second {
		cfg.DateCheckInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hb := &Heartbeat{
		clock:  clock,
		logger: logger.With(zap.String("component", "heartbeat")),
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}

	if _, err := hb.cron.AddFunc(every(cfg.TickInterval), hb.tick); err != nil {
		return nil, fmt.Errorf("schedule tick: %w", err)
	}
	if _, err := hb.cron.AddFunc(every(cfg.DateCheckInterval), hb.checkDate); err != nil {
		return nil, fmt.Errorf("schedule date check: %w", err)
	}
	return hb, nil
}

func every(d time.Duration) string {
	return fmt.Sprintf("@every %ds", int(d.Seconds()))
}

// Start launches the scheduler.
func (hb *Heartbeat) Start() {
	if hb == nil || hb.cron == nil {
		return
	}
	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.running {
		return
	}
	hb.running = true
	hb.cron.Start()
	hb.logger.Info("heartbeat started",
		zap.Duration("tick_interval", hb.cfg.TickInterval),
		zap.Duration("date_check_interval", hb.cfg.DateCheckInterval))
}

// Stop waits for an in-flight tick, bounded by ctx.
func (hb *Heartbeat) Stop(ctx context.Context) error {
	if hb == nil || hb.cron == nil {
		return nil
	}
	hb.mu.Lock()
	if !hb.running {
		hb.mu.Unlock()
		return nil
	}
	hb.running = false
	hb.mu.Unlock()

	stopCtx := hb.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	hb.logger.Info("heartbeat stopped")
	return nil
}

// Ticks returns the number of reconciliation passes run so far.
func (hb *Heartbeat) Ticks() uint64 {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return hb.ticks
}

func (hb *Heartbeat) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), hb.cfg.TickInterval)
	defer cancel()
	hb.Tick(ctx)
}

// Tick runs one reconciliation pass synchronously.
func (hb *Heartbeat) Tick(ctx context.Context) {
	out, err := hb.clock.Reconcile(ctx)
	hb.mu.Lock()
	hb.ticks++
	hb.mu.Unlock()
	if err != nil {
		hb.logger.Error("timer reconcile failed", zap.Error(err))
		return
	}
	if len(out.Completed) > 0 {
		hb.logger.Debug("timers finished", zap.Int("count", len(out.Completed)))
	}
}

func (hb *Heartbeat) checkDate() {
	ctx, cancel := context.WithTimeout(context.Background(), hb.cfg.DateCheckInterval)
	defer cancel()
	hb.CheckDate(ctx)
}

// CheckDate runs one day-rollover check synchronously.
func (hb *Heartbeat) CheckDate(ctx context.Context) {
	if _, err := hb.clock.SyncDate(ctx); err != nil {
		hb.logger.Error("date check failed", zap.Error(err))
	}
}
