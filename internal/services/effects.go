package services

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fastygo/focusflow/usecase"
)

// LogEffects renders side effects as log lines. A headless process has no
// screen to keep awake or speaker to chime, but the transitions stay visible.
type LogEffects struct {
	logger *zap.Logger
	awake  atomic.Bool
	chimes atomic.Int64
}

func NewLogEffects(logger *zap.Logger) *LogEffects {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogEffects{logger: logger.With(zap.String("component", "effects"))}
}

func (e *LogEffects) StartKeepAlive() {
	if e.awake.CompareAndSwap(false, true) {
		e.logger.Info("keep-alive acquired")
	}
}

func (e *LogEffects) StopKeepAlive() {
	if e.awake.CompareAndSwap(true, false) {
		e.logger.Info("keep-alive released")
	}
}

func (e *LogEffects) PlayChime(kind usecase.ChimeKind) {
	e.chimes.Add(1)
	e.logger.Debug("chime", zap.String("kind", string(kind)))
}

// Awake reports whether a keep-alive is currently held.
func (e *LogEffects) Awake() bool {
	return e.awake.Load()
}

// Chimes counts every chime requested so far.
func (e *LogEffects) Chimes() int64 {
	return e.chimes.Load()
}

var _ usecase.Effects = (*LogEffects)(nil)
