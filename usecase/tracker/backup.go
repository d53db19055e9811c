package tracker

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/usecase/timer"
)

// Export returns a backup of the current state.
func (t *Tracker) Export() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.SnapshotOf(t.state)
}

// Import parses and restores a backup. An invalid document leaves the current
// state untouched.
func (t *Tracker) Import(ctx context.Context, data []byte) error {
	snap, err := domain.ParseSnapshot(data)
	if err != nil {
		return err
	}
	return t.Restore(ctx, *snap)
}

// Restore replaces the whole state with snap. Pending unlock notifications
// are discarded; achievements are re-evaluated on the next step.
func (t *Tracker) Restore(ctx context.Context, snap domain.Snapshot) error {
	t.mu.Lock()
	now := t.clock()
	next := snap.Apply(t.state, now)
	next.Profile = normalizeProfile(next.Profile)
	if err := t.repo.Save(ctx, &next); err != nil {
		t.mu.Unlock()
		return err
	}
	t.state = next

	running := timer.Running(next.Tasks) > 0
	startKeepAlive := running && !t.keepAlive
	stopKeepAlive := !running && t.keepAlive
	t.keepAlive = running
	t.mu.Unlock()

	t.unlocks.Reset()
	switch {
	case startKeepAlive:
		t.effects.StartKeepAlive()
	case stopKeepAlive:
		t.effects.StopKeepAlive()
	}
	t.logger.Info("backup restored",
		zap.Int("tasks", len(next.Tasks)),
		zap.String("version", snap.Version))
	return nil
}
