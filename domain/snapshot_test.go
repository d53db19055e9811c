package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot(t *testing.T) {
	t.Run("requires tasks", func(t *testing.T) {
		_, err := ParseSnapshot([]byte(`{"user": {"name": "x", "level": 3, "xp": 1}}`))
		assert.True(t, errors.Is(err, ErrInvalidBackup))

		_, err = ParseSnapshot([]byte(`{"tasks": null}`))
		assert.True(t, errors.Is(err, ErrInvalidBackup))
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := ParseSnapshot([]byte(`{"tasks": [`))
		assert.True(t, IsDomainError(err, ErrCodeInvalid))
	})

	t.Run("defaults optional fields", func(t *testing.T) {
		snap, err := ParseSnapshot([]byte(`{"tasks": []}`))
		require.NoError(t, err)
		assert.Empty(t, snap.Tasks)
		assert.NotNil(t, snap.Achievements)
		require.NotNil(t, snap.User)
		assert.Equal(t, UserProfile{Name: DefaultProfileName, Level: 1}, *snap.User)
	})

	t.Run("keeps provided fields", func(t *testing.T) {
		snap, err := ParseSnapshot([]byte(`{
			"tasks": [{"id": "a", "title": "Run", "completed": true, "isChecked": true, "createdAt": 10, "streak": 4}],
			"totalSecondsSpent": 120,
			"lifetimeTasksCompleted": 7,
			"dailyTasksCompleted": 2,
			"achievements": {"first_step": 99},
			"user": {"name": "Ada", "level": 4, "xp": 12},
			"version": "1.2"
		}`))
		require.NoError(t, err)
		require.Len(t, snap.Tasks, 1)
		assert.Equal(t, 4, snap.Tasks[0].Streak)
		assert.Equal(t, 120, snap.TotalSecondsSpent)
		assert.Equal(t, int64(99), snap.Achievements["first_step"])
		assert.Equal(t, "Ada", snap.User.Name)
	})
}

func TestSnapshotApply(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	base := NewState("")
	base.LastProcessedDate = "2026-04-20"
	base.FocusCarry = 400 * time.Millisecond

	snap := Snapshot{
		Tasks:                  []Task{{Title: "", Streak: -2}},
		TotalSecondsSpent:      -5,
		LifetimeTasksCompleted: 3,
		Achievements:           UnlockMap{"first_step": 1},
		User:                   &UserProfile{Name: "", Level: 0, XP: -1},
	}
	got := snap.Apply(base, now)

	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Untitled", got.Tasks[0].Title)
	assert.Equal(t, 0, got.Tasks[0].Streak)
	assert.Equal(t, 0, got.Counters.TotalSecondsSpent)
	assert.Equal(t, 3, got.Counters.LifetimeTasksCompleted)
	assert.Equal(t, UserProfile{Name: DefaultProfileName, Level: 1}, got.Profile)
	assert.Equal(t, "2026-04-20", got.LastProcessedDate)
	assert.Equal(t, now, got.LastReconciledAt)
	assert.Zero(t, got.FocusCarry)

	snap.Achievements["later"] = 2
	_, leaked := got.Achievements["later"]
	assert.False(t, leaked)
}

func TestSnapshotOf(t *testing.T) {
	s := NewState("Ada")
	snap := SnapshotOf(s)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.NotNil(t, snap.Tasks)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Ada", snap.User.Name)
}

func TestBackupFileName(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "focusflow-backup-2026-03-07.json", BackupFileName(at))
}
