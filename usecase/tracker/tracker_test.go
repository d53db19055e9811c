package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/repository"
	"github.com/fastygo/focusflow/repository/memory"
	"github.com/fastygo/focusflow/usecase"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingEffects struct {
	mu     sync.Mutex
	calls  []string
	chimes []usecase.ChimeKind
}

func (r *recordingEffects) StartKeepAlive() { r.record("start") }
func (r *recordingEffects) StopKeepAlive()  { r.record("stop") }
func (r *recordingEffects) PlayChime(kind usecase.ChimeKind) {
	r.mu.Lock()
	r.chimes = append(r.chimes, kind)
	r.mu.Unlock()
}

func (r *recordingEffects) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

type recordingObserver struct {
	completed []domain.TaskCompletedEvent
	rolled    []domain.DayRolledOverEvent
	unlocked  []domain.AchievementUnlockedEvent
}

func (o *recordingObserver) TaskCompleted(ev domain.TaskCompletedEvent) {
	o.completed = append(o.completed, ev)
}

func (o *recordingObserver) DayRolledOver(ev domain.DayRolledOverEvent) {
	o.rolled = append(o.rolled, ev)
}

func (o *recordingObserver) AchievementUnlocked(ev domain.AchievementUnlockedEvent) {
	o.unlocked = append(o.unlocked, ev)
}

type fixture struct {
	tracker  *Tracker
	store    *memory.Store
	clock    *fakeClock
	effects  *recordingEffects
	observer *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.NewStore(), &fakeClock{now: time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)})
}

func newFixtureWithStore(t *testing.T, store *memory.Store, clock *fakeClock) *fixture {
	t.Helper()
	effects := &recordingEffects{}
	observer := &recordingObserver{}
	repo := repository.NewStateRepository(store, "", nil)
	tr, err := New(context.Background(), repo, effects, nil, Config{
		Location: time.UTC,
		Clock:    clock.Now,
	}, observer)
	require.NoError(t, err)
	return &fixture{tracker: tr, store: store, clock: clock, effects: effects, observer: observer}
}

func TestAddTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	simple, err := f.tracker.AddTask(ctx, "  water plants ", 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "water plants", simple.Title)
	assert.Nil(t, simple.Duration)
	assert.Nil(t, simple.RemainingSeconds)

	timed, err := f.tracker.AddTask(ctx, "deep work", 1, 30, 15)
	require.NoError(t, err)
	require.NotNil(t, timed.Duration)
	assert.InDelta(t, 90.25, *timed.Duration, 1e-9)
	assert.Equal(t, 5415, timed.Remaining())
	assert.False(t, timed.IsRunning)

	tasks := f.tracker.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, timed.ID, tasks[0].ID, "new tasks are prepended")

	_, err = f.tracker.AddTask(ctx, "   ", 0, 5, 0)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestToggleCheckSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tracker.AddTask(ctx, "journal", 0, 0, 0)
	require.NoError(t, err)

	checked, out, err := f.tracker.ToggleCheck(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, checked.IsChecked)
	assert.True(t, checked.Completed)
	assert.Equal(t, 1, checked.Streak)
	require.Len(t, out.Completed, 1)
	assert.Equal(t, 5, out.Completed[0].XPGained)
	assert.Equal(t, domain.CompletionByCheck, out.Completed[0].Source)

	unchecked, out, err := f.tracker.ToggleCheck(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, unchecked.IsChecked)
	assert.True(t, unchecked.Completed, "uncheck keeps the logical completion")
	assert.Equal(t, 0, unchecked.Streak)
	assert.Empty(t, out.Completed)
	assert.Equal(t, 5, f.tracker.Profile().XP, "uncheck never reverses XP")

	rechecked, out, err := f.tracker.ToggleCheck(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, rechecked.IsChecked)
	assert.Equal(t, 1, rechecked.Streak)
	require.Len(t, out.Completed, 1)

	stats := f.tracker.Stats()
	assert.Equal(t, 10, stats.XP, "XP is awarded on the check and again on the re-check")
	assert.Equal(t, 2, stats.LifetimeTasksCompleted)
	assert.Equal(t, 2, stats.DailyTasksCompleted)
	assert.Len(t, f.observer.completed, 2)
}

func TestUncheckOfCheckedButNotCompletedTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tracker.Restore(ctx, domain.Snapshot{
		Tasks: []domain.Task{{ID: "x", Title: "odd", CreatedAt: 1, IsChecked: true, Streak: 3}},
		User:  &domain.UserProfile{Name: "A", Level: 1},
	}))

	task, out, err := f.tracker.ToggleCheck(ctx, "x")
	require.NoError(t, err)
	assert.False(t, task.IsChecked)
	assert.False(t, task.Completed)
	assert.Equal(t, 3, task.Streak)
	assert.Empty(t, out.Completed)
	assert.Equal(t, 0, f.tracker.Profile().XP)
}

func TestTimerCompletesAfterLongSuspension(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tracker.AddTask(ctx, "sprint", 0, 0, 10)
	require.NoError(t, err)

	running, _, err := f.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, running.IsRunning)
	assert.Equal(t, []string{"start"}, f.effects.calls)

	f.clock.Advance(15 * time.Second)
	out, err := f.tracker.Reconcile(ctx)
	require.NoError(t, err)

	require.Len(t, out.Completed, 1)
	ev := out.Completed[0]
	assert.Equal(t, task.ID, ev.TaskID)
	assert.Equal(t, domain.CompletionByTimer, ev.Source)
	assert.Equal(t, 1, ev.Streak)

	done, err := f.tracker.Task(task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.True(t, done.IsChecked)
	assert.False(t, done.IsRunning)
	assert.Nil(t, done.TimerEndTime)
	assert.Equal(t, 0, done.Remaining())

	stats := f.tracker.Stats()
	assert.Equal(t, 10, stats.TotalSecondsSpent, "focus is capped at the timer end")
	assert.Equal(t, 1, stats.LifetimeTasksCompleted)
	assert.Equal(t, []string{"start", "stop"}, f.effects.calls)
	assert.Contains(t, f.effects.chimes, usecase.ChimeCompletion)

	earned := map[string]bool{}
	for _, a := range f.tracker.Achievements() {
		earned[a.ID] = a.EarnedAt != nil
	}
	assert.True(t, earned["first_step"])
	assert.True(t, earned["time_master"])

	again, err := f.tracker.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Completed, "a finished timer completes exactly once")
}

func TestPauseKeepsExactRemaining(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tracker.AddTask(ctx, "reading", 0, 1, 0)
	require.NoError(t, err)

	_, _, err = f.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)

	f.clock.Advance(2300 * time.Millisecond)
	paused, _, err := f.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)

	assert.False(t, paused.IsRunning)
	assert.Nil(t, paused.TimerEndTime)
	assert.Equal(t, 58, paused.Remaining())
	assert.Equal(t, 2, f.tracker.Stats().TotalSecondsSpent)

	f.clock.Advance(time.Hour)
	_, err = f.tracker.Reconcile(ctx)
	require.NoError(t, err)
	idle, err := f.tracker.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 58, idle.Remaining(), "a paused timer does not count down")
	assert.Equal(t, 2, f.tracker.Stats().TotalSecondsSpent)

	resumed, _, err := f.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, resumed.TimerEndTime)
	assert.Equal(t, f.clock.Now().Add(58*time.Second).UnixMilli(), *resumed.TimerEndTime)
}

func TestToggleTimerGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	simple, err := f.tracker.AddTask(ctx, "simple", 0, 0, 0)
	require.NoError(t, err)
	_, _, err = f.tracker.ToggleTimer(ctx, simple.ID)
	assert.ErrorIs(t, err, domain.ErrNoTimer)

	timed, err := f.tracker.AddTask(ctx, "timed", 0, 5, 0)
	require.NoError(t, err)
	_, _, err = f.tracker.ToggleCheck(ctx, timed.ID)
	require.NoError(t, err)

	same, out, err := f.tracker.ToggleTimer(ctx, timed.ID)
	require.NoError(t, err)
	assert.False(t, same.IsRunning, "completed tasks ignore the timer")
	assert.Empty(t, out.Completed)

	_, _, err = f.tracker.ToggleTimer(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTimerCompletionLevelsUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tracker.AddTask(ctx, "hour of focus", 1, 0, 0)
	require.NoError(t, err)
	_, _, err = f.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	out, err := f.tracker.Resume(ctx)
	require.NoError(t, err)

	require.Len(t, out.Completed, 1)
	assert.Equal(t, 60, out.Completed[0].XPGained)
	assert.True(t, out.Completed[0].LeveledUp)
	assert.Equal(t, 2, f.tracker.Profile().Level)
	assert.Equal(t, 0, f.tracker.Profile().XP)
	assert.Contains(t, f.effects.chimes, usecase.ChimeLevelUp)
	assert.Equal(t, 3600, f.tracker.Stats().TotalSecondsSpent)
}

func TestSyncDateAppliesRolloverOncePerTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tracker.Restore(ctx, domain.Snapshot{
		Tasks: []domain.Task{
			{ID: "kept", Title: "run", CreatedAt: 1, Completed: true, IsChecked: true, Streak: 4},
			{ID: "missed", Title: "read", CreatedAt: 1, Streak: 2},
		},
		DailyTasksCompleted:    1,
		LifetimeTasksCompleted: 30,
		User:                   &domain.UserProfile{Name: "A", Level: 1},
	}))

	out, err := f.tracker.SyncDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, out.RolledOver, "first run only records the marker")
	assert.Equal(t, "2026-04-20", f.tracker.LastProcessedDate())

	f.clock.Advance(24 * time.Hour)
	out, err = f.tracker.SyncDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, out.RolledOver)
	assert.Equal(t, domain.DayRolledOverEvent{DaysPassed: 1, From: "2026-04-20", To: "2026-04-21"}, *out.RolledOver)

	assertStreaks := func() {
		t.Helper()
		kept, err := f.tracker.Task("kept")
		require.NoError(t, err)
		missed, err := f.tracker.Task("missed")
		require.NoError(t, err)
		assert.Equal(t, 5, kept.Streak)
		assert.False(t, kept.IsChecked)
		assert.False(t, kept.Completed)
		assert.Equal(t, 0, missed.Streak)
	}
	assertStreaks()

	out, err = f.tracker.SyncDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, out.RolledOver, "the same transition is not applied twice")
	assertStreaks()

	stats := f.tracker.Stats()
	assert.Equal(t, 0, stats.DailyTasksCompleted)
	assert.Equal(t, 30, stats.LifetimeTasksCompleted)
	assert.Len(t, f.observer.rolled, 1)
}

func TestSyncDateGapResetsStreaks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tracker.Restore(ctx, domain.Snapshot{
		Tasks: []domain.Task{{ID: "a", Title: "a", CreatedAt: 1, Completed: true, IsChecked: true, Streak: 9}},
	}))
	_, err := f.tracker.SyncDate(ctx)
	require.NoError(t, err)

	f.clock.Advance(3 * 24 * time.Hour)
	out, err := f.tracker.SyncDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, out.RolledOver)
	assert.Equal(t, 3, out.RolledOver.DaysPassed)

	task, err := f.tracker.Task("a")
	require.NoError(t, err)
	assert.Equal(t, 0, task.Streak)
}

func TestRolloverStopsRunningTimers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.tracker.SyncDate(ctx)
	require.NoError(t, err)

	task, err := f.tracker.AddTask(ctx, "long", 20, 0, 0)
	require.NoError(t, err)
	_, _, err = f.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)

	f.clock.Advance(16 * time.Hour)
	_, err = f.tracker.SyncDate(ctx)
	require.NoError(t, err)

	got, err := f.tracker.Task(task.ID)
	require.NoError(t, err)
	assert.False(t, got.IsRunning)
	assert.Equal(t, 20*3600, got.Remaining(), "rollover resets the countdown to its full length")
	assert.Equal(t, 16*3600, f.tracker.Stats().TotalSecondsSpent, "focus up to the rollover is credited before the reset")
	assert.Equal(t, []string{"start", "stop"}, f.effects.calls)
}

func TestProcessNewDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tracker.AddTask(ctx, "a", 0, 0, 0)
	require.NoError(t, err)
	_, _, err = f.tracker.ToggleCheck(ctx, task.ID)
	require.NoError(t, err)

	out, err := f.tracker.ProcessNewDay(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, out.RolledOver)

	got, err := f.tracker.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Streak)
	assert.Equal(t, 0, f.tracker.Stats().DailyTasksCompleted)

	_, err = f.tracker.ProcessNewDay(ctx, 0)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tracker.AddTask(ctx, "temp", 0, 1, 0)
	require.NoError(t, err)
	_, _, err = f.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)

	require.NoError(t, f.tracker.DeleteTask(ctx, task.ID))
	assert.Empty(t, f.tracker.Tasks())
	assert.Equal(t, []string{"start", "stop"}, f.effects.calls)

	assert.ErrorIs(t, f.tracker.DeleteTask(ctx, task.ID), domain.ErrTaskNotFound)
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tracker.AddTask(ctx, "a", 0, 0, 0)
	require.NoError(t, err)

	boom := errors.New("disk full")
	f.store.FailWrites = boom

	_, _, err = f.tracker.ToggleCheck(ctx, task.ID)
	assert.ErrorIs(t, err, boom)

	got, err := f.tracker.Task(task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Equal(t, 0, f.tracker.Profile().XP)
	assert.Empty(t, f.observer.completed)
}

func TestAchievementsUnlockAndQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		task, err := f.tracker.AddTask(ctx, "t", 0, 0, 0)
		require.NoError(t, err)
		_, _, err = f.tracker.ToggleCheck(ctx, task.ID)
		require.NoError(t, err)
	}

	var ids []string
	for {
		ev, ok := f.tracker.NextUnlock()
		if !ok {
			break
		}
		ids = append(ids, ev.AchievementID)
	}
	assert.Equal(t, []string{"first_step", "daily_3", "perfect_day"}, ids)
	assert.Len(t, f.observer.unlocked, 3)
	assert.Equal(t, 3, f.tracker.Stats().EarnedAchievements)

	first := f.tracker.Achievements()[0]
	require.NotNil(t, first.EarnedAt)
	firstAt := *first.EarnedAt

	f.clock.Advance(time.Hour)
	_, err := f.tracker.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, firstAt, *f.tracker.Achievements()[0].EarnedAt, "re-evaluation never re-times an unlock")

	ev, err := f.tracker.UnlockNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "completed_5", ev.AchievementID)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newFixture(t)
	ctx := context.Background()
	a, err := src.tracker.AddTask(ctx, "timed", 0, 25, 0)
	require.NoError(t, err)
	b, err := src.tracker.AddTask(ctx, "simple", 0, 0, 0)
	require.NoError(t, err)
	_, _, err = src.tracker.ToggleCheck(ctx, b.ID)
	require.NoError(t, err)
	_, _, err = src.tracker.ToggleTimer(ctx, a.ID)
	require.NoError(t, err)
	src.clock.Advance(90 * time.Second)
	_, err = src.tracker.Reconcile(ctx)
	require.NoError(t, err)
	_, err = src.tracker.UpdateProfile(ctx, "Ada", "A")
	require.NoError(t, err)

	exported := src.tracker.Export()
	assert.Equal(t, domain.SnapshotVersion, exported.Version)
	raw, err := json.Marshal(exported)
	require.NoError(t, err)

	dst := newFixture(t)
	require.NoError(t, dst.tracker.Import(ctx, raw))

	assert.Equal(t, src.tracker.Tasks(), dst.tracker.Tasks())
	assert.Equal(t, src.tracker.Profile(), dst.tracker.Profile())
	srcStats, dstStats := src.tracker.Stats(), dst.tracker.Stats()
	assert.Equal(t, srcStats.TotalSecondsSpent, dstStats.TotalSecondsSpent)
	assert.Equal(t, srcStats.LifetimeTasksCompleted, dstStats.LifetimeTasksCompleted)
	assert.Equal(t, srcStats.DailyTasksCompleted, dstStats.DailyTasksCompleted)
	assert.Equal(t, exported, dst.tracker.Export())
}

func TestImportRejectsInvalidBackup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.tracker.AddTask(ctx, "keep me", 0, 0, 0)
	require.NoError(t, err)

	err = f.tracker.Import(ctx, []byte(`{"totalSecondsSpent": 5}`))
	assert.ErrorIs(t, err, domain.ErrInvalidBackup)

	err = f.tracker.Import(ctx, []byte(`not json`))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	require.Len(t, f.tracker.Tasks(), 1)
	assert.Equal(t, "keep me", f.tracker.Tasks()[0].Title)
}

func TestImportDefaultsMissingFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.tracker.Import(ctx, []byte(`{"tasks": []}`)))

	assert.Equal(t, domain.UserProfile{Name: domain.DefaultProfileName, Level: 1}, f.tracker.Profile())
	stats := f.tracker.Stats()
	assert.Zero(t, stats.TotalSecondsSpent)
	assert.Zero(t, stats.LifetimeTasksCompleted)
	assert.Zero(t, stats.DailyTasksCompleted)
	assert.Zero(t, stats.EarnedAchievements)
}

func TestStateSurvivesRestart(t *testing.T) {
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	first := newFixtureWithStore(t, store, clock)
	task, err := first.tracker.AddTask(ctx, "survivor", 0, 0, 30)
	require.NoError(t, err)
	_, _, err = first.tracker.ToggleTimer(ctx, task.ID)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)
	_, err = first.tracker.Reconcile(ctx)
	require.NoError(t, err)

	// process is suspended for a long time, then restarts
	clock.Advance(time.Hour)
	second := newFixtureWithStore(t, store, clock)
	assert.Equal(t, []string{"start"}, second.effects.calls, "keep-alive resumes for a persisted running timer")

	out, err := second.tracker.Resume(ctx)
	require.NoError(t, err)
	require.Len(t, out.Completed, 1)
	assert.Equal(t, task.ID, out.Completed[0].TaskID)
	assert.Equal(t, 30, second.tracker.Stats().TotalSecondsSpent)
}

func TestConcurrentOperationsStayConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			task, err := f.tracker.AddTask(ctx, "parallel", 0, 0, 0)
			if err != nil {
				t.Error(err)
				return
			}
			if _, _, err := f.tracker.ToggleCheck(ctx, task.ID); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := f.tracker.Reconcile(ctx); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	stats := f.tracker.Stats()
	assert.Equal(t, 20, stats.TotalTasks)
	assert.Equal(t, 20, stats.CompletedTasks)
	assert.Equal(t, 20, stats.LifetimeTasksCompleted)
	assert.Equal(t, 100, stats.ProgressPercentage)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.tracker.UpdateProfile(ctx, " Grace ", "G")
	require.NoError(t, err)
	assert.Equal(t, domain.UserProfile{Name: "Grace", Icon: "G", Level: 1}, profile)

	_, err = f.tracker.UpdateProfile(ctx, "", "x")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
