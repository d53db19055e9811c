// Package tracker owns the task list, counters, profile and achievement
// unlocks, and applies every mutation as one atomic, persisted step.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/repository"
	"github.com/fastygo/focusflow/usecase"
	"github.com/fastygo/focusflow/usecase/achievement"
	"github.com/fastygo/focusflow/usecase/daymonitor"
	"github.com/fastygo/focusflow/usecase/progression"
	"github.com/fastygo/focusflow/usecase/streak"
	"github.com/fastygo/focusflow/usecase/timer"
)

// Config tunes a Tracker. Zero values select the defaults; a zero Rules
// therefore means the default streak bonus rate.
type Config struct {
	Rules     progression.Rules
	Catalog   []domain.Achievement
	Location  *time.Location
	QueueSize int
	Clock     func() time.Time
}

// Outcome collects the events produced by one step.
type Outcome struct {
	Completed  []domain.TaskCompletedEvent
	RolledOver *domain.DayRolledOverEvent
	Unlocked   []domain.AchievementUnlockedEvent
}

// Tracker is safe for concurrent use. Each exported mutation holds the lock
// for the whole compute-persist-swap sequence.
type Tracker struct {
	mu        sync.Mutex
	state     domain.State
	keepAlive bool

	repo      repository.StateRepository
	rules     progression.Rules
	evaluator *achievement.Evaluator
	detector  daymonitor.Detector
	unlocks   *achievement.Queue
	effects   usecase.Effects
	observers []usecase.Observer
	clock     func() time.Time
	logger    *zap.Logger
}

// New loads the persisted state and returns a ready tracker.
func New(ctx context.Context, repo repository.StateRepository, effects usecase.Effects, logger *zap.Logger, cfg Config, observers ...usecase.Observer) (*Tracker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if effects == nil {
		effects = usecase.NopEffects{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Rules == (progression.Rules{}) {
		cfg.Rules = progression.DefaultRules()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = achievement.Catalog()
	}
	evaluator, err := achievement.NewEvaluator(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("achievement catalog: %w", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	state := loaded.Clone()
	state.Profile = normalizeProfile(state.Profile)

	t := &Tracker{
		state:     state,
		keepAlive: timer.Running(state.Tasks) > 0,
		repo:      repo,
		rules:     cfg.Rules,
		evaluator: evaluator,
		detector:  daymonitor.NewDetector(cfg.Location),
		unlocks:   achievement.NewQueue(cfg.QueueSize),
		effects:   effects,
		observers: observers,
		clock:     cfg.Clock,
		logger:    logger.With(zap.String("component", "tracker")),
	}
	if t.keepAlive {
		t.effects.StartKeepAlive()
	}
	return t, nil
}

// Subscribe registers an observer for subsequent steps.
func (t *Tracker) Subscribe(obs usecase.Observer) {
	if obs == nil {
		return
	}
	t.mu.Lock()
	t.observers = append(t.observers, obs)
	t.mu.Unlock()
}

// mutation edits the working copy of the state. It returns whether the copy
// must be persisted.
type mutation func(s *domain.State, now time.Time, out *Outcome) (bool, error)

// step runs one atomic update: reconcile timers, apply fn, re-evaluate
// achievements, persist, swap. Events and effects fire after the lock is
// released.
func (t *Tracker) step(ctx context.Context, fn mutation) (Outcome, error) {
	var out Outcome

	t.mu.Lock()
	now := t.clock()
	next := t.state.Clone()

	dirty := t.reconcile(&next, now, &out)
	if fn != nil {
		changed, err := fn(&next, now, &out)
		if err != nil {
			t.mu.Unlock()
			return Outcome{}, err
		}
		dirty = dirty || changed
	}

	earned, unlocked := t.evaluator.Evaluate(achievement.FactsFrom(next), next.Achievements, now)
	if len(unlocked) > 0 {
		next.Achievements = earned
		out.Unlocked = append(out.Unlocked, unlocked...)
		dirty = true
	}

	if dirty {
		if err := t.repo.Save(ctx, &next); err != nil {
			t.mu.Unlock()
			return Outcome{}, err
		}
	}
	t.state = next

	running := timer.Running(next.Tasks) > 0
	startKeepAlive := running && !t.keepAlive
	stopKeepAlive := !running && t.keepAlive
	t.keepAlive = running
	observers := append([]usecase.Observer(nil), t.observers...)
	t.mu.Unlock()

	switch {
	case startKeepAlive:
		t.effects.StartKeepAlive()
	case stopKeepAlive:
		t.effects.StopKeepAlive()
	}
	t.dispatch(out, observers)
	return out, nil
}

// reconcile runs one timer pass on s and routes finished timers through the
// completion path. It reports whether anything worth persisting changed.
func (t *Tracker) reconcile(s *domain.State, now time.Time, out *Outcome) bool {
	before := timer.Running(s.Tasks)
	engine, pass := timer.Engine{Last: s.LastReconciledAt, Carry: s.FocusCarry}.Reconcile(s.Tasks, now)
	if pass.Stale {
		return false
	}
	s.Tasks = pass.Tasks
	s.LastReconciledAt = engine.Last
	s.FocusCarry = engine.Carry
	s.Counters.TotalSecondsSpent += pass.FocusSeconds

	for _, id := range pass.Finished {
		if idx := s.FindTask(id); idx >= 0 {
			t.complete(s, idx, domain.CompletionByTimer, now, out)
		}
	}
	return before > 0
}

// complete applies the shared completion path: XP, streak, counters.
// XP is computed from the streak the task carried before this completion.
func (t *Tracker) complete(s *domain.State, idx int, source domain.CompletionSource, now time.Time, out *Outcome) {
	task := s.Tasks[idx]
	res := t.rules.ApplyCompletion(s.Profile, task)

	task.Completed = true
	task.IsChecked = true
	task.StopTimer()
	task.Streak = max(task.Streak, 0) + 1
	s.Tasks[idx] = task

	s.Profile = res.Profile
	s.Counters.LifetimeTasksCompleted++
	s.Counters.DailyTasksCompleted++

	out.Completed = append(out.Completed, domain.TaskCompletedEvent{
		TaskID:    task.ID,
		XPGained:  res.XPGained,
		Streak:    task.Streak,
		LeveledUp: res.LeveledUp,
		Level:     res.Profile.Level,
		Source:    source,
		At:        now,
	})
}

func (t *Tracker) dispatch(out Outcome, observers []usecase.Observer) {
	for _, ev := range out.Completed {
		t.logger.Info("task completed",
			zap.String("task_id", ev.TaskID),
			zap.String("source", string(ev.Source)),
			zap.Int("xp_gained", ev.XPGained),
			zap.Int("streak", ev.Streak),
			zap.Bool("leveled_up", ev.LeveledUp))
		t.effects.PlayChime(usecase.ChimeCompletion)
		if ev.LeveledUp {
			t.logger.Info("level up", zap.Int("level", ev.Level))
			t.effects.PlayChime(usecase.ChimeLevelUp)
		}
		for _, obs := range observers {
			obs.TaskCompleted(ev)
		}
	}

	if ev := out.RolledOver; ev != nil {
		t.logger.Info("day rolled over",
			zap.String("from", ev.From),
			zap.String("to", ev.To),
			zap.Int("days_passed", ev.DaysPassed))
		for _, obs := range observers {
			obs.DayRolledOver(*ev)
		}
	}

	if len(out.Unlocked) > 0 {
		if dropped := t.unlocks.Push(out.Unlocked...); dropped > 0 {
			t.logger.Debug("unlock queue full, dropped oldest", zap.Int("dropped", dropped))
		}
		t.effects.PlayChime(usecase.ChimeAchievement)
	}
	for _, ev := range out.Unlocked {
		t.logger.Info("achievement unlocked", zap.String("achievement_id", ev.AchievementID))
		for _, obs := range observers {
			obs.AchievementUnlocked(ev)
		}
	}
}

// AddTask prepends a new task. A positive total duration makes it a timer task.
func (t *Tracker) AddTask(ctx context.Context, title string, hours, minutes, seconds int) (domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Task{}, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	var created domain.Task
	_, err := t.step(ctx, func(s *domain.State, now time.Time, _ *Outcome) (bool, error) {
		created = domain.NewTask(title, hours, minutes, seconds, now)
		s.Tasks = append([]domain.Task{created}, s.Tasks...)
		return true, nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	return created, nil
}

// ToggleCheck flips the visual check state.
//
// Checking completes the task (XP, +1 streak, counters) every time, including
// a re-check after an uncheck. Unchecking a completed task only lowers the
// streak by one; the logical completion and the XP already granted stay.
func (t *Tracker) ToggleCheck(ctx context.Context, id string) (domain.Task, Outcome, error) {
	var result domain.Task
	out, err := t.step(ctx, func(s *domain.State, now time.Time, out *Outcome) (bool, error) {
		idx := s.FindTask(id)
		if idx < 0 {
			return false, domain.ErrTaskNotFound
		}
		for _, ev := range out.Completed {
			if ev.TaskID == id {
				// the timer finished in this same step; that is the check
				result = s.Tasks[idx]
				return true, nil
			}
		}

		task := s.Tasks[idx]
		switch {
		case !task.IsChecked:
			t.complete(s, idx, domain.CompletionByCheck, now, out)
		case task.Completed:
			task.IsChecked = false
			task.Streak = max(task.Streak-1, 0)
			s.Tasks[idx] = task
		default:
			task.IsChecked = false
			s.Tasks[idx] = task
		}
		result = s.Tasks[idx]
		return true, nil
	})
	if err != nil {
		return domain.Task{}, Outcome{}, err
	}
	return result, out, nil
}

// ToggleTimer starts or pauses a countdown. Completed tasks are left alone.
// Pausing stores the exact remaining time as of now.
func (t *Tracker) ToggleTimer(ctx context.Context, id string) (domain.Task, Outcome, error) {
	var result domain.Task
	out, err := t.step(ctx, func(s *domain.State, now time.Time, _ *Outcome) (bool, error) {
		idx := s.FindTask(id)
		if idx < 0 {
			return false, domain.ErrTaskNotFound
		}
		task := s.Tasks[idx]
		switch {
		case task.Completed:
			result = task
			return false, nil
		case !task.HasTimer():
			return false, domain.ErrNoTimer
		case task.IsRunning:
			task = timer.Pause(task, now)
		default:
			task = timer.Start(task, now)
		}
		s.Tasks[idx] = task
		result = task
		return true, nil
	})
	if err != nil {
		return domain.Task{}, Outcome{}, err
	}
	return result, out, nil
}

// DeleteTask removes a task whatever its state.
func (t *Tracker) DeleteTask(ctx context.Context, id string) error {
	_, err := t.step(ctx, func(s *domain.State, _ time.Time, _ *Outcome) (bool, error) {
		idx := s.FindTask(id)
		if idx < 0 {
			return false, domain.ErrTaskNotFound
		}
		s.Tasks = append(s.Tasks[:idx:idx], s.Tasks[idx+1:]...)
		return true, nil
	})
	return err
}

// Reconcile runs a timer pass at the current time. The heartbeat calls it
// about once a second; it is equally correct after a long suspension.
func (t *Tracker) Reconcile(ctx context.Context) (Outcome, error) {
	return t.step(ctx, nil)
}

// ProcessNewDay rolls every task over by daysPassed days and clears the daily
// counter. It does not consult or move the day marker; SyncDate does both.
func (t *Tracker) ProcessNewDay(ctx context.Context, daysPassed int) (Outcome, error) {
	if daysPassed < 1 {
		return Outcome{}, domain.NewError(domain.ErrCodeInvalid, "days passed must be at least 1")
	}
	return t.step(ctx, func(s *domain.State, _ time.Time, out *Outcome) (bool, error) {
		rollover(s, daymonitor.Transition{DaysPassed: daysPassed}, out)
		return true, nil
	})
}

// SyncDate compares the stored day marker with today and applies the rollover
// at most once per transition. Repeated calls for the same day are no-ops.
func (t *Tracker) SyncDate(ctx context.Context) (Outcome, error) {
	return t.step(ctx, func(s *domain.State, now time.Time, out *Outcome) (bool, error) {
		tr, marker, changed := t.detector.Detect(s.LastProcessedDate, now)
		if changed {
			rollover(s, tr, out)
		}
		if marker == s.LastProcessedDate {
			return changed, nil
		}
		s.LastProcessedDate = marker
		return true, nil
	})
}

func rollover(s *domain.State, tr daymonitor.Transition, out *Outcome) {
	res := streak.RolloverAll(s.Tasks, s.Counters, tr.DaysPassed)
	s.Tasks = res.Tasks
	s.Counters = res.Counters
	out.RolledOver = &domain.DayRolledOverEvent{DaysPassed: tr.DaysPassed, From: tr.From, To: tr.To}
}

// Resume is the foreground/visibility-regain hook: reconcile, then check the date.
func (t *Tracker) Resume(ctx context.Context) (Outcome, error) {
	out, err := t.Reconcile(ctx)
	if err != nil {
		return out, err
	}
	day, err := t.SyncDate(ctx)
	if err != nil {
		return out, err
	}
	out.Completed = append(out.Completed, day.Completed...)
	out.RolledOver = day.RolledOver
	out.Unlocked = append(out.Unlocked, day.Unlocked...)
	return out, nil
}

// UpdateProfile edits the display identity. Level and XP are not touched.
func (t *Tracker) UpdateProfile(ctx context.Context, name, icon string) (domain.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.UserProfile{}, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	var profile domain.UserProfile
	_, err := t.step(ctx, func(s *domain.State, _ time.Time, _ *Outcome) (bool, error) {
		s.Profile.Name = name
		s.Profile.Icon = strings.TrimSpace(icon)
		profile = s.Profile
		return true, nil
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

// UnlockNext force-unlocks the next locked achievement. Debug tooling only.
func (t *Tracker) UnlockNext(ctx context.Context) (*domain.AchievementUnlockedEvent, error) {
	var unlocked *domain.AchievementUnlockedEvent
	_, err := t.step(ctx, func(s *domain.State, now time.Time, out *Outcome) (bool, error) {
		earned, ev := t.evaluator.UnlockNext(s.Achievements, now)
		if ev == nil {
			return false, nil
		}
		s.Achievements = earned
		out.Unlocked = append(out.Unlocked, *ev)
		unlocked = ev
		return true, nil
	})
	return unlocked, err
}

// NextUnlock pops the oldest pending unlock notification.
func (t *Tracker) NextUnlock() (domain.AchievementUnlockedEvent, bool) {
	return t.unlocks.Pop()
}

func normalizeProfile(p domain.UserProfile) domain.UserProfile {
	p = p.Sanitize()
	lvl := progression.ResolveLeveling(p.Level, p.XP, 0)
	p.Level, p.XP = lvl.Level, lvl.XP
	return p
}
