package tracker

import (
	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/usecase/progression"
	"github.com/fastygo/focusflow/usecase/timer"
)

// Tasks returns the current task list, most recent first.
func (t *Tracker) Tasks() []domain.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Task{}, t.state.Tasks...)
}

// Task returns a single task by id.
func (t *Tracker) Task(id string) (domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.state.FindTask(id)
	if idx < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return t.state.Tasks[idx], nil
}

// Profile returns the current user profile.
func (t *Tracker) Profile() domain.UserProfile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Profile
}

// Achievements returns the catalog annotated with unlock times.
func (t *Tracker) Achievements() []domain.Achievement {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.evaluator.Annotate(t.state.Achievements)
}

// Stats derives the dashboard statistics.
func (t *Tracker) Stats() domain.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.state
	stats := domain.Stats{
		TotalTasks:             len(s.Tasks),
		RunningTimers:          timer.Running(s.Tasks),
		TotalSecondsSpent:      s.Counters.TotalSecondsSpent,
		LifetimeTasksCompleted: s.Counters.LifetimeTasksCompleted,
		DailyTasksCompleted:    s.Counters.DailyTasksCompleted,
		Level:                  s.Profile.Level,
		XP:                     s.Profile.XP,
		XPToNextLevel:          progression.XPRequiredForLevel(s.Profile.Level),
		EarnedAchievements:     t.evaluator.Earned(s.Achievements),
		TotalAchievements:      t.evaluator.Len(),
	}
	for i := range s.Tasks {
		if s.Tasks[i].Completed {
			stats.CompletedTasks++
		}
		stats.MaxStreak = max(stats.MaxStreak, s.Tasks[i].Streak)
	}
	if stats.TotalTasks > 0 {
		stats.ProgressPercentage = (stats.CompletedTasks*100 + stats.TotalTasks/2) / stats.TotalTasks
	}
	return stats
}

// LastProcessedDate returns the calendar-day marker of the last rollover.
func (t *Tracker) LastProcessedDate() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.LastProcessedDate
}
