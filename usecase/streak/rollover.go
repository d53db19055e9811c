// Package streak resolves per-task streaks across calendar-day transitions.
package streak

import "github.com/fastygo/focusflow/domain"

// Result is the outcome of rolling every task over into a new day.
type Result struct {
	Tasks    []domain.Task
	Counters domain.Counters
}

// RolloverTask advances one task by daysPassed calendar days.
//
// A single day keeps the streak alive only if the task was checked; any gap
// longer than a day breaks it. All per-day state is reset.
func RolloverTask(task domain.Task, daysPassed int) domain.Task {
	switch {
	case daysPassed == 1 && task.IsChecked:
		task.Streak = max(task.Streak, 0) + 1
	default:
		task.Streak = 0
	}

	task.Completed = false
	task.IsChecked = false
	task.StopTimer()
	if task.HasTimer() {
		task.SetRemaining(task.FullSeconds())
	} else {
		task.RemainingSeconds = nil
	}
	return task
}

// RolloverAll rolls every task over and clears the daily counter. Callers
// must apply it at most once per transition; the day marker guards that.
func RolloverAll(tasks []domain.Task, counters domain.Counters, daysPassed int) Result {
	out := make([]domain.Task, len(tasks))
	for i, task := range tasks {
		out[i] = RolloverTask(task, daysPassed)
	}
	counters.DailyTasksCompleted = 0
	return Result{Tasks: out, Counters: counters}
}
