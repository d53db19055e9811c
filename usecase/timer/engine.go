// Package timer reconciles countdown timers against wall-clock time.
//
// Remaining time is always derived from the absolute end timestamp, never
// from counting ticks, so a pass may run after an arbitrarily long gap.
package timer

import (
	"time"

	"github.com/fastygo/focusflow/domain"
)

// Engine carries the reconciliation cursor. It is a value: every pass returns
// the next Engine instead of mutating the receiver.
type Engine struct {
	// Last is the instant of the previous pass; zero before the first one.
	Last time.Time
	// Carry is focus time not yet credited as a whole second.
	Carry time.Duration
}

// Pass is the outcome of one reconciliation over all tasks.
type Pass struct {
	Tasks []domain.Task
	// Finished lists the ids of tasks that reached zero during this pass, in task order.
	Finished []string
	// FocusSeconds is the whole-second focus time to add to the cumulative counter.
	FocusSeconds int
	// Stale is set when now precedes the previous pass; nothing was changed.
	Stale bool
}

// RemainingAt returns ceil((end-now)/1s), clamped to zero.
func RemainingAt(end, now time.Time) int {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// Start puts an idle countdown into the running state.
func Start(task domain.Task, now time.Time) domain.Task {
	if !task.HasTimer() || task.Completed || task.IsRunning {
		return task
	}
	end := now.Add(time.Duration(task.Remaining()) * time.Second).UnixMilli()
	task.IsRunning = true
	task.TimerEndTime = &end
	return task
}

// Pause freezes a running countdown at its exact remaining time as of now.
func Pause(task domain.Task, now time.Time) domain.Task {
	end, ok := task.EndTime()
	if !ok {
		task.StopTimer()
		return task
	}
	task.SetRemaining(RemainingAt(end, now))
	task.StopTimer()
	return task
}

// Reconcile recomputes a single running task. finished reports a transition
// to zero in this call; the caller routes it through the completion path.
func Reconcile(task domain.Task, now time.Time) (next domain.Task, finished bool) {
	end, ok := task.EndTime()
	if !ok {
		return task, false
	}
	remaining := RemainingAt(end, now)
	task.SetRemaining(remaining)
	if remaining > 0 {
		return task, false
	}
	task.StopTimer()
	return task, true
}

// Reconcile runs one pass over every task at now.
//
// Focus time is the largest overlap between [Last, now] and any running
// task's window, so concurrently running timers do not double-count.
func (e Engine) Reconcile(tasks []domain.Task, now time.Time) (Engine, Pass) {
	if !e.Last.IsZero() && now.Before(e.Last) {
		return e, Pass{Tasks: tasks, Stale: true}
	}

	pass := Pass{Tasks: make([]domain.Task, len(tasks))}
	var focus time.Duration
	for i, task := range tasks {
		if end, ok := task.EndTime(); ok && !e.Last.IsZero() {
			windowEnd := end
			if now.Before(windowEnd) {
				windowEnd = now
			}
			if overlap := windowEnd.Sub(e.Last); overlap > focus {
				focus = overlap
			}
		}

		next, finished := Reconcile(task, now)
		if finished {
			pass.Finished = append(pass.Finished, next.ID)
		}
		pass.Tasks[i] = next
	}

	e.Carry += focus
	pass.FocusSeconds = int(e.Carry / time.Second)
	e.Carry %= time.Second
	e.Last = now
	return e, pass
}

// Running reports whether any task is counting down.
func Running(tasks []domain.Task) int {
	n := 0
	for i := range tasks {
		if tasks[i].IsRunning {
			n++
		}
	}
	return n
}
