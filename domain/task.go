package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task represents a tracked activity, optionally backed by a countdown timer.
//
// Completed is the logical completion counted for rewards; IsChecked is the
// visual state and may be toggled independently of it.
type Task struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Completed        bool     `json:"completed"`
	IsChecked        bool     `json:"isChecked"`
	CreatedAt        int64    `json:"createdAt"`
	Duration         *float64 `json:"duration,omitempty"`
	RemainingSeconds *int     `json:"remainingSeconds,omitempty"`
	TimerEndTime     *int64   `json:"timerEndTime,omitempty"`
	IsRunning        bool     `json:"isRunning"`
	Streak           int      `json:"streak"`
}

// NewTask builds a task from a title and a timer length. A zero total makes a simple task.
func NewTask(title string, hours, minutes, seconds int, now time.Time) Task {
	task := Task{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		CreatedAt: now.UnixMilli(),
	}
	total := max(hours, 0)*3600 + max(minutes, 0)*60 + max(seconds, 0)
	if total > 0 {
		duration := float64(total) / 60
		task.Duration = &duration
		task.RemainingSeconds = &total
	}
	return task
}

func (t *Task) HasTimer() bool {
	return t != nil && t.Duration != nil
}

// DurationMinutes returns the sanitized timer length in minutes, zero for simple tasks.
func (t *Task) DurationMinutes() float64 {
	if t == nil || t.Duration == nil {
		return 0
	}
	return SanitizeFloat(*t.Duration)
}

// FullSeconds is the countdown length a fresh timer starts from.
func (t *Task) FullSeconds() int {
	return int(math.Round(t.DurationMinutes() * 60))
}

func (t *Task) Remaining() int {
	if t == nil || t.RemainingSeconds == nil {
		return 0
	}
	return *t.RemainingSeconds
}

func (t *Task) SetRemaining(seconds int) {
	seconds = min(max(seconds, 0), t.FullSeconds())
	t.RemainingSeconds = &seconds
}

// EndTime returns the absolute countdown deadline of a running timer.
func (t *Task) EndTime() (time.Time, bool) {
	if t == nil || !t.IsRunning || t.TimerEndTime == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*t.TimerEndTime), true
}

// StopTimer leaves the countdown idle without touching the remaining seconds.
func (t *Task) StopTimer() {
	t.IsRunning = false
	t.TimerEndTime = nil
}

// Normalize re-establishes the task invariants on data of unknown origin.
func (t Task) Normalize(now time.Time) Task {
	if strings.TrimSpace(t.ID) == "" {
		t.ID = uuid.NewString()
	}
	if strings.TrimSpace(t.Title) == "" {
		t.Title = "Untitled"
	}
	if t.CreatedAt <= 0 {
		t.CreatedAt = now.UnixMilli()
	}
	if t.Streak < 0 {
		t.Streak = 0
	}

	if t.Duration != nil {
		duration := SanitizeFloat(*t.Duration)
		if duration <= 0 {
			t.Duration = nil
		} else {
			t.Duration = &duration
		}
	}
	if t.Duration == nil {
		t.RemainingSeconds = nil
		t.StopTimer()
	} else if t.RemainingSeconds == nil {
		t.SetRemaining(t.FullSeconds())
	} else {
		t.SetRemaining(*t.RemainingSeconds)
	}

	if !t.IsRunning || t.TimerEndTime == nil || t.Completed {
		t.StopTimer()
	}
	return t
}

// SanitizeFloat maps NaN, infinities and negatives to zero.
func SanitizeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
