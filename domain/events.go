package domain

import "time"

// CompletionSource tells how a task reached logical completion.
type CompletionSource string

const (
	CompletionByCheck CompletionSource = "check"
	CompletionByTimer CompletionSource = "timer"
)

// TaskCompletedEvent is emitted once per completion, manual or timer-driven.
type TaskCompletedEvent struct {
	TaskID    string           `json:"taskId"`
	XPGained  int              `json:"xpGained"`
	Streak    int              `json:"streak"`
	LeveledUp bool             `json:"leveledUp"`
	Level     int              `json:"level"`
	Source    CompletionSource `json:"source"`
	At        time.Time        `json:"at"`
}

// DayRolledOverEvent is emitted once per detected calendar-day transition.
type DayRolledOverEvent struct {
	DaysPassed int    `json:"daysPassed"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// AchievementUnlockedEvent is emitted the first time a catalog entry is earned.
type AchievementUnlockedEvent struct {
	AchievementID string `json:"achievementId"`
	Title         string `json:"title"`
	Icon          string `json:"icon"`
	UnlockedAt    int64  `json:"unlockedAt"`
}
