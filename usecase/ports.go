package usecase

import "github.com/fastygo/focusflow/domain"

// ChimeKind selects the sound played at a transition point.
type ChimeKind string

const (
	ChimeCompletion  ChimeKind = "completion"
	ChimeLevelUp     ChimeKind = "level_up"
	ChimeAchievement ChimeKind = "achievement"
)

// Effects abstracts device side effects. The tracker only calls it at the
// right transitions and never manages the underlying handles.
type Effects interface {
	// StartKeepAlive is called when the first timer starts running.
	StartKeepAlive()
	// StopKeepAlive is called when the last running timer stops.
	StopKeepAlive()
	PlayChime(kind ChimeKind)
}

// Observer receives tracker events after each committed step, in order.
type Observer interface {
	TaskCompleted(ev domain.TaskCompletedEvent)
	DayRolledOver(ev domain.DayRolledOverEvent)
	AchievementUnlocked(ev domain.AchievementUnlockedEvent)
}

// NopEffects ignores every call.
type NopEffects struct{}

func (NopEffects) StartKeepAlive()     {}
func (NopEffects) StopKeepAlive()      {}
func (NopEffects) PlayChime(ChimeKind) {}

// NopObserver can be embedded to implement only part of Observer.
type NopObserver struct{}

func (NopObserver) TaskCompleted(domain.TaskCompletedEvent)             {}
func (NopObserver) DayRolledOver(domain.DayRolledOverEvent)             {}
func (NopObserver) AchievementUnlocked(domain.AchievementUnlockedEvent) {}
