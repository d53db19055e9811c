// Package achievement maps accumulated statistics onto the achievement catalog.
package achievement

import (
	"fmt"
	"time"

	"github.com/fastygo/focusflow/domain"
)

// perfectDayMinTasks is the smallest task list that can earn a perfect day.
const perfectDayMinTasks = 3

// Facts are the watched statistics conditions are evaluated against.
type Facts struct {
	LifetimeCompleted int
	DailyCompleted    int
	MaxStreak         int
	FocusSeconds      int
	Level             int
	AllCompleted      bool
	TimerCompleted    bool
}

// FactsFrom derives the watched statistics from a state.
func FactsFrom(s domain.State) Facts {
	f := Facts{
		LifetimeCompleted: s.Counters.LifetimeTasksCompleted,
		DailyCompleted:    s.Counters.DailyTasksCompleted,
		FocusSeconds:      s.Counters.TotalSecondsSpent,
		Level:             s.Profile.Level,
	}
	completed := 0
	for i := range s.Tasks {
		task := &s.Tasks[i]
		f.MaxStreak = max(f.MaxStreak, task.Streak)
		if task.Completed {
			completed++
			if task.HasTimer() {
				f.TimerCompleted = true
			}
		}
	}
	f.AllCompleted = len(s.Tasks) >= perfectDayMinTasks && completed == len(s.Tasks)
	return f
}

func (f Facts) satisfies(c domain.Condition) bool {
	switch c.Metric {
	case domain.MetricFirstCompletion, domain.MetricLifetimeCompleted:
		return f.LifetimeCompleted >= c.Threshold
	case domain.MetricDailyCompleted:
		return f.DailyCompleted >= c.Threshold
	case domain.MetricMaxStreak:
		return f.MaxStreak >= c.Threshold
	case domain.MetricFocusSeconds:
		return f.FocusSeconds >= c.Threshold
	case domain.MetricLevel:
		return f.Level >= c.Threshold
	case domain.MetricAllCompleted:
		return f.AllCompleted
	case domain.MetricTimerCompleted:
		return f.TimerCompleted
	}
	return false
}

type entry struct {
	achievement domain.Achievement
	condition   domain.Condition
}

// Evaluator holds a catalog with pre-parsed conditions.
type Evaluator struct {
	entries []entry
}

// NewEvaluator parses every catalog condition up front.
func NewEvaluator(catalog []domain.Achievement) (*Evaluator, error) {
	e := &Evaluator{entries: make([]entry, 0, len(catalog))}
	seen := make(map[string]struct{}, len(catalog))
	for _, ach := range catalog {
		if _, dup := seen[ach.ID]; dup {
			return nil, fmt.Errorf("achievement %q: duplicate id", ach.ID)
		}
		seen[ach.ID] = struct{}{}
		cond, err := domain.ParseCondition(ach.Condition)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", ach.ID, err)
		}
		ach.EarnedAt = nil
		e.entries = append(e.entries, entry{achievement: ach, condition: cond})
	}
	return e, nil
}

// MustNewEvaluator panics on an invalid catalog.
func MustNewEvaluator(catalog []domain.Achievement) *Evaluator {
	e, err := NewEvaluator(catalog)
	if err != nil {
		panic(err)
	}
	return e
}

// Len returns the catalog size.
func (e *Evaluator) Len() int {
	return len(e.entries)
}

// Satisfied returns the ids whose conditions currently hold, in catalog order.
func (e *Evaluator) Satisfied(f Facts) []string {
	var ids []string
	for _, en := range e.satisfied(f) {
		ids = append(ids, en.achievement.ID)
	}
	return ids
}

func (e *Evaluator) satisfied(f Facts) []entry {
	var out []entry
	for _, en := range e.entries {
		if f.satisfies(en.condition) {
			out = append(out, en)
		}
	}
	return out
}

// Evaluate unlocks every satisfied entry not yet in earned. The returned map
// is a copy; existing timestamps are never changed.
func (e *Evaluator) Evaluate(f Facts, earned domain.UnlockMap, now time.Time) (domain.UnlockMap, []domain.AchievementUnlockedEvent) {
	next := earned.Clone()
	var events []domain.AchievementUnlockedEvent
	for _, en := range e.satisfied(f) {
		if _, ok := next[en.achievement.ID]; ok {
			continue
		}
		events = append(events, e.unlock(next, en.achievement, now))
	}
	return next, events
}

// UnlockNext force-unlocks the first entry not yet earned.
func (e *Evaluator) UnlockNext(earned domain.UnlockMap, now time.Time) (domain.UnlockMap, *domain.AchievementUnlockedEvent) {
	for _, en := range e.entries {
		if _, ok := earned[en.achievement.ID]; ok {
			continue
		}
		next := earned.Clone()
		ev := e.unlock(next, en.achievement, now)
		return next, &ev
	}
	return earned, nil
}

func (e *Evaluator) unlock(earned domain.UnlockMap, ach domain.Achievement, now time.Time) domain.AchievementUnlockedEvent {
	at := now.UnixMilli()
	earned[ach.ID] = at
	return domain.AchievementUnlockedEvent{
		AchievementID: ach.ID,
		Title:         ach.Title,
		Icon:          ach.Icon,
		UnlockedAt:    at,
	}
}

// Annotate returns the catalog with EarnedAt filled from earned.
func (e *Evaluator) Annotate(earned domain.UnlockMap) []domain.Achievement {
	out := make([]domain.Achievement, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.achievement
		if at, ok := earned[en.achievement.ID]; ok {
			at := at
			out[i].EarnedAt = &at
		}
	}
	return out
}

// Earned counts the catalog entries present in earned.
func (e *Evaluator) Earned(earned domain.UnlockMap) int {
	n := 0
	for _, en := range e.entries {
		if _, ok := earned[en.achievement.ID]; ok {
			n++
		}
	}
	return n
}
