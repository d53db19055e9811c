// Package progression turns completed tasks into experience points and levels.
package progression

import (
	"math"

	"github.com/fastygo/focusflow/domain"
)

const (
	// XPPerSimpleTask is the base award for a task without a timer.
	XPPerSimpleTask = 5
	// XPPerMinute is the base award per timer minute.
	XPPerMinute = 1.0
	// DefaultStreakBonusRate adds this many percent per streak point.
	DefaultStreakBonusRate = 1.0
	// MaxLevelUps bounds a single leveling resolution.
	MaxLevelUps = 100

	fallbackThreshold = 60
)

var earlyThresholds = [...]int{60, 78, 97, 115, 133, 152, 170, 188, 207}

// Rules holds the tunable parts of the progression curve.
type Rules struct {
	StreakBonusRate float64
}

// DefaultRules returns the canonical progression rules.
func DefaultRules() Rules {
	return Rules{StreakBonusRate: DefaultStreakBonusRate}
}

// LevelResult is the outcome of adding XP to a level/xp pair.
type LevelResult struct {
	Level     int
	XP        int
	LeveledUp bool
}

// CompletionResult is the outcome of applying a completed task to a profile.
type CompletionResult struct {
	Profile   domain.UserProfile
	XPGained  int
	LeveledUp bool
}

// XPGain returns the XP awarded for completing task. Never less than 1.
func (r Rules) XPGain(task domain.Task) int {
	base := float64(XPPerSimpleTask)
	if task.HasTimer() {
		base = math.Round(task.DurationMinutes() * XPPerMinute)
	}

	streak := float64(max(task.Streak, 0))
	rate := domain.SanitizeFloat(r.StreakBonusRate)
	xp := math.Round(base * (1 + streak*rate/100))

	if math.IsNaN(xp) || xp < 1 {
		return 1
	}
	if xp > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(xp)
}

// CalculateXPGain applies the default rules.
func CalculateXPGain(task domain.Task) int {
	return DefaultRules().XPGain(task)
}

// XPRequiredForLevel returns the XP needed to advance from level to level+1.
func XPRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	if level < 10 {
		idx := min(level-1, len(earlyThresholds)-1)
		return earlyThresholds[idx]
	}

	required := math.Floor(float64(earlyThresholds[len(earlyThresholds)-1]) * math.Pow(1.1, float64(level-9)))
	switch {
	case math.IsNaN(required) || required < 1:
		return fallbackThreshold
	case required >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(required)
}

// ResolveLeveling adds gained XP and cascades level-ups. The returned XP is
// always below the threshold of the returned level.
func ResolveLeveling(level, xp, gained int) LevelResult {
	res := LevelResult{Level: max(level, 1), XP: max(xp, 0) + max(gained, 0)}
	if res.XP < 0 {
		// overflow from corrupted input
		res.XP = math.MaxInt32
	}

	for i := 0; i < MaxLevelUps; i++ {
		required := XPRequiredForLevel(res.Level)
		if res.XP < required {
			return res
		}
		res.XP -= required
		res.Level++
		res.LeveledUp = true
	}

	if required := XPRequiredForLevel(res.Level); res.XP >= required {
		res.XP = required - 1
	}
	return res
}

// ApplyCompletion awards the XP for task to profile.
func (r Rules) ApplyCompletion(profile domain.UserProfile, task domain.Task) CompletionResult {
	profile = profile.Sanitize()
	gained := r.XPGain(task)
	lvl := ResolveLeveling(profile.Level, profile.XP, gained)
	profile.Level = lvl.Level
	profile.XP = lvl.XP
	return CompletionResult{Profile: profile, XPGained: gained, LeveledUp: lvl.LeveledUp}
}

// ApplyCompletion uses the default rules.
func ApplyCompletion(profile domain.UserProfile, task domain.Task) CompletionResult {
	return DefaultRules().ApplyCompletion(profile, task)
}
