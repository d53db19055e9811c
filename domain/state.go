package domain

import "time"

// Counters are the persisted aggregate statistics. All are monotonic except
// DailyTasksCompleted, which drops to zero on rollover.
type Counters struct {
	TotalSecondsSpent      int `json:"totalSecondsSpent"`
	LifetimeTasksCompleted int `json:"lifetimeTasksCompleted"`
	DailyTasksCompleted    int `json:"dailyTasksCompleted"`
}

func (c Counters) Sanitize() Counters {
	c.TotalSecondsSpent = max(c.TotalSecondsSpent, 0)
	c.LifetimeTasksCompleted = max(c.LifetimeTasksCompleted, 0)
	c.DailyTasksCompleted = max(c.DailyTasksCompleted, 0)
	return c
}

// State is everything the tracker persists between runs.
//
// Task pointer fields are replaced, never written through, so a shallow copy
// of the slice is enough to detach one State from another.
type State struct {
	Tasks        []Task
	Counters     Counters
	Profile      UserProfile
	Achievements UnlockMap
	// LastProcessedDate is the calendar day (YYYY-MM-DD) the last rollover was applied for.
	LastProcessedDate string
	// LastReconciledAt is the wall-clock instant of the last timer reconciliation pass.
	LastReconciledAt time.Time
	// FocusCarry holds sub-second focus time not yet credited to TotalSecondsSpent.
	FocusCarry time.Duration
}

// NewState returns the first-run state.
func NewState(profileName string) State {
	return State{
		Tasks:        []Task{},
		Profile:      NewUserProfile(profileName),
		Achievements: UnlockMap{},
	}
}

func (s State) Clone() State {
	out := s
	out.Tasks = append([]Task(nil), s.Tasks...)
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	out.Achievements = s.Achievements.Clone()
	return out
}

// FindTask returns the index of the task with the given id, or -1.
func (s *State) FindTask(id string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Stats is the read-only dashboard view derived from a State.
type Stats struct {
	TotalTasks             int `json:"totalTasks"`
	CompletedTasks         int `json:"completedTasks"`
	ProgressPercentage     int `json:"progressPercentage"`
	RunningTimers          int `json:"runningTimers"`
	MaxStreak              int `json:"maxStreak"`
	TotalSecondsSpent      int `json:"totalSecondsSpent"`
	LifetimeTasksCompleted int `json:"lifetimeTasksCompleted"`
	DailyTasksCompleted    int `json:"dailyTasksCompleted"`
	Level                  int `json:"level"`
	XP                     int `json:"xp"`
	XPToNextLevel          int `json:"xpToNextLevel"`
	EarnedAchievements     int `json:"earnedAchievements"`
	TotalAchievements      int `json:"totalAchievements"`
}
