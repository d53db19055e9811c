package domain

import (
	"encoding/json"
	"time"
)

// SnapshotVersion is written into every exported backup.
const SnapshotVersion = "1.2"

// Snapshot is the export/import backup document.
type Snapshot struct {
	Tasks                  []Task       `json:"tasks"`
	TotalSecondsSpent      int          `json:"totalSecondsSpent"`
	LifetimeTasksCompleted int          `json:"lifetimeTasksCompleted"`
	DailyTasksCompleted    int          `json:"dailyTasksCompleted"`
	Achievements           UnlockMap    `json:"achievements"`
	User                   *UserProfile `json:"user,omitempty"`
	Version                string       `json:"version"`
}

type snapshotWire struct {
	Tasks                  *[]Task      `json:"tasks"`
	TotalSecondsSpent      int          `json:"totalSecondsSpent"`
	LifetimeTasksCompleted int          `json:"lifetimeTasksCompleted"`
	DailyTasksCompleted    int          `json:"dailyTasksCompleted"`
	Achievements           UnlockMap    `json:"achievements"`
	User                   *UserProfile `json:"user"`
	Version                string       `json:"version"`
}

// ParseSnapshot decodes a backup. A document without a tasks field is rejected;
// every other field falls back to its default.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var wire snapshotWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, WrapError(ErrCodeInvalid, "invalid backup", err)
	}
	if wire.Tasks == nil {
		return nil, ErrInvalidBackup
	}

	snap := &Snapshot{
		Tasks:                  *wire.Tasks,
		TotalSecondsSpent:      wire.TotalSecondsSpent,
		LifetimeTasksCompleted: wire.LifetimeTasksCompleted,
		DailyTasksCompleted:    wire.DailyTasksCompleted,
		Achievements:           wire.Achievements,
		User:                   wire.User,
		Version:                wire.Version,
	}
	if snap.Achievements == nil {
		snap.Achievements = UnlockMap{}
	}
	if snap.User == nil {
		snap.User = &UserProfile{Name: DefaultProfileName, Level: 1, XP: 0}
	}
	return snap, nil
}

// SnapshotOf builds the export document for a state.
func SnapshotOf(s State) Snapshot {
	profile := s.Profile
	tasks := append([]Task(nil), s.Tasks...)
	if tasks == nil {
		tasks = []Task{}
	}
	return Snapshot{
		Tasks:                  tasks,
		TotalSecondsSpent:      s.Counters.TotalSecondsSpent,
		LifetimeTasksCompleted: s.Counters.LifetimeTasksCompleted,
		DailyTasksCompleted:    s.Counters.DailyTasksCompleted,
		Achievements:           s.Achievements.Clone(),
		User:                   &profile,
		Version:                SnapshotVersion,
	}
}

// Apply returns the state a snapshot restores onto base. Only the markers of
// base survive; everything the snapshot carries is replaced.
func (s Snapshot) Apply(base State, now time.Time) State {
	next := base.Clone()
	next.Tasks = make([]Task, 0, len(s.Tasks))
	for _, task := range s.Tasks {
		next.Tasks = append(next.Tasks, task.Normalize(now))
	}
	next.Counters = Counters{
		TotalSecondsSpent:      s.TotalSecondsSpent,
		LifetimeTasksCompleted: s.LifetimeTasksCompleted,
		DailyTasksCompleted:    s.DailyTasksCompleted,
	}.Sanitize()
	next.Achievements = s.Achievements.Clone()
	if s.User != nil {
		next.Profile = s.User.Sanitize()
	} else {
		next.Profile = UserProfile{Name: DefaultProfileName, Level: 1}
	}
	next.LastReconciledAt = now
	next.FocusCarry = 0
	return next
}

// BackupFileName is the suggested export file name for the day of now.
func BackupFileName(now time.Time) string {
	return "focusflow-backup-" + now.Format("2006-01-02") + ".json"
}
