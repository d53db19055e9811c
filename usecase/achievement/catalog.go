package achievement

import "github.com/fastygo/focusflow/domain"

// Catalog returns the built-in achievement list in display order.
func Catalog() []domain.Achievement {
	return append([]domain.Achievement(nil), catalog...)
}

var catalog = []domain.Achievement{
	{ID: "first_step", Title: "First Step", Description: "Complete your first ever task.", Icon: "👣", Condition: "task_completed_1"},
	{ID: "completed_5", Title: "High Five", Description: "Complete a total of 5 tasks.", Icon: "✋", Condition: "total_completed_5"},
	{ID: "marathon", Title: "Marathoner", Description: "Complete a total of 10 tasks.", Icon: "🏃", Condition: "total_completed_10"},
	{ID: "completed_20", Title: "Elite Doer", Description: "Complete a total of 20 tasks.", Icon: "🏅", Condition: "total_completed_20"},
	{ID: "completed_50", Title: "Task Master", Description: "Complete a total of 50 tasks.", Icon: "💎", Condition: "total_completed_50"},

	{ID: "level_3", Title: "Novice Focused", Description: "Reach level 3.", Icon: "🌱", Condition: "level_3"},
	{ID: "level_10", Title: "Apprentice Planner", Description: "Reach level 10.", Icon: "📂", Condition: "level_10"},
	{ID: "level_15", Title: "Habit Builder", Description: "Reach level 15.", Icon: "🧱", Condition: "level_15"},
	{ID: "level_20", Title: "Discipline Master", Description: "Reach level 20.", Icon: "⚔️", Condition: "level_20"},
	{ID: "level_30", Title: "Productivity Legend", Description: "Reach level 30.", Icon: "📜", Condition: "level_30"},
	{ID: "level_40", Title: "Time Architect", Description: "Reach level 40.", Icon: "🏛️", Condition: "level_40"},
	{ID: "level_100", Title: "Absolute Flow", Description: "Reach level 100.", Icon: "🌌", Condition: "level_100"},

	{ID: "daily_3", Title: "Productive Day", Description: "Finish 3 tasks in a single day.", Icon: "⚡", Condition: "daily_3"},
	{ID: "daily_5", Title: "Velocity", Description: "Finish 5 tasks in a single day.", Icon: "🚀", Condition: "daily_5"},
	{ID: "daily_10", Title: "Unstoppable", Description: "Finish 10 tasks in a single day.", Icon: "☄️", Condition: "daily_10"},
	{ID: "daily_20", Title: "God Mode", Description: "Finish 20 tasks in a single day.", Icon: "😇", Condition: "daily_20"},

	{ID: "on_fire", Title: "On Fire", Description: "Reach a 3-day streak on any task.", Icon: "🔥", Condition: "streak_3"},
	{ID: "inferno", Title: "Inferno", Description: "Reach a 7-day streak on any task.", Icon: "🌋", Condition: "streak_7"},
	{ID: "streak_30", Title: "Monthly Habit", Description: "Reach a 30-day streak on any task.", Icon: "🌖", Condition: "streak_30"},
	{ID: "streak_180", Title: "Half-Year Hero", Description: "Reach a 180-day streak on any task.", Icon: "🌓", Condition: "streak_180"},
	{ID: "streak_365", Title: "Yearly Legend", Description: "Reach a 365-day streak on any task.", Icon: "☀️", Condition: "streak_365"},

	{ID: "perfect_day", Title: "Perfect Day", Description: "Complete all your tasks in a single day.", Icon: "🌟", Condition: "all_completed"},
	{ID: "time_master", Title: "Time Master", Description: "Complete a task using the timer.", Icon: "⏱️", Condition: "timer_completed"},

	{ID: "time_5m", Title: "Momentum", Description: "Spend 5 minutes focusing on tasks.", Icon: "🥉", Condition: "total_time_300"},
	{ID: "time_30m", Title: "Committed", Description: "Spend 30 minutes focusing on tasks.", Icon: "🥈", Condition: "total_time_1800"},
	{ID: "time_1h", Title: "Deep Work", Description: "Spend 1 hour focusing on tasks.", Icon: "🥇", Condition: "total_time_3600"},
	{ID: "time_3h", Title: "Focus Specialist", Description: "Spend 3 hours focusing on tasks.", Icon: "🏆", Condition: "total_time_10800"},
	{ID: "time_10h", Title: "Zen Architect", Description: "Spend 10 hours focusing on tasks.", Icon: "🧘", Condition: "total_time_36000"},
	{ID: "time_20h", Title: "Focus Legend", Description: "Spend 20 hours focusing on tasks.", Icon: "👑", Condition: "total_time_72000"},
}
