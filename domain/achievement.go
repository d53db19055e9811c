package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Metric names the statistic a condition is evaluated against.
type Metric string

const (
	MetricLifetimeCompleted Metric = "total_completed"
	MetricFirstCompletion   Metric = "task_completed"
	MetricDailyCompleted    Metric = "daily"
	MetricMaxStreak         Metric = "streak"
	MetricFocusSeconds      Metric = "total_time"
	MetricLevel             Metric = "level"
	MetricAllCompleted      Metric = "all_completed"
	MetricTimerCompleted    Metric = "timer_completed"
)

// Condition is the rule tag attached to a catalog entry, e.g. "streak_7" or "all_completed".
type Condition struct {
	Metric    Metric
	Threshold int
}

// ParseCondition decodes a rule tag. Flag metrics carry no threshold.
func ParseCondition(tag string) (Condition, error) {
	switch Metric(tag) {
	case MetricAllCompleted, MetricTimerCompleted:
		return Condition{Metric: Metric(tag), Threshold: 1}, nil
	}
	idx := strings.LastIndex(tag, "_")
	if idx <= 0 || idx == len(tag)-1 {
		return Condition{}, fmt.Errorf("condition %q: missing threshold", tag)
	}
	threshold, err := strconv.Atoi(tag[idx+1:])
	if err != nil || threshold < 0 {
		return Condition{}, fmt.Errorf("condition %q: invalid threshold", tag)
	}
	metric := Metric(tag[:idx])
	switch metric {
	case MetricLifetimeCompleted, MetricFirstCompletion, MetricDailyCompleted,
		MetricMaxStreak, MetricFocusSeconds, MetricLevel:
		return Condition{Metric: metric, Threshold: threshold}, nil
	}
	return Condition{}, fmt.Errorf("condition %q: unknown metric", tag)
}

func (c Condition) String() string {
	switch c.Metric {
	case MetricAllCompleted, MetricTimerCompleted:
		return string(c.Metric)
	}
	return fmt.Sprintf("%s_%d", c.Metric, c.Threshold)
}

// Achievement is a catalog entry. EarnedAt is set once, on first unlock.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Condition   string `json:"condition"`
	EarnedAt    *int64 `json:"earnedAt,omitempty"`
}

// UnlockMap records the first-unlock timestamp (unix millis) per achievement id.
type UnlockMap map[string]int64

func (m UnlockMap) Clone() UnlockMap {
	out := make(UnlockMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
