package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		tag  string
		want Condition
	}{
		{"task_completed_1", Condition{Metric: MetricFirstCompletion, Threshold: 1}},
		{"total_completed_50", Condition{Metric: MetricLifetimeCompleted, Threshold: 50}},
		{"total_time_72000", Condition{Metric: MetricFocusSeconds, Threshold: 72000}},
		{"streak_365", Condition{Metric: MetricMaxStreak, Threshold: 365}},
		{"all_completed", Condition{Metric: MetricAllCompleted, Threshold: 1}},
		{"timer_completed", Condition{Metric: MetricTimerCompleted, Threshold: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseCondition(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.tag, got.String())
		})
	}

	for _, bad := range []string{"", "level", "level_", "level_x", "mystery_3", "_3", "daily_-1"} {
		_, err := ParseCondition(bad)
		assert.Error(t, err, bad)
	}
}
