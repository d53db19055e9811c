package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/focusflow/domain"
)

type staticStats domain.Stats

func (s staticStats) Stats() domain.Stats { return domain.Stats(s) }

func TestObserverCounters(t *testing.T) {
	m := New("focusflow", nil)

	m.TaskCompleted(domain.TaskCompletedEvent{Source: domain.CompletionByCheck, XPGained: 5})
	m.TaskCompleted(domain.TaskCompletedEvent{Source: domain.CompletionByTimer, XPGained: 60, LeveledUp: true})
	m.DayRolledOver(domain.DayRolledOverEvent{DaysPassed: 1})
	m.AchievementUnlocked(domain.AchievementUnlockedEvent{AchievementID: "first_step"})

	assert.InDelta(t, 1, testutil.ToFloat64(m.completions.WithLabelValues("check")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.completions.WithLabelValues("timer")), 1e-9)
	assert.InDelta(t, 65, testutil.ToFloat64(m.xpGained), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.levelUps), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.rollovers), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.unlocks.WithLabelValues("first_step")), 1e-9)
}

func TestGaugesReadLiveStats(t *testing.T) {
	m := New("focusflow", staticStats{TotalTasks: 4, RunningTimers: 1, Level: 7})

	expected := `
# HELP focusflow_level Current profile level.
# TYPE focusflow_level gauge
focusflow_level 7
# HELP focusflow_running_timers Timers currently counting down.
# TYPE focusflow_running_timers gauge
focusflow_running_timers 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "focusflow_level", "focusflow_running_timers"))
}

func TestHandlerServesTextFormat(t *testing.T) {
	m := New("focusflow", nil)
	m.ObserveRequest("GET", "/api/v1/tasks", 200, 3*time.Millisecond)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/metrics")
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	m.Handler()(&ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `focusflow_http_requests_total{method="GET",path="/api/v1/tasks",status="200"} 1`)
}
