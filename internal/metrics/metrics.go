// Package metrics exports tracker and HTTP activity as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/fastygo/focusflow/domain"
	"github.com/fastygo/focusflow/usecase"
)

// StatsSource supplies the live dashboard figures exported as gauges.
type StatsSource interface {
	Stats() domain.Stats
}

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	completions     *prometheus.CounterVec
	xpGained        prometheus.Counter
	levelUps        prometheus.Counter
	rollovers       prometheus.Counter
	unlocks         *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New(namespace string, stats StatsSource) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_completions_total",
			Help:      "Tasks completed, by completion source.",
		}, []string{"source"}),
		xpGained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_gained_total",
			Help:      "Experience points awarded.",
		}),
		levelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Completions that raised the profile level.",
		}),
		rollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "day_rollovers_total",
			Help:      "Calendar-day transitions applied.",
		}),
		unlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked, by id.",
		}, []string{"achievement"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		m.completions, m.xpGained, m.levelUps, m.rollovers, m.unlocks,
		m.requestsTotal, m.requestDuration,
	)
	if stats != nil {
		m.registerGauges(namespace, stats)
	}
	return m
}

func (m *Metrics) registerGauges(namespace string, stats StatsSource) {
	gauge := func(name, help string, pick func(domain.Stats) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(pick(stats.Stats())) })
	}
	m.registry.MustRegister(
		gauge("tasks", "Tasks in the list.", func(s domain.Stats) int { return s.TotalTasks }),
		gauge("tasks_completed", "Tasks completed today.", func(s domain.Stats) int { return s.CompletedTasks }),
		gauge("running_timers", "Timers currently counting down.", func(s domain.Stats) int { return s.RunningTimers }),
		gauge("focus_seconds", "Cumulative focus time in seconds.", func(s domain.Stats) int { return s.TotalSecondsSpent }),
		gauge("level", "Current profile level.", func(s domain.Stats) int { return s.Level }),
		gauge("max_streak", "Longest current streak across tasks.", func(s domain.Stats) int { return s.MaxStreak }),
	)
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) TaskCompleted(ev domain.TaskCompletedEvent) {
	m.completions.WithLabelValues(string(ev.Source)).Inc()
	m.xpGained.Add(float64(ev.XPGained))
	if ev.LeveledUp {
		m.levelUps.Inc()
	}
}

func (m *Metrics) DayRolledOver(domain.DayRolledOverEvent) {
	m.rollovers.Inc()
}

func (m *Metrics) AchievementUnlocked(ev domain.AchievementUnlockedEvent) {
	m.unlocks.WithLabelValues(ev.AchievementID).Inc()
}

var _ usecase.Observer = (*Metrics)(nil)
