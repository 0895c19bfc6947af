// Package metrics exposes tracker statistics as Prometheus gauges.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

// Source runs fn with exclusive access to the live tracker.
type Source func(fn func(t *tracker.Tracker))

// Collector owns a private registry so several servers (and tests) can run
// in one process.
type Collector struct {
	registry *prometheus.Registry

	mu     sync.Mutex
	source Source

	habitsTotal    prometheus.Gauge
	streak         *prometheus.GaugeVec
	rate           *prometheus.GaugeVec
	overallRate    prometheus.Gauge
	longestStreak  prometheus.Gauge
	trackingDays   prometheus.Gauge
	mutationsTotal *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		habitsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "habitd_habits_total",
			Help: "Number of tracked habits",
		}),
		streak: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "habitd_habit_current_streak",
			Help: "Current streak in due days per habit",
		}, []string{"habit_id", "name"}),
		rate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "habitd_habit_completion_rate",
			Help: "Completion rate percentage per habit since creation",
		}, []string{"habit_id", "name"}),
		overallRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "habitd_overall_completion_rate",
			Help: "Mean completion rate percentage across habits",
		}),
		longestStreak: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "habitd_longest_current_streak",
			Help: "Largest current streak across habits",
		}),
		trackingDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "habitd_tracking_days_total",
			Help: "Dates with any recorded completion entry",
		}),
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "habitd_mutations_total",
			Help: "State mutations applied, by operation",
		}, []string{"op"}),
	}
	c.registry.MustRegister(
		trackerGauges{c},
		c.mutationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Bind makes every scrape recompute the gauges from src, so date-dependent
// values such as streaks follow the clock without a write.
func (c *Collector) Bind(src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = src
}

func (c *Collector) boundSource() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Refresh replaces every gauge with the tracker's current values. Per-habit
// series of deleted habits disappear.
func (c *Collector) Refresh(t *tracker.Tracker) {
	stats := t.HabitStats()
	c.streak.Reset()
	c.rate.Reset()
	for _, s := range stats {
		c.streak.WithLabelValues(s.Habit.ID, s.Habit.Name).Set(float64(s.CurrentStreak))
		c.rate.WithLabelValues(s.Habit.ID, s.Habit.Name).Set(float64(s.CompletionRate))
	}
	c.habitsTotal.Set(float64(len(stats)))
	c.overallRate.Set(float64(t.OverallCompletionRate()))
	c.longestStreak.Set(float64(t.LongestCurrentStreak()))
	c.trackingDays.Set(float64(t.TotalTrackingDays()))
}

func (c *Collector) RecordMutation(op string) {
	c.mutationsTotal.WithLabelValues(op).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) gauges() []prometheus.Collector {
	return []prometheus.Collector{c.habitsTotal, c.streak, c.rate, c.overallRate, c.longestStreak, c.trackingDays}
}

// trackerGauges registers the derived gauges as one collector. With a bound
// source it refreshes and collects inside the source's critical section.
type trackerGauges struct {
	c *Collector
}

func (g trackerGauges) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range g.c.gauges() {
		m.Describe(ch)
	}
}

func (g trackerGauges) Collect(ch chan<- prometheus.Metric) {
	collect := func() {
		for _, m := range g.c.gauges() {
			m.Collect(ch)
		}
	}
	src := g.c.boundSource()
	if src == nil {
		collect()
		return
	}
	src(func(t *tracker.Tracker) {
		g.c.Refresh(t)
		collect()
	})
}
