package metrics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshAndMutations(t *testing.T) {
	now := time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)
	tr := tracker.New(tracker.SampleSnapshot(now),
		tracker.WithClock(func() time.Time { return now }),
		tracker.WithLocation(time.UTC))

	c := New()
	c.Refresh(tr)
	c.RecordMutation("toggle")
	c.RecordMutation("toggle")

	assert.Equal(t, float64(3), testutil.ToFloat64(c.habitsTotal))
	assert.Equal(t, float64(tr.LongestCurrentStreak()), testutil.ToFloat64(c.longestStreak))
	assert.Equal(t, float64(7), testutil.ToFloat64(c.trackingDays))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.mutationsTotal.WithLabelValues("toggle")))
	assert.Equal(t, 3, testutil.CollectAndCount(c.streak))

	require.True(t, tr.DeleteHabit("sample2"))
	c.Refresh(tr)
	assert.Equal(t, 2, testutil.CollectAndCount(c.rate), "deleted habit series removed")

	expected := `
# HELP habitd_habits_total Number of tracked habits
# TYPE habitd_habits_total gauge
habitd_habits_total 2
`
	require.NoError(t, testutil.CollectAndCompare(c.habitsTotal, strings.NewReader(expected)))
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	tr := tracker.New(tracker.Snapshot{Habits: []model.Habit{{ID: "x", Name: "X", Frequency: model.FrequencyDaily}}})
	a.Refresh(tr)
	assert.Equal(t, float64(1), testutil.ToFloat64(a.habitsTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.habitsTotal))
}

func TestBoundSourceRefreshesOnScrape(t *testing.T) {
	now := time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)
	tr := tracker.New(tracker.Snapshot{
		Habits: []model.Habit{{ID: "a", Name: "Read", Frequency: model.FrequencyDaily, CreatedAt: now.AddDate(0, 0, -1)}},
		Completions: tracker.Completions{
			"2024-01-06": {"a": true},
			"2024-01-07": {"a": true},
		},
	}, tracker.WithClock(func() time.Time { return now }), tracker.WithLocation(time.UTC))

	c := New()
	calls := 0
	c.Bind(func(fn func(*tracker.Tracker)) {
		calls++
		fn(tr)
	})

	expected := func(streak int) *strings.Reader {
		return strings.NewReader(fmt.Sprintf(`
# HELP habitd_longest_current_streak Largest current streak across habits
# TYPE habitd_longest_current_streak gauge
habitd_longest_current_streak %d
`, streak))
	}
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), expected(2), "habitd_longest_current_streak"))

	// No write happens across midnight; the next scrape still sees the new day.
	now = now.Add(24 * time.Hour)
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), expected(0), "habitd_longest_current_streak"))
	assert.Equal(t, 2, calls)
}
