package tracker

import (
	"time"

	"github.com/sandeepkv93/habitd/internal/dates"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/shopspring/decimal"
)

// SampleSnapshot is the first-run data set: three habits and a week of
// completions ending on now.
func SampleSnapshot(now time.Time) Snapshot {
	water := decimal.NewFromInt(8)
	reading := decimal.NewFromInt(30)
	exercise := decimal.NewFromInt(45)
	habits := []model.Habit{
		{
			ID:          "sample1",
			Name:        "Drink 8 glasses of water",
			Description: "Stay hydrated throughout the day",
			Category:    model.CategoryHealth,
			Frequency:   model.FrequencyDaily,
			Target:      &water,
			Unit:        "glasses",
			CreatedAt:   now.AddDate(0, 0, -7),
		},
		{
			ID:          "sample2",
			Name:        "Read for 30 minutes",
			Description: "Read books to expand knowledge",
			Category:    model.CategoryLearning,
			Frequency:   model.FrequencyDaily,
			Target:      &reading,
			Unit:        "minutes",
			CreatedAt:   now.AddDate(0, 0, -5),
		},
		{
			ID:          "sample3",
			Name:        "Exercise",
			Description: "Physical workout or activity",
			Category:    model.CategoryHealth,
			Frequency:   model.FrequencyCustom,
			CustomDays:  []int{1, 3, 5},
			Target:      &exercise,
			Unit:        "minutes",
			CreatedAt:   now.AddDate(0, 0, -10),
		},
	}

	completions := make(Completions)
	for i := 0; i < 7; i++ {
		day := dates.AddDays(now, -i)
		key := dates.Key(day)
		completions.Set(key, "sample1", i%3 != 2)
		completions.Set(key, "sample2", i%4 != 3)
		completions.Set(key, "sample3", habits[2].IsDue(day) && i != 6)
	}
	return Snapshot{Habits: habits, Completions: completions}
}
