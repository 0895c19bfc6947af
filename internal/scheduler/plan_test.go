package scheduler

import (
	"testing"
	"time"
)

func TestNextRollover(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 1, 31, 22, 30, 0, 0, time.UTC) // 00:30 on Feb 1 locally
	got := NextRollover(now, loc)
	want := time.Date(2024, 2, 2, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("NextRollover = %v, want %v", got, want)
	}
}

func TestNextNudge(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)},
		{"exactly now rolls over", time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC), time.Date(2024, 1, 6, 20, 0, 0, 0, time.UTC)},
		{"already passed", time.Date(2024, 12, 31, 21, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := NextNudge(tc.now, time.UTC, 20, 0); !got.Equal(tc.want) {
			t.Fatalf("%s: NextNudge = %v, want %v", tc.name, got, tc.want)
		}
	}
}
