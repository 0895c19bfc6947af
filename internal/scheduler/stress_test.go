package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// Many goroutines moving the same two reminders must leave exactly one
// pending event per kind, and only the final placement fires.
func TestEngineConcurrentReschedule(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200
	kinds := []Kind{KindRollover, KindNudge}

	base := time.Now().Add(time.Hour)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				kind := kinds[(w+i)%len(kinds)]
				ev := Event{
					ID:   fmt.Sprintf("w%d-%d", w, i),
					Kind: kind,
					At:   base.Add(time.Duration(i) * time.Second),
				}
				if err := engine.Schedule(ev); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if got := engine.Pending(); got != len(kinds) {
		t.Fatalf("pending = %d, want %d", got, len(kinds))
	}

	soon := time.Now().Add(30 * time.Millisecond)
	for _, kind := range kinds {
		if err := engine.Schedule(Event{ID: "final-" + string(kind), Kind: kind, At: soon}); err != nil {
			t.Fatalf("final schedule: %v", err)
		}
	}

	seen := map[string]bool{}
	for range kinds {
		seen[waitEvent(t, engine.C(), 2*time.Second).ID] = true
	}
	if !seen["final-day_rollover"] || !seen["final-nudge"] {
		t.Fatalf("unexpected deliveries: %v", seen)
	}
	select {
	case ev := <-engine.C():
		t.Fatalf("unexpected extra event %s", ev.ID)
	case <-time.After(50 * time.Millisecond):
	}
	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got %d", engine.Dropped())
	}
}
