// Package scheduler delivers day-rollover and reminder events to the TUI.
// At most one event per Kind is pending; scheduling a kind again moves it.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrUnknownKind        = errors.New("scheduler: event kind is required")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type Kind string

const (
	// KindRollover fires at local midnight so views can move to the new day.
	KindRollover Kind = "day_rollover"
	// KindNudge fires at the configured reminder time.
	KindNudge Kind = "nudge"
)

type Event struct {
	ID   string
	Kind Kind
	At   time.Time
}

// slot is a heap entry; index is kept current for heap.Fix and heap.Remove.
type slot struct {
	event Event
	index int
}

type timeline []*slot

func (tl timeline) Len() int           { return len(tl) }
func (tl timeline) Less(i, j int) bool { return tl[i].event.At.Before(tl[j].event.At) }

func (tl timeline) Swap(i, j int) {
	tl[i], tl[j] = tl[j], tl[i]
	tl[i].index = i
	tl[j].index = j
}

func (tl *timeline) Push(x any) {
	s := x.(*slot)
	s.index = len(*tl)
	*tl = append(*tl, s)
}

func (tl *timeline) Pop() any {
	old := *tl
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	s.index = -1
	*tl = old[:n-1]
	return s
}

type Engine struct {
	mu      sync.Mutex
	pending timeline
	byKind  map[Kind]*slot
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	now     func() time.Time
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		byKind: make(map[Kind]*slot),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
	}
}

// C is closed once the engine stops.
func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.run()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()

	if started {
		<-e.doneCh
		return
	}
	close(e.out)
}

// Schedule queues ev, replacing any pending event of the same kind.
func (e *Engine) Schedule(ev Event) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}
	if ev.Kind == "" {
		return ErrUnknownKind
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	if s, ok := e.byKind[ev.Kind]; ok {
		s.event = ev
		heap.Fix(&e.pending, s.index)
	} else {
		s := &slot{event: ev}
		heap.Push(&e.pending, s)
		e.byKind[ev.Kind] = s
	}
	e.poke()
	return nil
}

// Cancel drops the pending event of kind and reports whether one existed.
func (e *Engine) Cancel(kind Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.byKind[kind]
	if !ok {
		return false
	}
	heap.Remove(&e.pending, s.index)
	delete(e.byKind, kind)
	e.poke()
	return true
}

// Next returns when the pending event of kind fires.
func (e *Engine) Next(kind Kind) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.byKind[kind]
	if !ok {
		return time.Time{}, false
	}
	return s.event.At, true
}

// Pending reports how many events are queued and not yet emitted.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// Dropped counts events discarded because the consumer fell behind.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		wait, armed := e.untilNext()
		drain(timer)
		if armed {
			timer.Reset(wait)
		}

		select {
		case <-timer.C:
			for _, ev := range e.takeDue() {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) poke() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) untilNext() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return 0, false
	}
	return max(e.pending[0].event.At.Sub(e.now()), 0), true
}

func (e *Engine) takeDue() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var due []Event
	for len(e.pending) > 0 && !e.pending[0].event.At.After(now) {
		s := heap.Pop(&e.pending).(*slot)
		delete(e.byKind, s.event.Kind)
		due = append(due, s.event)
	}
	return due
}

func drain(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
