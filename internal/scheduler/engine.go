// Package scheduler delivers timed events, such as day-period changes, to
// the terminal UI without blocking its update loop.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/taskbrain/internal/timepattern"
)

var (
	ErrInvalidTime = errors.New("scheduler: invalid event time")
	ErrStopped     = errors.New("scheduler: engine stopped")
)

type EventKind string

const (
	// KindPeriodBoundary fires when the day period changes.
	KindPeriodBoundary EventKind = "period_boundary"
	// KindRefresh asks consumers to reload learned state once.
	KindRefresh EventKind = "refresh"
)

// Event is delivered on C at or after At.
type Event struct {
	ID     string
	Kind   EventKind
	Period timepattern.Period
	At     time.Time
}

// pending is a queued event. seq breaks ties between events due together.
type pending struct {
	Event
	seq uint64
}

type eventHeap []pending

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if !h[i].At.Equal(h[j].At) {
		return h[i].At.Before(h[j].At)
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(pending)) }

func (h *eventHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// Engine holds events until they are due and then hands them to C. A full
// C never blocks the engine; the event is counted in Dropped instead.
type Engine struct {
	mu      sync.Mutex
	events  eventHeap
	seq     uint64
	state   engineState
	out     chan Event
	kick    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	dropped atomic.Uint64
}

type engineState int

const (
	stateIdle engineState = iota
	stateRunning
	stateStopped
)

func NewEngine(bufferSize int) *Engine {
	return &Engine{
		out:  make(chan Event, max(bufferSize, 1)),
		kick: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// C delivers due events. It is closed after Stop.
func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateIdle {
		return
	}
	e.state = stateRunning
	go e.run()
}

// Stop halts delivery and waits for the run loop to exit. Queued events are
// discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state != stateRunning {
		e.mu.Unlock()
		return
	}
	e.state = stateStopped
	close(e.quit)
	e.mu.Unlock()
	<-e.done
}

func (e *Engine) Schedule(ev Event) error {
	if ev.At.IsZero() {
		return ErrInvalidTime
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateStopped {
		return ErrStopped
	}
	e.seq++
	heap.Push(&e.events, pending{Event: ev, seq: e.seq})
	select {
	case e.kick <- struct{}{}:
	default:
	}
	return nil
}

// Pending reports how many events are queued and not yet due.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

// Dropped counts events discarded because C was full.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) run() {
	defer close(e.done)
	defer close(e.out)

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		if at, ok := e.nextDue(); ok {
			timer.Reset(max(time.Until(at), 0))
		} else {
			timer.Stop()
		}

		select {
		case <-timer.C:
			for _, ev := range e.takeDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					e.dropped.Add(1)
				}
			}
		case <-e.kick:
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) nextDue() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.events) == 0 {
		return time.Time{}, false
	}
	return e.events[0].At, true
}

func (e *Engine) takeDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var due []Event
	for len(e.events) > 0 && !e.events[0].At.After(now) {
		due = append(due, heap.Pop(&e.events).(pending).Event)
	}
	return due
}
