package personasim

import (
	"log"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Scheduler — one shared periodic timer for every subsystem
// ──────────────────────────────────────────────

// TickFn is a scheduler callback. It must not block: slow work belongs
// on a worker goroutine reporting back through a channel.
type TickFn func(now time.Time)

type scheduledTask struct {
	name     string
	interval time.Duration
	fn       TickFn
	lastRun  time.Time
}

// Scheduler drives all subsystem ticks from a single poll loop. Each
// subsystem registers one or more named callbacks at its own cadence.
// A panicking callback is recovered and logged; the loop never stops
// because one subsystem misbehaved.
//
// Usage:
//
//	s := personasim.NewScheduler(time.Second)
//	s.Add("emotion", 60*time.Second, engine.Tick)
//	s.Add("fluctuate", 30*time.Second, engine.Fluctuate)
//	s.Start()
//	defer s.Stop()
type Scheduler struct {
	resolution time.Duration

	mu      sync.Mutex
	tasks   map[string]*scheduledTask
	stopCh  chan struct{}
	running bool

	// counters for observability
	Ticks     atomic.Int64 // callbacks run
	Recovered atomic.Int64 // callbacks that panicked
}

// NewScheduler creates a scheduler polling at the given resolution.
func NewScheduler(resolution time.Duration) *Scheduler {
	if resolution <= 0 {
		resolution = time.Second
	}
	return &Scheduler{
		resolution: resolution,
		tasks:      make(map[string]*scheduledTask),
		stopCh:     make(chan struct{}),
	}
}

// Add registers a named callback at its own cadence. Re-adding a name
// replaces the previous callback.
func (s *Scheduler) Add(name string, interval time.Duration, fn TickFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[name] = &scheduledTask{name: name, interval: interval, fn: fn}
	log.Printf("[Scheduler] Task registered: %s (every %s)", name, interval)
}

// Remove unregisters a callback by name.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, name)
}

// Start launches the background poll loop. Non-blocking.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	go s.pollLoop()
	log.Printf("[Scheduler] Started (resolution=%s)", s.resolution)
}

// Stop halts the background poll loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	log.Println("[Scheduler] Stopped")
}

func (s *Scheduler) pollLoop() {
	ticker := time.NewTicker(s.resolution)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.RunDue(now)
		case <-s.stopCh:
			return
		}
	}
}

// RunDue executes every task whose interval has elapsed. Exported so
// tests and headless callers can drive the scheduler with a synthetic
// clock instead of real time.
func (s *Scheduler) RunDue(now time.Time) {
	s.mu.Lock()
	due := make([]*scheduledTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.lastRun.IsZero() || now.Sub(t.lastRun) >= t.interval {
			t.lastRun = now
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		s.runOne(t, now)
	}
}

func (s *Scheduler) runOne(t *scheduledTask, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.Recovered.Inc()
			log.Printf("[Scheduler] task %s panicked: %v", t.name, r)
		}
	}()
	t.fn(now)
	s.Ticks.Inc()
}
