package personasim

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Simulation — one agent, all subsystems wired
// ──────────────────────────────────────────────

// Simulation runs the full autonomous loop for a single agent: emotion
// ticks, idle fluctuation, activity selection, the dream cycle and the
// learning trigger, all driven by one shared Scheduler.
type Simulation struct {
	Agent    *AgentState
	Engine   *EmotionEngine
	Selector *ActivitySelector
	Dreams   *DreamCycle
	Learning *LearningTrigger

	cfg       SimConfig
	scheduler *Scheduler
	notifier  Notifier
	catalog   []Activity
	recent    []string

	learningBusy atomic.Bool
	summaries    chan *LearningSummary
}

// SimulationOptions customizes construction. Zero values fall back to
// sane defaults.
type SimulationOptions struct {
	Name      string
	Bias      map[Trait]int
	Store     StateStore
	Generator Generator
	Notifier  Notifier
	Rand      Rand
	Catalog   []Activity
}

// NewSimulation builds a fully wired single-agent simulation.
func NewSimulation(cfg SimConfig, opts SimulationOptions) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		opts.Store = NewInMemoryStateStore()
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(time.Now().UnixNano())
	}
	if opts.Name == "" {
		opts.Name = "anima"
	}
	if len(opts.Catalog) == 0 {
		opts.Catalog = DefaultActivities()
	}

	agent := NewAgentState(uuid.NewString(), opts.Name, SamplePersonality(opts.Rand, opts.Bias), opts.Store, DefaultListCaps())
	engine := NewEmotionEngine(agent, cfg, opts.Rand, opts.Notifier)

	sim := &Simulation{
		Agent:     agent,
		Engine:    engine,
		Selector:  NewActivitySelector(cfg, opts.Rand),
		Dreams:    NewDreamCycle(agent, cfg, opts.Rand, opts.Notifier),
		Learning:  NewLearningTrigger(agent, engine, opts.Generator, cfg, opts.Rand, opts.Notifier),
		cfg:       cfg,
		scheduler: NewScheduler(time.Second),
		notifier:  opts.Notifier,
		catalog:   opts.Catalog,
		summaries: make(chan *LearningSummary, 16),
	}
	sim.register()
	return sim, nil
}

func (s *Simulation) register() {
	s.scheduler.Add("emotion", s.cfg.EmotionTickEvery, s.Engine.Tick)
	s.scheduler.Add("fluctuate", s.cfg.FluctuateTickEvery, s.Engine.Fluctuate)
	s.scheduler.Add("activity", s.cfg.ActivityEvery, s.activityTick)
	s.scheduler.Add("dream", s.cfg.SleepCheckEvery, func(now time.Time) { s.Dreams.Tick(now) })
	s.scheduler.Add("learning", s.cfg.LearningCheckEvery, s.learningTick)
}

// Start begins ticking. Non-blocking.
func (s *Simulation) Start() { s.scheduler.Start() }

// Stop halts ticking. In-flight learning sessions run to completion
// and their summaries stay readable from Summaries.
func (s *Simulation) Stop() { s.scheduler.Stop() }

// Summaries exposes completed learning session reports.
func (s *Simulation) Summaries() <-chan *LearningSummary { return s.summaries }

// Scheduler exposes the shared scheduler so callers can register extra
// callbacks or drive it manually in headless runs.
func (s *Simulation) Scheduler() *Scheduler { return s.scheduler }

// activityTick selects and applies one activity. A nil selection means
// idle this cycle, never an error.
func (s *Simulation) activityTick(now time.Time) {
	if s.Dreams.State() == Asleep {
		return
	}
	act, ok := s.Selector.Select(
		s.catalog,
		s.Agent.Personality(),
		s.Agent.Emotion(),
		s.Agent.Vitals(),
		s.recent,
		s.cfg.FreeTime,
	)
	if !ok {
		return
	}
	ApplyActivity(s.Agent, *act, s.notifier, now)
	s.advanceGoal(now)

	s.recent = append(s.recent, act.Category)
	if len(s.recent) > s.cfg.RecentCategories {
		s.recent = s.recent[len(s.recent)-s.cfg.RecentCategories:]
	}
}

// advanceGoal credits the newest unfinished goal after a completed
// activity. Reaching 100 feeds a strong goal stimulus back into the
// emotion engine.
func (s *Simulation) advanceGoal(now time.Time) {
	goals := s.Agent.Goals(0)
	for i := len(goals) - 1; i >= 0; i-- {
		g := goals[i]
		if g.Progress >= 100 {
			continue
		}
		updated, ok := s.Agent.AdvanceGoal(g.ID, s.cfg.GoalProgressStep, now)
		if !ok {
			return
		}
		if updated.Progress >= 100 {
			if err := s.Engine.SubmitStimulus(Stimulus{
				SourceKind:   SourceGoal,
				TriggerLabel: "achieved: " + updated.Description,
				Impact:       60,
			}); err != nil {
				log.Printf("[Simulation] goal stimulus rejected: %v", err)
			}
		}
		return
	}
}

// learningTick runs the probability gate inline but pushes the session
// itself (which may call the external backend) onto a worker goroutine
// so the scheduler never blocks. One session at a time.
func (s *Simulation) learningTick(now time.Time) {
	if s.Dreams.State() == Asleep || !s.Learning.ShouldLearn() {
		return
	}
	if !s.learningBusy.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.learningBusy.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		summary := s.Learning.RunSession(ctx, now)
		if summary == nil {
			return
		}
		select {
		case s.summaries <- summary:
		default:
			log.Printf("[Simulation] summary buffer full, dropping report for %s", s.Agent.ID())
		}
	}()
}
