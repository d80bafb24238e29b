package personasim

import (
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// Simulation wiring tests — scheduler driven manually
// ══════════════════════════════════════════════

func TestNewSimulationDefaults(t *testing.T) {
	sim, err := NewSimulation(DefaultConfig(), SimulationOptions{Rand: NewRand(1)})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	if sim.Agent == nil || sim.Engine == nil || sim.Dreams == nil || sim.Learning == nil {
		t.Fatal("subsystem left unwired")
	}
	if sim.Agent.Name() != "anima" {
		t.Fatalf("default name = %q", sim.Agent.Name())
	}
	if sim.Dreams.State() != Awake {
		t.Fatal("simulation should start awake")
	}
}

func TestNewSimulationRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntensityMin = 90
	cfg.IntensityMax = 50
	if _, err := NewSimulation(cfg, SimulationOptions{}); err == nil {
		t.Fatal("inverted intensity band accepted")
	}
}

func TestSimulationActivityTickAppliesCost(t *testing.T) {
	sim, err := NewSimulation(DefaultConfig(), SimulationOptions{
		Name: "tessa",
		Rand: NewRand(4),
		Catalog: []Activity{
			{Name: "wander", Category: CategoryExploration, Duration: 30 * time.Minute, EnergyCost: 20, FocusRequired: 10},
		},
	})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}

	before := sim.Agent.Vitals()
	sim.activityTick(time.Now())
	after := sim.Agent.Vitals()

	if after.Energy != before.Energy-20 {
		t.Fatalf("activity did not charge energy: %d -> %d", before.Energy, after.Energy)
	}
	if len(sim.recent) != 1 || sim.recent[0] != CategoryExploration {
		t.Fatalf("recent window = %v", sim.recent)
	}
}

func TestSimulationRecentWindowBounded(t *testing.T) {
	catalog := []Activity{
		{Name: "a", Category: "c1", Duration: time.Minute},
		{Name: "b", Category: "c2", Duration: time.Minute},
		{Name: "c", Category: "c3", Duration: time.Minute},
		{Name: "d", Category: "c4", Duration: time.Minute},
		{Name: "e", Category: "c5", Duration: time.Minute},
	}
	sim, err := NewSimulation(DefaultConfig(), SimulationOptions{Rand: NewRand(4), Catalog: catalog})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}

	now := time.Now()
	for i := 0; i < 5; i++ {
		sim.activityTick(now.Add(time.Duration(i) * time.Minute))
	}
	if len(sim.recent) > DefaultConfig().RecentCategories {
		t.Fatalf("recent window grew to %d", len(sim.recent))
	}
}

func TestSimulationSchedulerRunsSubsystems(t *testing.T) {
	sim, err := NewSimulation(DefaultConfig(), SimulationOptions{Rand: NewRand(9)})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}

	// first RunDue fires every registered task once
	sim.Scheduler().RunDue(time.Now())
	if got := sim.Scheduler().Ticks.Load(); got != 5 {
		t.Fatalf("first pass ran %d tasks, want 5", got)
	}
	if got := sim.Scheduler().Recovered.Load(); got != 0 {
		t.Fatalf("%d tasks panicked on first pass", got)
	}
}

func TestSimulationLearningTickSingleFlight(t *testing.T) {
	sim, err := NewSimulation(DefaultConfig(), SimulationOptions{
		Rand: NewRand(9),
		Bias: map[Trait]int{TraitCuriosity: 100},
	})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	sim.learningBusy.Store(true) // pretend a session is in flight
	sim.learningTick(time.Now())

	select {
	case <-sim.Summaries():
		t.Fatal("second session ran while one was in flight")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSimulationAdvancesGoals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GoalProgressStep = 60
	sim, err := NewSimulation(cfg, SimulationOptions{
		Rand: NewRand(4),
		Catalog: []Activity{
			{Name: "practice", Category: CategoryCreative, Duration: 30 * time.Minute, EnergyCost: 5},
		},
	})
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	now := time.Now()
	sim.Agent.AppendGoal(Goal{ID: "g1", Description: "finish the mural", Progress: 0, Priority: 70, CreatedAt: now})

	sim.activityTick(now)
	goals := sim.Agent.Goals(0)
	if len(goals) != 1 || goals[0].Progress != 60 {
		t.Fatalf("goal not advanced: %+v", goals)
	}

	// second pass crosses 100 and feeds a goal stimulus
	sim.recent = nil
	sim.activityTick(now.Add(time.Hour))
	goals = sim.Agent.Goals(0)
	if goals[0].Progress != 100 {
		t.Fatalf("goal not completed: %+v", goals)
	}
	if sim.Engine.QueueLength() != 1 {
		t.Fatalf("completion stimulus missing, queue=%d", sim.Engine.QueueLength())
	}

	// finished goals stop collecting credit
	sim.recent = nil
	sim.activityTick(now.Add(2 * time.Hour))
	if got := sim.Agent.Goals(0)[0].Progress; got != 100 {
		t.Fatalf("completed goal kept moving: %d", got)
	}
}
