package personasim

import (
	"fmt"
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// InMemoryStateStore and AgentState tests
// ══════════════════════════════════════════════

func TestInMemoryKV(t *testing.T) {
	s := NewInMemoryStateStore()

	if v, err := s.Get("ns", "missing"); err != nil || v != "" {
		t.Fatalf("missing key: v=%q err=%v", v, err)
	}
	if err := s.Set("ns", "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := s.Get("ns", "k"); v != "v1" {
		t.Fatalf("get after set: %q", v)
	}
	if err := s.Delete("ns", "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if v, _ := s.Get("ns", "k"); v != "" {
		t.Fatalf("get after delete: %q", v)
	}
}

func TestInMemoryNamespaceIsolation(t *testing.T) {
	s := NewInMemoryStateStore()
	s.Set("a", "k", "from-a")
	s.Set("b", "k", "from-b")
	s.Append("a", "l", "x")

	if v, _ := s.Get("b", "k"); v != "from-b" {
		t.Fatalf("namespace bleed: %q", v)
	}
	if n, _ := s.ListLength("b", "l"); n != 0 {
		t.Fatalf("list bleed: %d", n)
	}
}

func TestInMemoryListAppendAndTrim(t *testing.T) {
	s := NewInMemoryStateStore()
	for i := 0; i < 10; i++ {
		s.Append("ns", "l", fmt.Sprintf("m%d", i))
	}

	if err := s.TrimList("ns", "l", 4); err != nil {
		t.Fatalf("trim: %v", err)
	}
	rows, err := s.GetList("ns", "l", 0, 0)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("trimmed length %d, want 4", len(rows))
	}
	// newest entries survive
	for i, want := range []string{"m6", "m7", "m8", "m9"} {
		if rows[i] != want {
			t.Fatalf("row %d = %q, want %q", i, rows[i], want)
		}
	}
}

func TestInMemoryListWindow(t *testing.T) {
	s := NewInMemoryStateStore()
	for i := 0; i < 5; i++ {
		s.Append("ns", "l", fmt.Sprintf("m%d", i))
	}

	rows, _ := s.GetList("ns", "l", 2, 1)
	if len(rows) != 2 || rows[0] != "m1" || rows[1] != "m2" {
		t.Fatalf("window = %v", rows)
	}
	if rows, _ := s.GetList("ns", "l", 2, 99); rows != nil {
		t.Fatalf("offset past end = %v", rows)
	}
}

func TestInMemoryClearList(t *testing.T) {
	s := NewInMemoryStateStore()
	s.Append("ns", "l", "x")
	s.ClearList("ns", "l")
	if n, _ := s.ListLength("ns", "l"); n != 0 {
		t.Fatalf("length after clear = %d", n)
	}
}

// ── AgentState on top of the store ──

func TestAgentStateRoundTrip(t *testing.T) {
	store := NewInMemoryStateStore()
	p := Personality{Curiosity: 72, Humor: 33}
	a := NewAgentState("agent-1", "ada", p, store, DefaultListCaps())

	a.UpdateVitals(func(v *VitalSigns) { v.Energy = 42 })
	a.ReplaceEmotion(NewEmotion(EmotionCurious, 66, "found something"))
	a.AppendMemory(NewMemory("met the lighthouse keeper", MemorySocial, 25, 50, "curious"))

	loaded, err := LoadAgentState("agent-1", "ada", store, DefaultListCaps())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded.Personality(); got.Curiosity != 72 || got.Humor != 33 {
		t.Fatalf("personality lost: %+v", got)
	}
	if got := loaded.Emotion(); got.Primary != EmotionCurious || got.Intensity != 66 {
		t.Fatalf("emotion lost: %+v", got)
	}
	if got := loaded.Vitals(); got.Energy != 42 {
		t.Fatalf("vitals lost: %+v", got)
	}
	mems := loaded.RecentMemories(5)
	if len(mems) != 1 || mems[0].Content != "met the lighthouse keeper" {
		t.Fatalf("memories lost: %v", mems)
	}
}

func TestLoadAgentStateEmptyNamespace(t *testing.T) {
	a, err := LoadAgentState("ghost", "ghost", NewInMemoryStateStore(), DefaultListCaps())
	if err != nil {
		t.Fatalf("empty namespace should load defaults: %v", err)
	}
	if a.Emotion().Primary != EmotionCalm {
		t.Fatalf("default emotion = %s", a.Emotion().Primary)
	}
}

func TestAgentStateCapsEvictOldest(t *testing.T) {
	caps := DefaultListCaps()
	caps.Memories = 3
	a := NewAgentState("agent-1", "ada", Personality{}, NewInMemoryStateStore(), caps)

	for i := 0; i < 5; i++ {
		a.AppendMemory(NewMemory(fmt.Sprintf("event %d", i), MemoryExperience, 0, 10, "calm"))
	}
	mems := a.RecentMemories(0)
	if len(mems) != 3 {
		t.Fatalf("cap ignored: %d memories", len(mems))
	}
	if mems[0].Content != "event 2" || mems[2].Content != "event 4" {
		t.Fatalf("wrong survivors: %s .. %s", mems[0].Content, mems[2].Content)
	}
}

func TestRecentMemoriesNewestLast(t *testing.T) {
	a := newTestAgent(t, Personality{})
	a.AppendMemory(NewMemory("first", MemoryExperience, 0, 10, "calm"))
	a.AppendMemory(NewMemory("second", MemoryExperience, 0, 10, "calm"))
	a.AppendMemory(NewMemory("third", MemoryExperience, 0, 10, "calm"))

	mems := a.RecentMemories(2)
	if len(mems) != 2 || mems[0].Content != "second" || mems[1].Content != "third" {
		t.Fatalf("tail window wrong: %v", mems)
	}
}

func TestUpdatePersonalityClamps(t *testing.T) {
	a := newTestAgent(t, Personality{})
	a.UpdatePersonality(func(p *Personality) { p.Curiosity = 400; p.Humor = -10 })

	p := a.Personality()
	if p.Curiosity != 100 || p.Humor != 0 {
		t.Fatalf("clamp skipped: %+v", p)
	}
}

func TestEmotionSnapshotIsolated(t *testing.T) {
	a := newTestAgent(t, Personality{})
	a.UpdateEmotion(func(e *Emotion) { e.AddTrigger("origin") })

	snap := a.Emotion()
	snap.Triggers[0] = "tampered"

	if a.Emotion().Triggers[0] != "awakening" {
		t.Fatal("snapshot shares trigger slice with live state")
	}
}

func TestAdvanceGoalVersions(t *testing.T) {
	a := newTestAgent(t, Personality{})
	a.AppendGoal(Goal{ID: "g1", Description: "learn the coastline", Progress: 10})

	updated, ok := a.AdvanceGoal("g1", 25, time.Now())
	if !ok || updated.Progress != 35 {
		t.Fatalf("advance = %+v ok=%v", updated, ok)
	}
	goals := a.Goals(0)
	if len(goals) != 1 || goals[0].Progress != 35 {
		t.Fatalf("latest version not returned: %+v", goals)
	}
	if _, ok := a.AdvanceGoal("missing", 5, time.Now()); ok {
		t.Fatal("unknown goal id advanced")
	}
}
