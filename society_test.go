package personasim

import (
	"testing"
)

// ══════════════════════════════════════════════
// Society tests
// ══════════════════════════════════════════════

func newTestSociety(seed int64) *Society {
	return NewSociety(DefaultConfig(), NewInMemoryStateStore(), NewRand(seed), nil)
}

func TestCompatibilityIdenticalPersonalities(t *testing.T) {
	p := Personality{Openness: 60, Agreeableness: 55, Curiosity: 70, Optimism: 50, Humor: 45}
	if got := Compatibility(p, p); got != 70 {
		t.Fatalf("identical personalities score %d, want 70", got)
	}
}

func TestCompatibilitySymmetric(t *testing.T) {
	r := NewRand(3)
	for i := 0; i < 100; i++ {
		p1 := SamplePersonality(r, nil)
		p2 := SamplePersonality(r, nil)
		if Compatibility(p1, p2) != Compatibility(p2, p1) {
			t.Fatalf("asymmetric score for %+v / %+v", p1, p2)
		}
	}
}

func TestCompatibilityComplementarityBonus(t *testing.T) {
	base := Personality{Openness: 50, Agreeableness: 50, Curiosity: 50, Optimism: 50, Humor: 50}

	same := base
	same.Extraversion = 50
	other := base
	other.Extraversion = 50
	flat := Compatibility(same, other)

	loud := base
	loud.Extraversion = 90
	quiet := base
	quiet.Extraversion = 10
	if got := Compatibility(loud, quiet); got != flat+10 {
		t.Fatalf("extraversion complement scored %d, want %d", got, flat+10)
	}
}

func TestCreateInstanceSymmetricRelationships(t *testing.T) {
	s := newTestSociety(7)
	a := s.CreateInstance("ada", nil)
	b := s.CreateInstance("bram", nil)

	relAB, ok := b.Relationship(a.State.ID())
	if !ok {
		t.Fatal("bram has no record toward ada")
	}
	relBA, ok := a.Relationship(b.State.ID())
	if !ok {
		t.Fatal("ada has no record toward bram")
	}
	if relAB.Type != RelationNeutral || relBA.Type != RelationNeutral {
		t.Fatalf("new relationships not neutral: %s / %s", relAB.Type, relBA.Type)
	}
}

func TestCreateInstanceArrivalMemory(t *testing.T) {
	s := newTestSociety(7)
	a := s.CreateInstance("ada", nil)
	s.CreateInstance("bram", nil)

	mems := a.State.RecentMemories(5)
	if len(mems) != 1 {
		t.Fatalf("ada has %d memories, want 1", len(mems))
	}
	if mems[0].Type != MemorySocial || mems[0].Content != "bram joined the world" {
		t.Fatalf("unexpected arrival memory: %+v", mems[0])
	}
}

func TestRemoveDropsRelationships(t *testing.T) {
	s := newTestSociety(7)
	a := s.CreateInstance("ada", nil)
	b := s.CreateInstance("bram", nil)

	s.Remove(b.State.ID())
	if s.Len() != 1 {
		t.Fatalf("society size %d after removal", s.Len())
	}
	if s.Get(b.State.ID()) != nil {
		t.Fatal("removed instance still retrievable")
	}
	if _, ok := a.Relationship(b.State.ID()); ok {
		t.Fatal("stale relationship survived removal")
	}
}

func TestListAllPreservesCreationOrder(t *testing.T) {
	s := newTestSociety(7)
	names := []string{"ada", "bram", "cleo"}
	for _, n := range names {
		s.CreateInstance(n, nil)
	}
	all := s.ListAll()
	if len(all) != len(names) {
		t.Fatalf("listed %d instances", len(all))
	}
	for i, inst := range all {
		if inst.State.Name() != names[i] {
			t.Fatalf("position %d: got %s, want %s", i, inst.State.Name(), names[i])
		}
	}
}

func TestPromoteRelationship(t *testing.T) {
	cases := []struct {
		rel  Relationship
		want RelationType
	}{
		{Relationship{Type: RelationNeutral, Intimacy: 75, Trust: 65}, RelationFriend},
		{Relationship{Type: RelationNeutral, Competitiveness: 80, Trust: 30}, RelationRival},
		{Relationship{Type: RelationNeutral, Admiration: 85}, RelationMentor},
		{Relationship{Type: RelationNeutral, Intimacy: 50, Trust: 50}, RelationNeutral},
		// established types never change
		{Relationship{Type: RelationRomantic, Admiration: 90}, RelationRomantic},
	}
	for i, c := range cases {
		rel := c.rel
		promoteRelationship(&rel)
		if rel.Type != c.want {
			t.Fatalf("case %d: got %s, want %s", i, rel.Type, c.want)
		}
	}
}

func TestRelationshipSnapshotIsolated(t *testing.T) {
	s := newTestSociety(7)
	a := s.CreateInstance("ada", nil)
	b := s.CreateInstance("bram", nil)

	snap, _ := a.Relationship(b.State.ID())
	snap.Trust = 0
	snap.History = append(snap.History, Interaction{Kind: "tamper"})

	again, _ := a.Relationship(b.State.ID())
	if len(again.History) != 0 {
		t.Fatal("snapshot mutation leaked into the live record")
	}
}

func TestCreateInstanceNotifiesArrivalMemory(t *testing.T) {
	rec := &recordNotifier{}
	s := NewSociety(DefaultConfig(), NewInMemoryStateStore(), NewRand(7), rec)
	a := s.CreateInstance("ada", nil)
	s.CreateInstance("bram", nil)

	events := rec.byKind(EventMemoryCreated)
	if len(events) != 1 {
		t.Fatalf("memory events = %d, want 1", len(events))
	}
	if events[0].AgentID != a.State.ID() {
		t.Fatal("arrival memory event addressed to the wrong agent")
	}
}
