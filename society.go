package personasim

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Society — agent instances, relationships, compatibility
// ──────────────────────────────────────────────

// RelationType classifies a relationship between two instances.
type RelationType string

const (
	RelationFriend   RelationType = "friend"
	RelationRival    RelationType = "rival"
	RelationMentor   RelationType = "mentor"
	RelationStudent  RelationType = "student"
	RelationNeutral  RelationType = "neutral"
	RelationRomantic RelationType = "romantic"
)

// Interaction is one entry in a relationship's bounded history.
type Interaction struct {
	Kind      string    `json:"kind"` // conversation outcome or event label
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Relationship is a directed record from one instance toward another.
// Both directions always exist, but their values are sampled and drift
// independently — symmetry in existence, not in value.
type Relationship struct {
	Type            RelationType  `json:"type"`
	Intimacy        int           `json:"intimacy"`        // 0-100
	Trust           int           `json:"trust"`           // 0-100
	Admiration      int           `json:"admiration"`      // 0-100
	Competitiveness int           `json:"competitiveness"` // 0-100
	History         []Interaction `json:"history,omitempty"`
}

func (r *Relationship) addHistory(i Interaction, maxSize int) {
	r.History = append(r.History, i)
	if maxSize > 0 && len(r.History) > maxSize {
		r.History = r.History[len(r.History)-maxSize:]
	}
}

// AgentInstance is one simulated persona inside a Society.
type AgentInstance struct {
	State *AgentState

	mu            sync.Mutex
	relationships map[string]*Relationship // peer id -> directed record
}

// Relationship returns a snapshot copy of the directed record toward
// peerID, or (Relationship{}, false) when none exists.
func (a *AgentInstance) Relationship(peerID string) (Relationship, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rel, ok := a.relationships[peerID]
	if !ok {
		return Relationship{}, false
	}
	out := *rel
	out.History = append([]Interaction(nil), rel.History...)
	return out, true
}

func (a *AgentInstance) updateRelationship(peerID string, fn func(*Relationship)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if rel, ok := a.relationships[peerID]; ok {
		fn(rel)
		rel.Intimacy = clamp(rel.Intimacy, 0, 100)
		rel.Trust = clamp(rel.Trust, 0, 100)
		rel.Admiration = clamp(rel.Admiration, 0, 100)
		rel.Competitiveness = clamp(rel.Competitiveness, 0, 100)
	}
}

// Society manages N agent instances and their pairwise relationships.
type Society struct {
	cfg      SimConfig
	rand     Rand
	store    StateStore
	caps     ListCaps
	notifier Notifier

	mu     sync.RWMutex
	agents map[string]*AgentInstance
	order  []string
}

// NewSociety creates an empty society backed by the given store.
func NewSociety(cfg SimConfig, store StateStore, r Rand, n Notifier) *Society {
	if n == nil {
		n = NopNotifier{}
	}
	return &Society{
		cfg:      cfg,
		rand:     r,
		store:    store,
		caps:     DefaultListCaps(),
		notifier: n,
		agents:   make(map[string]*AgentInstance),
	}
}

// CreateInstance samples a personality (bias overrides per trait),
// establishes symmetric neutral relationships with every existing
// instance, and gives each of them a memory about the arrival.
func (s *Society) CreateInstance(name string, bias map[Trait]int) *AgentInstance {
	id := uuid.NewString()
	p := SamplePersonality(s.rand, bias)
	inst := &AgentInstance{
		State:         NewAgentState(id, name, p, s.store, s.caps),
		relationships: make(map[string]*Relationship),
	}

	s.mu.Lock()
	for peerID, peer := range s.agents {
		compat := Compatibility(p, peer.State.Personality())

		inst.relationships[peerID] = s.seedRelationship(compat)
		peer.mu.Lock()
		peer.relationships[id] = s.seedRelationship(compat)
		peer.mu.Unlock()

		arrival := NewMemory(
			fmt.Sprintf("%s joined the world", name),
			MemorySocial, 10, 30, string(peer.State.Emotion().Primary), "arrival",
		)
		peer.State.AppendMemory(arrival)
		s.notifier.Notify(Event{
			Kind:    EventMemoryCreated,
			AgentID: peerID,
			At:      arrival.Timestamp,
			Payload: map[string]interface{}{"content": arrival.Content, "type": string(arrival.Type)},
		})
	}
	s.agents[id] = inst
	s.order = append(s.order, id)
	s.mu.Unlock()

	log.Printf("[Society] Created instance %s (%s)", name, id)
	return inst
}

// seedRelationship samples the initial directed values around the
// compatibility score. Each direction is drawn independently.
func (s *Society) seedRelationship(compat int) *Relationship {
	jitter := func(base int) int {
		return clamp(base+s.rand.Intn(21)-10, 0, 100)
	}
	return &Relationship{
		Type:            RelationNeutral,
		Intimacy:        jitter(10),
		Trust:           jitter(compat / 2),
		Admiration:      jitter(compat / 3),
		Competitiveness: jitter(100-compat) / 2,
	}
}

// Get returns the instance with the given id, nil when unknown.
func (s *Society) Get(id string) *AgentInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agents[id]
}

// ListAll returns the instances in creation order.
func (s *Society) ListAll() []*AgentInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*AgentInstance, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.agents[id])
	}
	return out
}

// Len reports the instance count.
func (s *Society) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agents)
}

// Remove deletes an instance. Conversations in flight with it abort
// their remaining rounds but keep partial results.
func (s *Society) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.agents, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for _, peer := range s.agents {
		peer.mu.Lock()
		delete(peer.relationships, id)
		peer.mu.Unlock()
	}
}

// compatTraits is the fixed subset compared for similarity.
var compatTraits = []Trait{
	TraitOpenness, TraitAgreeableness, TraitCuriosity,
	TraitOptimism, TraitHumor,
}

// Compatibility scores two personalities 0..100. The similarity
// component over compatTraits is symmetric; the complementarity bonuses
// reward specific high/low pairings and are symmetric for the pairs
// used here. Pure function: same inputs, same output.
func Compatibility(p1, p2 Personality) int {
	// similarity: closer values score higher
	sim := 0.0
	for _, t := range compatTraits {
		diff := p1.Get(t) - p2.Get(t)
		if diff < 0 {
			diff = -diff
		}
		sim += float64(100-diff) / float64(len(compatTraits))
	}
	score := sim * 0.7

	// complementarity: one high, one low on specific traits
	complements := func(a, b int) bool {
		return (a > 70 && b < 30) || (b > 70 && a < 30)
	}
	if complements(p1.Extraversion, p2.Extraversion) {
		score += 10
	}
	if complements(p1.Independence, p2.Independence) {
		score += 5
	}
	if complements(p1.Patience, p2.Patience) {
		score += 5
	}

	return clamp(int(score), 0, 100)
}

// promoteRelationship upgrades the relationship type once drift crosses
// the thresholds. Neutral is the only type that promotes; established
// types stay put.
func promoteRelationship(rel *Relationship) {
	if rel.Type != RelationNeutral {
		return
	}
	switch {
	case rel.Intimacy > 70 && rel.Trust > 60:
		rel.Type = RelationFriend
	case rel.Competitiveness > 75 && rel.Trust < 40:
		rel.Type = RelationRival
	case rel.Admiration > 80:
		rel.Type = RelationMentor
	}
}
