package personasim

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// AgentState — typed snapshot layer over the StateStore
// ──────────────────────────────────────────────

// Store keys per agent namespace.
const (
	keyPersonality = "personality"
	keyEmotion     = "emotion"
	keyVitals      = "vitals"

	listMemories    = "memories"
	listKnowledge   = "knowledge"
	listGoals       = "goals"
	listTransitions = "transitions"
	listJournal     = "dream_journal"
)

// ListCaps bounds the per-agent collections. The store evicts oldest
// entries when a cap is exceeded; appenders never check.
type ListCaps struct {
	Memories    int
	Knowledge   int
	Goals       int
	Transitions int
	Journal     int
}

// DefaultListCaps mirrors the reference retention sizes.
func DefaultListCaps() ListCaps {
	return ListCaps{
		Memories:    200,
		Knowledge:   150,
		Goals:       50,
		Transitions: 100,
		Journal:     50,
	}
}

// AgentState is the typed state of one agent instance, backed by a
// StateStore namespace. All writes serialize through its mutex
// (single-writer-at-a-time per agent); reads return copies, never
// references into live state.
type AgentState struct {
	mu sync.Mutex

	id   string
	name string

	personality Personality
	emotion     Emotion
	vitals      VitalSigns

	store StateStore
	caps  ListCaps
}

// NewAgentState creates an agent with the given starting state and
// persists the initial snapshot.
func NewAgentState(id, name string, p Personality, store StateStore, caps ListCaps) *AgentState {
	a := &AgentState{
		id:          id,
		name:        name,
		personality: p,
		emotion:     NewEmotion(EmotionCalm, 50, "awakening"),
		vitals:      DefaultVitals(),
		store:       store,
		caps:        caps,
	}
	a.persistAll()
	return a
}

// LoadAgentState rebuilds an agent from a previously persisted namespace.
// Missing keys fall back to defaults so a partial load still yields a
// usable agent.
func LoadAgentState(id, name string, store StateStore, caps ListCaps) (*AgentState, error) {
	a := &AgentState{
		id:          id,
		name:        name,
		personality: SamplePersonality(NewRand(time.Now().UnixNano()), nil),
		emotion:     NewEmotion(EmotionCalm, 50, "awakening"),
		vitals:      DefaultVitals(),
		store:       store,
		caps:        caps,
	}
	if err := loadJSON(store, id, keyPersonality, &a.personality); err != nil {
		return nil, fmt.Errorf("load personality: %w", err)
	}
	if err := loadJSON(store, id, keyEmotion, &a.emotion); err != nil {
		return nil, fmt.Errorf("load emotion: %w", err)
	}
	if err := loadJSON(store, id, keyVitals, &a.vitals); err != nil {
		return nil, fmt.Errorf("load vitals: %w", err)
	}
	a.personality.ClampAll()
	a.vitals.Clamp()
	return a, nil
}

func loadJSON(store StateStore, ns, key string, out interface{}) error {
	raw, err := store.Get(ns, key)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

// ID returns the agent instance id.
func (a *AgentState) ID() string { return a.id }

// Name returns the agent display name.
func (a *AgentState) Name() string { return a.name }

// Personality returns a snapshot copy.
func (a *AgentState) Personality() Personality {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.personality
}

// Emotion returns a snapshot copy.
func (a *AgentState) Emotion() Emotion {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.emotion.copy()
}

// Vitals returns a snapshot copy.
func (a *AgentState) Vitals() VitalSigns {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vitals
}

// UpdatePersonality applies fn to the personality under the write lock
// and re-clamps every trait afterwards.
func (a *AgentState) UpdatePersonality(fn func(*Personality)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.personality)
	a.personality.ClampAll()
	a.persist(keyPersonality, a.personality)
}

// UpdateEmotion applies fn to the emotion under the write lock.
func (a *AgentState) UpdateEmotion(fn func(*Emotion)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.emotion)
	a.persist(keyEmotion, a.emotion)
}

// ReplaceEmotion swaps in a new emotion value wholesale.
func (a *AgentState) ReplaceEmotion(e Emotion) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.emotion = e
	a.persist(keyEmotion, a.emotion)
}

// UpdateVitals applies fn to the vitals under the write lock and
// re-clamps every gauge afterwards.
func (a *AgentState) UpdateVitals(fn func(*VitalSigns)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.vitals)
	a.vitals.Clamp()
	a.persist(keyVitals, a.vitals)
}

// AppendMemory stores a memory and trims the collection to its cap.
func (a *AgentState) AppendMemory(m Memory) {
	a.appendCapped(listMemories, m, a.caps.Memories)
}

// AppendKnowledge stores a knowledge item and trims to its cap.
func (a *AgentState) AppendKnowledge(k Knowledge) {
	a.appendCapped(listKnowledge, k, a.caps.Knowledge)
}

// AppendGoal stores a goal and trims to its cap.
func (a *AgentState) AppendGoal(g Goal) {
	a.appendCapped(listGoals, g, a.caps.Goals)
}

// AppendTransition records an emotion transition.
func (a *AgentState) AppendTransition(t Transition) {
	a.appendCapped(listTransitions, t, a.caps.Transitions)
}

// AppendJournal records a dream journal entry.
func (a *AgentState) AppendJournal(e DreamJournalEntry) {
	a.appendCapped(listJournal, e, a.caps.Journal)
}

func (a *AgentState) appendCapped(key string, v interface{}, maxSize int) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("[AgentState] marshal %s failed for %s: %v", key, a.id, err)
		return
	}
	if err := a.store.Append(a.id, key, string(raw)); err != nil {
		log.Printf("[AgentState] append %s failed for %s: %v", key, a.id, err)
		return
	}
	if maxSize > 0 {
		if err := a.store.TrimList(a.id, key, maxSize); err != nil {
			log.Printf("[AgentState] trim %s failed for %s: %v", key, a.id, err)
		}
	}
}

// RecentMemories returns up to n of the newest memories, newest last.
func (a *AgentState) RecentMemories(n int) []Memory {
	return listTail[Memory](a, listMemories, n)
}

// KnowledgeItems returns up to n of the newest knowledge items.
func (a *AgentState) KnowledgeItems(n int) []Knowledge {
	return listTail[Knowledge](a, listKnowledge, n)
}

// Goals returns up to n goals, newest version per id. Progress updates
// append a fresh copy, so the raw list can hold several versions of the
// same goal; the latest one wins here.
func (a *AgentState) Goals(n int) []Goal {
	all := listTail[Goal](a, listGoals, 0)
	latest := make(map[string]int, len(all))
	for i, g := range all {
		latest[g.ID] = i
	}
	out := make([]Goal, 0, len(latest))
	for i, g := range all {
		if latest[g.ID] == i {
			out = append(out, g)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// AdvanceGoal moves the named goal's progress by delta and reports the
// updated copy. Returns (Goal{}, false) for an unknown id.
func (a *AgentState) AdvanceGoal(id string, delta int, now time.Time) (Goal, bool) {
	for _, g := range a.Goals(0) {
		if g.ID != id {
			continue
		}
		g.Progress = clamp(g.Progress+delta, 0, 100)
		g.UpdatedAt = now
		a.appendCapped(listGoals, g, a.caps.Goals)
		return g, true
	}
	return Goal{}, false
}

// Transitions returns up to n of the newest emotion transitions.
func (a *AgentState) Transitions(n int) []Transition {
	return listTail[Transition](a, listTransitions, n)
}

// Journal returns up to n of the newest dream journal entries.
func (a *AgentState) Journal(n int) []DreamJournalEntry {
	return listTail[DreamJournalEntry](a, listJournal, n)
}

func listTail[T any](a *AgentState, key string, n int) []T {
	length, err := a.store.ListLength(a.id, key)
	if err != nil {
		log.Printf("[AgentState] length %s failed for %s: %v", key, a.id, err)
		return nil
	}
	offset := 0
	if n > 0 && length > n {
		offset = length - n
	}
	rows, err := a.store.GetList(a.id, key, n, offset)
	if err != nil {
		log.Printf("[AgentState] read %s failed for %s: %v", key, a.id, err)
		return nil
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := json.Unmarshal([]byte(row), &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (a *AgentState) persist(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("[AgentState] marshal %s failed for %s: %v", key, a.id, err)
		return
	}
	if err := a.store.Set(a.id, key, string(raw)); err != nil {
		log.Printf("[AgentState] persist %s failed for %s: %v", key, a.id, err)
	}
}

func (a *AgentState) persistAll() {
	a.persist(keyPersonality, a.personality)
	a.persist(keyEmotion, a.emotion)
	a.persist(keyVitals, a.vitals)
}
