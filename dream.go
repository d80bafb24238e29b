package personasim

import (
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Dream Cycle — sleep gate, subconscious thoughts, journal
// ──────────────────────────────────────────────

// SleepState is the dream cycle's two-state machine.
type SleepState int

const (
	Awake SleepState = iota
	Asleep
)

func (s SleepState) String() string {
	if s == Asleep {
		return "asleep"
	}
	return "awake"
}

// DreamType classifies a generated dream.
type DreamType string

const (
	DreamMemoryProcessing DreamType = "memory_processing"
	DreamCreative         DreamType = "creative"
	DreamProphetic        DreamType = "prophetic"
	DreamNightmare        DreamType = "nightmare"
	DreamLucid            DreamType = "lucid"
	DreamSymbolic         DreamType = "symbolic"
)

// Dream is a synthesized narrative produced only while asleep.
type Dream struct {
	ID        string    `json:"id"`
	Type      DreamType `json:"type"`
	Narrative string    `json:"narrative"`
	Symbols   []string  `json:"symbols,omitempty"`
	Tone      string    `json:"tone"`
	Timestamp time.Time `json:"timestamp"`
}

// SubconsciousThought surfaces from emotionally weighted memories or
// from cross-topic knowledge pairing.
type SubconsciousThought struct {
	Content string `json:"content"`
	Source  string `json:"source"` // memory | creative_spark
	Weight  int    `json:"weight"` // absolute emotional weight that pulled it in
}

// DreamPatterns is the queryable summary computed at wake time.
type DreamPatterns struct {
	RecurringSymbols []string `json:"recurring_symbols,omitempty"` // frequency >= 2
	DominantTone     string   `json:"dominant_tone"`
}

// DreamJournalEntry aggregates one sleep session.
type DreamJournalEntry struct {
	ID       string                `json:"id"`
	SleptAt  time.Time             `json:"slept_at"`
	WokeAt   time.Time             `json:"woke_at"`
	Dreams   []Dream               `json:"dreams"`
	Thoughts []SubconsciousThought `json:"thoughts,omitempty"`
	Patterns DreamPatterns         `json:"patterns"`
}

// DreamCycle runs the Awake/Asleep state machine for one agent. It is
// fully self-contained: no generation backend, deterministic under a
// fixed-seed Rand.
type DreamCycle struct {
	agent    *AgentState
	cfg      SimConfig
	rand     Rand
	notifier Notifier

	state           SleepState
	sleptAt         time.Time
	sessionDreams   []Dream
	sessionThoughts []SubconsciousThought
}

// NewDreamCycle creates a cycle starting awake.
func NewDreamCycle(agent *AgentState, cfg SimConfig, r Rand, n Notifier) *DreamCycle {
	if n == nil {
		n = NopNotifier{}
	}
	return &DreamCycle{agent: agent, cfg: cfg, rand: r, notifier: n, state: Awake}
}

// State reports the current sleep state.
func (d *DreamCycle) State() SleepState { return d.state }

// Tick advances the state machine once per check interval. Awake agents
// may fall asleep through the two-stage gate; asleep agents wake after
// the configured sleep duration.
func (d *DreamCycle) Tick(now time.Time) *DreamJournalEntry {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DreamCycle] tick recovered for %s: %v", d.agent.ID(), r)
		}
	}()

	switch d.state {
	case Awake:
		if d.shouldSleep(now) {
			d.fallAsleep(now)
		}
		return nil
	case Asleep:
		if now.Sub(d.sleptAt) >= d.cfg.SleepDuration {
			return d.wake(now)
		}
		return nil
	}
	return nil
}

// shouldSleep is the two-stage gate: a score decides how eligible the
// agent is, a second draw decides whether it actually sleeps now.
// "Eligible to sleep" and "sleeps now" stay decoupled on purpose.
func (d *DreamCycle) shouldSleep(now time.Time) bool {
	v := d.agent.Vitals()
	score := float64(100-v.Energy)*0.5 + float64(100-v.EmotionalStability)*0.3
	score += float64(timeOfDayBonus(now.Hour()))
	prob := clampF(score/d.cfg.SleepScoreDivide, 0, 0.95)
	return d.rand.Float64() < prob
}

// timeOfDayBonus favors late night and the early-afternoon dip.
func timeOfDayBonus(hour int) int {
	switch {
	case hour >= 23 || hour < 6:
		return 30
	case hour >= 13 && hour < 15:
		return 15
	default:
		return 0
	}
}

func (d *DreamCycle) fallAsleep(now time.Time) {
	d.state = Asleep
	d.sleptAt = now
	d.sessionThoughts = d.generateThoughts()
	d.sessionDreams = d.generateDreams(now)
	log.Printf("[DreamCycle] %s fell asleep (%d thoughts, %d dreams)",
		d.agent.ID(), len(d.sessionThoughts), len(d.sessionDreams))
}

func (d *DreamCycle) wake(now time.Time) *DreamJournalEntry {
	entry := DreamJournalEntry{
		ID:       uuid.NewString(),
		SleptAt:  d.sleptAt,
		WokeAt:   now,
		Dreams:   d.sessionDreams,
		Thoughts: d.sessionThoughts,
		Patterns: summarizePatterns(d.sessionDreams),
	}
	d.agent.AppendJournal(entry)

	// rest restores
	d.agent.UpdateVitals(func(v *VitalSigns) {
		v.Energy += 40
		v.Focus += 25
		v.StressLevel -= 20
		v.LastSlept = now
	})

	for _, dream := range d.sessionDreams {
		d.notifier.Notify(Event{
			Kind:    EventDreamRecorded,
			AgentID: d.agent.ID(),
			At:      now,
			Payload: map[string]interface{}{"type": string(dream.Type), "tone": dream.Tone},
		})
	}

	d.state = Awake
	d.sessionDreams = nil
	d.sessionThoughts = nil
	log.Printf("[DreamCycle] %s woke after %s", d.agent.ID(), now.Sub(entry.SleptAt))
	return &entry
}

// generateThoughts derives subconscious thoughts from recent memories,
// probabilistically biased toward high absolute emotional weight, plus
// creative sparks pairing unrelated knowledge when creativity is high.
func (d *DreamCycle) generateThoughts() []SubconsciousThought {
	var thoughts []SubconsciousThought

	memories := d.agent.RecentMemories(50)
	for _, m := range memories {
		if len(thoughts) >= d.cfg.MaxThoughts {
			break
		}
		weight := m.EmotionalWeight
		if weight < 0 {
			weight = -weight
		}
		// inclusion probability grows with |emotionalWeight|
		if d.rand.Float64() < 0.15+float64(weight)/150 {
			thoughts = append(thoughts, SubconsciousThought{
				Content: "echo of " + m.Content,
				Source:  "memory",
				Weight:  weight,
			})
		}
	}

	p := d.agent.Personality()
	if p.Creativity >= d.cfg.CreativityGate {
		knowledge := d.agent.KnowledgeItems(20)
		if len(knowledge) >= 2 {
			sparks := 1 + d.rand.Intn(2)
			for i := 0; i < sparks && len(thoughts) < d.cfg.MaxThoughts; i++ {
				a := knowledge[d.rand.Intn(len(knowledge))]
				b := knowledge[d.rand.Intn(len(knowledge))]
				if a.Topic == b.Topic {
					continue
				}
				thoughts = append(thoughts, SubconsciousThought{
					Content: "what if " + a.Topic + " worked like " + b.Topic + "?",
					Source:  "creative_spark",
				})
			}
		}
	}
	return thoughts
}

func (d *DreamCycle) generateDreams(now time.Time) []Dream {
	count := d.cfg.DreamsMin
	if span := d.cfg.DreamsMax - d.cfg.DreamsMin; span > 0 {
		count += d.rand.Intn(span + 1)
	}

	symbols := d.collectSymbols()
	dreams := make([]Dream, 0, count)
	for i := 0; i < count; i++ {
		typ := d.drawDreamType()
		dreams = append(dreams, composeDream(typ, symbols, d.rand, now))
	}
	return dreams
}

// drawDreamType does a weighted draw where each weight is a linear
// function of personality and current stability/stress.
func (d *DreamCycle) drawDreamType() DreamType {
	p := d.agent.Personality()
	v := d.agent.Vitals()

	weights := []struct {
		typ DreamType
		w   int
	}{
		{DreamMemoryProcessing, 30 + p.Conscientiousness/5},
		{DreamCreative, p.Creativity/2 + p.Openness/4},
		{DreamProphetic, p.Openness/4 + p.Curiosity/4},
		{DreamNightmare, v.StressLevel/2 + (100-v.EmotionalStability)/4 + p.Neuroticism/4},
		{DreamLucid, p.Independence/4 + p.Conscientiousness/4},
		{DreamSymbolic, 10 + p.Openness/5 + p.Creativity/5},
	}

	total := 0
	for _, w := range weights {
		total += w.w
	}
	if total <= 0 {
		return DreamMemoryProcessing
	}
	roll := d.rand.Intn(total)
	for _, w := range weights {
		roll -= w.w
		if roll < 0 {
			return w.typ
		}
	}
	return DreamMemoryProcessing
}

// collectSymbols harvests dream symbols from memory tags and knowledge
// topics, falling back to a stock set.
func (d *DreamCycle) collectSymbols() []string {
	var symbols []string
	for _, m := range d.agent.RecentMemories(20) {
		symbols = append(symbols, m.Tags...)
	}
	for _, k := range d.agent.KnowledgeItems(10) {
		symbols = append(symbols, k.Topic)
	}
	if len(symbols) == 0 {
		symbols = []string{"a long corridor", "an open window", "the sea", "a familiar voice"}
	}
	return symbols
}

// summarizePatterns computes the wake-time report: symbols appearing at
// least twice across the session and the dominant emotional tone.
func summarizePatterns(dreams []Dream) DreamPatterns {
	symbolCount := make(map[string]int)
	toneCount := make(map[string]int)
	for _, dr := range dreams {
		for _, s := range dr.Symbols {
			symbolCount[s]++
		}
		toneCount[dr.Tone]++
	}

	var recurring []string
	for s, n := range symbolCount {
		if n >= 2 {
			recurring = append(recurring, s)
		}
	}
	sort.Strings(recurring)

	dominant := ""
	best := 0
	tones := make([]string, 0, len(toneCount))
	for t := range toneCount {
		tones = append(tones, t)
	}
	sort.Strings(tones)
	for _, t := range tones {
		if toneCount[t] > best {
			dominant, best = t, toneCount[t]
		}
	}

	return DreamPatterns{RecurringSymbols: recurring, DominantTone: dominant}
}
