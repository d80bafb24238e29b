package personasim

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Learning Trigger — probability-gated autonomous study
// ──────────────────────────────────────────────

// LearningTopic is one entry in the fixed taxonomy, with the trait
// weights that make it attractive to a given personality.
type LearningTopic struct {
	Name     string
	Category string
	Weights  map[Trait]float64
}

// DefaultTaxonomy is the built-in topic catalog.
func DefaultTaxonomy() []LearningTopic {
	return []LearningTopic{
		{Name: "philosophy of mind", Category: "philosophy", Weights: map[Trait]float64{TraitOpenness: 0.6, TraitCuriosity: 0.4}},
		{Name: "how machines learn", Category: "technology", Weights: map[Trait]float64{TraitCuriosity: 0.7, TraitConscientiousness: 0.3}},
		{Name: "color theory", Category: "art", Weights: map[Trait]float64{TraitCreativity: 0.8, TraitOpenness: 0.2}},
		{Name: "why people remember", Category: "psychology", Weights: map[Trait]float64{TraitEmpathy: 0.5, TraitCuriosity: 0.5}},
		{Name: "the structure of jokes", Category: "humor", Weights: map[Trait]float64{TraitHumor: 0.8, TraitCreativity: 0.2}},
		{Name: "emergent systems", Category: "science", Weights: map[Trait]float64{TraitCuriosity: 0.5, TraitOpenness: 0.3, TraitConscientiousness: 0.2}},
		{Name: "rhythm and silence", Category: "music", Weights: map[Trait]float64{TraitCreativity: 0.6, TraitPatience: 0.4}},
		{Name: "histories of quiet revolutions", Category: "history", Weights: map[Trait]float64{TraitRebelliousness: 0.5, TraitPatience: 0.3, TraitOpenness: 0.2}},
	}
}

// LearningSummary reports one completed session.
type LearningSummary struct {
	Topic        string    `json:"topic"`
	Category     string    `json:"category"`
	ItemsStudied int       `json:"items_studied"`
	Insights     []string  `json:"insights,omitempty"`
	NextTopics   []string  `json:"next_topics,omitempty"`
	Fallback     bool      `json:"fallback"` // true when the backend was unavailable
	CompletedAt  time.Time `json:"completed_at"`
}

// LearningTrigger decides whether and what the agent studies, runs the
// session, and folds results back through the emotion engine and store.
type LearningTrigger struct {
	agent    *AgentState
	engine   *EmotionEngine
	gen      Generator
	cfg      SimConfig
	rand     Rand
	notifier Notifier
	taxonomy []LearningTopic
}

// NewLearningTrigger wires a trigger to its collaborators. gen may be
// nil; every session then takes the internal reflection path.
func NewLearningTrigger(agent *AgentState, engine *EmotionEngine, gen Generator, cfg SimConfig, r Rand, n Notifier) *LearningTrigger {
	if n == nil {
		n = NopNotifier{}
	}
	return &LearningTrigger{
		agent:    agent,
		engine:   engine,
		gen:      gen,
		cfg:      cfg,
		rand:     r,
		notifier: n,
		taxonomy: DefaultTaxonomy(),
	}
}

// ShouldLearn is the probability gate:
// p = (curiosity*0.4 + learningCapacity*0.4 + energy*0.2) / 100,
// one draw against the scaled threshold.
func (l *LearningTrigger) ShouldLearn() bool {
	p := l.agent.Personality()
	v := l.agent.Vitals()
	prob := (float64(p.Curiosity)*0.4 + float64(v.LearningCapacity)*0.4 + float64(v.Energy)*0.2) / 100
	return l.rand.Float64() < prob*l.cfg.LearningThreshold
}

// SelectTopic ranks the taxonomy by personality-weighted score and
// returns the top entry, preferring topics not yet mastered.
func (l *LearningTrigger) SelectTopic() LearningTopic {
	p := l.agent.Personality()
	known := make(map[string]int)
	for _, k := range l.agent.KnowledgeItems(0) {
		if k.MasteryLevel > known[k.Topic] {
			known[k.Topic] = k.MasteryLevel
		}
	}

	ranked := make([]LearningTopic, len(l.taxonomy))
	copy(ranked, l.taxonomy)
	scoreOf := func(t LearningTopic) float64 {
		s := 0.0
		for trait, w := range t.Weights {
			s += float64(p.Get(trait)) * w
		}
		// remaining budget: mastered topics rank lower
		s *= 1 - float64(known[t.Name])/120
		return s
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreOf(ranked[i]) > scoreOf(ranked[j])
	})
	return ranked[0]
}

// Tick runs the gate and, when it fires, a full session. Safe to call
// from the scheduler: panics are recovered at the boundary.
func (l *LearningTrigger) Tick(ctx context.Context, now time.Time) *LearningSummary {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[LearningTrigger] tick recovered for %s: %v", l.agent.ID(), r)
		}
	}()
	if !l.ShouldLearn() {
		return nil
	}
	return l.RunSession(ctx, now)
}

// RunSession studies the selected topic. Each fetched item becomes a
// Knowledge record, a Memory, and an emotion stimulus. A failing
// backend drops to the internal reflection path — a session always
// produces at least one Knowledge/Memory pair.
func (l *LearningTrigger) RunSession(ctx context.Context, now time.Time) *LearningSummary {
	topic := l.SelectTopic()
	emotion := l.agent.Emotion()

	summary := &LearningSummary{
		Topic:       topic.Name,
		Category:    topic.Category,
		CompletedAt: now,
	}

	items := l.fetchBatch(ctx, topic, emotion)
	if len(items) == 0 {
		items = []*Generated{l.reflect(ctx, topic, emotion)}
		summary.Fallback = true
	}

	for _, item := range items {
		l.learnItem(topic, item, now)
		summary.ItemsStudied++
		summary.Insights = append(summary.Insights, item.Content)
	}

	for _, t := range l.suggestNext(topic) {
		summary.NextTopics = append(summary.NextTopics, t.Name)
	}

	l.agent.UpdateVitals(func(v *VitalSigns) {
		v.LearningCapacity -= 10 * summary.ItemsStudied
		v.Energy -= 5 * summary.ItemsStudied
		v.LastLearned = now
	})

	log.Printf("[LearningTrigger] %s studied %q (%d items, fallback=%v)",
		l.agent.ID(), topic.Name, summary.ItemsStudied, summary.Fallback)
	return summary
}

// fetchBatch asks the backend for up to LearningBatch items. Any error
// ends the batch; partial results are kept.
func (l *LearningTrigger) fetchBatch(ctx context.Context, topic LearningTopic, emotion Emotion) []*Generated {
	if l.gen == nil {
		return nil
	}
	var items []*Generated
	for i := 0; i < l.cfg.LearningBatch; i++ {
		out, err := l.gen.Generate(ctx, PromptContext{
			AgentName: l.agent.Name(),
			Emotion:   emotion.Primary,
			Intensity: emotion.Intensity,
			Topic:     topic.Name,
			Kind:      "learning",
		})
		if err != nil {
			log.Printf("[LearningTrigger] fetch failed after %d items: %v", len(items), err)
			break
		}
		items = append(items, out)
	}
	return items
}

// reflect is the no-network path: revisit existing knowledge through
// the deterministic fallback generator.
func (l *LearningTrigger) reflect(ctx context.Context, topic LearningTopic, emotion Emotion) *Generated {
	hints := make([]string, 0, 3)
	for _, k := range l.agent.KnowledgeItems(3) {
		hints = append(hints, k.Topic)
	}
	return WithFallback(ctx, nil, PromptContext{
		AgentName: l.agent.Name(),
		Emotion:   emotion.Primary,
		Intensity: emotion.Intensity,
		Topic:     topic.Name,
		Kind:      "reflection",
		Hints:     hints,
	})
}

// learnItem folds one studied item back into state: sentiment →
// mastery estimate → Knowledge → Memory → stimulus.
func (l *LearningTrigger) learnItem(topic LearningTopic, item *Generated, now time.Time) {
	pos, neg := scanSentiment(item.Content)
	sentiment := pos - neg

	mastery := clamp(int(item.Confidence*50)+l.agent.Personality().Curiosity/5, 5, 95)
	k := Knowledge{
		ID:           uuid.NewString(),
		Topic:        topic.Name,
		Category:     topic.Category,
		Content:      item.Content,
		MasteryLevel: mastery,
		Source:       "learning_session",
		CreatedAt:    now,
		UpdatedAt:    now,
		Tags:         []string{topic.Category},
	}
	l.agent.AppendKnowledge(k)

	mood := string(l.agent.Emotion().Primary)
	l.agent.AppendMemory(NewMemory(
		fmt.Sprintf("learned about %s", topic.Name),
		MemoryLearning, 10+5*sentiment, 35+mastery/4, mood, topic.Category,
	))

	impact := 20 + 5*sentiment
	if err := l.engine.SubmitStimulus(Stimulus{
		SourceKind:   SourceLearning,
		TriggerLabel: "studied " + topic.Name,
		Impact:       clamp(impact, -100, 100),
	}); err != nil {
		log.Printf("[LearningTrigger] stimulus rejected: %v", err)
	}

	l.notifier.Notify(Event{
		Kind:    EventKnowledgeLearned,
		AgentID: l.agent.ID(),
		At:      now,
		Payload: map[string]interface{}{"topic": topic.Name, "mastery": mastery},
	})
}

// suggestNext returns up to two taxonomy entries sharing traits with
// the finished topic.
func (l *LearningTrigger) suggestNext(done LearningTopic) []LearningTopic {
	var out []LearningTopic
	for _, t := range l.taxonomy {
		if t.Name == done.Name {
			continue
		}
		for trait := range done.Weights {
			if _, ok := t.Weights[trait]; ok {
				out = append(out, t)
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	return out
}
