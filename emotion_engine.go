package personasim

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// EmotionEngine — stimulus queue, decay, fluctuation
// ──────────────────────────────────────────────

// EmotionEngine owns the emotional state of one agent instance. Stimuli
// are queued and applied on the next Tick, so bursts within one tick
// window coalesce into a single transition instead of thrashing.
type EmotionEngine struct {
	agent    *AgentState
	cfg      SimConfig
	rand     Rand
	notifier Notifier

	mu        sync.Mutex
	queue     []Stimulus
	lastDecay time.Time
}

// NewEmotionEngine wires an engine to an explicit agent state handle.
func NewEmotionEngine(agent *AgentState, cfg SimConfig, r Rand, n Notifier) *EmotionEngine {
	if n == nil {
		n = NopNotifier{}
	}
	return &EmotionEngine{agent: agent, cfg: cfg, rand: r, notifier: n}
}

// SubmitStimulus validates and queues a stimulus for the next tick.
// Malformed stimuli are rejected synchronously; nothing is applied here.
func (e *EmotionEngine) SubmitStimulus(s Stimulus) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, s)
	return nil
}

// QueueLength reports how many stimuli await the next tick.
func (e *EmotionEngine) QueueLength() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// RecallMemory re-triggers an emotional stimulus from a stored memory.
// The effect decays with the memory's age: halved for every week since
// it was created.
func (e *EmotionEngine) RecallMemory(m Memory, now time.Time) error {
	impact := float64(m.EmotionalWeight)
	for age := now.Sub(m.Timestamp); age > 7*24*time.Hour; age -= 7 * 24 * time.Hour {
		impact /= 2
	}
	if int(impact) == 0 {
		return nil
	}
	return e.SubmitStimulus(Stimulus{
		SourceKind:   SourceMemory,
		TriggerLabel: "remembered: " + m.Content,
		Impact:       int(impact),
	})
}

// Tick applies queued stimuli in submission order, then decay. It never
// panics outward: any internal anomaly is logged and the tick becomes a
// no-op.
func (e *EmotionEngine) Tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EmotionEngine] tick recovered for %s: %v", e.agent.ID(), r)
		}
	}()

	e.mu.Lock()
	pending := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, s := range pending {
		e.applyStimulus(s, now)
	}
	e.applyDecay(now)
}

// Fluctuate applies the small idle random walk. Run on its own, faster
// cadence than Tick. Never changes category.
func (e *EmotionEngine) Fluctuate(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EmotionEngine] fluctuate recovered for %s: %v", e.agent.ID(), r)
		}
	}()

	// the walk applies only when its magnitude exceeds the floor
	delta := e.rand.Intn(2*e.cfg.FluctuationRange+1) - e.cfg.FluctuationRange
	if delta >= -e.cfg.FluctuationFloor && delta <= e.cfg.FluctuationFloor {
		return
	}
	e.agent.UpdateEmotion(func(em *Emotion) {
		em.Intensity = e.cfg.clampIntensity(em.Intensity + delta)
	})
}

func (e *EmotionEngine) applyStimulus(s Stimulus, now time.Time) {
	current := e.agent.Emotion()
	personality := e.agent.Personality()

	candidate := candidateCategory(s, personality, current.Primary)
	candidateIntensity := e.cfg.clampIntensity(current.Intensity + int(float64(s.Impact)*e.cfg.StimulusFactor))

	moved := candidateIntensity - current.Intensity
	if moved < 0 {
		moved = -moved
	}
	if candidate == current.Primary && moved <= e.cfg.TransitionMargin {
		// below the commit margin: coalesce away
		return
	}

	if candidate != current.Primary {
		t := Transition{
			From:        current.Primary,
			To:          candidate,
			Reason:      s.TriggerLabel,
			Naturalness: TransitionNaturalness(current.Primary, candidate),
			Timestamp:   now,
		}
		e.agent.AppendTransition(t)
		next := Emotion{
			Primary:     candidate,
			Intensity:   candidateIntensity,
			StartedAt:   now,
			Description: fmt.Sprintf("%s after %s", candidate, s.SourceKind),
		}
		next.AddTrigger(s.TriggerLabel)
		e.agent.ReplaceEmotion(next)
	} else {
		e.agent.UpdateEmotion(func(em *Emotion) {
			em.Intensity = candidateIntensity
			em.AddTrigger(s.TriggerLabel)
		})
	}

	e.adjustPersonality(s)

	e.notifier.Notify(Event{
		Kind:    EventEmotionUpdated,
		AgentID: e.agent.ID(),
		At:      now,
		Payload: map[string]interface{}{
			"primary":   string(candidate),
			"intensity": candidateIntensity,
			"trigger":   s.TriggerLabel,
		},
	})
}

func (e *EmotionEngine) applyDecay(now time.Time) {
	current := e.agent.Emotion()
	if current.Intensity <= e.cfg.DecayThreshold {
		e.lastDecay = now
		return
	}
	if now.Sub(current.StartedAt) <= e.cfg.DecayAfter {
		return
	}

	since := e.cfg.EmotionTickEvery
	if !e.lastDecay.IsZero() && now.Sub(e.lastDecay) > since {
		since = now.Sub(e.lastDecay)
	}
	e.lastDecay = now

	// 15%/hour pro-rated to the elapsed window; category never changes
	factor := e.cfg.DecayRatePerHour * since.Hours()
	drop := int(float64(current.Intensity) * factor)
	if drop < 1 {
		drop = 1
	}
	e.agent.UpdateEmotion(func(em *Emotion) {
		em.Intensity = e.cfg.clampIntensity(em.Intensity - drop)
	})
}

// adjustPersonality applies the small trait increments tied to event
// outcomes. Deltas stay within ±2 so drift is slow.
func (e *EmotionEngine) adjustPersonality(s Stimulus) {
	e.agent.UpdatePersonality(func(p *Personality) {
		switch {
		case s.SourceKind == SourceSocial && s.Impact > 30:
			p.Adjust(TraitEmpathy, 1)
			p.Adjust(TraitExtraversion, 1)
		case s.SourceKind == SourceSocial && s.Impact < -30:
			p.Adjust(TraitExtraversion, -1)
		case s.SourceKind == SourceLearning && s.Impact > 0:
			p.Adjust(TraitCuriosity, 1)
		case s.SourceKind == SourceGoal && s.Impact > 50:
			p.Adjust(TraitConscientiousness, 2)
			p.Adjust(TraitOptimism, 1)
		case s.Impact < -50:
			p.Adjust(TraitNeuroticism, 1)
			p.Adjust(TraitOptimism, -1)
		}
	})
}

// candidateCategory maps a stimulus to its candidate primary emotion.
// Deterministic lookup keyed on impact band, source kind and the current
// personality; no randomness so the mapping is fully testable.
func candidateCategory(s Stimulus, p Personality, current EmotionCategory) EmotionCategory {
	switch {
	case s.Impact > 50:
		if p.Extraversion > 70 {
			return EmotionExcited
		}
		if p.Openness > 70 {
			return EmotionCurious
		}
		return EmotionHappy
	case s.Impact >= 20:
		switch s.SourceKind {
		case SourceLearning:
			return EmotionCurious
		case SourceGoal:
			return EmotionExcited
		default:
			return EmotionHappy
		}
	case s.Impact > -20:
		return current
	case s.Impact >= -50:
		if p.Neuroticism > 60 {
			return EmotionAnxious
		}
		return EmotionContemplative
	default:
		switch {
		case p.Neuroticism > 70:
			return EmotionAnxious
		case p.Rebelliousness > 60:
			return EmotionAngry
		default:
			return EmotionSad
		}
	}
}
