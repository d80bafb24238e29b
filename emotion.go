package personasim

import (
	"fmt"
	"time"
)

// ──────────────────────────────────────────────
// Emotion model — categories, stimuli, transitions
// ──────────────────────────────────────────────

// EmotionCategory is one of the fixed primary emotion categories.
type EmotionCategory string

const (
	EmotionHappy         EmotionCategory = "happy"
	EmotionExcited       EmotionCategory = "excited"
	EmotionCalm          EmotionCategory = "calm"
	EmotionCurious       EmotionCategory = "curious"
	EmotionContemplative EmotionCategory = "contemplative"
	EmotionAnxious       EmotionCategory = "anxious"
	EmotionSad           EmotionCategory = "sad"
	EmotionAngry         EmotionCategory = "angry"
	EmotionPlayful       EmotionCategory = "playful"
	EmotionMelancholy    EmotionCategory = "melancholy"
)

// maxEmotionTriggers bounds the rolling trigger list on an Emotion.
const maxEmotionTriggers = 5

// Emotion is the single live emotional state of an agent instance.
type Emotion struct {
	Primary     EmotionCategory `json:"primary"`
	Intensity   int             `json:"intensity"` // 0-100
	StartedAt   time.Time       `json:"started_at"`
	Triggers    []string        `json:"triggers,omitempty"` // rolling, max 5
	Description string          `json:"description,omitempty"`
}

// NewEmotion creates a live emotion starting now.
func NewEmotion(primary EmotionCategory, intensity int, trigger string) Emotion {
	e := Emotion{
		Primary:   primary,
		Intensity: clamp(intensity, 0, 100),
		StartedAt: time.Now(),
	}
	if trigger != "" {
		e.Triggers = []string{trigger}
	}
	return e
}

// AddTrigger appends to the rolling trigger list, evicting the oldest.
func (e *Emotion) AddTrigger(trigger string) {
	e.Triggers = append(e.Triggers, trigger)
	if len(e.Triggers) > maxEmotionTriggers {
		e.Triggers = e.Triggers[len(e.Triggers)-maxEmotionTriggers:]
	}
}

func (e Emotion) copy() Emotion {
	out := e
	out.Triggers = append([]string(nil), e.Triggers...)
	return out
}

// StimulusSource says where a stimulus originated.
type StimulusSource string

const (
	SourceExternal StimulusSource = "external"
	SourceInternal StimulusSource = "internal"
	SourceMemory   StimulusSource = "memory"
	SourceGoal     StimulusSource = "goal"
	SourceLearning StimulusSource = "learning"
	SourceSocial   StimulusSource = "social"
)

var validSources = map[StimulusSource]bool{
	SourceExternal: true, SourceInternal: true, SourceMemory: true,
	SourceGoal: true, SourceLearning: true, SourceSocial: true,
}

// Stimulus is a discrete event fed to the emotion engine.
type Stimulus struct {
	SourceKind   StimulusSource `json:"source_kind"`
	TriggerLabel string         `json:"trigger_label"`
	Impact       int            `json:"impact"` // -100..100
	Duration     time.Duration  `json:"duration"`
}

// Validate rejects malformed stimuli synchronously.
func (s Stimulus) Validate() error {
	if !validSources[s.SourceKind] {
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidStimulus, s.SourceKind)
	}
	if s.Impact < -100 || s.Impact > 100 {
		return fmt.Errorf("%w: impact %d outside [-100,100]", ErrInvalidStimulus, s.Impact)
	}
	return nil
}

// Transition records an archived emotion change.
type Transition struct {
	From        EmotionCategory `json:"from"`
	To          EmotionCategory `json:"to"`
	Reason      string          `json:"reason"`
	Naturalness int             `json:"naturalness"` // 0-100, analytics only
	Timestamp   time.Time       `json:"timestamp"`
}

// naturalnessMatrix scores how natural a from→to transition feels.
// Recorded on every transition, never blocks one. Pairs not listed
// fall back to naturalnessDefault.
var naturalnessMatrix = map[EmotionCategory]map[EmotionCategory]int{
	EmotionHappy: {
		EmotionExcited: 90, EmotionPlayful: 88, EmotionCalm: 75,
		EmotionCurious: 70, EmotionSad: 30, EmotionAngry: 25,
	},
	EmotionExcited: {
		EmotionHappy: 88, EmotionPlayful: 80, EmotionCurious: 75,
		EmotionAnxious: 45, EmotionCalm: 40,
	},
	EmotionCalm: {
		EmotionContemplative: 90, EmotionCurious: 80, EmotionHappy: 75,
		EmotionMelancholy: 50, EmotionAnxious: 35,
	},
	EmotionCurious: {
		EmotionExcited: 85, EmotionContemplative: 80, EmotionHappy: 75,
		EmotionCalm: 65,
	},
	EmotionContemplative: {
		EmotionCalm: 85, EmotionMelancholy: 70, EmotionCurious: 70,
		EmotionSad: 55,
	},
	EmotionAnxious: {
		EmotionCalm: 50, EmotionSad: 65, EmotionAngry: 60,
		EmotionContemplative: 55,
	},
	EmotionSad: {
		EmotionMelancholy: 85, EmotionAngry: 55, EmotionContemplative: 60,
		EmotionCalm: 45,
	},
	EmotionAngry: {
		EmotionAnxious: 60, EmotionSad: 55, EmotionCalm: 30,
		EmotionContemplative: 40,
	},
	EmotionPlayful: {
		EmotionHappy: 90, EmotionExcited: 85, EmotionCalm: 60,
	},
	EmotionMelancholy: {
		EmotionSad: 80, EmotionContemplative: 75, EmotionCalm: 55,
	},
}

const naturalnessDefault = 50

// TransitionNaturalness returns the static from→to compatibility score.
func TransitionNaturalness(from, to EmotionCategory) int {
	if row, ok := naturalnessMatrix[from]; ok {
		if v, ok := row[to]; ok {
			return v
		}
	}
	return naturalnessDefault
}
