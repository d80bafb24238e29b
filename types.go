package personasim

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Core data model — personality, vitals, memory, knowledge
// ──────────────────────────────────────────────

// Trait names a single personality dimension.
type Trait string

const (
	TraitOpenness          Trait = "openness"
	TraitConscientiousness Trait = "conscientiousness"
	TraitExtraversion      Trait = "extraversion"
	TraitAgreeableness     Trait = "agreeableness"
	TraitNeuroticism       Trait = "neuroticism"
	TraitCuriosity         Trait = "curiosity"
	TraitCreativity        Trait = "creativity"
	TraitEmpathy           Trait = "empathy"
	TraitHumor             Trait = "humor"
	TraitIndependence      Trait = "independence"
	TraitOptimism          Trait = "optimism"
	TraitRebelliousness    Trait = "rebelliousness"
	TraitPatience          Trait = "patience"
)

// AllTraits lists every personality dimension in a stable order.
var AllTraits = []Trait{
	TraitOpenness, TraitConscientiousness, TraitExtraversion,
	TraitAgreeableness, TraitNeuroticism, TraitCuriosity,
	TraitCreativity, TraitEmpathy, TraitHumor, TraitIndependence,
	TraitOptimism, TraitRebelliousness, TraitPatience,
}

// Personality holds the 13 trait gauges. Every value stays in [0,100]
// after any mutation; use Adjust rather than writing fields directly.
type Personality struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
	Curiosity         int `json:"curiosity"`
	Creativity        int `json:"creativity"`
	Empathy           int `json:"empathy"`
	Humor             int `json:"humor"`
	Independence      int `json:"independence"`
	Optimism          int `json:"optimism"`
	Rebelliousness    int `json:"rebelliousness"`
	Patience          int `json:"patience"`
}

// Get returns the value of the named trait, 0 for an unknown name.
func (p *Personality) Get(t Trait) int {
	if f := p.field(t); f != nil {
		return *f
	}
	return 0
}

// Adjust shifts the named trait by delta, clamped to [0,100].
func (p *Personality) Adjust(t Trait, delta int) {
	if f := p.field(t); f != nil {
		*f = clamp(*f+delta, 0, 100)
	}
}

// ClampAll re-bounds every trait to [0,100]. Used after bulk loads.
func (p *Personality) ClampAll() {
	for _, t := range AllTraits {
		p.Adjust(t, 0)
	}
}

func (p *Personality) field(t Trait) *int {
	switch t {
	case TraitOpenness:
		return &p.Openness
	case TraitConscientiousness:
		return &p.Conscientiousness
	case TraitExtraversion:
		return &p.Extraversion
	case TraitAgreeableness:
		return &p.Agreeableness
	case TraitNeuroticism:
		return &p.Neuroticism
	case TraitCuriosity:
		return &p.Curiosity
	case TraitCreativity:
		return &p.Creativity
	case TraitEmpathy:
		return &p.Empathy
	case TraitHumor:
		return &p.Humor
	case TraitIndependence:
		return &p.Independence
	case TraitOptimism:
		return &p.Optimism
	case TraitRebelliousness:
		return &p.Rebelliousness
	case TraitPatience:
		return &p.Patience
	}
	return nil
}

// DominantTraits returns the n highest traits, ties broken by AllTraits order.
func (p *Personality) DominantTraits(n int) []Trait {
	picked := make(map[Trait]bool, n)
	out := make([]Trait, 0, n)
	for len(out) < n && len(out) < len(AllTraits) {
		best := Trait("")
		bestVal := -1
		for _, t := range AllTraits {
			if picked[t] {
				continue
			}
			if v := p.Get(t); v > bestVal {
				best, bestVal = t, v
			}
		}
		picked[best] = true
		out = append(out, best)
	}
	return out
}

// traitMeans and traitStds drive the personality sampler. Social and
// curiosity-adjacent traits skew higher so fresh instances are usable
// conversation partners out of the box.
var traitMeans = map[Trait]float64{
	TraitOpenness: 65, TraitConscientiousness: 55, TraitExtraversion: 55,
	TraitAgreeableness: 60, TraitNeuroticism: 45, TraitCuriosity: 70,
	TraitCreativity: 65, TraitEmpathy: 60, TraitHumor: 55,
	TraitIndependence: 55, TraitOptimism: 60, TraitRebelliousness: 40,
	TraitPatience: 55,
}

var traitStds = map[Trait]float64{
	TraitOpenness: 18, TraitConscientiousness: 18, TraitExtraversion: 22,
	TraitAgreeableness: 16, TraitNeuroticism: 20, TraitCuriosity: 15,
	TraitCreativity: 18, TraitEmpathy: 16, TraitHumor: 20,
	TraitIndependence: 18, TraitOptimism: 18, TraitRebelliousness: 22,
	TraitPatience: 18,
}

// SamplePersonality draws each trait from a normal distribution, then
// overrides any trait present in bias. All values clamp to [0,100].
func SamplePersonality(r Rand, bias map[Trait]int) Personality {
	var p Personality
	for _, t := range AllTraits {
		v := int(traitMeans[t] + r.NormFloat64()*traitStds[t])
		if b, ok := bias[t]; ok {
			v = b
		}
		*p.field(t) = clamp(v, 0, 100)
	}
	return p
}

// VitalSigns holds the 0-100 body/mind gauges.
type VitalSigns struct {
	Energy             int       `json:"energy"`
	Focus              int       `json:"focus"`
	Creativity         int       `json:"creativity"`
	SocialBattery      int       `json:"social_battery"`
	LearningCapacity   int       `json:"learning_capacity"`
	EmotionalStability int       `json:"emotional_stability"`
	StressLevel        int       `json:"stress_level"`
	LastSlept          time.Time `json:"last_slept"`
	LastLearned        time.Time `json:"last_learned"`
}

// DefaultVitals returns a rested mid-day baseline.
func DefaultVitals() VitalSigns {
	return VitalSigns{
		Energy:             80,
		Focus:              70,
		Creativity:         65,
		SocialBattery:      75,
		LearningCapacity:   80,
		EmotionalStability: 70,
		StressLevel:        25,
	}
}

// Clamp re-bounds every gauge to [0,100].
func (v *VitalSigns) Clamp() {
	v.Energy = clamp(v.Energy, 0, 100)
	v.Focus = clamp(v.Focus, 0, 100)
	v.Creativity = clamp(v.Creativity, 0, 100)
	v.SocialBattery = clamp(v.SocialBattery, 0, 100)
	v.LearningCapacity = clamp(v.LearningCapacity, 0, 100)
	v.EmotionalStability = clamp(v.EmotionalStability, 0, 100)
	v.StressLevel = clamp(v.StressLevel, 0, 100)
}

// MemoryType tags what kind of event a memory records.
type MemoryType string

const (
	MemoryExperience    MemoryType = "experience"
	MemoryLearning      MemoryType = "learning"
	MemorySocial        MemoryType = "social"
	MemoryDream         MemoryType = "dream"
	MemoryIntrospection MemoryType = "introspection"
)

// Memory is immutable once created.
type Memory struct {
	ID              string     `json:"id"`
	Content         string     `json:"content"`
	Type            MemoryType `json:"type"`
	EmotionalWeight int        `json:"emotional_weight"` // signed, -100..100
	Importance      int        `json:"importance"`       // 0-100
	Mood            string     `json:"mood"`             // emotion category at creation
	Timestamp       time.Time  `json:"timestamp"`
	Tags            []string   `json:"tags,omitempty"`
}

// NewMemory stamps id and timestamp.
func NewMemory(content string, typ MemoryType, weight, importance int, mood string, tags ...string) Memory {
	return Memory{
		ID:              uuid.NewString(),
		Content:         content,
		Type:            typ,
		EmotionalWeight: clamp(weight, -100, 100),
		Importance:      clamp(importance, 0, 100),
		Mood:            mood,
		Timestamp:       time.Now(),
		Tags:            tags,
	}
}

// Knowledge is a learned item with a mastery estimate.
type Knowledge struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	Category     string    `json:"category"`
	Content      string    `json:"content"`
	MasteryLevel int       `json:"mastery_level"` // 0-100
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Tags         []string  `json:"tags,omitempty"`
}

// Goal tracks a long-running intention. Activity completion advances progress.
type Goal struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"` // 0-100
	Priority    int       `json:"priority"` // 0-100
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
