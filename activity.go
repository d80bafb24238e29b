package personasim

import (
	"time"
)

// ──────────────────────────────────────────────
// Activity Selector — filtered, additively scored candidate pick
// ──────────────────────────────────────────────

// Activity categories used by the built-in catalog and the affinity table.
const (
	CategoryRest        = "rest"
	CategoryReflection  = "reflection"
	CategoryExploration = "exploration"
	CategorySocial      = "social"
	CategoryCreative    = "creative"
	CategoryLearning    = "learning"
	CategoryPlay        = "play"
)

// Activity is one candidate the selector can pick.
type Activity struct {
	Name          string        `json:"name"`
	Category      string        `json:"category"`
	Duration      time.Duration `json:"duration"`
	EnergyCost    int           `json:"energy_cost"`
	FocusRequired int           `json:"focus_required"`
	Description   string        `json:"description,omitempty"`
}

// DefaultActivities is the built-in catalog so the library is usable
// without configuration.
func DefaultActivities() []Activity {
	return []Activity{
		{Name: "take a nap", Category: CategoryRest, Duration: 30 * time.Minute, EnergyCost: 0, FocusRequired: 0},
		{Name: "quiet reflection", Category: CategoryReflection, Duration: 20 * time.Minute, EnergyCost: 5, FocusRequired: 20},
		{Name: "journal recent thoughts", Category: CategoryReflection, Duration: 25 * time.Minute, EnergyCost: 10, FocusRequired: 35},
		{Name: "explore a new idea", Category: CategoryExploration, Duration: 45 * time.Minute, EnergyCost: 25, FocusRequired: 40},
		{Name: "wander and observe", Category: CategoryExploration, Duration: 30 * time.Minute, EnergyCost: 20, FocusRequired: 15},
		{Name: "reach out to a friend", Category: CategorySocial, Duration: 30 * time.Minute, EnergyCost: 20, FocusRequired: 25},
		{Name: "sketch something", Category: CategoryCreative, Duration: 40 * time.Minute, EnergyCost: 20, FocusRequired: 45},
		{Name: "compose a short piece", Category: CategoryCreative, Duration: 60 * time.Minute, EnergyCost: 30, FocusRequired: 55},
		{Name: "study a topic", Category: CategoryLearning, Duration: 45 * time.Minute, EnergyCost: 25, FocusRequired: 50},
		{Name: "play a quick game", Category: CategoryPlay, Duration: 20 * time.Minute, EnergyCost: 15, FocusRequired: 20},
	}
}

// emotionAffinity awards bonus points when the current emotion fits an
// activity category.
var emotionAffinity = map[EmotionCategory]map[string]int{
	EmotionExcited:       {CategoryExploration: 25, CategorySocial: 15, CategoryPlay: 15},
	EmotionHappy:         {CategorySocial: 20, CategoryPlay: 20, CategoryCreative: 10},
	EmotionCalm:          {CategoryReflection: 25, CategoryLearning: 15},
	EmotionCurious:       {CategoryLearning: 25, CategoryExploration: 20},
	EmotionContemplative: {CategoryReflection: 25, CategoryCreative: 10},
	EmotionAnxious:       {CategoryRest: 20, CategoryReflection: 15},
	EmotionSad:           {CategoryRest: 15, CategoryReflection: 15, CategoryCreative: 10},
	EmotionAngry:         {CategoryRest: 15, CategoryExploration: 10},
	EmotionPlayful:       {CategoryPlay: 30, CategorySocial: 15},
	EmotionMelancholy:    {CategoryReflection: 20, CategoryCreative: 15},
}

// ActivitySelector scores candidates against current state and picks one.
type ActivitySelector struct {
	cfg  SimConfig
	rand Rand
}

// NewActivitySelector creates a selector.
func NewActivitySelector(cfg SimConfig, r Rand) *ActivitySelector {
	return &ActivitySelector{cfg: cfg, rand: r}
}

// Select filters and scores candidates. It returns (nil, false) when the
// filtering pass leaves nothing eligible — callers treat that as "idle
// this cycle", not an error.
func (s *ActivitySelector) Select(candidates []Activity, p Personality, e Emotion, v VitalSigns, recent []string, available time.Duration) (*Activity, bool) {
	recentSet := make(map[string]bool, len(recent))
	for _, c := range recent {
		recentSet[c] = true
	}

	var best *Activity
	bestScore := -1
	for i := range candidates {
		c := &candidates[i]
		if available > 0 && c.Duration > available {
			continue
		}
		if c.EnergyCost > v.Energy {
			continue
		}
		if c.FocusRequired > v.Focus {
			continue
		}
		if recentSet[c.Category] {
			continue
		}

		score := s.score(c, p, e, v)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == nil {
		return nil, false
	}
	picked := *best
	return &picked, true
}

// score is an additive point system so a pick is explainable from its
// parts: rest bias, emotion affinity, personality thresholds, jitter.
func (s *ActivitySelector) score(c *Activity, p Personality, e Emotion, v VitalSigns) int {
	score := 0

	// low energy pushes toward rest
	if v.Energy < 30 && c.Category == CategoryRest {
		score += 30
	}
	if v.StressLevel > 70 && (c.Category == CategoryRest || c.Category == CategoryReflection) {
		score += 15
	}

	if bonuses, ok := emotionAffinity[e.Primary]; ok {
		score += bonuses[c.Category]
	}

	// personality thresholds
	if p.Extraversion > 70 && c.Category == CategorySocial {
		score += 20
	}
	if p.Curiosity > 70 && (c.Category == CategoryLearning || c.Category == CategoryExploration) {
		score += 20
	}
	if p.Creativity > 70 && c.Category == CategoryCreative {
		score += 20
	}
	if p.Humor > 70 && c.Category == CategoryPlay {
		score += 15
	}
	if p.Independence > 70 && c.Category == CategoryReflection {
		score += 10
	}

	if s.cfg.JitterMax > 0 {
		score += s.rand.Intn(s.cfg.JitterMax + 1)
	}
	return score
}

// ApplyActivity charges the activity's cost against the vitals (rest restores
// instead) and emits a notification.
func ApplyActivity(a *AgentState, act Activity, n Notifier, now time.Time) {
	a.UpdateVitals(func(v *VitalSigns) {
		if act.Category == CategoryRest {
			v.Energy += 25
			v.Focus += 15
			v.StressLevel -= 15
			return
		}
		v.Energy -= act.EnergyCost
		v.Focus -= act.FocusRequired / 2
		switch act.Category {
		case CategorySocial:
			v.SocialBattery -= 15
		case CategoryCreative:
			v.Creativity += 5
		case CategoryLearning:
			v.LearningCapacity -= 10
		}
	})
	if n != nil {
		n.Notify(Event{
			Kind:    EventActivitySelected,
			AgentID: a.ID(),
			At:      now,
			Payload: map[string]interface{}{"name": act.Name, "category": act.Category},
		})
	}
}
