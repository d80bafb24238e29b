package personasim

import "time"

// ──────────────────────────────────────────────
// SimConfig — every empirically chosen constant in one place
// ──────────────────────────────────────────────

// SimConfig collects the tunable constants of the simulation. The
// defaults reproduce the reference behavior; none of the exact values
// are load-bearing for correctness.
type SimConfig struct {
	// Emotion engine
	IntensityMin       int           // lower clamp band, default 20
	IntensityMax       int           // upper clamp band, default 95
	StimulusFactor     float64       // intensity delta per impact point, default 0.3
	TransitionMargin   int           // min intensity move to commit, default 5
	DecayThreshold     int           // intensity above which decay applies, default 80
	DecayAfter         time.Duration // emotion age before decay starts, default 1h
	DecayRatePerHour   float64       // default 0.15
	FluctuationRange   int           // idle random walk amplitude, default 5
	FluctuationFloor   int           // noise floor, walk applies only above it, default 2
	EmotionTickEvery   time.Duration // default 60s
	FluctuateTickEvery time.Duration // default 30s

	// Activity selector
	JitterMax        int           // uniform score jitter cap, default 20
	RecentCategories int           // anti-repetition window, default 3
	ActivityEvery    time.Duration
	FreeTime         time.Duration // available block per pick, default 1h
	GoalProgressStep int           // progress credit per activity, default 5

	// Dream generator
	SleepCheckEvery  time.Duration // default 30min
	SleepDuration    time.Duration // simulated sleep length, default 1h
	MaxThoughts      int           // subconscious thoughts per session cap, default 100
	DreamsMin        int           // default 1
	DreamsMax        int           // default 3
	CreativityGate   int           // creativity needed for spark thoughts, default 65
	SleepScoreDivide float64       // score→probability divisor, default 200

	// Conversation simulator
	RoundsMin        int           // default 3
	RoundsMax        int           // default 6
	IntimacyDelta    int           // per positive/negative sentiment hit, default 2
	HistoryCap       int           // relationship interaction history bound, default 20
	ConversationWait time.Duration // pacing delay between turns, 0 = headless

	// Learning trigger
	LearningCheckEvery time.Duration // default 60s
	LearningThreshold  float64       // draw scale, default 0.25
	LearningBatch      int           // items fetched per session, default 3
}

// DefaultConfig returns the reference constants.
func DefaultConfig() SimConfig {
	return SimConfig{
		IntensityMin:       20,
		IntensityMax:       95,
		StimulusFactor:     0.3,
		TransitionMargin:   5,
		DecayThreshold:     80,
		DecayAfter:         time.Hour,
		DecayRatePerHour:   0.15,
		FluctuationRange:   5,
		FluctuationFloor:   2,
		EmotionTickEvery:   60 * time.Second,
		FluctuateTickEvery: 30 * time.Second,

		JitterMax:        20,
		RecentCategories: 3,
		ActivityEvery:    5 * time.Minute,
		FreeTime:         time.Hour,
		GoalProgressStep: 5,

		SleepCheckEvery:  30 * time.Minute,
		SleepDuration:    time.Hour,
		MaxThoughts:      100,
		DreamsMin:        1,
		DreamsMax:        3,
		CreativityGate:   65,
		SleepScoreDivide: 200,

		RoundsMin:     3,
		RoundsMax:     6,
		IntimacyDelta: 2,
		HistoryCap:    20,

		LearningCheckEvery: 60 * time.Second,
		LearningThreshold:  0.25,
		LearningBatch:      3,
	}
}

// Validate checks band ordering and positive cadences.
func (c SimConfig) Validate() error {
	if c.IntensityMin < 0 || c.IntensityMax > 100 || c.IntensityMin >= c.IntensityMax {
		return ErrInvalidConfig
	}
	if c.RoundsMin <= 0 || c.RoundsMax < c.RoundsMin {
		return ErrInvalidConfig
	}
	if c.DreamsMin <= 0 || c.DreamsMax < c.DreamsMin {
		return ErrInvalidConfig
	}
	return nil
}

// clampIntensity bounds an intensity to the configured band.
func (c SimConfig) clampIntensity(v int) int {
	return clamp(v, c.IntensityMin, c.IntensityMax)
}
