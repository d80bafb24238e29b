package personasim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Dream content — per-type narrative generators
// ──────────────────────────────────────────────

// composeDream builds the narrative for one dream from its assigned
// type and the session's symbol pool. Each type has its own generator
// and tone.
func composeDream(typ DreamType, symbols []string, r Rand, now time.Time) Dream {
	pick := func() string { return symbols[r.Intn(len(symbols))] }
	s1, s2 := pick(), pick()

	var narrative, tone string
	switch typ {
	case DreamMemoryProcessing:
		narrative = fmt.Sprintf("Fragments of the day replay out of order: %s keeps surfacing, then dissolves into %s.", s1, s2)
		tone = "reflective"
	case DreamCreative:
		narrative = fmt.Sprintf("%s and %s merge into something that has never existed, and it almost makes sense.", s1, s2)
		tone = "wondrous"
	case DreamProphetic:
		narrative = fmt.Sprintf("A place not yet visited: %s waits there, and somehow %s is the way in.", s1, s2)
		tone = "portentous"
	case DreamNightmare:
		narrative = fmt.Sprintf("%s is wrong in a way that cannot be named, and %s will not stop following.", s1, s2)
		tone = "unsettling"
	case DreamLucid:
		narrative = fmt.Sprintf("The dream notices it is a dream. %s bends on request; %s stays stubbornly real.", s1, s2)
		tone = "deliberate"
	case DreamSymbolic:
		narrative = fmt.Sprintf("%s stands for something else entirely. %s keeps repeating until it means everything.", s1, s2)
		tone = "enigmatic"
	default:
		narrative = fmt.Sprintf("A quiet scene with %s.", s1)
		tone = "neutral"
	}

	return Dream{
		ID:        uuid.NewString(),
		Type:      typ,
		Narrative: narrative,
		Symbols:   []string{s1, s2},
		Tone:      tone,
		Timestamp: now,
	}
}
