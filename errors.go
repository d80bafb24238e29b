package personasim

import "errors"

// Validation errors are returned synchronously at the call that produced
// them. Not-found conditions are expressed as nil/false results, never
// as errors, per the library's failure semantics.
var (
	ErrInvalidStimulus = errors.New("invalid stimulus")
	ErrInvalidConfig   = errors.New("invalid config")
)
