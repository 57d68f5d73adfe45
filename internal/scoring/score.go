// Package scoring folds partially-missing evidence from several
// providers into five bounded category scores, one overall score, and
// an independent confidence score. Every function here is pure: no
// I/O, no shared state, deterministic for identical inputs.
package scoring

import "math"

// Score is one category result. A category that could not be computed
// at all is Unavailable rather than zero: zero is a valid "looks bad"
// score, while Unavailable means "no evidence to score on".
type Score struct {
	Value     int
	Available bool
}

func Computed(v int) Score {
	return Score{Value: clampScore(v), Available: true}
}

func Unavailable() Score {
	return Score{}
}

// ValueOrZero flattens a Score to the legacy numeric form where a
// missing category reads as 0. Callers that need the distinction keep
// the Score; this exists only for output compatibility.
func (s Score) ValueOrZero() int {
	if !s.Available {
		return 0
	}
	return s.Value
}

// Ptr returns the score as a nullable int, nil when unavailable.
func (s Score) Ptr() *int {
	if !s.Available {
		return nil
	}
	v := s.Value
	return &v
}

// Overall averages the available category scores, rounded to the
// nearest integer. Unavailable categories are excluded from both the
// numerator and the denominator; when nothing is available the result
// is 0 (documented fallback, not an error).
func Overall(scores ...Score) int {
	sum := 0
	n := 0
	for _, s := range scores {
		if !s.Available {
			continue
		}
		sum += s.Value
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
