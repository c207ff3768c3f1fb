// Package handicap computes course handicaps and per-hole stroke
// allocations. It is a pure function library: no state, no I/O, safe to call
// concurrently across matches.
package handicap

import (
	"errors"
	"fmt"
	"math"
)

const (
	// NeutralSlope is the USGA slope of a course of standard difficulty.
	NeutralSlope = 113
	// HolesPerRound is the number of holes an allocation covers.
	HolesPerRound = 18
)

var (
	// ErrInvalidCourseData is returned when rating or par are not finite
	// numbers. Unlike a bad slope there is no sensible substitute.
	ErrInvalidCourseData = errors.New("handicap: course rating and par must be finite numbers")

	// ErrInvalidHoleHandicapData is returned when the stroke-index ranks are
	// not an 18-entry permutation of 1..18.
	ErrInvalidHoleHandicapData = errors.New("handicap: hole handicap ranks must be a permutation of 1..18")
)

// Result carries a computed course handicap. SlopeDefaulted is set when the
// supplied slope was unusable and the neutral slope was substituted, so the
// fallback stays observable to operators.
type Result struct {
	CourseHandicap int  `json:"course_handicap"`
	SlopeDefaulted bool `json:"slope_defaulted,omitempty"`
}

// CourseHandicap converts a player's handicap index into a playing handicap
// for a specific tee: index * (slope / 113) + (rating - par), rounded half
// away from zero. A non-finite or non-positive slope falls back to the
// neutral slope rather than propagating a non-finite handicap.
func CourseHandicap(index, slope, rating, par float64) (Result, error) {
	if !isFinite(rating) || !isFinite(par) {
		return Result{}, fmt.Errorf("%w: rating=%v par=%v", ErrInvalidCourseData, rating, par)
	}
	if !isFinite(index) {
		return Result{}, fmt.Errorf("%w: handicap index=%v", ErrInvalidCourseData, index)
	}

	res := Result{}
	if !isFinite(slope) || slope <= 0 {
		slope = NeutralSlope
		res.SlopeDefaulted = true
	}

	raw := index*(slope/NeutralSlope) + (rating - par)
	res.CourseHandicap = roundHalfAwayFromZero(raw)
	return res, nil
}

// AllocateStrokes spreads a course handicap across 18 holes using the
// course's stroke-index ranks (1 = hardest hole). Every hole receives the
// whole-round share; the remainder goes one stroke at a time to the hardest
// holes first. Plus-handicappers (negative course handicap) give strokes
// back starting from the easiest holes instead.
//
// On malformed ranks the error is returned together with a degraded
// allocation (ranks taken as hole order) so display layers always have 18
// entries to render. Callers must treat the error as a validation failure.
func AllocateStrokes(courseHandicap int, ranks []int) ([]int, error) {
	if err := validateRanks(ranks); err != nil {
		return allocate(courseHandicap, defaultRanks()), err
	}
	return allocate(courseHandicap, ranks), nil
}

func allocate(courseHandicap int, ranks []int) []int {
	strokes := make([]int, HolesPerRound)

	magnitude := courseHandicap
	sign := 1
	if courseHandicap < 0 {
		magnitude = -courseHandicap
		sign = -1
	}

	base := magnitude / HolesPerRound
	remainder := magnitude % HolesPerRound

	for hole := 0; hole < HolesPerRound; hole++ {
		strokes[hole] = sign * base

		// Positive handicaps take the extra stroke on the hardest holes
		// (rank <= remainder); plus-handicappers give one back on the
		// easiest holes (rank > 18 - remainder).
		if sign > 0 && ranks[hole] <= remainder {
			strokes[hole]++
		}
		if sign < 0 && ranks[hole] > HolesPerRound-remainder {
			strokes[hole]--
		}
	}

	return strokes
}

func validateRanks(ranks []int) error {
	if len(ranks) != HolesPerRound {
		return fmt.Errorf("%w: got %d ranks", ErrInvalidHoleHandicapData, len(ranks))
	}
	seen := make([]bool, HolesPerRound+1)
	for _, r := range ranks {
		if r < 1 || r > HolesPerRound || seen[r] {
			return fmt.Errorf("%w: rank %d invalid or duplicated", ErrInvalidHoleHandicapData, r)
		}
		seen[r] = true
	}
	return nil
}

// defaultRanks treats hole order as difficulty order. Only used for the
// degraded allocation accompanying ErrInvalidHoleHandicapData.
func defaultRanks() []int {
	ranks := make([]int, HolesPerRound)
	for i := range ranks {
		ranks[i] = i + 1
	}
	return ranks
}

func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(math.Floor(x + 0.5))
	}
	return int(math.Ceil(x - 0.5))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
