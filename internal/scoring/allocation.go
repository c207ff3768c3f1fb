package scoring

import (
	"fmt"
	"math"

	"github.com/gstrickland/tripscore/internal/course"
	"github.com/gstrickland/tripscore/internal/handicap"
	"github.com/gstrickland/tripscore/internal/trip"
)

// SideAllocations computes the per-hole handicap strokes each side receives,
// fixed at match creation. Strokes are given as the difference between the
// sides' playing handicaps, so the lower side always plays off scratch.
//
// Playing handicap per format: singles and stroke play use the player's
// course handicap; foursomes uses 50% of the pair's combined; greensomes
// uses 60% of the lower plus 40% of the higher; four-ball plays off the
// lower player's.
func SideAllocations(format MatchFormat, sideA, sideB []trip.Player, tee *course.Tee) (allocA, allocB IntSlice, slopeDefaulted bool, err error) {
	if tee == nil {
		return nil, nil, false, fmt.Errorf("allocations: tee is required")
	}
	want := format.PlayersPerSide()
	if len(sideA) != want || len(sideB) != want {
		return nil, nil, false, fmt.Errorf("allocations: %s needs %d player(s) per side", format, want)
	}

	chA, defaultedA, err := sideHandicap(format, sideA, tee)
	if err != nil {
		return nil, nil, false, err
	}
	chB, defaultedB, err := sideHandicap(format, sideB, tee)
	if err != nil {
		return nil, nil, false, err
	}
	slopeDefaulted = defaultedA || defaultedB

	// Strokes off the low side. The invalid-ranks fallback inside
	// AllocateStrokes (ranks in hole order) is acceptable here; rank data is
	// validated when the tee is created.
	low := chA
	if chB < low {
		low = chB
	}
	strokesA, _ := handicap.AllocateStrokes(chA-low, holeRanks(tee))
	strokesB, _ := handicap.AllocateStrokes(chB-low, holeRanks(tee))
	return IntSlice(strokesA), IntSlice(strokesB), slopeDefaulted, nil
}

// sideHandicap reduces a side's players to one playing handicap per the
// format's convention.
func sideHandicap(format MatchFormat, players []trip.Player, tee *course.Tee) (int, bool, error) {
	chs := make([]int, 0, len(players))
	defaulted := false
	for _, p := range players {
		res, err := handicap.CourseHandicap(p.HandicapIndex, tee.SlopeRating, tee.CourseRating, float64(tee.Par))
		if err != nil {
			return 0, false, fmt.Errorf("allocations: player %s: %w", p.ID, err)
		}
		chs = append(chs, res.CourseHandicap)
		defaulted = defaulted || res.SlopeDefaulted
	}

	switch format {
	case FormatSingles, FormatStrokePlay:
		return chs[0], defaulted, nil
	case FormatFoursomes:
		return int(math.Round(float64(chs[0]+chs[1]) / 2)), defaulted, nil
	case FormatGreensomes:
		lo, hi := chs[0], chs[1]
		if hi < lo {
			lo, hi = hi, lo
		}
		return int(math.Round(0.6*float64(lo) + 0.4*float64(hi))), defaulted, nil
	case FormatFourBall:
		lo := chs[0]
		if chs[1] < lo {
			lo = chs[1]
		}
		return lo, defaulted, nil
	default:
		return 0, false, fmt.Errorf("allocations: unknown format %q", format)
	}
}

func holeRanks(tee *course.Tee) []int {
	if len(tee.HoleRanks) == 0 {
		return nil
	}
	return []int(tee.HoleRanks)
}
