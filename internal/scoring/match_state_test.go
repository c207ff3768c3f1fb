package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// holes builds a results map from a sequence of winners starting at hole 1.
func holes(winners ...HoleWinner) map[int]HoleResult {
	results := make(map[int]HoleResult, len(winners))
	for i, w := range winners {
		results[i+1] = HoleResult{HoleNumber: i + 1, Winner: w}
	}
	return results
}

func repeatWinners(w HoleWinner, n int) []HoleWinner {
	out := make([]HoleWinner, n)
	for i := range out {
		out[i] = w
	}
	return out
}

func TestMatchPlayState(t *testing.T) {
	tests := []struct {
		name          string
		winners       []HoleWinner
		wantStatus    MatchStatus
		wantLeader    Side
		wantMargin    string
		wantDormie    bool
		wantPtsA      float64
		wantPtsB      float64
		wantHolesLeft int
	}{
		{
			name:          "no holes played",
			winners:       nil,
			wantStatus:    StatusNotStarted,
			wantMargin:    "A/S",
			wantHolesLeft: 18,
		},
		{
			name:          "one up early",
			winners:       []HoleWinner{WinnerSideA, WinnerHalved},
			wantStatus:    StatusInProgress,
			wantLeader:    SideA,
			wantMargin:    "1 UP thru 2",
			wantHolesLeft: 16,
		},
		{
			name:          "all square mid round",
			winners:       []HoleWinner{WinnerSideA, WinnerSideB, WinnerHalved},
			wantStatus:    StatusInProgress,
			wantMargin:    "A/S thru 3",
			wantHolesLeft: 15,
		},
		{
			name: "dormie is not closed",
			// 4 up with 4 to play: B can still halve the match.
			winners:       append(repeatWinners(WinnerSideA, 4), repeatWinners(WinnerHalved, 10)...),
			wantStatus:    StatusInProgress,
			wantLeader:    SideA,
			wantMargin:    "4 UP thru 14",
			wantDormie:    true,
			wantHolesLeft: 4,
		},
		{
			name: "closes when lead exceeds remaining",
			// 5 up after 15: lead 5 > 3 remaining.
			winners:       append(repeatWinners(WinnerSideB, 5), repeatWinners(WinnerHalved, 10)...),
			wantStatus:    StatusClosed,
			wantLeader:    SideB,
			wantMargin:    "5 & 3",
			wantPtsB:      1,
			wantHolesLeft: 3,
		},
		{
			name:       "one up after eighteen",
			winners:    append(repeatWinners(WinnerHalved, 17), WinnerSideA),
			wantStatus: StatusClosed,
			wantLeader: SideA,
			wantMargin: "1 UP",
			wantPtsA:   1,
		},
		{
			name:       "halved after eighteen",
			winners:    repeatWinners(WinnerHalved, 18),
			wantStatus: StatusClosed,
			wantMargin: "A/S",
			wantPtsA:   0.5,
			wantPtsB:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := computeMatchPlayState(holes(tt.winners...))

			assert.Equal(t, tt.wantStatus, state.Status)
			assert.Equal(t, tt.wantLeader, state.Leader)
			assert.Equal(t, tt.wantMargin, state.Margin)
			assert.Equal(t, tt.wantDormie, state.Dormie)
			assert.Equal(t, tt.wantPtsA, state.PointsA)
			assert.Equal(t, tt.wantPtsB, state.PointsB)
			assert.Equal(t, tt.wantHolesLeft, state.HolesRemaining)
		})
	}
}

func TestMatchPlayIgnoresUnplayedGaps(t *testing.T) {
	// Holes recorded out of order with gaps still count correctly.
	results := map[int]HoleResult{
		2:  {HoleNumber: 2, Winner: WinnerSideA},
		9:  {HoleNumber: 9, Winner: WinnerSideA},
		14: {HoleNumber: 14, Winner: WinnerSideB},
	}
	state := computeMatchPlayState(results)

	assert.Equal(t, StatusInProgress, state.Status)
	assert.Equal(t, SideA, state.Leader)
	assert.Equal(t, 1, state.Lead)
	assert.Equal(t, 15, state.HolesRemaining)
}

func strokeResults(grossA, grossB [18]int) map[int]HoleResult {
	results := make(map[int]HoleResult, 18)
	for i := 0; i < 18; i++ {
		a, b := grossA[i], grossB[i]
		results[i+1] = HoleResult{
			HoleNumber:   i + 1,
			SideAStrokes: &a,
			SideBStrokes: &b,
		}
	}
	return results
}

func TestStrokePlayState(t *testing.T) {
	var evenA, evenB [18]int
	for i := range evenA {
		evenA[i] = 4
		evenB[i] = 4
	}

	t.Run("tied over eighteen splits the point", func(t *testing.T) {
		state := computeStrokePlayState(strokeResults(evenA, evenB), nil, nil)
		assert.Equal(t, StatusClosed, state.Status)
		assert.Equal(t, "Tied", state.Margin)
		assert.Equal(t, 0.5, state.PointsA)
		assert.Equal(t, 0.5, state.PointsB)
	})

	t.Run("handicap strokes decide a gross tie", func(t *testing.T) {
		// A receives 3 strokes, so identical gross totals net A the win.
		alloc := make(IntSlice, 18)
		alloc[0], alloc[1], alloc[2] = 1, 1, 1

		state := computeStrokePlayState(strokeResults(evenA, evenB), alloc, nil)
		assert.Equal(t, StatusClosed, state.Status)
		assert.Equal(t, SideA, state.Leader)
		assert.Equal(t, "by 3 strokes", state.Margin)
		assert.Equal(t, 1.0, state.PointsA)
	})

	t.Run("stays open until every hole has both scores", func(t *testing.T) {
		results := strokeResults(evenA, evenB)
		partial := results[18]
		partial.SideBStrokes = nil
		results[18] = partial

		state := computeStrokePlayState(results, nil, nil)
		assert.Equal(t, StatusInProgress, state.Status)
		assert.Equal(t, 1, state.HolesRemaining)
		assert.Zero(t, state.PointsA)
		assert.Zero(t, state.PointsB)
	})

	t.Run("leader mid round", func(t *testing.T) {
		grossB := evenB
		grossB[0] = 6 // B doubles the first
		results := strokeResults(evenA, grossB)
		partial := results[18]
		partial.SideAStrokes = nil
		results[18] = partial

		state := computeStrokePlayState(results, nil, nil)
		assert.Equal(t, StatusInProgress, state.Status)
		assert.Equal(t, SideA, state.Leader)
		assert.Equal(t, "by 2 thru 17", state.Margin)
	})
}
