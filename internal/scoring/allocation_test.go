package scoring

import (
	"testing"

	"github.com/gstrickland/tripscore/internal/course"
	"github.com/gstrickland/tripscore/internal/trip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTee() *course.Tee {
	return &course.Tee{
		Name:         "Blue",
		SlopeRating:  113, // neutral: course handicap equals the rounded index
		CourseRating: 72,
		Par:          72,
		HoleRanks:    course.IntSlice{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18},
	}
}

func player(index float64) trip.Player {
	return trip.Player{HandicapIndex: index}
}

func sumAlloc(alloc IntSlice) int {
	total := 0
	for _, s := range alloc {
		total += s
	}
	return total
}

func TestSideAllocationsSingles(t *testing.T) {
	// 10.0 vs 4.0: the higher player gets the 6-stroke difference on the six
	// hardest holes, the lower plays off scratch.
	allocA, allocB, defaulted, err := SideAllocations(
		FormatSingles,
		[]trip.Player{player(10.0)},
		[]trip.Player{player(4.0)},
		testTee(),
	)
	require.NoError(t, err)

	assert.False(t, defaulted)
	assert.Equal(t, 6, sumAlloc(allocA))
	assert.Equal(t, 0, sumAlloc(allocB))
	assert.Equal(t, 1, allocA[0])
	assert.Equal(t, 1, allocA[5])
	assert.Equal(t, 0, allocA[6])
}

func TestSideAllocationsPairFormats(t *testing.T) {
	sideA := []trip.Player{player(8.0), player(12.0)} // combined 20
	sideB := []trip.Player{player(2.0), player(6.0)}  // combined 8

	tests := []struct {
		format MatchFormat
		wantA  int // strokes A receives over B
	}{
		// foursomes: 50% of combined, 10 vs 4 -> 6
		{FormatFoursomes, 6},
		// greensomes: 60% low + 40% high, 9.6 -> 10 vs 3.6 -> 4, diff 6
		{FormatGreensomes, 6},
		// four-ball: off the lower player, 8 vs 2 -> 6
		{FormatFourBall, 6},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			allocA, allocB, _, err := SideAllocations(tt.format, sideA, sideB, testTee())
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, sumAlloc(allocA))
			assert.Equal(t, 0, sumAlloc(allocB))
		})
	}
}

func TestSideAllocationsDefaultsBadSlope(t *testing.T) {
	tee := testTee()
	tee.SlopeRating = 0

	_, _, defaulted, err := SideAllocations(
		FormatSingles,
		[]trip.Player{player(9.0)},
		[]trip.Player{player(9.0)},
		tee,
	)
	require.NoError(t, err)
	assert.True(t, defaulted)
}

func TestSideAllocationsWrongRosterSize(t *testing.T) {
	_, _, _, err := SideAllocations(
		FormatFoursomes,
		[]trip.Player{player(5.0)}, // needs two
		[]trip.Player{player(5.0), player(7.0)},
		testTee(),
	)
	assert.Error(t, err)

	_, _, _, err = SideAllocations(FormatSingles, []trip.Player{player(5.0)}, []trip.Player{player(5.0)}, nil)
	assert.Error(t, err)
}
