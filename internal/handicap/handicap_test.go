package handicap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseHandicap(t *testing.T) {
	tests := []struct {
		name           string
		index          float64
		slope          float64
		rating         float64
		par            float64
		want           int
		slopeDefaulted bool
		wantErr        error
	}{
		{
			name:  "neutral slope scratch-ish golfer",
			index: 10.0, slope: 113, rating: 72.0, par: 72,
			want: 10,
		},
		{
			name:  "steep slope increases handicap",
			index: 14.2, slope: 135, rating: 73.4, par: 72,
			want: 18, // 14.2*(135/113) + 1.4 = 18.36...
		},
		{
			name:  "plus handicapper stays negative",
			index: -2.0, slope: 113, rating: 70.0, par: 71,
			want: -3,
		},
		{
			name:  "round half away from zero positive",
			index: 2.5, slope: 113, rating: 72, par: 72,
			want: 3,
		},
		{
			name:  "round half away from zero negative",
			index: -2.5, slope: 113, rating: 72, par: 72,
			want: -3,
		},
		{
			name:  "zero slope falls back to neutral",
			index: 12.0, slope: 0, rating: 71.0, par: 72,
			want: 11, slopeDefaulted: true,
		},
		{
			name:  "NaN slope falls back to neutral",
			index: 12.0, slope: math.NaN(), rating: 71.0, par: 72,
			want: 11, slopeDefaulted: true,
		},
		{
			name:  "negative slope falls back to neutral",
			index: 12.0, slope: -55, rating: 71.0, par: 72,
			want: 11, slopeDefaulted: true,
		},
		{
			name:  "NaN rating is rejected",
			index: 12.0, slope: 113, rating: math.NaN(), par: 72,
			wantErr: ErrInvalidCourseData,
		},
		{
			name:  "infinite par is rejected",
			index: 12.0, slope: 113, rating: 72, par: math.Inf(1),
			wantErr: ErrInvalidCourseData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CourseHandicap(tt.index, tt.slope, tt.rating, tt.par)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.CourseHandicap)
			assert.Equal(t, tt.slopeDefaulted, got.SlopeDefaulted)
		})
	}
}

func TestCourseHandicapBadSlopeMatchesNeutral(t *testing.T) {
	// A broken slope must produce exactly the neutral-slope value, finitely.
	neutral, err := CourseHandicap(9.4, NeutralSlope, 71.2, 72)
	require.NoError(t, err)

	for _, slope := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		got, err := CourseHandicap(9.4, slope, 71.2, 72)
		require.NoError(t, err)
		assert.Equal(t, neutral.CourseHandicap, got.CourseHandicap, "slope=%v", slope)
		assert.True(t, got.SlopeDefaulted)
	}
}

func TestAllocateStrokes(t *testing.T) {
	// Ranks laid out so that hole N has rank N.
	orderedRanks := make([]int, HolesPerRound)
	for i := range orderedRanks {
		orderedRanks[i] = i + 1
	}

	t.Run("handicap of 20 gives every hole one stroke plus two extras", func(t *testing.T) {
		strokes, err := AllocateStrokes(20, orderedRanks)
		require.NoError(t, err)
		require.Len(t, strokes, HolesPerRound)

		assert.Equal(t, 2, strokes[0], "rank 1 hole gets the first extra stroke")
		assert.Equal(t, 2, strokes[1], "rank 2 hole gets the second extra stroke")
		for hole := 2; hole < HolesPerRound; hole++ {
			assert.Equal(t, 1, strokes[hole], "hole %d", hole+1)
		}
	})

	t.Run("handicap below 18 allocates to hardest holes only", func(t *testing.T) {
		// Shuffled ranks: hardest hole is hole 7 (index 6).
		ranks := []int{5, 11, 3, 15, 9, 17, 1, 13, 7, 2, 12, 4, 16, 10, 18, 6, 14, 8}
		strokes, err := AllocateStrokes(3, ranks)
		require.NoError(t, err)

		total := 0
		for i, s := range strokes {
			total += s
			if ranks[i] <= 3 {
				assert.Equal(t, 1, s, "hole %d with rank %d", i+1, ranks[i])
			} else {
				assert.Zero(t, s, "hole %d with rank %d", i+1, ranks[i])
			}
		}
		assert.Equal(t, 3, total)
	})

	t.Run("plus handicapper gives strokes back on easiest holes", func(t *testing.T) {
		strokes, err := AllocateStrokes(-2, orderedRanks)
		require.NoError(t, err)

		assert.Equal(t, -1, strokes[17], "rank 18 (easiest) gives the first stroke back")
		assert.Equal(t, -1, strokes[16], "rank 17 gives the second stroke back")
		for hole := 0; hole < 16; hole++ {
			assert.Zero(t, strokes[hole], "hole %d", hole+1)
		}
	})

	t.Run("zero handicap allocates nothing", func(t *testing.T) {
		strokes, err := AllocateStrokes(0, orderedRanks)
		require.NoError(t, err)
		for _, s := range strokes {
			assert.Zero(t, s)
		}
	})

	t.Run("allocation sum always equals the course handicap", func(t *testing.T) {
		for _, ch := range []int{-40, -19, -1, 1, 17, 18, 19, 36, 54} {
			strokes, err := AllocateStrokes(ch, orderedRanks)
			require.NoError(t, err)
			total := 0
			for _, s := range strokes {
				total += s
			}
			assert.Equal(t, ch, total, "course handicap %d", ch)
		}
	})
}

func TestAllocateStrokesInvalidRanks(t *testing.T) {
	tests := []struct {
		name  string
		ranks []int
	}{
		{"too few ranks", []int{1, 2, 3}},
		{"too many ranks", append(make([]int, 18), 19)},
		{"duplicate rank", []int{1, 1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}},
		{"rank out of range", []int{0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}},
		{"nil ranks", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strokes, err := AllocateStrokes(20, tt.ranks)
			require.ErrorIs(t, err, ErrInvalidHoleHandicapData)
			// A degraded allocation still comes back for display continuity;
			// never a silent empty slice.
			require.Len(t, strokes, HolesPerRound)
			assert.Equal(t, 2, strokes[0])
			assert.Equal(t, 1, strokes[17])
		})
	}
}
