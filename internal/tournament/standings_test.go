package tournament

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/gstrickland/tripscore/internal/trip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	teamUSA    = uuid.New()
	teamEurope = uuid.New()
)

func settings(pointsToWin float64) trip.Settings {
	return trip.Settings{
		PointsToWin: pointsToWin,
		TeamIDs:     []uuid.UUID{teamUSA, teamEurope},
	}
}

func closedMatch(ptsA, ptsB float64) MatchSummary {
	return MatchSummary{
		MatchID: uuid.New(),
		TeamAID: teamUSA,
		TeamBID: teamEurope,
		State: scoring.MatchState{
			Status:  scoring.StatusClosed,
			PointsA: ptsA,
			PointsB: ptsB,
		},
	}
}

func liveMatch(leader scoring.Side, lead, remaining int) MatchSummary {
	return MatchSummary{
		MatchID: uuid.New(),
		TeamAID: teamUSA,
		TeamBID: teamEurope,
		State: scoring.MatchState{
			Status:         scoring.StatusInProgress,
			Leader:         leader,
			Lead:           lead,
			HolesRemaining: remaining,
		},
	}
}

func scoreFor(t *testing.T, s Standings, teamID uuid.UUID) TeamScore {
	t.Helper()
	for _, ts := range s.Teams {
		if ts.TeamID == teamID {
			return ts
		}
	}
	t.Fatalf("team %s not in standings", teamID)
	return TeamScore{}
}

func TestAggregatePointsFromClosedMatchesOnly(t *testing.T) {
	matches := []MatchSummary{
		closedMatch(1, 0),
		closedMatch(0.5, 0.5),
		liveMatch(scoring.SideB, 3, 6), // live lead must not add points
	}

	s := Aggregate(matches, settings(14.5))

	usa := scoreFor(t, s, teamUSA)
	europe := scoreFor(t, s, teamEurope)

	assert.Equal(t, 1.5, usa.Points)
	assert.Equal(t, 0.5, europe.Points)
	assert.Equal(t, 1, usa.MatchesWon)
	assert.Equal(t, 1, usa.MatchesHalved)
	assert.Equal(t, 1, europe.MatchesLost)
	assert.Equal(t, 2, s.MatchesClosed)
	assert.Equal(t, 3, s.MatchesTotal)
	assert.False(t, s.Decided)

	// The live match weights Europe's projection: 3 up with 6 left is a
	// 1/3 weight, so Europe projects 2/3 of that point.
	assert.InDelta(t, europe.Points+2.0/3.0, europe.Projected, 1e-9)
	assert.Greater(t, usa.Projected, usa.Points)
}

// Identity is the team ID: renaming teams must not change a single number.
func TestAggregateIgnoresTeamNames(t *testing.T) {
	matches := []MatchSummary{closedMatch(1, 0), closedMatch(0, 1)}

	first := Aggregate(matches, settings(14.5))
	// Same IDs presented as a differently-ordered settings list.
	second := Aggregate(matches, trip.Settings{
		PointsToWin: 14.5,
		TeamIDs:     []uuid.UUID{teamEurope, teamUSA},
	})

	assert.Equal(t, scoreFor(t, first, teamUSA), scoreFor(t, second, teamUSA))
	assert.Equal(t, scoreFor(t, first, teamEurope), scoreFor(t, second, teamEurope))
}

func TestAggregateSkipsForeignTeams(t *testing.T) {
	foreign := closedMatch(1, 0)
	foreign.TeamBID = uuid.New() // not part of this trip's settings

	s := Aggregate([]MatchSummary{foreign, closedMatch(1, 0)}, settings(14.5))

	assert.Equal(t, 1, s.MatchesTotal)
	assert.Equal(t, 1.0, scoreFor(t, s, teamUSA).Points)
}

func TestDecidedOutcomes(t *testing.T) {
	t.Run("threshold reached", func(t *testing.T) {
		matches := []MatchSummary{closedMatch(1, 0), closedMatch(1, 0), liveMatch(scoring.SideB, 1, 5)}
		s := Aggregate(matches, settings(2))
		require.True(t, s.Decided)
		require.NotNil(t, s.WinnerTeamID)
		assert.Equal(t, teamUSA, *s.WinnerTeamID)
	})

	t.Run("mathematically out of reach", func(t *testing.T) {
		// USA leads 3-0 with one match live: Europe tops out at 1.
		matches := []MatchSummary{
			closedMatch(1, 0), closedMatch(1, 0), closedMatch(1, 0),
			liveMatch(scoring.SideB, 2, 4),
		}
		s := Aggregate(matches, settings(14.5))
		require.True(t, s.Decided)
		require.NotNil(t, s.WinnerTeamID)
		assert.Equal(t, teamUSA, *s.WinnerTeamID)
	})

	t.Run("zero threshold plays everything out", func(t *testing.T) {
		s := Aggregate([]MatchSummary{closedMatch(1, 0), liveMatch(scoring.SideA, 4, 4)}, settings(0))
		assert.False(t, s.Decided)

		s = Aggregate([]MatchSummary{closedMatch(1, 0), closedMatch(0.5, 0.5)}, settings(0))
		require.True(t, s.Decided)
		require.NotNil(t, s.WinnerTeamID)
		assert.Equal(t, teamUSA, *s.WinnerTeamID)
	})

	t.Run("halved cup has no winner", func(t *testing.T) {
		s := Aggregate([]MatchSummary{closedMatch(1, 0), closedMatch(0, 1)}, settings(0))
		assert.True(t, s.Decided)
		assert.Nil(t, s.WinnerTeamID)
	})
}

func TestBalanceScore(t *testing.T) {
	// A split pair of matches is a dead heat.
	s := Aggregate([]MatchSummary{closedMatch(1, 0), closedMatch(0, 1)}, settings(14.5))
	assert.InDelta(t, 1.0, s.Balance, 1e-9)

	// A sweep is a shutout.
	s = Aggregate([]MatchSummary{closedMatch(1, 0), closedMatch(1, 0)}, settings(14.5))
	assert.InDelta(t, 0.0, s.Balance, 1e-9)

	// No matches at all reads as balanced.
	s = Aggregate(nil, settings(14.5))
	assert.InDelta(t, 1.0, s.Balance, 1e-9)
}

func TestPlayerRecords(t *testing.T) {
	ace := trip.Player{ID: uuid.New(), Name: "Ace"}
	bud := trip.Player{ID: uuid.New(), Name: "Bud"}
	kid := trip.Player{ID: uuid.New(), Name: "Kid"} // never plays
	roster := []trip.Player{ace, bud, kid}

	win := closedMatch(1, 0)
	win.SideAPlayerIDs = []uuid.UUID{ace.ID}
	win.SideBPlayerIDs = []uuid.UUID{bud.ID}

	halve := closedMatch(0.5, 0.5)
	halve.SideAPlayerIDs = []uuid.UUID{ace.ID}
	halve.SideBPlayerIDs = []uuid.UUID{bud.ID}

	live := liveMatch(scoring.SideA, 2, 10)
	live.SideAPlayerIDs = []uuid.UUID{kid.ID} // live match must not count

	records := PlayerRecords(roster, []MatchSummary{win, halve, live})
	require.Len(t, records, 3)

	// Sorted: Ace (1.5 pts), Bud (0.5), then Kid with nothing played.
	assert.Equal(t, "Ace", records[0].Name)
	assert.Equal(t, 1, records[0].Won)
	assert.Equal(t, 1, records[0].Halved)
	assert.InDelta(t, 0.75, records[0].WinPct, 1e-9)

	assert.Equal(t, "Bud", records[1].Name)
	assert.Equal(t, 1, records[1].Lost)

	assert.Equal(t, "Kid", records[2].Name)
	assert.Zero(t, records[2].Played)
	assert.Zero(t, records[2].WinPct)
}
