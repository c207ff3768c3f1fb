package tournament

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/gstrickland/tripscore/internal/trip"
)

// MatchSummary is the slice of a match the aggregation engine needs: the two
// team identities, the players fielded, and the derived state. Team display
// names never enter here.
type MatchSummary struct {
	MatchID        uuid.UUID          `json:"match_id"`
	TeamAID        uuid.UUID          `json:"team_a_id"`
	TeamBID        uuid.UUID          `json:"team_b_id"`
	SideAPlayerIDs []uuid.UUID        `json:"side_a_player_ids"`
	SideBPlayerIDs []uuid.UUID        `json:"side_b_player_ids"`
	State          scoring.MatchState `json:"state"`
}

// TeamScore is one team's line on the scoreboard.
type TeamScore struct {
	TeamID        uuid.UUID `json:"team_id"`
	Points        float64   `json:"points"`    // from closed matches only
	Projected     float64   `json:"projected"` // points plus weighted live leads
	MatchesWon    int       `json:"matches_won"`
	MatchesLost   int       `json:"matches_lost"`
	MatchesHalved int       `json:"matches_halved"`
}

// Standings is the aggregated tournament scoreboard.
type Standings struct {
	Teams           []TeamScore `json:"teams"` // ordered by points, then projected
	PointsToWin     float64     `json:"points_to_win"`
	PointsRemaining float64     `json:"points_remaining"`
	// Balance scores how close the contest is on projected totals: 1.0 is a
	// dead heat, 0.0 a total shutout.
	Balance       float64    `json:"balance"`
	Decided       bool       `json:"decided"`
	WinnerTeamID  *uuid.UUID `json:"winner_team_id,omitempty"` // nil when undecided or halved
	MatchesClosed int        `json:"matches_closed"`
	MatchesTotal  int        `json:"matches_total"`
}

// Aggregate folds match states into the tournament scoreboard. Points come
// exclusively from closed matches; in-progress matches contribute only to
// the projection, weighted by how commanding the lead is relative to the
// holes left. Matches referencing teams outside the settings are skipped.
func Aggregate(matches []MatchSummary, settings trip.Settings) Standings {
	scores := make(map[uuid.UUID]*TeamScore, len(settings.TeamIDs))
	for _, id := range settings.TeamIDs {
		scores[id] = &TeamScore{TeamID: id}
	}

	standings := Standings{PointsToWin: settings.PointsToWin}

	for _, m := range matches {
		teamA, okA := scores[m.TeamAID]
		teamB, okB := scores[m.TeamBID]
		if !okA || !okB {
			continue
		}
		standings.MatchesTotal++

		if m.State.Status == scoring.StatusClosed {
			standings.MatchesClosed++
			teamA.Points += m.State.PointsA
			teamB.Points += m.State.PointsB
			teamA.Projected += m.State.PointsA
			teamB.Projected += m.State.PointsB
			switch {
			case m.State.PointsA > m.State.PointsB:
				teamA.MatchesWon++
				teamB.MatchesLost++
			case m.State.PointsB > m.State.PointsA:
				teamB.MatchesWon++
				teamA.MatchesLost++
			default:
				teamA.MatchesHalved++
				teamB.MatchesHalved++
			}
			continue
		}

		standings.PointsRemaining++
		projA, projB := projectedSplit(m)
		teamA.Projected += projA
		teamB.Projected += projB
	}

	for _, id := range settings.TeamIDs {
		standings.Teams = append(standings.Teams, *scores[id])
	}
	sort.SliceStable(standings.Teams, func(i, j int) bool {
		if standings.Teams[i].Points != standings.Teams[j].Points {
			return standings.Teams[i].Points > standings.Teams[j].Points
		}
		return standings.Teams[i].Projected > standings.Teams[j].Projected
	})

	standings.Balance = balanceScore(standings.Teams)
	decideOutcome(&standings)
	return standings
}

// balanceScore reduces the projected spread between the top two teams to a
// 0..1 score.
func balanceScore(teams []TeamScore) float64 {
	if len(teams) < 2 {
		return 1
	}
	a, b := teams[0].Projected, teams[1].Projected
	total := a + b
	if total == 0 {
		return 1
	}
	return 1 - math.Abs(a-b)/total
}

// projectedSplit shares a live match's point between the sides. The leader's
// share grows with the lead's weight against the holes remaining; an
// unstarted or all-square match projects an even split.
func projectedSplit(m MatchSummary) (a, b float64) {
	lead := m.State.Lead
	if lead == 0 || lead+m.State.HolesRemaining == 0 {
		return 0.5, 0.5
	}
	w := float64(lead) / float64(lead+m.State.HolesRemaining)
	leaderShare := 0.5 + 0.5*w
	if m.State.Leader == scoring.SideA {
		return leaderShare, 1 - leaderShare
	}
	return 1 - leaderShare, leaderShare
}

// decideOutcome marks the tournament decided when a team reaches the
// points-to-win threshold, when the trailing team can no longer catch up,
// or when every match has closed. A points-to-win of zero means "play
// everything out" and only the all-closed condition applies.
func decideOutcome(s *Standings) {
	if len(s.Teams) == 0 {
		return
	}
	leader := s.Teams[0]

	if s.PointsToWin > 0 && leader.Points >= s.PointsToWin {
		s.Decided = true
		id := leader.TeamID
		s.WinnerTeamID = &id
		return
	}

	if len(s.Teams) > 1 {
		runnerUp := s.Teams[1]
		if leader.Points > runnerUp.Points+s.PointsRemaining {
			s.Decided = true
			id := leader.TeamID
			s.WinnerTeamID = &id
			return
		}
	}

	if s.MatchesTotal > 0 && s.MatchesClosed == s.MatchesTotal {
		s.Decided = true
		if len(s.Teams) > 1 && leader.Points == s.Teams[1].Points {
			return // halved cup, no winner
		}
		id := leader.TeamID
		s.WinnerTeamID = &id
	}
}

// PlayerRecord is one player's personal tally across a trip's matches.
type PlayerRecord struct {
	PlayerID uuid.UUID `json:"player_id"`
	Name     string    `json:"name"`
	Played   int       `json:"played"`
	Won      int       `json:"won"`
	Lost     int       `json:"lost"`
	Halved   int       `json:"halved"`
	Points   float64   `json:"points"`
	// WinPct is meaningless with no matches played; zero-match players sort
	// below everyone who has teed it up.
	WinPct float64 `json:"win_pct"`
}

// PlayerRecords tallies per-player results over the roster. Every roster
// player appears, including those yet to play a match; only closed matches
// count.
func PlayerRecords(roster []trip.Player, matches []MatchSummary) []PlayerRecord {
	records := make(map[uuid.UUID]*PlayerRecord, len(roster))
	order := make([]uuid.UUID, 0, len(roster))
	for _, p := range roster {
		records[p.ID] = &PlayerRecord{PlayerID: p.ID, Name: p.Name}
		order = append(order, p.ID)
	}

	for _, m := range matches {
		if m.State.Status != scoring.StatusClosed {
			continue
		}
		tally(records, m.SideAPlayerIDs, m.State.PointsA)
		tally(records, m.SideBPlayerIDs, m.State.PointsB)
	}

	out := make([]PlayerRecord, 0, len(order))
	for _, id := range order {
		r := records[id]
		if r.Played > 0 {
			r.WinPct = (float64(r.Won) + 0.5*float64(r.Halved)) / float64(r.Played)
		}
		out = append(out, *r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].Played > 0) != (out[j].Played > 0) {
			return out[i].Played > 0
		}
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].WinPct > out[j].WinPct
	})
	return out
}

func tally(records map[uuid.UUID]*PlayerRecord, playerIDs []uuid.UUID, points float64) {
	for _, id := range playerIDs {
		r, ok := records[id]
		if !ok {
			continue // player left the roster; their history stays with the match
		}
		r.Played++
		r.Points += points
		switch {
		case points == 1:
			r.Won++
		case points == 0.5:
			r.Halved++
		default:
			r.Lost++
		}
	}
}
