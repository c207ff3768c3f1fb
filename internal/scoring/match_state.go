package scoring

import (
	"fmt"

	"github.com/gstrickland/tripscore/internal/handicap"
)

// MatchState is the fully derived view of a match: status, who leads and by
// how much, and the points each side holds or would earn. It is computed,
// never stored, and must always agree with the persisted Match.Status.
type MatchState struct {
	Status         MatchStatus `json:"status"`
	Leader         Side        `json:"leader,omitempty"` // empty when all square or unplayed
	Lead           int         `json:"lead"`             // holes up (match play) or net strokes ahead (stroke play)
	Margin         string      `json:"margin"`           // "3 & 2", "2 UP thru 14", "A/S", "by 4 strokes"
	HolesPlayed    int         `json:"holes_played"`
	HolesRemaining int         `json:"holes_remaining"`
	Dormie         bool        `json:"dormie"`
	PointsA        float64     `json:"points_a"` // awarded only once closed
	PointsB        float64     `json:"points_b"`
}

// computeState derives the match state from per-hole results. The status it
// returns is what the results alone imply; the log engine overlays explicit
// close/reopen events on top of it.
func computeState(format MatchFormat, results map[int]HoleResult, allocA, allocB IntSlice) MatchState {
	if format == FormatStrokePlay {
		return computeStrokePlayState(results, allocA, allocB)
	}
	return computeMatchPlayState(results)
}

func computeMatchPlayState(results map[int]HoleResult) MatchState {
	var holesA, holesB, played int
	for hole := 1; hole <= handicap.HolesPerRound; hole++ {
		r, ok := results[hole]
		if !ok || r.Winner == WinnerUnplayed {
			continue
		}
		played++
		switch r.Winner {
		case WinnerSideA:
			holesA++
		case WinnerSideB:
			holesB++
		}
	}

	state := MatchState{
		HolesPlayed:    played,
		HolesRemaining: handicap.HolesPerRound - played,
	}

	lead := holesA - holesB
	switch {
	case lead > 0:
		state.Leader = SideA
		state.Lead = lead
	case lead < 0:
		state.Leader = SideB
		state.Lead = -lead
	}

	// A side wins the moment its lead exceeds the holes left to play.
	if state.Lead > state.HolesRemaining {
		state.Status = StatusClosed
		state.Margin = closedMatchPlayMargin(state.Lead, state.HolesRemaining)
		state.PointsA, state.PointsB = pointsFor(state.Leader)
		return state
	}

	if played == handicap.HolesPerRound {
		state.Status = StatusClosed
		if state.Lead == 0 {
			state.Margin = "A/S"
		} else {
			state.Margin = fmt.Sprintf("%d UP", state.Lead)
		}
		state.PointsA, state.PointsB = pointsFor(state.Leader)
		return state
	}

	if played == 0 {
		state.Status = StatusNotStarted
		state.Margin = "A/S"
		return state
	}

	state.Status = StatusInProgress
	state.Dormie = state.Lead > 0 && state.Lead == state.HolesRemaining
	if state.Lead == 0 {
		state.Margin = fmt.Sprintf("A/S thru %d", played)
	} else {
		state.Margin = fmt.Sprintf("%d UP thru %d", state.Lead, played)
	}
	return state
}

// computeStrokePlayState compares net totals. The round only decides itself
// once every hole has strokes recorded for both sides; a tie over 18 is a
// halve, not a playoff.
func computeStrokePlayState(results map[int]HoleResult, allocA, allocB IntSlice) MatchState {
	var netA, netB, played int
	complete := true
	for hole := 1; hole <= handicap.HolesPerRound; hole++ {
		r, ok := results[hole]
		if !ok || r.SideAStrokes == nil || r.SideBStrokes == nil {
			complete = false
			continue
		}
		played++
		netA += *r.SideAStrokes - strokeAt(allocA, hole)
		netB += *r.SideBStrokes - strokeAt(allocB, hole)
	}

	state := MatchState{
		HolesPlayed:    played,
		HolesRemaining: handicap.HolesPerRound - played,
	}

	diff := netB - netA // positive means A is ahead (fewer net strokes)
	switch {
	case diff > 0:
		state.Leader = SideA
		state.Lead = diff
	case diff < 0:
		state.Leader = SideB
		state.Lead = -diff
	}

	switch {
	case played == 0:
		state.Status = StatusNotStarted
		state.Margin = "A/S"
	case complete:
		state.Status = StatusClosed
		if state.Lead == 0 {
			state.Margin = "Tied"
		} else {
			state.Margin = fmt.Sprintf("by %d strokes", state.Lead)
		}
		state.PointsA, state.PointsB = pointsFor(state.Leader)
	default:
		state.Status = StatusInProgress
		if state.Lead == 0 {
			state.Margin = fmt.Sprintf("Tied thru %d", played)
		} else {
			state.Margin = fmt.Sprintf("by %d thru %d", state.Lead, played)
		}
	}
	return state
}

// closedMatchPlayMargin renders the traditional closeout notation: "3 & 2"
// when holes were left on the course, "2 UP" when it went the distance.
func closedMatchPlayMargin(lead, remaining int) string {
	if remaining > 0 {
		return fmt.Sprintf("%d & %d", lead, remaining)
	}
	if lead == 0 {
		return "A/S"
	}
	return fmt.Sprintf("%d UP", lead)
}

// pointsFor awards the standard match point split for a finished match:
// winner takes 1, a halved match splits 0.5 each.
func pointsFor(leader Side) (a, b float64) {
	switch leader {
	case SideA:
		return 1, 0
	case SideB:
		return 0, 1
	default:
		return 0.5, 0.5
	}
}

func strokeAt(alloc IntSlice, hole int) int {
	if hole < 1 || hole > len(alloc) {
		return 0
	}
	return alloc[hole-1]
}
