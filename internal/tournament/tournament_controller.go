package tournament

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/gstrickland/tripscore/internal/trip"
	"github.com/gstrickland/tripscore/pkg/responses"
)

// TournamentController serves the aggregated views of a trip: the team
// scoreboard and per-player records. It owns no state of its own; everything
// is recomputed from match logs on each request.
type TournamentController struct {
	tripRepo    trip.TripRepository
	scoringRepo scoring.ScoringRepository
	config      *config.Config
}

// NewTournamentController creates a new TournamentController.
func NewTournamentController(tripRepo trip.TripRepository, scoringRepo scoring.ScoringRepository, cfg *config.Config) *TournamentController {
	return &TournamentController{
		tripRepo:    tripRepo,
		scoringRepo: scoringRepo,
		config:      cfg,
	}
}

// GetStandings godoc
// @Summary Get the trip scoreboard
// @Description Aggregates all match logs into team points, projections and the decided/undecided outcome.
// @Tags Tournament
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} responses.SuccessResponse{data=Standings}
// @Failure 404 {object} responses.ErrorResponse "Trip not found"
// @Router /trips/{id}/standings [get]
func (tc *TournamentController) GetStandings(c *gin.Context) {
	tripRecord, summaries, ok := tc.loadSummaries(c)
	if !ok {
		return
	}

	standings := Aggregate(summaries, tripRecord.SettingsForAggregation())
	responses.SendSuccess(c, http.StatusOK, "Standings retrieved successfully", standings)
}

// GetPlayerRecords godoc
// @Summary Get per-player records for a trip
// @Description Tallies wins, losses, halves and points per roster player over the trip's closed matches. Players yet to play are listed with zero records.
// @Tags Tournament
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} responses.SuccessResponse{data=[]PlayerRecord}
// @Failure 404 {object} responses.ErrorResponse "Trip not found"
// @Router /trips/{id}/records [get]
func (tc *TournamentController) GetPlayerRecords(c *gin.Context) {
	tripRecord, summaries, ok := tc.loadSummaries(c)
	if !ok {
		return
	}

	roster, err := tc.tripRepo.GetPlayersByTripID(tripRecord.ID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve roster", err.Error())
		return
	}

	records := PlayerRecords(roster, summaries)
	responses.SendSuccess(c, http.StatusOK, "Player records retrieved successfully", records)
}

// loadSummaries fetches the trip and replays each of its match logs into a
// summary. Responds and returns ok=false on any failure.
func (tc *TournamentController) loadSummaries(c *gin.Context) (*trip.Trip, []MatchSummary, bool) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return nil, nil, false
	}

	tripRecord, err := tc.tripRepo.GetTripByID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve trip", err.Error())
		return nil, nil, false
	}
	if tripRecord == nil {
		responses.NotFound(c, "Trip")
		return nil, nil, false
	}

	matches, err := tc.scoringRepo.GetMatchesByTripID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve matches", err.Error())
		return nil, nil, false
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for i := range matches {
		events, err := tc.scoringRepo.GetEventsByMatchID(matches[i].ID)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve match events", err.Error())
			return nil, nil, false
		}
		matches[i].Events = events

		engine, err := scoring.Replay(&matches[i])
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to replay match log", err.Error())
			return nil, nil, false
		}

		summaries = append(summaries, MatchSummary{
			MatchID:        matches[i].ID,
			TeamAID:        matches[i].TeamAID,
			TeamBID:        matches[i].TeamBID,
			SideAPlayerIDs: matches[i].SideAPlayerIDs,
			SideBPlayerIDs: matches[i].SideBPlayerIDs,
			State:          engine.State(),
		})
	}

	return tripRecord, summaries, true
}
