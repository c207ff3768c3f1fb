package scoring

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/course"
	"github.com/gstrickland/tripscore/internal/trip"
	"github.com/gstrickland/tripscore/pkg/responses"
	"github.com/gstrickland/tripscore/pkg/validator"
)

// ScoringController handles API requests for matches and their event logs.
// The redo buffers live on the controller: undo history is an in-session
// convenience, not part of the canonical log, so it never hits the database.
type ScoringController struct {
	repo       ScoringRepository
	tripRepo   trip.TripRepository
	courseRepo course.CourseRepository
	config     *config.Config

	mu          sync.Mutex
	redoBuffers map[uuid.UUID][]ScoringEvent
}

// NewScoringController creates a new ScoringController.
func NewScoringController(repo ScoringRepository, tripRepo trip.TripRepository, courseRepo course.CourseRepository, cfg *config.Config) *ScoringController {
	return &ScoringController{
		repo:        repo,
		tripRepo:    tripRepo,
		courseRepo:  courseRepo,
		config:      cfg,
		redoBuffers: make(map[uuid.UUID][]ScoringEvent),
	}
}

// --- DTOs (Data Transfer Objects) for requests/responses ---

type CreateMatchRequest struct {
	TripID         uuid.UUID   `json:"trip_id" binding:"required"`
	TeeID          uuid.UUID   `json:"tee_id" binding:"required"`
	Format         MatchFormat `json:"format" binding:"required,oneof=singles four_ball foursomes greensomes stroke_play"`
	TeamAID        uuid.UUID   `json:"team_a_id" binding:"required"`
	TeamBID        uuid.UUID   `json:"team_b_id" binding:"required"`
	SideAPlayerIDs []uuid.UUID `json:"side_a_player_ids" binding:"required,min=1,max=2"`
	SideBPlayerIDs []uuid.UUID `json:"side_b_player_ids" binding:"required,min=1,max=2"`
}

// HoleResultRequest records or edits one hole. Either winner is given
// directly or both sides' gross strokes are; event_id and timestamp are
// supplied by offline clients replaying queued actions and default to fresh
// values when absent.
type HoleResultRequest struct {
	EventID      *uuid.UUID `json:"event_id,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	Winner       HoleWinner `json:"winner,omitempty" binding:"omitempty,oneof=A B halved"`
	SideAStrokes *int       `json:"side_a_strokes,omitempty" binding:"omitempty,min=1,max=30"`
	SideBStrokes *int       `json:"side_b_strokes,omitempty" binding:"omitempty,min=1,max=30"`
}

// MatchEventRequest covers match-level events (close, reopen).
type MatchEventRequest struct {
	EventID   *uuid.UUID `json:"event_id,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// MatchResponse pairs a match with its derived state.
type MatchResponse struct {
	Match *Match     `json:"match"`
	State MatchState `json:"state"`
}

// --- Match Handlers ---

// CreateMatch godoc
// @Summary Create a match
// @Description Creates a match between two of a trip's teams. Stroke allocations are computed from the players' handicap indexes and the tee, and are fixed from this point on.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Match creation request"
// @Success 201 {object} responses.SuccessResponse{data=Match}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 404 {object} responses.ErrorResponse "Trip, team, tee or player not found"
// @Router /matches [post]
// @Security BearerAuth
func (sc *ScoringController) CreateMatch(c *gin.Context) {
	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	tripRecord, err := sc.tripRepo.GetTripByID(req.TripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve trip", err.Error())
		return
	}
	if tripRecord == nil {
		responses.NotFound(c, "Trip")
		return
	}

	if !teamBelongs(tripRecord, req.TeamAID) || !teamBelongs(tripRecord, req.TeamBID) {
		responses.NotFound(c, "Team")
		return
	}
	if req.TeamAID == req.TeamBID {
		responses.BadRequest(c, "A match needs two different teams")
		return
	}

	tee, err := sc.courseRepo.GetTeeByID(req.TeeID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve tee", err.Error())
		return
	}
	if tee == nil {
		responses.NotFound(c, "Tee")
		return
	}

	playersA, err := sc.loadSidePlayers(req.SideAPlayerIDs, req.TripID, req.TeamAID)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid side A players", err.Error())
		return
	}
	playersB, err := sc.loadSidePlayers(req.SideBPlayerIDs, req.TripID, req.TeamBID)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid side B players", err.Error())
		return
	}

	allocA, allocB, slopeDefaulted, err := SideAllocations(req.Format, playersA, playersB, tee)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Failed to compute stroke allocations", err.Error())
		return
	}

	match := Match{
		TripID:           req.TripID,
		TeeID:            req.TeeID,
		Format:           req.Format,
		Status:           StatusNotStarted,
		TeamAID:          req.TeamAID,
		TeamBID:          req.TeamBID,
		SideAPlayerIDs:   req.SideAPlayerIDs,
		SideBPlayerIDs:   req.SideBPlayerIDs,
		SideAStrokeAlloc: allocA,
		SideBStrokeAlloc: allocB,
		SlopeDefaulted:   slopeDefaulted,
	}

	if err := sc.repo.CreateMatch(&match); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create match", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Match created successfully", match)
}

// GetTripMatches godoc
// @Summary List a trip's matches with their derived states
// @Tags Matches
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} responses.SuccessResponse{data=[]MatchResponse}
// @Router /matches/trip/{tripId} [get]
func (sc *ScoringController) GetTripMatches(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return
	}

	matches, err := sc.repo.GetMatchesByTripID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve matches", err.Error())
		return
	}

	out := make([]MatchResponse, 0, len(matches))
	for i := range matches {
		events, err := sc.repo.GetEventsByMatchID(matches[i].ID)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve match events", err.Error())
			return
		}
		matches[i].Events = events
		engine, err := Replay(&matches[i])
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to replay match log", err.Error())
			return
		}
		matches[i].Events = nil // keep list payloads small
		out = append(out, MatchResponse{Match: &matches[i], State: engine.State()})
	}

	responses.SendSuccess(c, http.StatusOK, "Matches retrieved successfully", out)
}

// GetMatchByID godoc
// @Summary Get a match with its event log and derived state
// @Tags Matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchResponse}
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Router /matches/{id} [get]
func (sc *ScoringController) GetMatchByID(c *gin.Context) {
	match, engine, ok := sc.loadMatch(c)
	if !ok {
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match retrieved successfully", MatchResponse{
		Match: match,
		State: engine.State(),
	})
}

// GetMatchState godoc
// @Summary Get a match's derived state
// @Description Recomputes the state from the event log. A persisted status that disagrees with the derived one is an integrity violation and reported as a conflict.
// @Tags Matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchState}
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Failure 409 {object} responses.ErrorResponse "Persisted status disagrees with the event log"
// @Router /matches/{id}/state [get]
func (sc *ScoringController) GetMatchState(c *gin.Context) {
	match, engine, ok := sc.loadMatch(c)
	if !ok {
		return
	}

	state := engine.State()
	if match.Status != state.Status {
		responses.SendError(c, http.StatusConflict, "Match status disagrees with its event log", gin.H{
			"persisted_status": match.Status,
			"derived_status":   state.Status,
		})
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Match state retrieved successfully", state)
}

// DeleteMatch godoc
// @Summary Delete a match and its event log
// @Tags Matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Router /matches/{id} [delete]
// @Security BearerAuth
func (sc *ScoringController) DeleteMatch(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid match ID")
		return
	}

	match, err := sc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve match", err.Error())
		return
	}
	if match == nil {
		responses.NotFound(c, "Match")
		return
	}

	if err := sc.repo.DeleteMatch(matchID); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to delete match", err.Error())
		return
	}

	sc.mu.Lock()
	delete(sc.redoBuffers, matchID)
	sc.mu.Unlock()

	responses.SendSuccess(c, http.StatusOK, "Match deleted successfully", nil)
}

// --- Scoring Handlers ---

// RecordHoleResult godoc
// @Summary Record a hole result
// @Description Appends a record event to the match log. Give a winner directly, or both sides' gross strokes to have the winner derived from net scores.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param hole path int true "Hole number (1-18)"
// @Param result body HoleResultRequest true "Hole result"
// @Success 200 {object} responses.SuccessResponse{data=MatchResponse}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 409 {object} responses.ErrorResponse "Match is closed"
// @Router /matches/{id}/holes/{hole} [post]
// @Security BearerAuth
func (sc *ScoringController) RecordHoleResult(c *gin.Context) {
	sc.applyHoleEvent(c, EventRecordResult)
}

// EditHoleResult godoc
// @Summary Edit a previously recorded hole
// @Description Appends an edit event. The hole's prior value is snapshotted so the edit can be undone exactly.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param hole path int true "Hole number (1-18)"
// @Param result body HoleResultRequest true "Corrected hole result"
// @Success 200 {object} responses.SuccessResponse{data=MatchResponse}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 409 {object} responses.ErrorResponse "Match is closed"
// @Router /matches/{id}/holes/{hole} [put]
// @Security BearerAuth
func (sc *ScoringController) EditHoleResult(c *gin.Context) {
	sc.applyHoleEvent(c, EventEditResult)
}

// UndoLastEvent godoc
// @Summary Undo the most recent scoring event
// @Description Removes the last event and restores the state it snapshotted. Refused while the match is closed; reopen first.
// @Tags Scoring
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchResponse}
// @Failure 409 {object} responses.ErrorResponse "Match is closed or log is empty"
// @Router /matches/{id}/undo [post]
// @Security BearerAuth
func (sc *ScoringController) UndoLastEvent(c *gin.Context) {
	match, engine, ok := sc.loadMatch(c)
	if !ok {
		return
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	engine.SetRedoBuffer(sc.redoBuffers[match.ID])

	undone, err := engine.Undo()
	if err != nil {
		sc.sendEngineError(c, err)
		return
	}

	state := engine.State()
	if err := sc.repo.RemoveEvent(undone.ID, match.ID, engine.Results(), state.Status, persistedMargin(state)); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to undo event", err.Error())
		return
	}
	sc.redoBuffers[match.ID] = engine.RedoBuffer()

	match.Status = state.Status
	match.Events = engine.Events()
	responses.SendSuccess(c, http.StatusOK, "Event undone successfully", MatchResponse{Match: match, State: state})
}

// RedoLastUndo godoc
// @Summary Re-apply the most recently undone event
// @Description The redo buffer lives in memory for the current session only; any new scoring event clears it.
// @Tags Scoring
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} responses.SuccessResponse{data=MatchResponse}
// @Failure 409 {object} responses.ErrorResponse "Nothing to redo"
// @Router /matches/{id}/redo [post]
// @Security BearerAuth
func (sc *ScoringController) RedoLastUndo(c *gin.Context) {
	match, engine, ok := sc.loadMatch(c)
	if !ok {
		return
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	engine.SetRedoBuffer(sc.redoBuffers[match.ID])

	redone, err := engine.Redo()
	if err != nil {
		sc.sendEngineError(c, err)
		return
	}

	state := engine.State()
	if err := sc.repo.AppendEvent(redone, engine.Results(), state.Status, persistedMargin(state)); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to redo event", err.Error())
		return
	}
	sc.redoBuffers[match.ID] = engine.RedoBuffer()

	match.Status = state.Status
	match.Events = engine.Events()
	responses.SendSuccess(c, http.StatusOK, "Event redone successfully", MatchResponse{Match: match, State: state})
}

// CloseMatch godoc
// @Summary Close a match explicitly
// @Description Appends a close event (e.g. a concession). The leader at the time of closing takes the match; all square splits the point.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param event body MatchEventRequest false "Event identity for offline clients"
// @Success 200 {object} responses.SuccessResponse{data=MatchResponse}
// @Failure 409 {object} responses.ErrorResponse "Match already closed"
// @Router /matches/{id}/close [post]
// @Security BearerAuth
func (sc *ScoringController) CloseMatch(c *gin.Context) {
	sc.applyMatchEvent(c, EventCloseMatch)
}

// ReopenMatch godoc
// @Summary Reopen a closed match
// @Description Appends a reopen event so history can be corrected. The next scoring event re-evaluates the closeout arithmetic.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param event body MatchEventRequest false "Event identity for offline clients"
// @Success 200 {object} responses.SuccessResponse{data=MatchResponse}
// @Failure 409 {object} responses.ErrorResponse "Match is not closed"
// @Router /matches/{id}/reopen [post]
// @Security BearerAuth
func (sc *ScoringController) ReopenMatch(c *gin.Context) {
	sc.applyMatchEvent(c, EventReopenMatch)
}

// --- Helpers ---

func (sc *ScoringController) applyHoleEvent(c *gin.Context, eventType EventType) {
	hole, err := parseHoleParam(c)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	var req HoleResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	match, engine, ok := sc.loadMatch(c)
	if !ok {
		return
	}

	event := ScoringEvent{
		ID:         eventIDOrNew(req.EventID),
		MatchID:    match.ID,
		Type:       eventType,
		HoleNumber: &hole,
		Payload: EventPayload{
			Winner:       req.Winner,
			SideAStrokes: req.SideAStrokes,
			SideBStrokes: req.SideBStrokes,
		},
		Timestamp:  timestampOrNow(req.Timestamp),
		SyncStatus: SyncLocal,
	}

	sc.persistApplied(c, match, engine, &event)
}

func (sc *ScoringController) applyMatchEvent(c *gin.Context, eventType EventType) {
	// The body is optional; an absent or empty one means fresh event identity.
	var req MatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = MatchEventRequest{}
	}

	match, engine, ok := sc.loadMatch(c)
	if !ok {
		return
	}

	event := ScoringEvent{
		ID:         eventIDOrNew(req.EventID),
		MatchID:    match.ID,
		Type:       eventType,
		Timestamp:  timestampOrNow(req.Timestamp),
		SyncStatus: SyncLocal,
	}

	sc.persistApplied(c, match, engine, &event)
}

// persistApplied runs an event through the engine, writes it and the derived
// state transactionally, and invalidates the redo buffer.
func (sc *ScoringController) persistApplied(c *gin.Context, match *Match, engine *Log, event *ScoringEvent) {
	if err := engine.Apply(event); err != nil {
		sc.sendEngineError(c, err)
		return
	}

	state := engine.State()
	if err := sc.repo.AppendEvent(event, engine.Results(), state.Status, persistedMargin(state)); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to append event", err.Error())
		return
	}

	sc.mu.Lock()
	delete(sc.redoBuffers, match.ID)
	sc.mu.Unlock()

	match.Status = state.Status
	match.Events = engine.Events()
	responses.SendSuccess(c, http.StatusOK, "Event applied successfully", MatchResponse{Match: match, State: state})
}

// loadMatch fetches the match from the path parameter and replays its log.
// Responds and returns ok=false on any failure.
func (sc *ScoringController) loadMatch(c *gin.Context) (*Match, *Log, bool) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid match ID")
		return nil, nil, false
	}

	match, err := sc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve match", err.Error())
		return nil, nil, false
	}
	if match == nil {
		responses.NotFound(c, "Match")
		return nil, nil, false
	}

	engine, err := Replay(match)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to replay match log", err.Error())
		return nil, nil, false
	}
	return match, engine, true
}

// loadSidePlayers verifies that every listed player is on the trip roster
// and assigned to the side's team.
func (sc *ScoringController) loadSidePlayers(ids []uuid.UUID, tripID, teamID uuid.UUID) ([]trip.Player, error) {
	players := make([]trip.Player, 0, len(ids))
	for _, id := range ids {
		p, err := sc.tripRepo.GetPlayerByID(id)
		if err != nil {
			return nil, err
		}
		if p == nil || p.TripID != tripID {
			return nil, errors.New("player " + id.String() + " is not on the trip roster")
		}
		if p.TeamID == nil || *p.TeamID != teamID {
			return nil, errors.New("player " + id.String() + " is not on the side's team")
		}
		players = append(players, *p)
	}
	return players, nil
}

func (sc *ScoringController) sendEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMatchClosed), errors.Is(err, ErrMatchNotClosed),
		errors.Is(err, ErrNothingToUndo), errors.Is(err, ErrNothingToRedo),
		errors.Is(err, ErrDuplicateEvent):
		responses.Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidEvent):
		responses.BadRequest(c, err.Error())
	default:
		responses.SendError(c, http.StatusInternalServerError, "Scoring engine error", err.Error())
	}
}

func teamBelongs(t *trip.Trip, teamID uuid.UUID) bool {
	for _, team := range t.Teams {
		if team.ID == teamID {
			return true
		}
	}
	return false
}

func parseHoleParam(c *gin.Context) (int, error) {
	hole, err := strconv.Atoi(c.Param("hole"))
	if err != nil || hole < 1 || hole > 18 {
		return 0, errors.New("hole must be a number between 1 and 18")
	}
	return hole, nil
}

func eventIDOrNew(id *uuid.UUID) uuid.UUID {
	if id != nil && *id != uuid.Nil {
		return *id
	}
	return uuid.New()
}

func timestampOrNow(t *time.Time) time.Time {
	if t != nil && !t.IsZero() {
		return t.UTC()
	}
	return time.Now().UTC()
}

// persistedMargin keeps FinalMargin empty until the match actually closes.
func persistedMargin(state MatchState) string {
	if state.Status == StatusClosed {
		return state.Margin
	}
	return ""
}
