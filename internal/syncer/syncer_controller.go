package syncer

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/gstrickland/tripscore/pkg/responses"
	"github.com/gstrickland/tripscore/pkg/validator"
)

// SyncerController handles event-batch uploads from devices coming back
// online.
type SyncerController struct {
	reconciler *Reconciler
	repo       scoring.ScoringRepository
	config     *config.Config
}

// NewSyncerController creates a new SyncerController.
func NewSyncerController(reconciler *Reconciler, repo scoring.ScoringRepository, cfg *config.Config) *SyncerController {
	return &SyncerController{
		reconciler: reconciler,
		repo:       repo,
		config:     cfg,
	}
}

// --- DTOs (Data Transfer Objects) for requests/responses ---

// SyncEventRequest is one queued device event. The ID and timestamp were
// fixed when the device recorded the action, not when it uploaded it.
type SyncEventRequest struct {
	ID           uuid.UUID          `json:"id" binding:"required"`
	Type         scoring.EventType  `json:"type" binding:"required,oneof=record_result edit_result close_match reopen_match"`
	HoleNumber   *int               `json:"hole_number,omitempty" binding:"omitempty,min=1,max=18"`
	Winner       scoring.HoleWinner `json:"winner,omitempty" binding:"omitempty,oneof=A B halved"`
	SideAStrokes *int               `json:"side_a_strokes,omitempty" binding:"omitempty,min=1,max=30"`
	SideBStrokes *int               `json:"side_b_strokes,omitempty" binding:"omitempty,min=1,max=30"`
	Timestamp    time.Time          `json:"timestamp" binding:"required"`
}

type SyncRequest struct {
	Events []SyncEventRequest `json:"events" binding:"required,min=1,dive"`
}

// SyncMatch godoc
// @Summary Upload a device's queued scoring events
// @Description Merges a batch of offline events into the canonical match log. Events are deduplicated by ID, processed independently, and the derived state is rebuilt from the merged log. Per-event failures are reported without aborting the batch.
// @Tags Sync
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param batch body SyncRequest true "Queued events, in device order"
// @Success 200 {object} responses.SuccessResponse{data=Result}
// @Failure 400 {object} responses.ErrorResponse "Malformed batch"
// @Failure 404 {object} responses.ErrorResponse "Match not found"
// @Router /matches/{id}/sync [post]
// @Security BearerAuth
func (sc *SyncerController) SyncMatch(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid match ID")
		return
	}

	// The whole batch must be well-formed before any event is processed.
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
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

	incoming := make([]scoring.ScoringEvent, 0, len(req.Events))
	for _, ev := range req.Events {
		incoming = append(incoming, scoring.ScoringEvent{
			ID:         ev.ID,
			MatchID:    matchID,
			Type:       ev.Type,
			HoleNumber: ev.HoleNumber,
			Payload: scoring.EventPayload{
				Winner:       ev.Winner,
				SideAStrokes: ev.SideAStrokes,
				SideBStrokes: ev.SideBStrokes,
			},
			Timestamp: ev.Timestamp.UTC(),
		})
	}

	result, err := sc.reconciler.Reconcile(c.Request.Context(), match, incoming)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Reconciliation failed", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Events reconciled successfully", result)
}
