package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/middleware"
	"github.com/gstrickland/tripscore/pkg/responses"
	"github.com/gstrickland/tripscore/pkg/validator"
)

// NotifyController manages device push subscriptions so scoreboard updates
// can be fanned out to followers.
type NotifyController struct {
	repo   NotifyRepository
	config *config.Config
}

// NewNotifyController creates a new NotifyController.
func NewNotifyController(repo NotifyRepository, cfg *config.Config) *NotifyController {
	return &NotifyController{
		repo:   repo,
		config: cfg,
	}
}

// --- DTOs (Data Transfer Objects) for requests/responses ---

type SubscribeRequest struct {
	Endpoint string     `json:"endpoint" binding:"required,url"`
	P256dh   string     `json:"p256dh" binding:"required"`
	Auth     string     `json:"auth" binding:"required"`
	TripID   *uuid.UUID `json:"trip_id,omitempty"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
}

// Subscribe godoc
// @Summary Register a push subscription
// @Description Registers (or refreshes) a device's web-push subscription. The endpoint is the identity, so repeat registrations update the keys in place.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param subscription body SubscribeRequest true "Push subscription"
// @Success 201 {object} responses.SuccessResponse{data=Subscription}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Router /notifications/subscriptions [post]
// @Security BearerAuth
func (nc *NotifyController) Subscribe(c *gin.Context) {
	playerID, err := middleware.GetPlayerIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	sub := Subscription{
		PlayerID: playerID,
		TripID:   req.TripID,
		Endpoint: req.Endpoint,
		P256dh:   req.P256dh,
		Auth:     req.Auth,
	}

	if err := nc.repo.UpsertSubscription(&sub); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to save subscription", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Subscription saved successfully", sub)
}

// Unsubscribe godoc
// @Summary Remove a push subscription
// @Tags Notifications
// @Accept json
// @Produce json
// @Param subscription body UnsubscribeRequest true "Subscription endpoint to remove"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Subscription not found"
// @Router /notifications/subscriptions [delete]
// @Security BearerAuth
func (nc *NotifyController) Unsubscribe(c *gin.Context) {
	playerID, err := middleware.GetPlayerIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	sub, err := nc.repo.GetSubscriptionByEndpoint(req.Endpoint)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to look up subscription", err.Error())
		return
	}
	if sub == nil {
		responses.NotFound(c, "Subscription")
		return
	}
	if sub.PlayerID != playerID {
		responses.Forbidden(c, "Subscription belongs to another player")
		return
	}

	if err := nc.repo.DeleteSubscriptionByEndpoint(req.Endpoint); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to remove subscription", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Subscription removed successfully", nil)
}

// GetMySubscriptions godoc
// @Summary List the caller's push subscriptions
// @Tags Notifications
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Subscription}
// @Router /notifications/subscriptions [get]
// @Security BearerAuth
func (nc *NotifyController) GetMySubscriptions(c *gin.Context) {
	playerID, err := middleware.GetPlayerIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	subs, err := nc.repo.GetSubscriptionsByPlayerID(playerID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve subscriptions", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Subscriptions retrieved successfully", subs)
}
