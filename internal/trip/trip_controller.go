package trip

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/middleware"
	"github.com/gstrickland/tripscore/pkg/responses"
	"github.com/gstrickland/tripscore/pkg/validator"
)

// TripController handles API requests related to trips, teams and rosters.
type TripController struct {
	repo   TripRepository
	config *config.Config
}

// NewTripController creates a new TripController.
func NewTripController(repo TripRepository, cfg *config.Config) *TripController {
	return &TripController{
		repo:   repo,
		config: cfg,
	}
}

// --- DTOs (Data Transfer Objects) for requests/responses ---

type CreateTripRequest struct {
	Name string `json:"name" binding:"required,min=2,max=150"`
	// Pointer so a deliberate 0 ("play everything out") is distinguishable
	// from the field being absent. Only absence triggers the 14.5 default.
	PointsToWin *float64 `json:"points_to_win,omitempty" binding:"omitempty,min=0"`
	TeamNames   []string `json:"team_names" binding:"required,len=2,dive,required,min=1,max=100"`
}

type UpdateTripSettingsRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=2,max=150"`
	PointsToWin *float64 `json:"points_to_win,omitempty" binding:"omitempty,min=0"`
}

type AddPlayerRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=150"`
	HandicapIndex float64    `json:"handicap_index" binding:"omitempty,min=-10,max=54"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
}

type UpdatePlayerRequest struct {
	Name          *string    `json:"name,omitempty" binding:"omitempty,min=1,max=150"`
	HandicapIndex *float64   `json:"handicap_index,omitempty" binding:"omitempty,min=-10,max=54"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
}

// --- Trip Handlers ---

// CreateTrip godoc
// @Summary Create a new trip
// @Description Creates a trip with its two teams. The creator becomes the organizer.
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip body CreateTripRequest true "Trip creation request"
// @Success 201 {object} responses.SuccessResponse{data=Trip}
// @Failure 400 {object} responses.ErrorResponse "Validation error or bad request"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /trips [post]
// @Security BearerAuth
func (tc *TripController) CreateTrip(c *gin.Context) {
	playerID, err := middleware.GetPlayerIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	pointsToWin := DefaultPointsToWin
	if req.PointsToWin != nil { // explicit presence check, zero is respected
		pointsToWin = *req.PointsToWin
	}

	trip := Trip{
		Name:        req.Name,
		PointsToWin: pointsToWin,
		CreatedBy:   playerID,
	}

	// Trip and both teams are created together so a half-created trip never
	// becomes visible.
	txErr := tc.repo.WithTransaction(func(txRepo TripRepository) error {
		if err := txRepo.CreateTrip(&trip); err != nil {
			return err
		}
		for _, name := range req.TeamNames {
			team := Team{TripID: trip.ID, Name: name}
			if err := txRepo.CreateTeam(&team); err != nil {
				return err
			}
			trip.Teams = append(trip.Teams, team)
		}
		return nil
	})
	if txErr != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create trip", txErr.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Trip created successfully", trip)
}

// GetAllTrips godoc
// @Summary List trips
// @Tags Trips
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(10)
// @Success 200 {object} responses.PaginatedResponse{data=[]Trip}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /trips [get]
func (tc *TripController) GetAllTrips(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	trips, total, err := tc.repo.GetAllTrips(page, pageSize)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve trips", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Trips retrieved successfully", trips, total, page, pageSize)
}

// GetTripByID godoc
// @Summary Get a trip
// @Description Get a trip with its teams and roster
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} responses.SuccessResponse{data=Trip}
// @Failure 404 {object} responses.ErrorResponse "Trip not found"
// @Router /trips/{id} [get]
func (tc *TripController) GetTripByID(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return
	}

	trip, err := tc.repo.GetTripByID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve trip", err.Error())
		return
	}
	if trip == nil {
		responses.NotFound(c, "Trip")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Trip retrieved successfully", trip)
}

// UpdateTripSettings godoc
// @Summary Update trip settings
// @Description Updates name and/or points-to-win. A points_to_win of 0 is respected, not replaced by the default.
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param settings body UpdateTripSettingsRequest true "Settings update"
// @Success 200 {object} responses.SuccessResponse{data=Trip}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 404 {object} responses.ErrorResponse "Trip not found"
// @Router /trips/{id}/settings [put]
// @Security BearerAuth
func (tc *TripController) UpdateTripSettings(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return
	}

	var req UpdateTripSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	trip, err := tc.repo.GetTripByID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve trip", err.Error())
		return
	}
	if trip == nil {
		responses.NotFound(c, "Trip")
		return
	}

	if req.Name != nil {
		trip.Name = *req.Name
	}
	if req.PointsToWin != nil {
		trip.PointsToWin = *req.PointsToWin
	}

	if err := tc.repo.UpdateTrip(trip); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update trip", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Trip settings updated successfully", trip)
}

// --- Roster Handlers ---

// AddPlayer godoc
// @Summary Add a player to the trip roster
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param player body AddPlayerRequest true "Player to add"
// @Success 201 {object} responses.SuccessResponse{data=Player}
// @Failure 400 {object} responses.ErrorResponse "Validation error"
// @Failure 404 {object} responses.ErrorResponse "Trip or team not found"
// @Router /trips/{id}/players [post]
// @Security BearerAuth
func (tc *TripController) AddPlayer(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return
	}

	var req AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	trip, err := tc.repo.GetTripByID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve trip", err.Error())
		return
	}
	if trip == nil {
		responses.NotFound(c, "Trip")
		return
	}

	if req.TeamID != nil {
		team, err := tc.repo.GetTeamByID(*req.TeamID)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve team", err.Error())
			return
		}
		if team == nil || team.TripID != tripID {
			responses.NotFound(c, "Team")
			return
		}
	}

	player := Player{
		TripID:        tripID,
		TeamID:        req.TeamID,
		Name:          req.Name,
		HandicapIndex: req.HandicapIndex,
	}

	if err := tc.repo.CreatePlayer(&player); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to add player", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Player added successfully", player)
}

// GetTripPlayers godoc
// @Summary List the trip roster
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Player}
// @Router /trips/{id}/players [get]
func (tc *TripController) GetTripPlayers(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return
	}

	players, err := tc.repo.GetPlayersByTripID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve players", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Players retrieved successfully", players)
}

// UpdatePlayer godoc
// @Summary Update a roster player
// @Description Updates name, handicap index, or team assignment. Index changes never rewrite closed matches.
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param playerId path string true "Player ID"
// @Param player body UpdatePlayerRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Player}
// @Failure 404 {object} responses.ErrorResponse "Player not found"
// @Router /trips/{id}/players/{playerId} [put]
// @Security BearerAuth
func (tc *TripController) UpdatePlayer(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return
	}
	playerID, err := uuid.Parse(c.Param("playerId"))
	if err != nil {
		responses.BadRequest(c, "Invalid player ID")
		return
	}

	var req UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	player, err := tc.repo.GetPlayerByID(playerID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve player", err.Error())
		return
	}
	if player == nil || player.TripID != tripID {
		responses.NotFound(c, "Player")
		return
	}

	if req.Name != nil {
		player.Name = *req.Name
	}
	if req.HandicapIndex != nil {
		player.HandicapIndex = *req.HandicapIndex
	}
	if req.TeamID != nil {
		team, err := tc.repo.GetTeamByID(*req.TeamID)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve team", err.Error())
			return
		}
		if team == nil || team.TripID != tripID {
			responses.NotFound(c, "Team")
			return
		}
		player.TeamID = req.TeamID
	}

	if err := tc.repo.UpdatePlayer(player); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update player", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Player updated successfully", player)
}

// GetTripTeams godoc
// @Summary List the trip's teams with rosters
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Team}
// @Router /trips/{id}/teams [get]
func (tc *TripController) GetTripTeams(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid trip ID")
		return
	}

	teams, err := tc.repo.GetTeamsByTripID(tripID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve teams", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Teams retrieved successfully", teams)
}
