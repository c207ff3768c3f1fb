package trip

import (
	"github.com/gin-gonic/gin"
	"github.com/gstrickland/tripscore/config"
	mw "github.com/gstrickland/tripscore/internal/middleware"
	"github.com/gstrickland/tripscore/pkg/rmiddleware"
	"gorm.io/gorm"
)

// TripRoutes sets up all trip-related routes.
func TripRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	tripRepo := NewTripRepository(db)
	tripController := NewTripController(tripRepo, appConfig)

	trips := router.Group("/trips")
	trips.Use(mw.AuthMiddleware(jwtSecret))
	{
		trips.GET("", tripController.GetAllTrips)
		trips.GET("/:id", tripController.GetTripByID)
		trips.GET("/:id/teams", tripController.GetTripTeams)
		trips.GET("/:id/players", tripController.GetTripPlayers)

		managed := trips.Group("")
		managed.Use(rmiddleware.OrganizerOrAdminMiddleware())
		{
			managed.POST("", tripController.CreateTrip)
			managed.PUT("/:id/settings", tripController.UpdateTripSettings)
			managed.POST("/:id/players", tripController.AddPlayer)
			managed.PUT("/:id/players/:playerId", tripController.UpdatePlayer)
		}
	}
}
