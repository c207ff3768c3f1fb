package tournament

import (
	"github.com/gin-gonic/gin"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/middleware"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/gstrickland/tripscore/internal/trip"
	"gorm.io/gorm"
)

// TournamentRoutes sets up the aggregated scoreboard routes. They hang off
// the trips group since standings are a view over a trip.
func TournamentRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	tripRepo := trip.NewTripRepository(db)
	scoringRepo := scoring.NewScoringRepository(db)
	controller := NewTournamentController(tripRepo, scoringRepo, appConfig)

	trips := router.Group("/trips")
	trips.Use(middleware.AuthMiddleware(jwtSecret))
	{
		trips.GET("/:id/standings", controller.GetStandings)
		trips.GET("/:id/records", controller.GetPlayerRecords)
	}
}
