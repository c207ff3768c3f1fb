package scoring

import (
	"github.com/gin-gonic/gin"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/course"
	mw "github.com/gstrickland/tripscore/internal/middleware"
	"github.com/gstrickland/tripscore/internal/trip"
	"github.com/gstrickland/tripscore/pkg/rmiddleware"
	"gorm.io/gorm"
)

// ScoringRoutes sets up all match and scoring routes.
func ScoringRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	repo := NewScoringRepository(db)
	tripRepo := trip.NewTripRepository(db)
	courseRepo := course.NewCourseRepository(db)
	controller := NewScoringController(repo, tripRepo, courseRepo, appConfig)

	matches := router.Group("/matches")
	matches.Use(mw.AuthMiddleware(jwtSecret))
	{
		matches.GET("/trip/:tripId", controller.GetTripMatches)
		matches.GET("/:id", controller.GetMatchByID)
		matches.GET("/:id/state", controller.GetMatchState)

		// Any authenticated scorer can drive the log; match administration
		// stays with organizers.
		matches.POST("/:id/holes/:hole", controller.RecordHoleResult)
		matches.PUT("/:id/holes/:hole", controller.EditHoleResult)
		matches.POST("/:id/undo", controller.UndoLastEvent)
		matches.POST("/:id/redo", controller.RedoLastUndo)
		matches.POST("/:id/close", controller.CloseMatch)
		matches.POST("/:id/reopen", controller.ReopenMatch)

		managed := matches.Group("")
		managed.Use(rmiddleware.OrganizerOrAdminMiddleware())
		{
			managed.POST("", controller.CreateMatch)
			managed.DELETE("/:id", controller.DeleteMatch)
		}
	}
}
