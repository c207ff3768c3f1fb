package syncer

import (
	"github.com/gin-gonic/gin"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/middleware"
	"github.com/gstrickland/tripscore/internal/scoring"
	"gorm.io/gorm"
)

// SyncerRoutes sets up the device sync routes under the matches group.
func SyncerRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	repo := scoring.NewScoringRepository(db)
	reconciler := NewReconciler(repo, appConfig)
	controller := NewSyncerController(reconciler, repo, appConfig)

	matches := router.Group("/matches")
	matches.Use(middleware.AuthMiddleware(jwtSecret))
	{
		matches.POST("/:id/sync", controller.SyncMatch)
	}
}
