package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/course"
	"github.com/gstrickland/tripscore/internal/notify"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/gstrickland/tripscore/internal/syncer"
	"github.com/gstrickland/tripscore/internal/tournament"
	"github.com/gstrickland/tripscore/internal/trip"
)

func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtSecret := appConfig.JWT.AccessTokenSecret

	// API routes
	api := r.Group("/api")
	trip.TripRoutes(api, db, appConfig, jwtSecret)
	course.CourseRoutes(api, db, appConfig, jwtSecret)
	scoring.ScoringRoutes(api, db, appConfig, jwtSecret)
	tournament.TournamentRoutes(api, db, appConfig, jwtSecret)
	syncer.SyncerRoutes(api, db, appConfig, jwtSecret)
	notify.NotifyRoutes(api, db, appConfig, jwtSecret)

	return r
}
