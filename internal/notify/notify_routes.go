package notify

import (
	"github.com/gin-gonic/gin"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/middleware"
	"gorm.io/gorm"
)

// NotifyRoutes sets up the push subscription routes.
func NotifyRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	repo := NewNotifyRepository(db)
	controller := NewNotifyController(repo, appConfig)

	notifications := router.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(jwtSecret))
	{
		notifications.POST("/subscriptions", controller.Subscribe)
		notifications.GET("/subscriptions", controller.GetMySubscriptions)
		notifications.DELETE("/subscriptions", controller.Unsubscribe)
	}
}
