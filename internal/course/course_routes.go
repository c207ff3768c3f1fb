package course

import (
	"github.com/gin-gonic/gin"
	"github.com/gstrickland/tripscore/config"
	mw "github.com/gstrickland/tripscore/internal/middleware"
	"github.com/gstrickland/tripscore/pkg/rmiddleware"
	"gorm.io/gorm"
)

// CourseRoutes sets up all course-related routes.
func CourseRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	courseRepo := NewCourseRepository(db)
	courseController := NewCourseController(courseRepo, appConfig)

	courses := router.Group("/courses")
	courses.Use(mw.AuthMiddleware(jwtSecret))
	{
		courses.GET("", courseController.GetAllCourses)
		courses.GET("/:id", courseController.GetCourseByID)
		courses.GET("/:id/tees", courseController.GetCourseTees)

		// Course management is restricted to trip organizers and admins
		managed := courses.Group("")
		managed.Use(rmiddleware.OrganizerOrAdminMiddleware())
		{
			managed.POST("", courseController.CreateCourse)
			managed.POST("/:id/tees", courseController.CreateTee)
			managed.DELETE("/:id", courseController.DeleteCourse)
		}
	}
}
