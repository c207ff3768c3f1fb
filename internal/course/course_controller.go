package course

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/handicap"
	"github.com/gstrickland/tripscore/pkg/responses"
	"github.com/gstrickland/tripscore/pkg/validator"
)

// CourseController handles API requests related to courses and tees.
type CourseController struct {
	repo   CourseRepository
	config *config.Config
}

// NewCourseController creates a new CourseController.
func NewCourseController(repo CourseRepository, cfg *config.Config) *CourseController {
	return &CourseController{
		repo:   repo,
		config: cfg,
	}
}

// --- DTOs (Data Transfer Objects) for requests/responses ---

type CreateCourseRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=150"`
	City  string `json:"city" binding:"omitempty,max=100"`
	State string `json:"state" binding:"omitempty,max=100"`
}

type CreateTeeRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=50"`
	SlopeRating  float64 `json:"slope_rating" binding:"omitempty"`
	CourseRating float64 `json:"course_rating" binding:"required"`
	Par          int     `json:"par" binding:"required,min=27,max=90"`
	HoleRanks    []int   `json:"hole_ranks" binding:"required"`
}

// --- Course Handlers ---

// CreateCourse godoc
// @Summary Create a new course
// @Description Organizers and admins can register a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param course body CreateCourseRequest true "Course creation request"
// @Success 201 {object} responses.SuccessResponse{data=Course}
// @Failure 400 {object} responses.ErrorResponse "Validation error or bad request"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /courses [post]
// @Security BearerAuth
func (cc *CourseController) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	course := Course{
		Name:  req.Name,
		City:  req.City,
		State: req.State,
	}

	if err := cc.repo.CreateCourse(&course); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create course", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Course created successfully", course)
}

// GetAllCourses godoc
// @Summary List courses
// @Description Get a paginated list of courses with optional name search
// @Tags Courses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(10)
// @Param search query string false "Search term for the course name"
// @Success 200 {object} responses.PaginatedResponse{data=[]Course}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /courses [get]
func (cc *CourseController) GetAllCourses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	searchTerm := c.Query("search")

	courses, total, err := cc.repo.GetAllCourses(page, pageSize, searchTerm)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve courses", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Courses retrieved successfully", courses, total, page, pageSize)
}

// GetCourseByID godoc
// @Summary Get a course
// @Description Get a course with its tees
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} responses.SuccessResponse{data=Course}
// @Failure 404 {object} responses.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (cc *CourseController) GetCourseByID(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := cc.repo.GetCourseByID(courseID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve course", err.Error())
		return
	}
	if course == nil {
		responses.NotFound(c, "Course")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Course retrieved successfully", course)
}

// CreateTee godoc
// @Summary Add a tee set to a course
// @Description Registers a rated tee set. Hole ranks must be a permutation of 1..18.
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param tee body CreateTeeRequest true "Tee creation request"
// @Success 201 {object} responses.SuccessResponse{data=Tee}
// @Failure 400 {object} responses.ErrorResponse "Validation error or malformed hole ranks"
// @Failure 404 {object} responses.ErrorResponse "Course not found"
// @Router /courses/{id}/tees [post]
// @Security BearerAuth
func (cc *CourseController) CreateTee(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid course ID")
		return
	}

	var req CreateTeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	// Reject malformed stroke-index data at the boundary rather than letting
	// every later allocation degrade.
	if _, err := handicap.AllocateStrokes(0, req.HoleRanks); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid hole handicap ranks", err.Error())
		return
	}

	course, err := cc.repo.GetCourseByID(courseID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve course", err.Error())
		return
	}
	if course == nil {
		responses.NotFound(c, "Course")
		return
	}

	tee := Tee{
		CourseID:     courseID,
		Name:         req.Name,
		SlopeRating:  req.SlopeRating,
		CourseRating: req.CourseRating,
		Par:          req.Par,
		HoleRanks:    req.HoleRanks,
	}

	if err := cc.repo.CreateTee(&tee); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create tee", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Tee created successfully", tee)
}

// GetCourseTees godoc
// @Summary List a course's tee sets
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Tee}
// @Failure 404 {object} responses.ErrorResponse "Course not found"
// @Router /courses/{id}/tees [get]
func (cc *CourseController) GetCourseTees(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid course ID")
		return
	}

	tees, err := cc.repo.GetTeesByCourseID(courseID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve tees", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Tees retrieved successfully", tees)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
// @Security BearerAuth
func (cc *CourseController) DeleteCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := cc.repo.GetCourseByID(courseID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve course", err.Error())
		return
	}
	if course == nil {
		responses.NotFound(c, "Course")
		return
	}

	if err := cc.repo.DeleteCourse(courseID); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to delete course", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Course deleted successfully", nil)
}
