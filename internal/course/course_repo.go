package course

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseRepository defines the interface for course data operations
type CourseRepository interface {
	CreateCourse(course *Course) error
	GetCourseByID(id uuid.UUID) (*Course, error)
	GetAllCourses(page, limit int, search string) ([]Course, int64, error)
	UpdateCourse(course *Course) error
	DeleteCourse(id uuid.UUID) error

	CreateTee(tee *Tee) error
	GetTeeByID(id uuid.UUID) (*Tee, error)
	GetTeesByCourseID(courseID uuid.UUID) ([]Tee, error)
	UpdateTee(tee *Tee) error
	DeleteTee(id uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new instance of CourseRepository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) CreateCourse(course *Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) GetCourseByID(id uuid.UUID) (*Course, error) {
	var course Course
	if err := r.db.Preload("Tees").First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) GetAllCourses(page, limit int, search string) ([]Course, int64, error) {
	var courses []Course
	var total int64

	query := r.db.Model(&Course{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepository) UpdateCourse(course *Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) DeleteCourse(id uuid.UUID) error {
	if err := r.db.Where("course_id = ?", id).Delete(&Tee{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&Course{}, "id = ?", id).Error
}

func (r *courseRepository) CreateTee(tee *Tee) error {
	return r.db.Create(tee).Error
}

func (r *courseRepository) GetTeeByID(id uuid.UUID) (*Tee, error) {
	var tee Tee
	if err := r.db.First(&tee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tee, nil
}

func (r *courseRepository) GetTeesByCourseID(courseID uuid.UUID) ([]Tee, error) {
	var tees []Tee
	if err := r.db.Where("course_id = ?", courseID).Order("name asc").Find(&tees).Error; err != nil {
		return nil, err
	}
	return tees, nil
}

func (r *courseRepository) UpdateTee(tee *Tee) error {
	return r.db.Save(tee).Error
}

func (r *courseRepository) DeleteTee(id uuid.UUID) error {
	return r.db.Delete(&Tee{}, "id = ?", id).Error
}
