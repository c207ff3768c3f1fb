package course

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IntSlice is a JSONB column holding an ordered list of ints (the per-hole
// stroke-index ranks).
type IntSlice []int

func (s IntSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan unmarshals a JSONB column into the slice.
func (s *IntSlice) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("IntSlice: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// Course represents a golf course where trip matches are played.
type Course struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Tees      []Tee     `json:"tees,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tee is one rated set of tee boxes on a course. Slope, rating and par feed
// the handicap calculator; HoleRanks holds the 18 stroke-index ranks
// (1 = hardest hole, first to receive a handicap stroke).
type Tee struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID     uuid.UUID `json:"course_id" gorm:"type:uuid;index;not null"`
	Name         string    `json:"name" gorm:"not null"` // e.g. "Blue", "White"
	SlopeRating  float64   `json:"slope_rating" gorm:"not null"`
	CourseRating float64   `json:"course_rating" gorm:"type:decimal(4,1);not null"`
	Par          int       `json:"par" gorm:"not null"`
	HoleRanks    IntSlice  `json:"hole_ranks" gorm:"type:jsonb"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
