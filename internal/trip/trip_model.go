package trip

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPointsToWin is the Ryder Cup threshold, used only when a trip is
// created without an explicit override.
const DefaultPointsToWin = 14.5

// Trip is the top-level container for a multi-match team tournament:
// a roster of players split into two teams playing matches over several days.
type Trip struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `json:"name" gorm:"not null"`
	// PointsToWin is the cumulative team point total that ends the
	// tournament outright. A configured zero is a legitimate value
	// ("play all matches out"); absence is what triggers the default.
	PointsToWin float64   `json:"points_to_win" gorm:"not null"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid;not null"` // resolved player identity of the organizer
	Teams       []Team    `json:"teams,omitempty" gorm:"foreignKey:TripID"`
	Players     []Player  `json:"players,omitempty" gorm:"foreignKey:TripID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Team is one side of the trip. The ID is the team's identity everywhere in
// scoring and aggregation; display names are free-form and never compared.
type Team struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripID    uuid.UUID `json:"trip_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null"` // e.g. "Team USA", "The Eagles"
	Players   []Player  `json:"players,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Player belongs to a trip roster and optionally to one of its teams.
// HandicapIndex may be negative for plus-handicappers. Index updates never
// retroactively alter matches that are already closed: stroke allocations
// are computed (and logged) when a match is created.
type Player struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripID        uuid.UUID  `json:"trip_id" gorm:"type:uuid;index;not null"`
	TeamID        *uuid.UUID `json:"team_id,omitempty" gorm:"type:uuid;index"`
	Name          string     `json:"name" gorm:"not null"`
	HandicapIndex float64    `json:"handicap_index" gorm:"type:decimal(4,1);not null;default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Settings is the slice of trip configuration the aggregation engine needs.
// It is threaded into the engine explicitly, never read from a global.
type Settings struct {
	PointsToWin float64
	TeamIDs     []uuid.UUID
}

// SettingsForAggregation extracts the aggregation inputs from a loaded trip.
func (t *Trip) SettingsForAggregation() Settings {
	ids := make([]uuid.UUID, 0, len(t.Teams))
	for _, team := range t.Teams {
		ids = append(ids, team.ID)
	}
	return Settings{
		PointsToWin: t.PointsToWin,
		TeamIDs:     ids,
	}
}
