package notify

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a device's web-push registration. The endpoint is the
// identity: re-registering the same endpoint refreshes the keys instead of
// creating a second row.
type Subscription struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlayerID uuid.UUID  `json:"player_id" gorm:"type:uuid;index;not null"`
	TripID   *uuid.UUID `json:"trip_id,omitempty" gorm:"type:uuid;index"` // scope updates to one trip if set
	Endpoint string     `json:"endpoint" gorm:"uniqueIndex;not null"`
	P256dh   string     `json:"p256dh" gorm:"not null"`
	Auth     string     `json:"auth" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
