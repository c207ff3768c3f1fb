package notify

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotifyRepository defines the interface for push subscription storage.
type NotifyRepository interface {
	UpsertSubscription(sub *Subscription) error
	GetSubscriptionByEndpoint(endpoint string) (*Subscription, error)
	GetSubscriptionsByTripID(tripID uuid.UUID) ([]Subscription, error)
	GetSubscriptionsByPlayerID(playerID uuid.UUID) ([]Subscription, error)
	DeleteSubscriptionByEndpoint(endpoint string) error
}

type notifyRepository struct {
	db *gorm.DB
}

// NewNotifyRepository creates a new instance of NotifyRepository
func NewNotifyRepository(db *gorm.DB) NotifyRepository {
	return &notifyRepository{db: db}
}

func (r *notifyRepository) UpsertSubscription(sub *Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"player_id", "trip_id", "p256dh", "auth", "updated_at"}),
	}).Create(sub).Error
}

func (r *notifyRepository) GetSubscriptionByEndpoint(endpoint string) (*Subscription, error) {
	var sub Subscription
	if err := r.db.First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *notifyRepository) GetSubscriptionsByTripID(tripID uuid.UUID) ([]Subscription, error) {
	var subs []Subscription
	if err := r.db.Where("trip_id = ?", tripID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *notifyRepository) GetSubscriptionsByPlayerID(playerID uuid.UUID) ([]Subscription, error) {
	var subs []Subscription
	if err := r.db.Where("player_id = ?", playerID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *notifyRepository) DeleteSubscriptionByEndpoint(endpoint string) error {
	return r.db.Delete(&Subscription{}, "endpoint = ?", endpoint).Error
}
