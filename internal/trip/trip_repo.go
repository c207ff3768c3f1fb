package trip

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TripRepository defines the interface for trip data operations
type TripRepository interface {
	// Trip operations
	CreateTrip(trip *Trip) error
	GetTripByID(id uuid.UUID) (*Trip, error)
	GetAllTrips(page, limit int) ([]Trip, int64, error)
	UpdateTrip(trip *Trip) error
	DeleteTrip(id uuid.UUID) error

	// Team operations
	CreateTeam(team *Team) error
	GetTeamByID(id uuid.UUID) (*Team, error)
	GetTeamsByTripID(tripID uuid.UUID) ([]Team, error)
	UpdateTeam(team *Team) error

	// Player operations
	CreatePlayer(player *Player) error
	GetPlayerByID(id uuid.UUID) (*Player, error)
	GetPlayersByTripID(tripID uuid.UUID) ([]Player, error)
	UpdatePlayer(player *Player) error
	RemovePlayer(id uuid.UUID) error

	WithTransaction(txFunc func(TripRepository) error) error
}

type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new instance of TripRepository
func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

// --- Trip Operations ---

func (r *tripRepository) CreateTrip(trip *Trip) error {
	return r.db.Create(trip).Error
}

func (r *tripRepository) GetTripByID(id uuid.UUID) (*Trip, error) {
	var trip Trip
	if err := r.db.Preload("Teams").Preload("Players").First(&trip, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) GetAllTrips(page, limit int) ([]Trip, int64, error) {
	var trips []Trip
	var total int64

	query := r.db.Model(&Trip{})
	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&trips).Error; err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *tripRepository) UpdateTrip(trip *Trip) error {
	return r.db.Save(trip).Error
}

func (r *tripRepository) DeleteTrip(id uuid.UUID) error {
	if err := r.db.Where("trip_id = ?", id).Delete(&Player{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("trip_id = ?", id).Delete(&Team{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&Trip{}, "id = ?", id).Error
}

// --- Team Operations ---

func (r *tripRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

func (r *tripRepository) GetTeamByID(id uuid.UUID) (*Team, error) {
	var team Team
	if err := r.db.Preload("Players").First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *tripRepository) GetTeamsByTripID(tripID uuid.UUID) ([]Team, error) {
	var teams []Team
	if err := r.db.Preload("Players").Where("trip_id = ?", tripID).Order("created_at asc").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *tripRepository) UpdateTeam(team *Team) error {
	return r.db.Save(team).Error
}

// --- Player Operations ---

func (r *tripRepository) CreatePlayer(player *Player) error {
	return r.db.Create(player).Error
}

func (r *tripRepository) GetPlayerByID(id uuid.UUID) (*Player, error) {
	var player Player
	if err := r.db.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *tripRepository) GetPlayersByTripID(tripID uuid.UUID) ([]Player, error) {
	var players []Player
	if err := r.db.Where("trip_id = ?", tripID).Order("name asc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *tripRepository) UpdatePlayer(player *Player) error {
	return r.db.Save(player).Error
}

func (r *tripRepository) RemovePlayer(id uuid.UUID) error {
	return r.db.Delete(&Player{}, "id = ?", id).Error
}

func (r *tripRepository) WithTransaction(txFunc func(TripRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &tripRepository{db: tx}
		// Execute the function with the transactional repository
		return txFunc(txRepo)
	})
}
