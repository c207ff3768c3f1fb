package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoringRepository defines the interface for match and event-log data
// operations. Writes that touch the log and the derived state go through the
// transactional methods so the persisted status can never drift from the
// state the log implies.
type ScoringRepository interface {
	// Match operations
	CreateMatch(match *Match) error
	GetMatchByID(id uuid.UUID) (*Match, error)
	GetMatchesByTripID(tripID uuid.UUID) ([]Match, error)
	DeleteMatch(id uuid.UUID) error

	// Event log operations
	GetEventsByMatchID(matchID uuid.UUID) ([]ScoringEvent, error)
	// AppendEvent inserts the event and writes the derived results, status
	// and margin in one transaction.
	AppendEvent(event *ScoringEvent, results []HoleResult, status MatchStatus, margin string) error
	// RemoveEvent deletes an undone event and writes the restored derived
	// state in one transaction.
	RemoveEvent(eventID uuid.UUID, matchID uuid.UUID, results []HoleResult, status MatchStatus, margin string) error
	// UpsertEvent inserts an event if its ID is new, reporting whether a row
	// was actually written. Replayed duplicates are a silent no-op. The
	// context bounds the write (the sync layer gives each event a budget).
	UpsertEvent(ctx context.Context, event *ScoringEvent) (bool, error)
	// SaveDerived rewrites the derived results, status and margin after a
	// full replay (used by the reconciler once merged events land).
	SaveDerived(matchID uuid.UUID, results []HoleResult, status MatchStatus, margin string) error

	MarkEventsSynced(matchID uuid.UUID, eventIDs []uuid.UUID) error
	UpdateLastSyncedAt(matchID uuid.UUID, t time.Time) error
}

type scoringRepository struct {
	db *gorm.DB
}

// NewScoringRepository creates a new instance of ScoringRepository
func NewScoringRepository(db *gorm.DB) ScoringRepository {
	return &scoringRepository{db: db}
}

// --- Match Operations ---

func (r *scoringRepository) CreateMatch(match *Match) error {
	return r.db.Create(match).Error
}

func (r *scoringRepository) GetMatchByID(id uuid.UUID) (*Match, error) {
	var match Match
	err := r.db.
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp asc, id asc")
		}).
		Preload("HoleResults", func(db *gorm.DB) *gorm.DB {
			return db.Order("hole_number asc")
		}).
		First(&match, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

func (r *scoringRepository) GetMatchesByTripID(tripID uuid.UUID) ([]Match, error) {
	var matches []Match
	err := r.db.
		Preload("HoleResults", func(db *gorm.DB) *gorm.DB {
			return db.Order("hole_number asc")
		}).
		Where("trip_id = ?", tripID).
		Order("created_at asc").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *scoringRepository) DeleteMatch(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", id).Delete(&ScoringEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("match_id = ?", id).Delete(&HoleResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Match{}, "id = ?", id).Error
	})
}

// --- Event Log Operations ---

func (r *scoringRepository) GetEventsByMatchID(matchID uuid.UUID) ([]ScoringEvent, error) {
	var events []ScoringEvent
	err := r.db.
		Where("match_id = ?", matchID).
		Order("timestamp asc, id asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *scoringRepository) AppendEvent(event *ScoringEvent, results []HoleResult, status MatchStatus, margin string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return writeDerived(tx, event.MatchID, results, status, margin)
	})
}

func (r *scoringRepository) RemoveEvent(eventID uuid.UUID, matchID uuid.UUID, results []HoleResult, status MatchStatus, margin string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ScoringEvent{}, "id = ? AND match_id = ?", eventID, matchID).Error; err != nil {
			return err
		}
		return writeDerived(tx, matchID, results, status, margin)
	})
}

func (r *scoringRepository) UpsertEvent(ctx context.Context, event *ScoringEvent) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *scoringRepository) SaveDerived(matchID uuid.UUID, results []HoleResult, status MatchStatus, margin string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return writeDerived(tx, matchID, results, status, margin)
	})
}

func (r *scoringRepository) MarkEventsSynced(matchID uuid.UUID, eventIDs []uuid.UUID) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return r.db.Model(&ScoringEvent{}).
		Where("match_id = ? AND id IN ?", matchID, eventIDs).
		Update("sync_status", SyncSynced).Error
}

func (r *scoringRepository) UpdateLastSyncedAt(matchID uuid.UUID, t time.Time) error {
	return r.db.Model(&Match{}).
		Where("id = ?", matchID).
		Update("last_synced_at", t).Error
}

// writeDerived upserts the materialized hole results and stamps the match
// status and margin, all inside the caller's transaction.
func writeDerived(tx *gorm.DB, matchID uuid.UUID, results []HoleResult, status MatchStatus, margin string) error {
	if len(results) > 0 {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}, {Name: "hole_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"winner", "side_a_strokes", "side_b_strokes", "updated_at"}),
		}).Create(&results).Error; err != nil {
			return err
		}
	}
	return tx.Model(&Match{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{
			"status":       status,
			"final_margin": margin,
		}).Error
}
