package scoring

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchFormat describes how a match is contested and scored.
type MatchFormat string

const (
	FormatSingles    MatchFormat = "singles"    // 1v1 match play
	FormatFourBall   MatchFormat = "four_ball"  // 2v2, best ball per side
	FormatFoursomes  MatchFormat = "foursomes"  // 2v2, alternate shot
	FormatGreensomes MatchFormat = "greensomes" // 2v2, both drive then alternate
	FormatStrokePlay MatchFormat = "stroke_play"
)

// IsMatchPlay reports whether holes are won/lost individually (match play)
// as opposed to totalled across the round (stroke play).
func (f MatchFormat) IsMatchPlay() bool {
	return f != FormatStrokePlay
}

// Valid reports whether the format is one the engine knows how to score.
func (f MatchFormat) Valid() bool {
	switch f {
	case FormatSingles, FormatFourBall, FormatFoursomes, FormatGreensomes, FormatStrokePlay:
		return true
	}
	return false
}

// PlayersPerSide returns how many players each side fields for the format.
func (f MatchFormat) PlayersPerSide() int {
	if f == FormatSingles || f == FormatStrokePlay {
		return 1
	}
	return 2
}

// MatchStatus tracks the lifecycle of a match. Transitions are linear
// (not_started -> in_progress -> closed); the only back-edge is an explicit
// reopen event taking closed back to in_progress.
type MatchStatus string

const (
	StatusNotStarted MatchStatus = "not_started"
	StatusInProgress MatchStatus = "in_progress"
	StatusClosed     MatchStatus = "closed"
)

// Side identifies one of the two sides of a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// HoleWinner is the outcome of a single hole.
type HoleWinner string

const (
	WinnerSideA    HoleWinner = "A"
	WinnerSideB    HoleWinner = "B"
	WinnerHalved   HoleWinner = "halved"
	WinnerUnplayed HoleWinner = "unplayed"
)

// EventType enumerates the discrete scoring actions a scorer can take.
type EventType string

const (
	EventRecordResult EventType = "record_result"
	EventEditResult   EventType = "edit_result"
	EventCloseMatch   EventType = "close_match"
	EventReopenMatch  EventType = "reopen_match"
)

// SyncStatus marks whether an event has reached the canonical log.
type SyncStatus string

const (
	SyncLocal  SyncStatus = "local"
	SyncSynced SyncStatus = "synced"
)

// --- JSONB column types ---

// IntSlice is a JSONB column holding per-hole stroke allocations.
type IntSlice []int

func (s IntSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *IntSlice) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("IntSlice: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// UUIDSlice is a JSONB column holding an ordered list of player IDs.
type UUIDSlice []uuid.UUID

func (s UUIDSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *UUIDSlice) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("UUIDSlice: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// EventPayload carries the effect of a record/edit event. Either Winner is
// set directly (quick scoring) or both sides' gross strokes are given and
// the engine derives the winner from net strokes.
type EventPayload struct {
	Winner       HoleWinner `json:"winner,omitempty"`
	SideAStrokes *int       `json:"side_a_strokes,omitempty"`
	SideBStrokes *int       `json:"side_b_strokes,omitempty"`
}

func (p EventPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *EventPayload) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("EventPayload: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, p)
}

// HoleSnapshot is the derived value of a hole at a point in time. Every
// hole-level event stores the snapshot taken immediately before it was
// applied; undo restores from it directly instead of re-deriving.
type HoleSnapshot struct {
	HoleNumber   int        `json:"hole_number"`
	Winner       HoleWinner `json:"winner"`
	SideAStrokes *int       `json:"side_a_strokes,omitempty"`
	SideBStrokes *int       `json:"side_b_strokes,omitempty"`
}

func (s HoleSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *HoleSnapshot) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("HoleSnapshot: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// --- Models ---

// Match represents one match of a trip. It owns its event log and its
// derived hole results; both are destroyed with it. Side/team identity is
// carried by team IDs only; display names never enter scoring.
type Match struct {
	ID     uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TripID uuid.UUID   `json:"trip_id" gorm:"type:uuid;index;not null"`
	TeeID  uuid.UUID   `json:"tee_id" gorm:"type:uuid;not null"`
	Format MatchFormat `json:"format" gorm:"not null"`
	Status MatchStatus `json:"status" gorm:"not null;default:'not_started'"`

	TeamAID        uuid.UUID `json:"team_a_id" gorm:"type:uuid;not null"`
	TeamBID        uuid.UUID `json:"team_b_id" gorm:"type:uuid;not null"`
	SideAPlayerIDs UUIDSlice `json:"side_a_player_ids" gorm:"type:jsonb"`
	SideBPlayerIDs UUIDSlice `json:"side_b_player_ids" gorm:"type:jsonb"`

	// Per-hole handicap strokes for each side, fixed at match creation from
	// the players' indexes and the tee. Index updates after creation do not
	// rewrite these.
	SideAStrokeAlloc IntSlice `json:"side_a_stroke_alloc" gorm:"type:jsonb"`
	SideBStrokeAlloc IntSlice `json:"side_b_stroke_alloc" gorm:"type:jsonb"`
	// SlopeDefaulted records that the tee's slope was unusable and the
	// neutral slope was substituted when the allocations were computed.
	SlopeDefaulted bool `json:"slope_defaulted,omitempty"`

	// FinalMargin is the persisted closing margin, e.g. "3 & 2", "1 UP",
	// "A/S". Empty until the match closes.
	FinalMargin string `json:"final_margin,omitempty"`

	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	Events      []ScoringEvent `json:"events,omitempty" gorm:"foreignKey:MatchID"`
	HoleResults []HoleResult   `json:"hole_results,omitempty" gorm:"foreignKey:MatchID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoringEvent is one entry of a match's append-only log. The ID is
// client-generated so offline devices can queue events and the canonical
// log can deduplicate replays. PreviousState (for hole events) or
// PreviousStatus (for match-level events) make each event self-describing
// for undo.
type ScoringEvent struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MatchID    uuid.UUID `json:"match_id" gorm:"type:uuid;index;not null"`
	Type       EventType `json:"type" gorm:"not null"`
	HoleNumber *int      `json:"hole_number,omitempty"` // absent for match-level events

	Payload EventPayload `json:"payload" gorm:"type:jsonb"`

	// PreviousState is the hole's derived value immediately before this
	// event was applied. Set by the engine, never by clients.
	PreviousState *HoleSnapshot `json:"previous_state,omitempty" gorm:"type:jsonb"`
	// PreviousStatus is the match status before a close/reopen event.
	PreviousStatus MatchStatus `json:"previous_status,omitempty"`

	Timestamp  time.Time  `json:"timestamp" gorm:"not null;index"`
	SyncStatus SyncStatus `json:"sync_status" gorm:"not null;default:'local'"`
	CreatedAt  time.Time  `json:"created_at"`
}

// HoleResult is the derived outcome of one hole. It is never edited
// directly, only produced by replaying the event log, but it is persisted
// so reads don't replay.
type HoleResult struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID      uuid.UUID  `json:"match_id" gorm:"type:uuid;not null;uniqueIndex:idx_match_hole"`
	HoleNumber   int        `json:"hole_number" gorm:"not null;uniqueIndex:idx_match_hole"` // 1-18
	Winner       HoleWinner `json:"winner" gorm:"not null;default:'unplayed'"`
	SideAStrokes *int       `json:"side_a_strokes,omitempty"`
	SideBStrokes *int       `json:"side_b_strokes,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Snapshot converts a derived hole result into the self-describing snapshot
// stored on events.
func (h HoleResult) Snapshot() HoleSnapshot {
	return HoleSnapshot{
		HoleNumber:   h.HoleNumber,
		Winner:       h.Winner,
		SideAStrokes: h.SideAStrokes,
		SideBStrokes: h.SideBStrokes,
	}
}
