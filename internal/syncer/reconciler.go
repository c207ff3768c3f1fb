package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/handicap"
	"github.com/gstrickland/tripscore/internal/scoring"
)

// Reconciler merges event batches queued on devices into the canonical match
// log. Event IDs are client-generated, so a replayed batch is structurally
// idempotent: inserts that hit an existing ID are silently skipped and
// acknowledged as synced all the same.
type Reconciler struct {
	repo            scoring.ScoringRepository
	localOnly       bool
	perEventTimeout time.Duration
}

// NewReconciler creates a Reconciler configured from the app config.
func NewReconciler(repo scoring.ScoringRepository, cfg *config.Config) *Reconciler {
	timeout := time.Duration(cfg.Sync.PerEventTimeoutMilli) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Reconciler{
		repo:            repo,
		localOnly:       cfg.Sync.LocalOnly,
		perEventTimeout: timeout,
	}
}

// EventError reports why one event of a batch could not be reconciled.
type EventError struct {
	EventID uuid.UUID `json:"event_id"`
	Message string    `json:"message"`
}

// Result summarizes a reconciliation pass. A duplicate counts as synced:
// from the device's point of view the event is in the canonical log either
// way.
type Result struct {
	MatchID    uuid.UUID           `json:"match_id"`
	Synced     []uuid.UUID         `json:"synced"`
	Duplicates []uuid.UUID         `json:"duplicates"`
	Failed     []EventError        `json:"failed,omitempty"`
	Status     scoring.MatchStatus `json:"status"`
	SyncedAt   *time.Time          `json:"synced_at,omitempty"`
}

// Reconcile merges an ordered batch of device events into the match's log.
// Events are processed independently: one failure is recorded and the rest
// of the batch continues. After at least one event lands, the derived state
// is rebuilt from the full merged log and the match's sync marker advances.
func (r *Reconciler) Reconcile(ctx context.Context, match *scoring.Match, incoming []scoring.ScoringEvent) (*Result, error) {
	result := &Result{
		MatchID:    match.ID,
		Synced:     make([]uuid.UUID, 0, len(incoming)),
		Duplicates: make([]uuid.UUID, 0),
		Status:     match.Status,
	}

	if r.localOnly {
		// No canonical store: the device's own log is the log. Acknowledge
		// everything so clients clear their queues.
		for _, ev := range incoming {
			result.Synced = append(result.Synced, ev.ID)
		}
		now := time.Now().UTC()
		result.SyncedAt = &now
		return result, nil
	}

	for i := range incoming {
		ev := incoming[i]
		if err := validateIncoming(&ev); err != nil {
			result.Failed = append(result.Failed, EventError{EventID: ev.ID, Message: err.Error()})
			continue
		}
		ev.MatchID = match.ID
		ev.SyncStatus = scoring.SyncSynced

		evCtx, cancel := context.WithTimeout(ctx, r.perEventTimeout)
		inserted, err := r.repo.UpsertEvent(evCtx, &ev)
		cancel()
		if err != nil {
			result.Failed = append(result.Failed, EventError{EventID: ev.ID, Message: err.Error()})
			continue
		}
		if inserted {
			result.Synced = append(result.Synced, ev.ID)
		} else {
			result.Duplicates = append(result.Duplicates, ev.ID)
		}
	}

	if len(result.Synced) == 0 && len(result.Duplicates) == 0 {
		return result, nil
	}

	// Rebuild the derived state from the merged log so every device sees
	// the same results regardless of arrival order.
	events, err := r.repo.GetEventsByMatchID(match.ID)
	if err != nil {
		return result, fmt.Errorf("reloading merged log: %w", err)
	}
	merged := *match
	merged.Events = events
	engine, err := scoring.Replay(&merged)
	if err != nil {
		return result, fmt.Errorf("replaying merged log: %w", err)
	}

	state := engine.State()
	margin := ""
	if state.Status == scoring.StatusClosed {
		margin = state.Margin
	}
	if err := r.repo.SaveDerived(match.ID, engine.Results(), state.Status, margin); err != nil {
		return result, fmt.Errorf("saving derived state: %w", err)
	}
	result.Status = state.Status

	if len(result.Synced) > 0 {
		if err := r.repo.MarkEventsSynced(match.ID, result.Synced); err != nil {
			return result, fmt.Errorf("marking events synced: %w", err)
		}
		now := time.Now().UTC()
		if err := r.repo.UpdateLastSyncedAt(match.ID, now); err != nil {
			return result, fmt.Errorf("advancing sync marker: %w", err)
		}
		result.SyncedAt = &now
	}

	return result, nil
}

// validateIncoming checks the parts of an event the engine cannot repair.
func validateIncoming(ev *scoring.ScoringEvent) error {
	if ev.ID == uuid.Nil {
		return fmt.Errorf("event id is required")
	}
	if ev.Timestamp.IsZero() {
		return fmt.Errorf("event timestamp is required")
	}
	switch ev.Type {
	case scoring.EventRecordResult, scoring.EventEditResult:
		if ev.HoleNumber == nil || *ev.HoleNumber < 1 || *ev.HoleNumber > handicap.HolesPerRound {
			return fmt.Errorf("hole number must be 1-%d", handicap.HolesPerRound)
		}
	case scoring.EventCloseMatch, scoring.EventReopenMatch:
		// no hole payload to check
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}
