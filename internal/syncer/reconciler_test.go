package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/config"
	"github.com/gstrickland/tripscore/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory ScoringRepository for reconciler tests. Only the
// methods the reconciler touches do real work.
type fakeRepo struct {
	events map[uuid.UUID]scoring.ScoringEvent
	order  []uuid.UUID
	failOn map[uuid.UUID]error

	derivedSaves  int
	derivedStatus scoring.MatchStatus
	syncedIDs     []uuid.UUID
	lastSyncedAt  *time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events: make(map[uuid.UUID]scoring.ScoringEvent),
		failOn: make(map[uuid.UUID]error),
	}
}

func (f *fakeRepo) UpsertEvent(ctx context.Context, ev *scoring.ScoringEvent) (bool, error) {
	if err, ok := f.failOn[ev.ID]; ok {
		return false, err
	}
	if _, exists := f.events[ev.ID]; exists {
		return false, nil
	}
	f.events[ev.ID] = *ev
	f.order = append(f.order, ev.ID)
	return true, nil
}

func (f *fakeRepo) GetEventsByMatchID(matchID uuid.UUID) ([]scoring.ScoringEvent, error) {
	out := make([]scoring.ScoringEvent, 0, len(f.order))
	for _, id := range f.order {
		if f.events[id].MatchID == matchID {
			out = append(out, f.events[id])
		}
	}
	return out, nil
}

func (f *fakeRepo) SaveDerived(matchID uuid.UUID, results []scoring.HoleResult, status scoring.MatchStatus, margin string) error {
	f.derivedSaves++
	f.derivedStatus = status
	return nil
}

func (f *fakeRepo) MarkEventsSynced(matchID uuid.UUID, ids []uuid.UUID) error {
	f.syncedIDs = append(f.syncedIDs, ids...)
	return nil
}

func (f *fakeRepo) UpdateLastSyncedAt(matchID uuid.UUID, t time.Time) error {
	f.lastSyncedAt = &t
	return nil
}

func (f *fakeRepo) CreateMatch(*scoring.Match) error               { return nil }
func (f *fakeRepo) GetMatchByID(uuid.UUID) (*scoring.Match, error) { return nil, nil }
func (f *fakeRepo) GetMatchesByTripID(uuid.UUID) ([]scoring.Match, error) {
	return nil, nil
}
func (f *fakeRepo) DeleteMatch(uuid.UUID) error { return nil }
func (f *fakeRepo) AppendEvent(*scoring.ScoringEvent, []scoring.HoleResult, scoring.MatchStatus, string) error {
	return nil
}
func (f *fakeRepo) RemoveEvent(uuid.UUID, uuid.UUID, []scoring.HoleResult, scoring.MatchStatus, string) error {
	return nil
}

func testConfig(localOnly bool) *config.Config {
	cfg := &config.Config{}
	cfg.Sync.LocalOnly = localOnly
	cfg.Sync.PerEventTimeoutMilli = 1000
	return cfg
}

func testMatch() *scoring.Match {
	return &scoring.Match{
		ID:     uuid.New(),
		Format: scoring.FormatSingles,
		Status: scoring.StatusNotStarted,
	}
}

func queuedEvent(matchID uuid.UUID, hole int, winner scoring.HoleWinner, seq int) scoring.ScoringEvent {
	return scoring.ScoringEvent{
		ID:         uuid.New(),
		MatchID:    matchID,
		Type:       scoring.EventRecordResult,
		HoleNumber: &hole,
		Payload:    scoring.EventPayload{Winner: winner},
		Timestamp:  time.Date(2026, 6, 12, 9, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Minute),
	}
}

func TestReconcileMergesNewEvents(t *testing.T) {
	repo := newFakeRepo()
	rec := NewReconciler(repo, testConfig(false))
	match := testMatch()

	batch := []scoring.ScoringEvent{
		queuedEvent(match.ID, 1, scoring.WinnerSideA, 0),
		queuedEvent(match.ID, 2, scoring.WinnerHalved, 1),
	}

	result, err := rec.Reconcile(context.Background(), match, batch)
	require.NoError(t, err)

	assert.Len(t, result.Synced, 2)
	assert.Empty(t, result.Duplicates)
	assert.Empty(t, result.Failed)
	assert.Equal(t, scoring.StatusInProgress, result.Status)
	require.NotNil(t, result.SyncedAt)

	assert.Equal(t, 1, repo.derivedSaves)
	assert.Equal(t, scoring.StatusInProgress, repo.derivedStatus)
	assert.ElementsMatch(t, result.Synced, repo.syncedIDs)
	assert.NotNil(t, repo.lastSyncedAt)
}

// A replayed batch must be acknowledged, not rejected: the device needs to
// clear its queue even when the events already landed on a previous attempt.
func TestReconcileDuplicateIsAcknowledged(t *testing.T) {
	repo := newFakeRepo()
	rec := NewReconciler(repo, testConfig(false))
	match := testMatch()

	ev := queuedEvent(match.ID, 1, scoring.WinnerSideA, 0)
	_, err := rec.Reconcile(context.Background(), match, []scoring.ScoringEvent{ev})
	require.NoError(t, err)

	result, err := rec.Reconcile(context.Background(), match, []scoring.ScoringEvent{ev})
	require.NoError(t, err)

	assert.Empty(t, result.Synced)
	assert.Equal(t, []uuid.UUID{ev.ID}, result.Duplicates)
	assert.Empty(t, result.Failed)
	// The store still holds exactly one copy.
	events, _ := repo.GetEventsByMatchID(match.ID)
	assert.Len(t, events, 1)
}

func TestReconcileFailureDoesNotAbortBatch(t *testing.T) {
	repo := newFakeRepo()
	rec := NewReconciler(repo, testConfig(false))
	match := testMatch()

	good1 := queuedEvent(match.ID, 1, scoring.WinnerSideA, 0)
	bad := queuedEvent(match.ID, 2, scoring.WinnerSideB, 1)
	good2 := queuedEvent(match.ID, 3, scoring.WinnerHalved, 2)
	repo.failOn[bad.ID] = errors.New("connection reset")

	result, err := rec.Reconcile(context.Background(), match, []scoring.ScoringEvent{good1, bad, good2})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{good1.ID, good2.ID}, result.Synced)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, bad.ID, result.Failed[0].EventID)
	assert.Contains(t, result.Failed[0].Message, "connection reset")
}

func TestReconcileValidatesEventShape(t *testing.T) {
	repo := newFakeRepo()
	rec := NewReconciler(repo, testConfig(false))
	match := testMatch()

	noHole := scoring.ScoringEvent{
		ID:        uuid.New(),
		Type:      scoring.EventRecordResult,
		Payload:   scoring.EventPayload{Winner: scoring.WinnerSideA},
		Timestamp: time.Now().UTC(),
	}
	noStamp := queuedEvent(match.ID, 4, scoring.WinnerSideB, 0)
	noStamp.Timestamp = time.Time{}

	result, err := rec.Reconcile(context.Background(), match, []scoring.ScoringEvent{noHole, noStamp})
	require.NoError(t, err)

	assert.Empty(t, result.Synced)
	assert.Len(t, result.Failed, 2)
	assert.Zero(t, repo.derivedSaves)
}

func TestReconcileLocalOnlyAcknowledgesWithoutStore(t *testing.T) {
	repo := newFakeRepo()
	rec := NewReconciler(repo, testConfig(true))
	match := testMatch()

	batch := []scoring.ScoringEvent{
		queuedEvent(match.ID, 1, scoring.WinnerSideA, 0),
		queuedEvent(match.ID, 2, scoring.WinnerSideB, 1),
	}

	result, err := rec.Reconcile(context.Background(), match, batch)
	require.NoError(t, err)

	assert.Len(t, result.Synced, 2)
	assert.NotNil(t, result.SyncedAt)
	// Nothing may touch the canonical store in local-only mode.
	assert.Empty(t, repo.events)
	assert.Zero(t, repo.derivedSaves)
	assert.Nil(t, repo.lastSyncedAt)
}
