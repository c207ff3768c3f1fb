package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gstrickland/tripscore/internal/handicap"
)

var (
	// ErrMatchClosed is returned for scoring actions on a closed match.
	// The match must be explicitly reopened first.
	ErrMatchClosed = errors.New("match is closed")
	// ErrMatchNotClosed is returned when reopening a match that isn't closed.
	ErrMatchNotClosed = errors.New("match is not closed")
	// ErrNothingToUndo is returned when the event log is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when the redo buffer is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrDuplicateEvent is returned when an event ID already exists in the log.
	ErrDuplicateEvent = errors.New("event already applied")
	// ErrInvalidEvent is returned for malformed events (bad hole number,
	// missing payload, unknown type).
	ErrInvalidEvent = errors.New("invalid scoring event")
)

// Log is the in-memory scoring engine for one match. It replays the match's
// event history into per-hole results and a lifecycle status, applies new
// events, and undoes the most recent one in O(1) by restoring the snapshot
// the event carries.
//
// A Log is not safe for concurrent use; callers serialize per match.
type Log struct {
	matchID uuid.UUID
	format  MatchFormat
	allocA  IntSlice
	allocB  IntSlice

	status  MatchStatus
	results map[int]HoleResult
	events  []ScoringEvent
	redo    []ScoringEvent
	seen    map[uuid.UUID]struct{}
}

// Replay rebuilds the engine from a match and its stored events. Events are
// ordered by (timestamp, id) so independently merged logs replay identically
// on every device.
func Replay(match *Match) (*Log, error) {
	if match == nil {
		return nil, fmt.Errorf("%w: nil match", ErrInvalidEvent)
	}
	l := &Log{
		matchID: match.ID,
		format:  match.Format,
		allocA:  match.SideAStrokeAlloc,
		allocB:  match.SideBStrokeAlloc,
		status:  StatusNotStarted,
		results: make(map[int]HoleResult),
		seen:    make(map[uuid.UUID]struct{}),
	}

	ordered := make([]ScoringEvent, len(match.Events))
	copy(ordered, match.Events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return strings.Compare(ordered[i].ID.String(), ordered[j].ID.String()) < 0
	})

	for i := range ordered {
		if err := l.replayOne(&ordered[i]); err != nil {
			return nil, fmt.Errorf("replaying event %s: %w", ordered[i].ID, err)
		}
	}
	return l, nil
}

// replayOne applies a stored event without re-validating lifecycle rules:
// the log is the source of truth, so a stored close-then-record sequence
// from a merged device log still replays rather than erroring out.
//
// Snapshots are recomputed here rather than trusted from storage. Events
// merged from device batches arrive without one, and a snapshot taken in
// device order can disagree with the canonical (timestamp, id) order the
// log replays in. The value each event sees during replay is the value its
// undo must restore.
func (l *Log) replayOne(ev *ScoringEvent) error {
	if _, dup := l.seen[ev.ID]; dup {
		return ErrDuplicateEvent
	}
	switch ev.Type {
	case EventRecordResult, EventEditResult:
		if ev.HoleNumber == nil {
			return fmt.Errorf("%w: hole event without hole number", ErrInvalidEvent)
		}
		result, err := l.resolveResult(*ev.HoleNumber, ev.Payload)
		if err != nil {
			return err
		}
		prev := l.holeSnapshot(*ev.HoleNumber)
		ev.PreviousState = &prev
		l.results[*ev.HoleNumber] = result
		l.status = l.derivedStatus()
	case EventCloseMatch:
		ev.PreviousStatus = l.status
		l.status = StatusClosed
	case EventReopenMatch:
		ev.PreviousStatus = l.status
		l.status = StatusInProgress
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
	}
	l.seen[ev.ID] = struct{}{}
	l.events = append(l.events, *ev)
	return nil
}

// Apply validates and applies a new event, snapshotting the prior state into
// the event so it can be undone exactly. Any successful apply clears the
// redo buffer.
func (l *Log) Apply(ev *ScoringEvent) error {
	if err := l.apply(ev); err != nil {
		return err
	}
	l.redo = nil
	return nil
}

func (l *Log) apply(ev *ScoringEvent) error {
	if ev == nil || ev.ID == uuid.Nil {
		return fmt.Errorf("%w: missing event id", ErrInvalidEvent)
	}
	if _, dup := l.seen[ev.ID]; dup {
		return ErrDuplicateEvent
	}

	switch ev.Type {
	case EventRecordResult, EventEditResult:
		if l.status == StatusClosed {
			return ErrMatchClosed
		}
		if ev.HoleNumber == nil || *ev.HoleNumber < 1 || *ev.HoleNumber > handicap.HolesPerRound {
			return fmt.Errorf("%w: hole number must be 1-%d", ErrInvalidEvent, handicap.HolesPerRound)
		}
		hole := *ev.HoleNumber
		result, err := l.resolveResult(hole, ev.Payload)
		if err != nil {
			return err
		}
		prev := l.holeSnapshot(hole)
		ev.PreviousState = &prev
		l.results[hole] = result
		l.status = l.derivedStatus()

	case EventCloseMatch:
		if l.status == StatusClosed {
			return ErrMatchClosed
		}
		ev.PreviousStatus = l.status
		l.status = StatusClosed

	case EventReopenMatch:
		if l.status != StatusClosed {
			return ErrMatchNotClosed
		}
		ev.PreviousStatus = l.status
		l.status = StatusInProgress

	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
	}

	ev.MatchID = l.matchID
	l.seen[ev.ID] = struct{}{}
	l.events = append(l.events, *ev)
	return nil
}

// Undo removes the most recent event and restores the state it snapshotted.
// It is refused while the match is closed; reopen first. The undone event is
// returned so the caller can delete it from storage, and is buffered for Redo.
func (l *Log) Undo() (*ScoringEvent, error) {
	if len(l.events) == 0 {
		return nil, ErrNothingToUndo
	}
	if l.status == StatusClosed {
		return nil, ErrMatchClosed
	}

	ev := l.events[len(l.events)-1]
	l.events = l.events[:len(l.events)-1]
	delete(l.seen, ev.ID)

	switch ev.Type {
	case EventRecordResult, EventEditResult:
		l.restoreHole(ev.PreviousState)
		l.status = l.derivedStatus()
	case EventCloseMatch, EventReopenMatch:
		l.status = ev.PreviousStatus
	}

	l.redo = append(l.redo, ev)
	return &ev, nil
}

// Redo re-applies the most recently undone event. The buffer survives only
// until the next fresh event; any new Apply clears it.
func (l *Log) Redo() (*ScoringEvent, error) {
	if len(l.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	ev := l.redo[len(l.redo)-1]
	if err := l.apply(&ev); err != nil {
		return nil, err
	}
	l.redo = l.redo[:len(l.redo)-1]
	return &ev, nil
}

// SetRedoBuffer seeds the redo buffer, oldest first. Undo history lives in
// process memory, so a rebuilt engine gets the buffer handed back to it.
func (l *Log) SetRedoBuffer(events []ScoringEvent) {
	l.redo = append(l.redo[:0], events...)
}

// RedoBuffer returns the current redo buffer, oldest first.
func (l *Log) RedoBuffer() []ScoringEvent {
	out := make([]ScoringEvent, len(l.redo))
	copy(out, l.redo)
	return out
}

// State derives the current match state. The lifecycle status tracked by the
// log is authoritative: an explicit close fixes the points before the
// arithmetic would, and an explicit reopen holds the match open until the
// next scoring event re-evaluates it.
func (l *Log) State() MatchState {
	st := computeState(l.format, l.results, l.allocA, l.allocB)
	if l.status == st.Status {
		return st
	}

	if l.status == StatusClosed {
		// Closed early by an explicit event (concession). The leader at the
		// time of closing takes the match; all square splits it.
		st.Status = StatusClosed
		st.Dormie = false
		st.Margin = concededMargin(l.format, st.Lead)
		st.PointsA, st.PointsB = pointsFor(st.Leader)
		return st
	}

	// Reopened (or never explicitly started): the log's status wins, no
	// points are on the board.
	st.Status = l.status
	st.PointsA, st.PointsB = 0, 0
	return st
}

// Status returns the lifecycle status the log has derived.
func (l *Log) Status() MatchStatus {
	return l.status
}

// Events returns the applied events in log order.
func (l *Log) Events() []ScoringEvent {
	out := make([]ScoringEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Results materializes all 18 hole results for persistence, including
// unplayed holes, stamped with the match ID.
func (l *Log) Results() []HoleResult {
	out := make([]HoleResult, 0, handicap.HolesPerRound)
	for hole := 1; hole <= handicap.HolesPerRound; hole++ {
		r, ok := l.results[hole]
		if !ok {
			r = HoleResult{HoleNumber: hole, Winner: WinnerUnplayed}
		}
		r.MatchID = l.matchID
		out = append(out, r)
	}
	return out
}

// HoleResult returns the derived result for one hole.
func (l *Log) HoleResult(hole int) HoleResult {
	if r, ok := l.results[hole]; ok {
		return r
	}
	return HoleResult{MatchID: l.matchID, HoleNumber: hole, Winner: WinnerUnplayed}
}

// resolveResult turns an event payload into a hole result, deriving the
// winner from net strokes when it isn't given explicitly.
func (l *Log) resolveResult(hole int, payload EventPayload) (HoleResult, error) {
	result := HoleResult{
		MatchID:      l.matchID,
		HoleNumber:   hole,
		SideAStrokes: payload.SideAStrokes,
		SideBStrokes: payload.SideBStrokes,
	}

	// Stroke play totals net strokes across the round, so a bare winner
	// carries no usable information: both sides' counts are mandatory.
	if l.format == FormatStrokePlay && (payload.SideAStrokes == nil || payload.SideBStrokes == nil) {
		return HoleResult{}, fmt.Errorf("%w: stroke play requires both sides' strokes", ErrInvalidEvent)
	}

	switch payload.Winner {
	case WinnerSideA, WinnerSideB, WinnerHalved:
		result.Winner = payload.Winner
		return result, nil
	case "":
		// fall through to stroke-based derivation
	default:
		return HoleResult{}, fmt.Errorf("%w: winner %q", ErrInvalidEvent, payload.Winner)
	}

	if payload.SideAStrokes == nil || payload.SideBStrokes == nil {
		return HoleResult{}, fmt.Errorf("%w: need a winner or both sides' strokes", ErrInvalidEvent)
	}
	if *payload.SideAStrokes < 1 || *payload.SideBStrokes < 1 {
		return HoleResult{}, fmt.Errorf("%w: strokes must be positive", ErrInvalidEvent)
	}

	netA := *payload.SideAStrokes - strokeAt(l.allocA, hole)
	netB := *payload.SideBStrokes - strokeAt(l.allocB, hole)
	switch {
	case netA < netB:
		result.Winner = WinnerSideA
	case netB < netA:
		result.Winner = WinnerSideB
	default:
		result.Winner = WinnerHalved
	}
	return result, nil
}

// derivedStatus recomputes the lifecycle status from the hole results alone.
// Called after any hole changes; explicit close/reopen events override it at
// the call sites.
func (l *Log) derivedStatus() MatchStatus {
	return computeState(l.format, l.results, l.allocA, l.allocB).Status
}

func (l *Log) holeSnapshot(hole int) HoleSnapshot {
	if r, ok := l.results[hole]; ok {
		return r.Snapshot()
	}
	return HoleSnapshot{HoleNumber: hole, Winner: WinnerUnplayed}
}

func (l *Log) restoreHole(snap *HoleSnapshot) {
	if snap == nil {
		return
	}
	if snap.Winner == WinnerUnplayed || snap.Winner == "" {
		delete(l.results, snap.HoleNumber)
		return
	}
	l.results[snap.HoleNumber] = HoleResult{
		MatchID:      l.matchID,
		HoleNumber:   snap.HoleNumber,
		Winner:       snap.Winner,
		SideAStrokes: snap.SideAStrokes,
		SideBStrokes: snap.SideBStrokes,
	}
}

func concededMargin(format MatchFormat, lead int) string {
	if lead == 0 {
		if format == FormatStrokePlay {
			return "Tied"
		}
		return "A/S"
	}
	if format == FormatStrokePlay {
		return fmt.Sprintf("by %d strokes", lead)
	}
	return fmt.Sprintf("%d UP", lead)
}
