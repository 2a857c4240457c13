package game

import (
	"sync"
	"time"

	"sprint-poker/models"
)

// Room is one estimation session. It owns its participant set and exactly one
// active round, and serializes every mutation behind a single mutex so events
// for a room apply in the order they arrive while other rooms proceed in
// parallel.
//
// Room methods never perform I/O; they return immutable snapshots that the
// caller broadcasts or persists after the lock is released.
type Room struct {
	ID       string
	SprintID string

	mu           sync.Mutex
	participants *Participants
	round        *Round
	createdAt    time.Time
	lastActivity time.Time
}

func NewRoom(id string) *Room {
	now := time.Now()
	return &Room{
		ID:           id,
		participants: NewParticipants(),
		round:        NewRound("", "", 1),
		createdAt:    now,
		lastActivity: now,
	}
}

type JoinRequest struct {
	UserID       string
	ConnectionID string
	Name         string
	Role         models.Role
	SprintID     string
}

// Join admits or reconnects a participant and returns the room snapshot. The
// second return reports whether this was a reconnect of a known user.
func (r *Room) Join(req JoinRequest) (models.RoomState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.SprintID != "" && r.SprintID == "" {
		r.SprintID = req.SprintID
	}
	_, rejoined := r.participants.Join(req.UserID, req.ConnectionID, req.Name, req.Role)
	r.touch()
	return r.snapshotLocked(), rejoined
}

// Disconnect marks the participant behind a closed connection as gone but
// keeps their record (and any open-round vote) for the grace period. Returns
// the affected participant, or nil for an already-superseded connection.
func (r *Room) Disconnect(connectionID string) (models.RoomState, *models.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	part := r.participants.Disconnect(connectionID, time.Now())
	if part != nil {
		r.touch()
	}
	return r.snapshotLocked(), part
}

// Leave hard-removes a participant. Their vote is dropped from a still-open
// round; a revealed round's frozen result is never rewritten.
func (r *Room) Leave(userID string) (models.RoomState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	part := r.participants.Remove(userID)
	if part == nil {
		return r.snapshotLocked(), false
	}
	r.round.RemoveVote(userID)
	r.touch()
	return r.snapshotLocked(), true
}

func (r *Room) SubmitVote(userID, value string) (models.RoomState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants.Get(userID); !ok {
		return r.snapshotLocked(), ErrUnknownParticipant
	}
	if err := r.round.SubmitVote(userID, value); err != nil {
		return r.snapshotLocked(), err
	}
	r.touch()
	return r.snapshotLocked(), nil
}

// Reveal freezes the active round. Facilitator-only. The bool reports whether
// this call performed the transition; a repeat reveal returns the identical
// frozen result with fresh=false so the caller can skip re-persisting.
func (r *Room) Reveal(userID string) (*models.VoteResult, models.RoomState, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireFacilitator(userID); err != nil {
		return nil, r.snapshotLocked(), false, err
	}
	result, fresh := r.round.Reveal(r.participants.Len())
	r.touch()
	return result, r.snapshotLocked(), fresh, nil
}

// Reset discards all votes and opens a new round for the same item with the
// round number incremented. Facilitator-only, allowed from either state.
func (r *Room) Reset(userID string) (models.RoomState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireFacilitator(userID); err != nil {
		return r.snapshotLocked(), err
	}
	r.round = NewRound(r.round.ItemKey, r.round.ItemType, r.round.Number+1)
	r.touch()
	return r.snapshotLocked(), nil
}

// StartItem replaces the active round with round 1 for a new work item.
// Facilitator-only.
func (r *Room) StartItem(userID, itemKey, itemType string) (models.RoomState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireFacilitator(userID); err != nil {
		return r.snapshotLocked(), err
	}
	r.round = NewRound(itemKey, itemType, 1)
	r.touch()
	return r.snapshotLocked(), nil
}

// RevealedRecord returns the frozen round in persistence form. Facilitator-
// only; fails with ErrNotRevealed while the round is still open.
func (r *Room) RevealedRecord(userID string) (models.VotingRound, models.RoomState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireFacilitator(userID); err != nil {
		return models.VotingRound{}, r.snapshotLocked(), err
	}
	if !r.round.Revealed() {
		return models.VotingRound{}, r.snapshotLocked(), ErrNotRevealed
	}
	return r.round.Record(), r.snapshotLocked(), nil
}

func (r *Room) Snapshot() models.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// SweepExpired removes participants whose disconnect grace period elapsed and
// reports whether the room has been empty past the idle timeout.
func (r *Room) SweepExpired(now time.Time, grace, idle time.Duration) ([]*models.Participant, models.RoomState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expired := r.participants.Expired(now, grace)
	for _, part := range expired {
		r.participants.Remove(part.UserID)
		r.round.RemoveVote(part.UserID)
	}
	evictable := r.participants.Empty() && now.Sub(r.lastActivity) > idle
	return expired, r.snapshotLocked(), evictable
}

func (r *Room) requireFacilitator(userID string) error {
	part, ok := r.participants.Get(userID)
	if !ok || part.Role != models.RoleFacilitator {
		return ErrUnauthorized
	}
	return nil
}

func (r *Room) touch() { r.lastActivity = time.Now() }

func (r *Room) snapshotLocked() models.RoomState {
	return models.RoomState{
		RoomID:       r.ID,
		SprintID:     r.SprintID,
		ItemKey:      r.round.ItemKey,
		ItemType:     r.round.ItemType,
		RoundNumber:  r.round.Number,
		Revealed:     r.round.Revealed(),
		VoteCount:    r.round.VoteCount(),
		Participants: r.participants.States(r.round),
		Result:       r.round.Result(),
	}
}
