package game

import (
	"sort"
	"time"

	"sprint-poker/models"
)

// Participants tracks every user known to a room, keyed by stable user ID.
// Disconnected entries linger for a grace period so a reconnect keeps the
// participant's identity (and their vote in a still-open round).
//
// Like Round, it relies on the owning Room's mutex.
type Participants struct {
	byUser map[string]*models.Participant
}

func NewParticipants() *Participants {
	return &Participants{byUser: make(map[string]*models.Participant)}
}

// Join inserts a participant or, for a known user, supersedes the previous
// connection. Last writer wins on name and role; vote state is untouched
// because votes are keyed by user ID, not connection ID.
func (p *Participants) Join(userID, connectionID, name string, role models.Role) (*models.Participant, bool) {
	if existing, ok := p.byUser[userID]; ok {
		existing.ConnectionID = connectionID
		existing.Name = name
		if role != "" {
			existing.Role = role
		}
		existing.Connected = true
		existing.DisconnectedAt = time.Time{}
		return existing, true
	}
	part := models.NewParticipant(userID, connectionID, name, role)
	p.byUser[userID] = part
	return part, false
}

// Disconnect flips the connected flag for the participant holding this
// connection ID. A stale connection ID (already superseded by a reconnect)
// matches nothing and returns nil.
func (p *Participants) Disconnect(connectionID string, at time.Time) *models.Participant {
	for _, part := range p.byUser {
		if part.ConnectionID == connectionID && part.Connected {
			part.Connected = false
			part.DisconnectedAt = at
			return part
		}
	}
	return nil
}

// Remove hard-deletes a participant, used on explicit leave or when the
// disconnect grace period elapses.
func (p *Participants) Remove(userID string) *models.Participant {
	part, ok := p.byUser[userID]
	if !ok {
		return nil
	}
	delete(p.byUser, userID)
	return part
}

func (p *Participants) Get(userID string) (*models.Participant, bool) {
	part, ok := p.byUser[userID]
	return part, ok
}

// Expired returns participants whose disconnect grace period has elapsed.
func (p *Participants) Expired(now time.Time, grace time.Duration) []*models.Participant {
	var expired []*models.Participant
	for _, part := range p.byUser {
		if !part.Connected && now.Sub(part.DisconnectedAt) > grace {
			expired = append(expired, part)
		}
	}
	return expired
}

// Empty reports whether nobody is left, connected or pending reconnect.
func (p *Participants) Empty() bool { return len(p.byUser) == 0 }

func (p *Participants) Len() int { return len(p.byUser) }

// States renders the broadcast-safe view, in join order so clients see a
// stable participant list.
func (p *Participants) States(round *Round) []models.ParticipantState {
	states := make([]models.ParticipantState, 0, len(p.byUser))
	for _, part := range p.byUser {
		states = append(states, models.ParticipantState{
			UserID:    part.UserID,
			Name:      part.Name,
			Role:      part.Role,
			Connected: part.Connected,
			HasVoted:  round.HasVoted(part.UserID),
		})
	}
	sort.Slice(states, func(i, j int) bool {
		a, b := p.byUser[states[i].UserID], p.byUser[states[j].UserID]
		if a.JoinedAt.Equal(b.JoinedAt) {
			return states[i].UserID < states[j].UserID
		}
		return a.JoinedAt.Before(b.JoinedAt)
	})
	return states
}
