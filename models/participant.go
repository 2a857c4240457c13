package models

import "time"

type Role string

const (
	RoleFacilitator Role = "facilitator"
	RoleVoter       Role = "voter"
)

// Participant is one user inside one room. UserID is stable across
// reconnects; ConnectionID changes with every socket.
type Participant struct {
	UserID         string    `json:"userId"`
	ConnectionID   string    `json:"-"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	Connected      bool      `json:"connected"`
	JoinedAt       time.Time `json:"joinedAt"`
	DisconnectedAt time.Time `json:"-"`
}

func NewParticipant(userID, connectionID, name string, role Role) *Participant {
	return &Participant{
		UserID:       userID,
		ConnectionID: connectionID,
		Name:         name,
		Role:         role,
		Connected:    true,
		JoinedAt:     time.Now(),
	}
}

// ParticipantState is the broadcast-safe view of a participant. HasVoted
// exposes whether a vote exists, never its value.
type ParticipantState struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Connected bool   `json:"connected"`
	HasVoted  bool   `json:"hasVoted"`
}
