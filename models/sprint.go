package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Sprint struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Board     string             `json:"board" bson:"board"`
	Tickets   []Ticket           `json:"tickets" bson:"tickets"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type Ticket struct {
	Key          string        `json:"key" bson:"key"`
	Summary      string        `json:"summary" bson:"summary"`
	Type         string        `json:"type" bson:"type"`
	Estimate     string        `json:"estimate,omitempty" bson:"estimate,omitempty"`
	VotingRounds []VotingRound `json:"votingRounds" bson:"votingRounds"`
}

// VotingRound is one revealed round appended to a ticket's history. History
// is append-only; later rounds never rewrite earlier ones.
type VotingRound struct {
	RoundNumber      int               `json:"roundNumber" bson:"roundNumber"`
	Votes            map[string]string `json:"votes" bson:"votes"`
	Average          float64           `json:"average" bson:"average"`
	Agreement        float64           `json:"agreement" bson:"agreement"`
	FinalValue       string            `json:"finalValue,omitempty" bson:"finalValue,omitempty"`
	RevealedAt       time.Time         `json:"revealedAt" bson:"revealedAt"`
	UpdatedInTracker bool              `json:"updatedInTracker" bson:"updatedInTracker"`
}
