package models

// VoteResult is the frozen outcome of a revealed round. Votes and Counts are
// never populated before reveal.
type VoteResult struct {
	Average      float64           `json:"average"`
	Agreement    float64           `json:"agreement"`
	Counts       map[string]int    `json:"counts"`
	Votes        map[string]string `json:"votes"`
	TotalVotes   int               `json:"totalVotes"`
	Participants int               `json:"participants"`
}

// RoomState is the public snapshot of a room broadcast to its participants.
// Result stays nil while the round is open, so hidden votes can never leak
// through a state broadcast.
type RoomState struct {
	RoomID       string             `json:"roomId"`
	SprintID     string             `json:"sprintId,omitempty"`
	ItemKey      string             `json:"itemKey,omitempty"`
	ItemType     string             `json:"itemType,omitempty"`
	RoundNumber  int                `json:"roundNumber"`
	Revealed     bool               `json:"revealed"`
	VoteCount    int                `json:"voteCount"`
	Participants []ParticipantState `json:"participants"`
	Result       *VoteResult        `json:"result,omitempty"`
}
