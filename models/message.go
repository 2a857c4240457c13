package models

import "encoding/json"

// WSMessage is the envelope for every websocket frame, inbound and outbound.
type WSMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Inbound event names.
const (
	EventJoin          = "join"
	EventVote          = "vote"
	EventReveal        = "reveal"
	EventReset         = "reset"
	EventStartItem     = "start_item"
	EventApplyEstimate = "apply_estimate"
	EventLeave         = "leave"
)

// Outbound event names.
const (
	EventWelcome          = "welcome"
	EventRoomState        = "room_state"
	EventParticipantJoin  = "participant_joined"
	EventParticipantLeft  = "participant_left"
	EventVoteCountChanged = "vote_count_changed"
	EventCardsRevealed    = "cards_revealed"
	EventRoundReset       = "round_reset"
	EventItemStarted      = "item_started"
	EventEstimateApplied  = "estimate_applied"
	EventError            = "error"
)

// InboundEvent is the raw inbound frame; Data is decoded per event kind.
type InboundEvent struct {
	Event string          `json:"event" validate:"required"`
	Data  json.RawMessage `json:"data"`
}

type JoinPayload struct {
	RoomID      string `json:"roomId" validate:"required,max=128"`
	SprintID    string `json:"sprintId" validate:"omitempty,max=64"`
	UserID      string `json:"userId" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,max=64"`
	Role        Role   `json:"role" validate:"omitempty,oneof=facilitator voter"`
	InviteToken string `json:"inviteToken"`
}

type VotePayload struct {
	RoomID string `json:"roomId" validate:"required"`
	Value  string `json:"value" validate:"required"`
}

// RoomPayload covers reveal, reset and leave.
type RoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

type StartItemPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	ItemKey  string `json:"itemKey" validate:"required,max=64"`
	ItemType string `json:"itemType" validate:"omitempty,max=32"`
}

type ApplyEstimatePayload struct {
	RoomID string `json:"roomId" validate:"required"`
	Value  string `json:"value" validate:"required"`
}

// ErrorPayload is sent only to the connection that caused the failure.
type ErrorPayload struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}
