package game

import "fmt"

var (
	ErrUnauthorized       = fmt.Errorf("facilitator role required")
	ErrRoundClosed        = fmt.Errorf("round already revealed")
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrNotRevealed        = fmt.Errorf("round not revealed yet")
	ErrUnknownParticipant = fmt.Errorf("participant not in room")
	ErrInvalidCard        = fmt.Errorf("card value not in deck")
	ErrUpstreamSync       = fmt.Errorf("upstream sync failed")
)
