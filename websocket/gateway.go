package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"sprint-poker/game"
	"sprint-poker/models"
)

var validate = validator.New()

const upstreamTimeout = 10 * time.Second

// RoundStore is the persistence collaborator. Round history is append-only.
type RoundStore interface {
	AppendVotingRound(ctx context.Context, sprintID, itemKey string, round models.VotingRound) error
	SetTicketEstimate(ctx context.Context, sprintID, itemKey, value string, roundNumber int) error
}

// EstimateUpdater is the issue-tracker collaborator, invoked only on an
// explicit facilitator apply action.
type EstimateUpdater interface {
	UpdateItemEstimate(ctx context.Context, itemKey, value, itemType string) error
}

// InviteValidator is the session collaborator consulted before admitting a
// guest join.
type InviteValidator interface {
	Validate(roomID, token string) (models.Role, error)
}

// Gateway translates inbound connection events into room calls and room state
// changes into broadcasts. Validation and authorization failures are answered
// to the offending connection only and never abort the room.
type Gateway struct {
	rooms   *game.Registry
	hub     *Hub
	store   RoundStore
	tracker EstimateUpdater
	invites InviteValidator
	log     *zap.Logger
}

func NewGateway(rooms *game.Registry, hub *Hub, store RoundStore, tracker EstimateUpdater, invites InviteValidator, log *zap.Logger) *Gateway {
	return &Gateway{
		rooms:   rooms,
		hub:     hub,
		store:   store,
		tracker: tracker,
		invites: invites,
		log:     log,
	}
}

// Dispatch routes one inbound frame. Events on a room are applied in the
// order connections deliver them here; per-room ordering is then guaranteed
// by the room's own lock.
func (g *Gateway) Dispatch(c *Client, raw []byte) {
	var evt models.InboundEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		g.reject(c, "", "malformed event payload")
		return
	}

	switch evt.Event {
	case models.EventJoin:
		g.handleJoin(c, evt.Data)
	case models.EventVote:
		g.handleVote(c, evt.Data)
	case models.EventReveal:
		g.handleReveal(c, evt.Data)
	case models.EventReset:
		g.handleReset(c, evt.Data)
	case models.EventStartItem:
		g.handleStartItem(c, evt.Data)
	case models.EventApplyEstimate:
		g.handleApplyEstimate(c, evt.Data)
	case models.EventLeave:
		g.handleLeave(c, evt.Data)
	default:
		g.reject(c, evt.Event, "unknown event")
	}
}

func (g *Gateway) handleJoin(c *Client, data json.RawMessage) {
	var p models.JoinPayload
	if !g.decode(c, models.EventJoin, data, &p) {
		return
	}
	if c.joined && c.RoomID != p.RoomID {
		g.reject(c, models.EventJoin, "connection already joined to another room")
		return
	}

	role := p.Role
	if p.InviteToken != "" {
		grantedRole, err := g.invites.Validate(p.RoomID, p.InviteToken)
		if err != nil {
			g.reject(c, models.EventJoin, "invalid invite token")
			return
		}
		role = grantedRole
	}
	if role == "" {
		role = models.RoleVoter
	}

	room := g.rooms.Room(p.RoomID)
	state, rejoined := room.Join(game.JoinRequest{
		UserID:       p.UserID,
		ConnectionID: c.ConnID,
		Name:         p.Name,
		Role:         role,
		SprintID:     p.SprintID,
	})

	c.UserID = p.UserID
	c.RoomID = p.RoomID
	c.Name = p.Name
	c.Role = role
	c.joined = true
	g.hub.Subscribe(c)

	g.log.Info("participant joined",
		zap.String("room_id", p.RoomID),
		zap.String("user_id", p.UserID),
		zap.Bool("rejoined", rejoined),
	)

	g.hub.Direct(c, models.WSMessage{Event: models.EventRoomState, Data: state})
	g.hub.Publish(p.RoomID, models.WSMessage{Event: models.EventParticipantJoin, Data: state})
}

func (g *Gateway) handleVote(c *Client, data json.RawMessage) {
	var p models.VotePayload
	if !g.decode(c, models.EventVote, data, &p) {
		return
	}
	if !models.ValidCard(p.Value) {
		g.reject(c, models.EventVote, game.ErrInvalidCard.Error())
		return
	}
	room, ok := g.roomFor(c, models.EventVote, p.RoomID)
	if !ok {
		return
	}

	state, err := room.SubmitVote(c.UserID, p.Value)
	if err != nil {
		g.reject(c, models.EventVote, err.Error())
		return
	}
	// Counts only; card values stay hidden until reveal.
	g.hub.Publish(c.RoomID, models.WSMessage{Event: models.EventVoteCountChanged, Data: state})
}

func (g *Gateway) handleReveal(c *Client, data json.RawMessage) {
	var p models.RoomPayload
	if !g.decode(c, models.EventReveal, data, &p) {
		return
	}
	room, ok := g.roomFor(c, models.EventReveal, p.RoomID)
	if !ok {
		return
	}

	result, state, fresh, err := room.Reveal(c.UserID)
	if err != nil {
		g.reject(c, models.EventReveal, err.Error())
		return
	}
	if !fresh {
		// Repeat reveal: answer with the frozen result, no rebroadcast or
		// re-persist.
		g.hub.Direct(c, models.WSMessage{Event: models.EventCardsRevealed, Data: state})
		return
	}

	g.hub.Publish(c.RoomID, models.WSMessage{Event: models.EventCardsRevealed, Data: state})

	record := models.VotingRound{
		RoundNumber: state.RoundNumber,
		Votes:       result.Votes,
		Average:     result.Average,
		Agreement:   result.Agreement,
		RevealedAt:  time.Now(),
	}
	go g.persistReveal(c, state, record)
}

// persistReveal appends the frozen round to the ticket's history. A failure
// is reported to the facilitator alone and never rolls back the reveal the
// room has already seen.
func (g *Gateway) persistReveal(c *Client, state models.RoomState, record models.VotingRound) {
	if g.store == nil || state.SprintID == "" || state.ItemKey == "" {
		g.log.Debug("reveal not persisted, no sprint context", zap.String("room_id", state.RoomID))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), upstreamTimeout)
	defer cancel()
	if err := g.store.AppendVotingRound(ctx, state.SprintID, state.ItemKey, record); err != nil {
		g.log.Error("voting round persist failed",
			zap.String("room_id", state.RoomID),
			zap.String("item_key", state.ItemKey),
			zap.Error(err),
		)
		g.reject(c, models.EventReveal, fmt.Errorf("%w: history not saved, retry reveal later", game.ErrUpstreamSync).Error())
	}
}

func (g *Gateway) handleReset(c *Client, data json.RawMessage) {
	var p models.RoomPayload
	if !g.decode(c, models.EventReset, data, &p) {
		return
	}
	room, ok := g.roomFor(c, models.EventReset, p.RoomID)
	if !ok {
		return
	}

	state, err := room.Reset(c.UserID)
	if err != nil {
		g.reject(c, models.EventReset, err.Error())
		return
	}
	g.hub.Publish(c.RoomID, models.WSMessage{Event: models.EventRoundReset, Data: state})
}

func (g *Gateway) handleStartItem(c *Client, data json.RawMessage) {
	var p models.StartItemPayload
	if !g.decode(c, models.EventStartItem, data, &p) {
		return
	}
	room, ok := g.roomFor(c, models.EventStartItem, p.RoomID)
	if !ok {
		return
	}

	state, err := room.StartItem(c.UserID, p.ItemKey, p.ItemType)
	if err != nil {
		g.reject(c, models.EventStartItem, err.Error())
		return
	}
	g.hub.Publish(c.RoomID, models.WSMessage{Event: models.EventItemStarted, Data: state})
}

// handleApplyEstimate writes the agreed value upstream. Independent from the
// reveal broadcast: history persistence has already happened, and a sync
// failure here stays retryable.
func (g *Gateway) handleApplyEstimate(c *Client, data json.RawMessage) {
	var p models.ApplyEstimatePayload
	if !g.decode(c, models.EventApplyEstimate, data, &p) {
		return
	}
	if !models.ValidCard(p.Value) {
		g.reject(c, models.EventApplyEstimate, game.ErrInvalidCard.Error())
		return
	}
	room, ok := g.roomFor(c, models.EventApplyEstimate, p.RoomID)
	if !ok {
		return
	}

	record, state, err := room.RevealedRecord(c.UserID)
	if err != nil {
		g.reject(c, models.EventApplyEstimate, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), upstreamTimeout)
	defer cancel()

	if g.tracker != nil {
		// The item type comes from the round as set by start_item, never
		// from the apply payload.
		if err := g.tracker.UpdateItemEstimate(ctx, state.ItemKey, p.Value, state.ItemType); err != nil {
			g.log.Error("tracker update failed",
				zap.String("item_key", state.ItemKey),
				zap.Error(err),
			)
			g.reject(c, models.EventApplyEstimate, fmt.Errorf("%w: tracker not updated", game.ErrUpstreamSync).Error())
			return
		}
	}
	if g.store != nil && state.SprintID != "" && state.ItemKey != "" {
		if err := g.store.SetTicketEstimate(ctx, state.SprintID, state.ItemKey, p.Value, record.RoundNumber); err != nil {
			g.log.Error("ticket estimate persist failed",
				zap.String("item_key", state.ItemKey),
				zap.Error(err),
			)
			g.reject(c, models.EventApplyEstimate, fmt.Errorf("%w: estimate not saved", game.ErrUpstreamSync).Error())
			return
		}
	}

	g.hub.Publish(c.RoomID, models.WSMessage{
		Event: models.EventEstimateApplied,
		Data: map[string]string{
			"itemKey": state.ItemKey,
			"value":   p.Value,
		},
	})
}

func (g *Gateway) handleLeave(c *Client, data json.RawMessage) {
	var p models.RoomPayload
	if !g.decode(c, models.EventLeave, data, &p) {
		return
	}
	room, ok := g.roomFor(c, models.EventLeave, p.RoomID)
	if !ok {
		return
	}

	// Room-only removal: the socket stays registered with its send channel
	// open so it can join again later.
	g.hub.Unsubscribe(c)
	state, left := room.Leave(c.UserID)
	if left {
		g.hub.Publish(c.RoomID, models.WSMessage{Event: models.EventParticipantLeft, Data: state})
	}
	c.joined = false
	c.RoomID = ""
}

// Disconnected handles a transport-level close. It runs through the same
// room serialization as every other event, so a disconnect cannot overtake a
// reveal already in flight.
func (g *Gateway) Disconnected(c *Client) {
	if c.joined {
		if room, ok := g.rooms.Lookup(c.RoomID); ok {
			state, part := room.Disconnect(c.ConnID)
			if part != nil {
				g.hub.Publish(c.RoomID, models.WSMessage{Event: models.EventParticipantLeft, Data: state})
			}
		}
	}
	g.hub.Unregister(c)
}

// decode unmarshals and validates a payload, answering the origin connection
// on failure.
func (g *Gateway) decode(c *Client, event string, data json.RawMessage, payload any) bool {
	if err := json.Unmarshal(data, payload); err != nil {
		g.reject(c, event, "malformed event payload")
		return false
	}
	if err := validate.Struct(payload); err != nil {
		g.reject(c, event, "invalid event payload")
		return false
	}
	return true
}

// roomFor resolves the room for a post-join event. The payload's room ID must
// match the room this connection joined.
func (g *Gateway) roomFor(c *Client, event, roomID string) (*game.Room, bool) {
	if !c.joined || c.RoomID != roomID {
		g.reject(c, event, "not joined to this room")
		return nil, false
	}
	room, ok := g.rooms.Lookup(roomID)
	if !ok {
		g.reject(c, event, game.ErrRoomNotFound.Error())
		return nil, false
	}
	return room, true
}

// reject answers the originating connection only; rejections are never
// broadcast.
func (g *Gateway) reject(c *Client, event, reason string) {
	g.hub.Direct(c, models.WSMessage{
		Event: models.EventError,
		Data:  models.ErrorPayload{Event: event, Reason: reason},
	})
}
