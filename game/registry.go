package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"sprint-poker/models"
)

// Notifier delivers an outbound message to every connection in a room. The
// websocket hub implements it; the registry uses it to announce grace-period
// removals discovered during a sweep.
type Notifier interface {
	Publish(roomID string, msg models.WSMessage)
}

// Registry is the process-wide room directory. Rooms are created lazily on
// first lookup and evicted by a background sweep once empty past the idle
// timeout. The registry map is the only structure shared across rooms.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	grace      time.Duration
	idle       time.Duration
	sweepEvery time.Duration
	notifier   Notifier
	log        *zap.Logger
}

func NewRegistry(grace, idle, sweepEvery time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		grace:      grace,
		idle:       idle,
		sweepEvery: sweepEvery,
		log:        log,
	}
}

// SetNotifier wires the broadcast path used for sweep-driven removals. Must
// be called before Run.
func (g *Registry) SetNotifier(n Notifier) { g.notifier = n }

// Room returns the room for an ID, creating it if needed. Atomic under
// concurrent first-joins: two racing joins for a new ID observe the same
// instance.
func (g *Registry) Room(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	if !ok {
		room = NewRoom(id)
		g.rooms[id] = room
		g.log.Info("room created", zap.String("room_id", id))
	}
	return room
}

// Lookup returns an existing room without creating one.
func (g *Registry) Lookup(id string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	return room, ok
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// Run drives the periodic cleanup sweep until the context is cancelled.
func (g *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(g.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.log.Debug("registry sweep stopped")
			return
		case now := <-ticker.C:
			g.Sweep(now)
		}
	}
}

// Sweep removes grace-expired participants from every room, announces those
// removals, and evicts rooms that have been empty past the idle timeout.
// Eviction of a room with an unrevealed round discards its votes; nobody is
// left to see the result.
func (g *Registry) Sweep(now time.Time) {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	g.mu.Unlock()

	evict := make([]string, 0)
	for _, room := range rooms {
		expired, state, evictable := room.SweepExpired(now, g.grace, g.idle)
		for _, part := range expired {
			g.log.Info("participant expired",
				zap.String("room_id", room.ID),
				zap.String("user_id", part.UserID),
			)
			if g.notifier != nil {
				g.notifier.Publish(room.ID, models.WSMessage{
					Event: models.EventParticipantLeft,
					Data:  state,
				})
			}
		}
		if evictable {
			evict = append(evict, room.ID)
		}
	}

	if len(evict) == 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range evict {
		delete(g.rooms, id)
		g.log.Info("room evicted", zap.String("room_id", id))
	}
}
