package websocket

import (
	"context"

	"go.uber.org/zap"

	"sprint-poker/models"
)

type roomMessage struct {
	roomID string
	msg    models.WSMessage
}

type directMessage struct {
	client *Client
	msg    models.WSMessage
}

// Hub fans outbound messages out to the connections of a room. All membership
// changes and sends funnel through one loop, so a broadcast can never race a
// connection teardown.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register    chan *Client
	subscribe   chan *Client
	unsubscribe chan *Client
	unregister  chan *Client
	broadcast   chan roomMessage
	direct      chan directMessage

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		subscribe:   make(chan *Client),
		unsubscribe: make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan roomMessage, 256),
		direct:      make(chan directMessage, 256),
		log:         log,
	}
}

// Register adds a freshly upgraded connection, before it has joined any room.
func (h *Hub) Register(c *Client) { h.register <- c }

// Subscribe adds a joined connection to its room's fan-out set. The client's
// RoomID must be set first.
func (h *Hub) Subscribe(c *Client) { h.subscribe <- c }

// Unsubscribe removes a connection from its room's fan-out set while keeping
// it registered, so the socket can join again later. Used for an explicit
// leave; transport-level disconnects go through Unregister.
func (h *Hub) Unsubscribe(c *Client) { h.unsubscribe <- c }

// Unregister drops a connection from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Publish broadcasts to every connection currently subscribed to a room.
func (h *Hub) Publish(roomID string, msg models.WSMessage) {
	h.broadcast <- roomMessage{roomID: roomID, msg: msg}
}

// Direct sends to a single connection, typically a rejection notice that must
// not be broadcast.
func (h *Hub) Direct(c *Client, msg models.WSMessage) {
	h.direct <- directMessage{client: c, msg: msg}
}

// Run starts the hub's main loop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("hub stopped")
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.subscribe:
			if !h.clients[client] || client.RoomID == "" {
				continue
			}
			if _, ok := h.rooms[client.RoomID]; !ok {
				h.rooms[client.RoomID] = make(map[*Client]bool)
			}
			h.rooms[client.RoomID][client] = true
		case client := <-h.unsubscribe:
			h.leaveRoom(client)
		case client := <-h.unregister:
			h.drop(client)
		case rm := <-h.broadcast:
			for client := range h.rooms[rm.roomID] {
				h.send(client, rm.msg)
			}
		case dm := <-h.direct:
			if h.clients[dm.client] {
				h.send(dm.client, dm.msg)
			}
		}
	}
}

// send delivers without blocking the loop; a client that cannot keep up is
// dropped, and its read pump will surface the close as a disconnect.
func (h *Hub) send(c *Client, msg models.WSMessage) {
	select {
	case c.Send <- msg:
	default:
		h.log.Warn("client send buffer full, dropping connection",
			zap.String("connection_id", c.ConnID),
			zap.String("room_id", c.RoomID),
		)
		h.drop(c)
	}
}

func (h *Hub) leaveRoom(c *Client) {
	if members, ok := h.rooms[c.RoomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, c.RoomID)
		}
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.leaveRoom(c)
	close(c.Send)
}
