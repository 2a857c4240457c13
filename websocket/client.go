package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sprint-poker/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one websocket connection. ConnID is unique per socket; the stable
// user identity (UserID) is only known after a successful join.
type Client struct {
	ConnID string
	UserID string
	RoomID string
	Name   string
	Role   models.Role

	conn   *websocket.Conn
	Send   chan models.WSMessage
	joined bool
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ConnID: uuid.NewString(),
		conn:   conn,
		Send:   make(chan models.WSMessage, 256),
	}
}

// ServeWs upgrades an HTTP request and starts the connection's pumps.
func ServeWs(gw *Gateway, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		gw.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn)
	gw.hub.Register(client)

	go client.writePump()
	go client.readPump(gw)

	// Through the hub loop, so a connection that died during setup has
	// already been dropped and the send is skipped rather than panicking on
	// a closed channel.
	gw.hub.Direct(client, models.WSMessage{Event: models.EventWelcome, Data: map[string]string{"connectionId": client.ConnID}})
}

// readPump feeds inbound frames to the gateway. A read error of any kind is
// the disconnect signal: it is handed to the gateway like any other event so
// it serializes with votes and reveals.
func (c *Client) readPump(gw *Gateway) {
	defer func() {
		gw.Disconnected(c)
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				gw.log.Debug("read error", zap.String("connection_id", c.ConnID), zap.Error(err))
			}
			return
		}
		gw.Dispatch(c, raw)
	}
}

// writePump drains the send channel into the socket until the hub closes it.
func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.Send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
