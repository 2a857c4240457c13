package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sprint-poker/models"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func newHubClient(roomID string) *Client {
	return &Client{ConnID: uuid.NewString(), RoomID: roomID, Send: make(chan models.WSMessage, 256)}
}

func TestHub_UnsubscribeSkipsBroadcastsButKeepsDirect(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t)

	c := newHubClient("room-1")
	hub.Register(c)
	hub.Subscribe(c)
	hub.Unsubscribe(c)

	hub.Publish("room-1", models.WSMessage{Event: models.EventVoteCountChanged})
	hub.Direct(c, models.WSMessage{Event: models.EventWelcome})

	// Membership was removed before either send was queued, so the
	// broadcast never reaches c and the welcome is the only frame.
	msg, ok := <-c.Send
	req.True(ok)
	req.Equal(models.EventWelcome, msg.Event)

	select {
	case extra := <-c.Send:
		t.Fatalf("unexpected frame %q", extra.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_ResubscribeRestoresBroadcasts(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t)

	c := newHubClient("room-1")
	hub.Register(c)
	hub.Subscribe(c)
	hub.Unsubscribe(c)
	hub.Subscribe(c)

	hub.Publish("room-1", models.WSMessage{Event: models.EventRoundReset})

	msg, ok := <-c.Send
	req.True(ok)
	req.Equal(models.EventRoundReset, msg.Event)
}

func TestHub_DirectAfterDropDoesNotPanic(t *testing.T) {
	req := require.New(t)
	hub := newTestHub(t)

	c := newHubClient("room-1")
	hub.Register(c)
	hub.Subscribe(c)
	hub.Unregister(c)

	hub.Direct(c, models.WSMessage{Event: models.EventWelcome})

	// A synchronous membership op proves the loop survived the direct send
	// to the dropped connection.
	other := newHubClient("room-1")
	hub.Register(other)

	_, ok := <-c.Send
	req.False(ok)
}
