package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHub_SendReachesOnlyTargetUser(t *testing.T) {
	hub := startHub(t)
	alice, bob := uuid.New(), uuid.New()

	aliceClient := &Client{Hub: hub, UserID: alice, Send: make(chan []byte, 4)}
	bobClient := &Client{Hub: hub, UserID: bob, Send: make(chan []byte, 4)}
	hub.register <- aliceClient
	hub.register <- bobClient

	require.Eventually(t, func() bool {
		return hub.ConnectedCount(alice) == 1 && hub.ConnectedCount(bob) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Send(alice, "recent_saved", map[string]string{"tool": "grammar"})

	select {
	case raw := <-aliceClient.Send:
		var got struct {
			Type string            `json:"type"`
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "recent_saved", got.Type)
		assert.Equal(t, "grammar", got.Data["tool"])
	case <-time.After(time.Second):
		t.Fatal("alice did not receive the event")
	}

	assert.Empty(t, bobClient.Send)
}

func TestHub_UnregisterClosesSendOnce(t *testing.T) {
	hub := startHub(t)
	user := uuid.New()
	client := &Client{Hub: hub, UserID: user, Send: make(chan []byte, 1)}

	hub.register <- client
	hub.unregister <- client
	hub.unregister <- client

	require.Eventually(t, func() bool { return hub.ConnectedCount(user) == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}
