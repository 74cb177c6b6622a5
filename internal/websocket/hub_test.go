package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, 4),
	}
}

func TestHubDeliversToTargetUserOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := uuid.New()
	bob := uuid.New()

	aliceClient := newTestClient(hub, alice)
	bobClient := newTestClient(hub, bob)
	hub.Register <- aliceClient
	hub.Register <- bobClient

	hub.SendDirectMessage(alice, []byte("hello alice"))

	select {
	case payload := <-aliceClient.Send:
		assert.Equal(t, "hello alice", string(payload))
	case <-time.After(2 * time.Second):
		t.Fatal("expected alert for alice")
	}

	select {
	case payload := <-bobClient.Send:
		t.Fatalf("bob should not receive alerts for alice, got %q", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubDeliversToAllConnectionsOfUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	first := newTestClient(hub, userID)
	second := newTestClient(hub, userID)
	hub.Register <- first
	hub.Register <- second

	hub.SendDirectMessage(userID, []byte("ping"))

	for _, client := range []*Client{first, second} {
		select {
		case payload := <-client.Send:
			require.Equal(t, "ping", string(payload))
		case <-time.After(2 * time.Second):
			t.Fatal("expected alert on every open connection")
		}
	}
}

func TestHubDropsAlertsForOfflineUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := uuid.New()
	client := newTestClient(hub, userID)
	hub.Register <- client
	hub.Unregister <- client

	// No connection left; the alert is dropped, not queued.
	hub.SendDirectMessage(userID, []byte("missed"))

	select {
	case payload := <-client.Send:
		t.Fatalf("unregistered client should not receive alerts, got %q", payload)
	case <-time.After(100 * time.Millisecond):
	}
}
