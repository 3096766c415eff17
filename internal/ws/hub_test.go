package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOnlyOwnerConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	owner := &Client{UserID: 1, Send: make(chan []byte, 4)}
	other := &Client{UserID: 2, Send: make(chan []byte, 4)}
	hub.Register <- owner
	hub.Register <- other

	hub.Publish("task.created", 1, map[string]interface{}{"id": 7, "title": "secret"})

	select {
	case msg := <-owner.Send:
		var ev map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "task.created", ev["event"])
	case <-time.After(time.Second):
		t.Fatal("owner connection never received the event")
	}

	// Delivery for one event is a single pass over the client set, so once
	// the owner has its copy the other user's queue is in its final state.
	select {
	case msg := <-other.Send:
		t.Fatalf("event delivered to another user's connection: %s", msg)
	default:
	}
}

func TestStalledConnectionIsEvictedNotBlocking(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stalled := &Client{UserID: 1, Send: make(chan []byte, 1)}
	hub.Register <- stalled

	// Second event overflows the unread buffer; Publish must return and
	// the hub must drop the client instead of waiting on it.
	hub.Publish("task.updated", 1, map[string]interface{}{"id": 1})
	hub.Publish("task.updated", 1, map[string]interface{}{"id": 2})

	<-stalled.Send
	select {
	case _, ok := <-stalled.Send:
		assert.False(t, ok, "expected the stalled client's queue to be closed")
	case <-time.After(time.Second):
		t.Fatal("hub kept a stalled connection registered")
	}
}

func TestUnregisterClosesQueue(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{UserID: 3, Send: make(chan []byte, 1)}
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("unregister did not close the client queue")
	}

	// Events for the user after unregister must not panic the loop
	hub.Publish("task.deleted", 3, map[string]interface{}{"id": 1})
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var hub *Hub
	hub.Publish("task.created", 1, map[string]interface{}{"id": 1})
}
