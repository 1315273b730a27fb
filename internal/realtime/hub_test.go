package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, hub.ClientCount())
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()

	first := &Client{ConnID: "conn-1", send: make(chan []byte, 4)}
	second := &Client{ConnID: "conn-2", send: make(chan []byte, 4)}
	hub.RegisterClient(first)
	hub.RegisterClient(second)
	waitForClientCount(t, hub, 2)

	hub.Broadcast([]byte(`{"eventType":"UPDATE"}`))

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			assert.JSONEq(t, `{"eventType":"UPDATE"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatalf("client %s did not receive the broadcast", client.ConnID)
		}
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()

	client := &Client{ConnID: "conn-1", send: make(chan []byte, 4)}
	hub.RegisterClient(client)
	waitForClientCount(t, hub, 1)

	hub.UnregisterClient(client.ConnID)
	waitForClientCount(t, hub, 0)

	select {
	case _, open := <-client.send:
		assert.False(t, open, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHubDropsMessagesForSlowClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{ConnID: "conn-slow", send: make(chan []byte, 1)}
	hub.RegisterClient(slow)
	waitForClientCount(t, hub, 1)

	// First message fills the buffer, the second is dropped, not blocked on.
	hub.Broadcast([]byte(`{"n":1}`))
	hub.Broadcast([]byte(`{"n":2}`))

	done := make(chan struct{})
	go func() {
		hub.Broadcast([]byte(`{"n":3}`))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}

	assert.Equal(t, 1, hub.ClientCount())
}
