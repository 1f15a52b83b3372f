package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvFrame(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case frame := <-ch:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{Hub: hub, Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- a
	hub.Register <- b

	hub.BroadcastEvent(Event{Type: "newMessage", Message: &Message{ID: "m1", Sender: "olive", Text: "hi"}})

	for _, c := range []*Client{a, b} {
		var event Event
		require.NoError(t, json.Unmarshal(recvFrame(t, c.Send), &event))
		assert.Equal(t, "newMessage", event.Type)
		require.NotNil(t, event.Message)
		assert.Equal(t, "m1", event.Message.ID)
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- c
	hub.Unregister <- c

	select {
	case _, open := <-c.Send:
		assert.False(t, open, "send channel must be closed after unregister")
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Zero-capacity channel with no reader: the first fan-out cannot queue.
	slow := &Client{Hub: hub, Send: make(chan []byte)}
	healthy := &Client{Hub: hub, Send: make(chan []byte, 4)}
	hub.Register <- slow
	hub.Register <- healthy

	hub.BroadcastEvent(Event{Type: "newMessage", Message: &Message{ID: "m1"}})
	recvFrame(t, healthy.Send)

	// The slow client's channel is closed once the hub gives up on it.
	select {
	case _, open := <-slow.Send:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("slow client was not dropped")
	}
}

func TestEvent_WireShape(t *testing.T) {
	payload, err := json.Marshal(Event{Type: "initMessages", Messages: []Message{{ID: "m1", Sender: "max", Text: "hi", Timestamp: "2026-01-02T15:04:05Z"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"initMessages","messages":[{"id":"m1","sender":"max","text":"hi","timestamp":"2026-01-02T15:04:05Z"}]}`, string(payload))
}
