package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBroadcastToUserDropsStalledClient(t *testing.T) {
	h := NewHub()
	fast := &Client{hub: h, send: make(chan []byte, 1), principalID: 7}
	stalled := &Client{hub: h, send: make(chan []byte), principalID: 7}
	other := &Client{hub: h, send: make(chan []byte), principalID: 8}
	h.clients[fast] = true
	h.clients[stalled] = true
	h.clients[other] = true

	h.BroadcastToUser(7, Message{Type: "notification"})

	if got := h.GetClientCount(); got != 2 {
		t.Fatalf("GetClientCount() = %d, want 2", got)
	}
	select {
	case <-fast.send:
	default:
		t.Fatal("client with buffer space did not receive the message")
	}
	if _, ok := <-stalled.send; ok {
		t.Fatal("stalled client's send channel was not closed")
	}
	if _, registered := h.clients[stalled]; registered {
		t.Fatal("stalled client was not removed")
	}
	select {
	case <-other.send:
		t.Fatal("message delivered to a different principal")
	default:
	}
}

func TestRunBroadcastDropsStalledClient(t *testing.T) {
	h := NewHub()
	go h.Run()

	fast := &Client{hub: h, send: make(chan []byte, 1), principalID: 1}
	stalled := &Client{hub: h, send: make(chan []byte), principalID: 2}
	h.register <- fast
	h.register <- stalled

	data, err := json.Marshal(Message{Type: "change", Data: ChangeEvent{Table: "agents", Event: "UPDATE", ID: 3}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	h.broadcast <- data

	deadline := time.Now().Add(2 * time.Second)
	for h.GetClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("GetClientCount() = %d, want 1", h.GetClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
	select {
	case <-fast.send:
	case <-time.After(time.Second):
		t.Fatal("client with buffer space did not receive the broadcast")
	}
}
