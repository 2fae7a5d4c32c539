package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterPushUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}
	hub.register <- client

	hub.Push("u1", 3)

	select {
	case got := <-client.Send:
		var payload badgePayload
		if err := json.Unmarshal(got, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload.Unseen != 3 {
			t.Fatalf("expected unseen=3, got %d", payload.Unseen)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for badge push")
	}

	hub.unregister <- client
}

func TestHubPushReachesEveryConnectionOfTheUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	phone := &Client{Send: make(chan []byte, 10), UserID: "u1"}
	laptop := &Client{Send: make(chan []byte, 10), UserID: "u1"}
	other := &Client{Send: make(chan []byte, 10), UserID: "u2"}
	hub.register <- phone
	hub.register <- laptop
	hub.register <- other

	hub.Push("u1", 1)

	for _, c := range []*Client{phone, laptop} {
		select {
		case <-c.Send:
		case <-time.After(1 * time.Second):
			t.Fatal("timeout waiting for badge push")
		}
	}

	select {
	case <-other.Send:
		t.Fatal("badge leaked to another user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopClosesClientChannels(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 10), UserID: "u1"}
	hub.register <- client

	hub.Stop()

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected Send to be closed, got a message")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for Send to close after Stop")
	}
}
