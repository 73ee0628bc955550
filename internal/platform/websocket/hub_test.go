package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func newTestClient(topics ...string) *Client {
	return &Client{
		ID:     "test-client",
		Topics: topics,
		Send:   make(chan []byte, 8),
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.Send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	client := newTestClient("sess-1")
	hub.Register(client)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}
	if got := hub.TopicCount("sess-1"); got != 1 {
		t.Fatalf("TopicCount = %d, want 1", got)
	}

	hub.Broadcast("sess-1", Event{
		Type:      EventActionTriggered,
		Topic:     "sess-1",
		SessionID: "sess-1",
		Timestamp: time.Now(),
	})

	ev := receive(t, client)
	if ev.Type != EventActionTriggered {
		t.Errorf("event type = %q", ev.Type)
	}
	if ev.SessionID != "sess-1" {
		t.Errorf("session id = %q", ev.SessionID)
	}
}

func TestBroadcast_TopicIsolation(t *testing.T) {
	hub := NewHub()
	a := newTestClient("sess-a")
	b := newTestClient("sess-b")
	hub.Register(a)
	hub.Register(b)

	hub.Broadcast("sess-a", Event{Type: EventQuestionAdvanced, Topic: "sess-a"})

	receive(t, a)
	select {
	case <-b.Send:
		t.Error("client on sess-b received sess-a event")
	default:
	}
}

func TestUnregister_ClosesSendAndCleansTopics(t *testing.T) {
	hub := NewHub()
	client := newTestClient("sess-1")
	hub.Register(client)
	hub.Unregister(client)

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount = %d, want 0", got)
	}
	if got := hub.TopicCount("sess-1"); got != 0 {
		t.Errorf("TopicCount = %d, want 0", got)
	}
	if _, open := <-client.Send; open {
		t.Error("Send channel not closed")
	}

	// Double unregister is a no-op.
	hub.Unregister(client)
}

func TestSubscribeUnsubscribeViaMessage(t *testing.T) {
	hub := NewHub()
	client := newTestClient()
	hub.Register(client)

	hub.ProcessMessage(client, ClientMessage{Action: "subscribe", Topics: []string{"sess-9"}})
	if got := hub.TopicCount("sess-9"); got != 1 {
		t.Fatalf("after subscribe TopicCount = %d, want 1", got)
	}

	hub.ProcessMessage(client, ClientMessage{Action: "unsubscribe", Topics: []string{"sess-9"}})
	if got := hub.TopicCount("sess-9"); got != 0 {
		t.Errorf("after unsubscribe TopicCount = %d, want 0", got)
	}
	if len(client.Topics) != 0 {
		t.Errorf("client topics = %v, want empty", client.Topics)
	}
}

func TestBroadcast_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	client := &Client{ID: "slow", Topics: []string{"s"}, Send: make(chan []byte)}
	hub.Register(client)

	done := make(chan struct{})
	go func() {
		hub.Broadcast("s", Event{Type: EventEmergencyActivated, Topic: "s"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on full client buffer")
	}
}

func TestPublish(t *testing.T) {
	hub := NewHub()
	client := newTestClient("sess-x")
	hub.Register(client)

	err := hub.Publish(context.Background(), Event{
		Type:  EventInterventionUpdated,
		Topic: "sess-x",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	ev := receive(t, client)
	if ev.Type != EventInterventionUpdated {
		t.Errorf("event type = %q", ev.Type)
	}
}

func TestBroadcastAll(t *testing.T) {
	hub := NewHub()
	a := newTestClient("sess-a")
	b := newTestClient("sess-b")
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastAll(Event{Type: EventSessionCompleted})
	receive(t, a)
	receive(t, b)
}

func TestConcurrentRegisterBroadcast(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := newTestClient("shared")
			hub.Register(c)
			hub.Unregister(c)
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast("shared", Event{Type: EventQuestionAdvanced, Topic: "shared"})
		}()
	}
	wg.Wait()
}
