package server

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe(1)
	other := b.Subscribe(2)
	defer b.Unsubscribe(1, ch)
	defer b.Unsubscribe(2, other)

	b.Publish(1, RoomEvent{Type: "task_claimed", UserID: 7, AssignmentID: 3})

	select {
	case data := <-ch:
		var ev RoomEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if ev.Type != "task_claimed" || ev.UserID != 7 || ev.AssignmentID != 3 {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	// Events do not leak across rooms.
	select {
	case data := <-other:
		t.Fatalf("room 2 received room 1's event: %s", data)
	default:
	}
}

func TestBrokerSlowSubscriber(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(1)
	defer b.Unsubscribe(1, ch)

	// Overflow the buffer; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(1, RoomEvent{Type: "message"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(1)
	b.Unsubscribe(1, ch)

	b.Publish(1, RoomEvent{Type: "message"})
	select {
	case data := <-ch:
		t.Fatalf("unsubscribed channel received: %s", data)
	default:
	}
}
