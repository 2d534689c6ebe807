package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHubDeliversBalanceEventLocally(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, 8)}
	hub.Register(conn)

	waitFor(t, func() bool { return hub.ConnectionCount() == 1 })

	hub.NotifyBalanceChanged(context.Background(), userID, 42)

	select {
	case data := <-conn.Send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if event.Type != EventBalanceChanged {
			t.Errorf("expected balance_changed, got %s", event.Type)
		}
		if event.Balance != 42 {
			t.Errorf("expected balance 42, got %d", event.Balance)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHubSkipsOtherUsers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{UserID: uuid.New(), Send: make(chan []byte, 8)}
	hub.Register(conn)

	waitFor(t, func() bool { return hub.ConnectionCount() == 1 })

	hub.NotifyBalanceChanged(context.Background(), uuid.New(), 7)

	select {
	case <-conn.Send:
		t.Fatal("event delivered to the wrong user")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{UserID: uuid.New(), Send: make(chan []byte, 8)}
	hub.Register(conn)
	waitFor(t, func() bool { return hub.ConnectionCount() == 1 })

	hub.Unregister(conn)
	waitFor(t, func() bool { return hub.ConnectionCount() == 0 })

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
