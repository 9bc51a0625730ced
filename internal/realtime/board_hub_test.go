package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func subscribeServer(t *testing.T, hub *BoardHub, projectID int64) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := hub.Subscribe(w, r, projectID); err != nil {
			t.Errorf("subscribe: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcast_ConcurrentCallers(t *testing.T) {
	hub := NewBoardHub()
	conn := subscribeServer(t, hub, 1)

	const (
		goroutines = 8
		perCaller  = 25
	)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perCaller; i++ {
				hub.Broadcast(Event{Kind: "task.updated", ProjectID: 1})
			}
		}()
	}
	wg.Wait()

	// every event fits in the client backlog, so all must arrive intact
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for n := 0; n < goroutines*perCaller; n++ {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event %d: %v", n, err)
		}
		if ev.Kind != "task.updated" || ev.ProjectID != 1 {
			t.Fatalf("unexpected event %+v", ev)
		}
	}
}

func TestBroadcast_OtherBoardNotDelivered(t *testing.T) {
	hub := NewBoardHub()
	conn := subscribeServer(t, hub, 1)

	hub.Broadcast(Event{Kind: "task.created", ProjectID: 2})
	hub.Broadcast(Event{Kind: "task.created", ProjectID: 1})

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.ProjectID != 1 {
		t.Fatalf("got event for board %d, want 1", ev.ProjectID)
	}
}

func TestUnregister_ClosedClientSkipped(t *testing.T) {
	hub := NewBoardHub()
	conn := subscribeServer(t, hub, 1)
	conn.Close()

	// give the read loop a moment to notice the closed peer
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		n := len(hub.boards[1])
		hub.mu.RUnlock()
		if n == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	// must not panic on a board with no remaining subscribers
	hub.Broadcast(Event{Kind: "task.deleted", ProjectID: 1})
}
