// Package realtime fans task and resource changes out to subscribed
// board clients, one subscription group per project.
package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write so one stalled subscriber
	// cannot block the writer goroutine forever.
	writeWait = 10 * time.Second

	// sendBuffer is the per-client event backlog. A subscriber that
	// falls further behind than this gets dropped events.
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// the portal UI is served from another origin in development
		return true
	},
}

// Event is a change notification pushed to board subscribers.
type Event struct {
	Kind      string      `json:"kind"` // task.created, task.updated, task.deleted, resource.updated
	ProjectID int64       `json:"project_id"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Client is one subscribed websocket connection. All frame writes go
// through the send channel: exactly one goroutine writes to the
// connection, as the websocket package requires.
type Client struct {
	ID   uuid.UUID
	conn *websocket.Conn
	send chan Event
}

// BoardHub tracks subscribers per project id.
type BoardHub struct {
	mu     sync.RWMutex
	boards map[int64]map[*Client]struct{}
}

func NewBoardHub() *BoardHub {
	return &BoardHub{
		boards: make(map[int64]map[*Client]struct{}),
	}
}

// Subscribe upgrades the request and registers the connection on the
// project's board. The read loop only drains control frames; clients
// are write-only consumers served by their own writer goroutine.
func (h *BoardHub) Subscribe(w http.ResponseWriter, r *http.Request, projectID int64) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	client := &Client{ID: uuid.New(), conn: conn, send: make(chan Event, sendBuffer)}

	h.mu.Lock()
	if h.boards[projectID] == nil {
		h.boards[projectID] = make(map[*Client]struct{})
	}
	h.boards[projectID][client] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(projectID, client)
	go h.readLoop(projectID, client)
	return client, nil
}

func (h *BoardHub) writeLoop(projectID int64, client *Client) {
	for event := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteJSON(event); err != nil {
			log.Printf("[ws][write][err] client=%s: %v", client.ID, err)
			h.unregister(projectID, client)
			// drain the rest so pending Broadcast sends never block
			for range client.send {
			}
			return
		}
	}
}

func (h *BoardHub) readLoop(projectID int64, client *Client) {
	defer h.unregister(projectID, client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// unregister removes the client and closes its send channel. The close
// happens under the write lock, after removal from the board map, so a
// Broadcast holding the read lock can never send on a closed channel.
func (h *BoardHub) unregister(projectID int64, client *Client) {
	h.mu.Lock()
	clients, ok := h.boards[projectID]
	if ok {
		if _, member := clients[client]; member {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.boards, projectID)
		}
	}
	h.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast queues the event for every subscriber of its project board.
// A subscriber whose backlog is full has the event dropped rather than
// stalling the caller.
func (h *BoardHub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.boards[event.ProjectID] {
		select {
		case client.send <- event:
		default:
			log.Printf("[ws][broadcast][drop] client=%s backlog full", client.ID)
		}
	}
}
