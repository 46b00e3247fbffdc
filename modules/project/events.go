package project

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StatusEvent - pushed to subscribers whenever a project changes state
type StatusEvent struct {
	ProjectID  string `json:"project_id"`
	Status     string `json:"status"`
	PreviewURL string `json:"preview_url,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub - per-project websocket subscribers for status events
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

// NewHub - empty hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// Publish - fan out a status event to everyone watching the project
func (h *Hub) Publish(projectID, status string, previewURL *string) {
	event := StatusEvent{
		ProjectID: projectID,
		Status:    status,
		Timestamp: time.Now().Unix(),
	}
	if previewURL != nil {
		event.PreviewURL = *previewURL
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ [Events] Failed to marshal status event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers[projectID] {
		select {
		case sub.send <- messageBytes:
		default:
			close(sub.send)
			delete(h.subscribers[projectID], sub)
		}
	}
}

func (h *Hub) add(projectID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[projectID] == nil {
		h.subscribers[projectID] = make(map[*subscriber]struct{})
	}
	h.subscribers[projectID][sub] = struct{}{}
	log.Printf("📢 [Events] Subscriber joined project %s (total: %d)", projectID, len(h.subscribers[projectID]))
}

func (h *Hub) remove(projectID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscribers[projectID]; ok {
		if _, present := subs[sub]; present {
			delete(subs, sub)
			close(sub.send)
		}
		if len(subs) == 0 {
			delete(h.subscribers, projectID)
		}
	}
}

// HandleEvents - GET /projects/{id}/events, upgraded to a websocket
func (h *Hub) HandleEvents(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Events] Upgrade failed for project %s: %v", projectID, err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.add(projectID, sub)

	go sub.writePump()
	sub.readPump(func() { h.remove(projectID, sub) })
}

func (s *subscriber) writePump() {
	defer s.conn.Close()
	for message := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump - drain client frames until disconnect; clients only listen
func (s *subscriber) readPump(onClose func()) {
	defer onClose()
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️  [Events] Unexpected close: %v", err)
			}
			return
		}
	}
}
