package board

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
)

// ============================================================================
// LIVE STATUS BOARD
// ============================================================================
// WebSocket hub pushing user_status changes to dashboard clients (the
// map/monitor view of who is in distress and where). Every successful
// publish by the status publisher lands here as one broadcast frame.

// Hub manages the dashboard WebSocket connections.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

// DefaultHub is the hub the server wires at bootstrap.
var DefaultHub *Hub

func init() {
	DefaultHub = NewHub()
	go DefaultHub.Run()
}

// NewHub creates an unstarted hub; call Run in a goroutine.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Status board client connected. Total clients: %d", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Status board client disconnected. Total clients: %d", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Printf("Error writing to status board client: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleConn serves one dashboard connection. Reads are discarded; the
// board is push-only.
func (h *Hub) HandleConn(conn *websocket.Conn) {
	h.register <- conn

	defer func() {
		h.unregister <- conn
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// statusFrame is the wire shape of one board update.
type statusFrame struct {
	Type   string            `json:"type"`
	Status models.UserStatus `json:"status"`
}

// PublishStatus broadcasts one user_status change to every client.
// Frames are dropped rather than queued when the channel is full; the
// next position sample supersedes them.
func (h *Hub) PublishStatus(row models.UserStatus) {
	h.mu.RLock()
	empty := len(h.clients) == 0
	h.mu.RUnlock()
	if empty {
		return
	}

	data, err := json.Marshal(statusFrame{Type: "user_status", Status: row})
	if err != nil {
		log.Printf("Error encoding status board frame: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
	}
}
