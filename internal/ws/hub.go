package ws

import (
	"encoding/json"
	"sync"

	"go-supply-ledger/pkg/logging"

	"github.com/gofiber/contrib/websocket"
)

// Hub fans stock-update events out to connected badge/table UIs.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

// BroadcastJSON marshals and queues an event. Push is best effort; the
// polling endpoints remain the source of truth for badge state.
func (h *Hub) BroadcastJSON(v interface{}) {
	msg, err := json.Marshal(v)
	if err != nil {
		logging.WithModule("ws").WithError(err).Warn("dropping unmarshalable broadcast")
		return
	}
	h.Broadcast <- msg
}

func (h *Hub) Run() {
	log := logging.WithModule("ws")
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Debug("client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
