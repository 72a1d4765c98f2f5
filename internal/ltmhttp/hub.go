package ltmhttp

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StepMessage is one step's worth of data streamed to connected
// dashboards (§10.6): a partition's loop scores and dominant set at the
// step just recorded, indexed by loop ID. The loops themselves are not
// included.
type StepMessage struct {
	Step        int     `json:"step"`
	PartitionID int     `json:"partition_id"`
	Raw         []float64 `json:"raw"`
	Relative    []float64 `json:"relative"`
	Dominant    []int     `json:"dominant"`
}

// Hub fans StepMessages out to every connected websocket client. The zero
// value is not usable; construct with NewHub.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan StepMessage
}

// NewHub returns a Hub with its channels initialized; call Run in its own
// goroutine to start serving.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan StepMessage),
	}
}

// Run is the Hub's event loop; it blocks and should be started with `go`.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// slow client: drop this tick rather than block the
					// whole hub; it catches up on the next one.
				}
			}
		}
	}
}

// Broadcast queues msg for every connected client. Safe to call from the
// runner's per-step loop; never blocks on a slow or absent client.
func (h *Hub) Broadcast(msg StepMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// ServeWS upgrades r to a websocket connection and registers it with the
// hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}
	h.register <- c
	go c.writePump()
	go c.readPump()
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
