package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	fiberws "github.com/gofiber/websocket/v2"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub maintains the set of active clients and pushes change events and
// notifications to them. Clients that cannot keep up are dropped; there
// is no back-pressure beyond the buffered send channel.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages from the clients.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread safety
	mutex sync.RWMutex
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Principal ID for filtering user-directed messages.
	principalID uint

	// Principal role, for role-directed messages.
	role string
}

// Message represents a WebSocket message envelope
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ChangeEvent announces an insert/update/delete on a watched table.
// Subscribers re-fetch their dataset on receipt; no diffing is done.
type ChangeEvent struct {
	Table string `json:"table"`
	Event string `json:"event"`
	ID    uint   `json:"id"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		return true
	},
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("WebSocket client connected. Principal ID: %d role: %s", client.principalID, client.role)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("WebSocket client disconnected. Principal ID: %d", client.principalID)

		case message := <-h.broadcast:
			// Write lock: stalled clients are removed from the map here.
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastChange announces a mutation on a watched table to every
// connected client.
func (h *Hub) BroadcastChange(table, event string, id uint) {
	h.Broadcast(Message{Type: "change", Data: ChangeEvent{Table: table, Event: event, ID: id}})
}

// BroadcastToUser sends a message to all connections for a specific principal
func (h *Hub) BroadcastToUser(userID uint, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	// Write lock: stalled clients are removed from the map here.
	h.mutex.Lock()
	for client := range h.clients {
		if client.principalID == userID {
			select {
			case client.send <- data:
			default:
				close(client.send)
				delete(h.clients, client)
			}
		}
	}
	h.mutex.Unlock()
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling WebSocket message: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Println("Broadcast channel is full")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeWS handles websocket requests from a plain net/http peer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, principalID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := &Client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, 256),
		principalID: principalID,
		role:        role,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket unexpected close for principal %d: %v", c.principalID, err)
			}
			break
		}
		// The feed is server-to-client only; inbound messages are ignored.
	}
}

// ServeFiberWS handles Fiber websocket connections
func (h *Hub) ServeFiberWS(c *fiberws.Conn, principalID uint, role string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ServeFiberWS panic for principal %d: %v", principalID, r)
		}
	}()

	client := &Client{
		hub:         h,
		conn:        nil, // Fiber connections are pumped separately
		send:        make(chan []byte, 256),
		principalID: principalID,
		role:        role,
	}

	h.register <- client

	// Start write pump in a goroutine, run read pump in this goroutine.
	go h.fiberWritePump(client, c)
	h.fiberReadPump(client, c)
}

// fiberWritePump handles writing to Fiber websocket connections
func (h *Hub) fiberWritePump(client *Client, c *fiberws.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("fiberWritePump panic for principal %d: %v", client.principalID, r)
		}
		h.unregister <- client
		c.Close()
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.WriteMessage(fiberws.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(fiberws.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for principal %d: %v", client.principalID, err)
				return
			}

		case <-ticker.C:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteMessage(fiberws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// fiberReadPump handles reading from Fiber websocket connections
func (h *Hub) fiberReadPump(client *Client, c *fiberws.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("fiberReadPump panic for principal %d: %v", client.principalID, r)
		}
		h.unregister <- client
		c.Close()
	}()

	c.SetReadLimit(maxMessageSize)
	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.ReadMessage()
		if err != nil {
			if fiberws.IsUnexpectedCloseError(err, fiberws.CloseGoingAway, fiberws.CloseAbnormalClosure) {
				log.Printf("WebSocket unexpected close for principal %d: %v", client.principalID, err)
			}
			break
		}
	}
}
