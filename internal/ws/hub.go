package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait = 10 * time.Second

	// Per-client send buffer; a client that falls this far behind is evicted.
	sendBuffer = 16
)

// Client is one authenticated feed connection. Events are queued on Send
// and written by WritePump; the hub never writes to the socket directly.
type Client struct {
	UserID int
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID int, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
}

// WritePump drains Send onto the socket until the channel closes or a
// write fails. Each write carries a deadline so a dead peer cannot stall
// the pump.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for msg := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

type event struct {
	userID  int
	payload []byte
}

// Hub delivers task change events to the connections of the task's owner.
// Other users' connections never see the event.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish queues a task event such as "task.created" for the owning
// user's connections. Safe to call with a nil hub so handlers work
// without the feed (e.g. in tests).
func (h *Hub) Publish(name string, userID int, data interface{}) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{
		"event": name,
		"data":  data,
	})
	if err != nil {
		return
	}
	h.Broadcast <- event{userID: userID, payload: msg}
}

// Run owns the client set; register, unregister and delivery are all
// serialized through this loop. Delivery is a non-blocking send: a client
// whose buffer is full is dropped rather than allowed to stall the loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
		case ev := <-h.Broadcast:
			for client := range h.Clients {
				if client.UserID != ev.userID {
					continue
				}
				select {
				case client.Send <- ev.payload:
				default:
					delete(h.Clients, client)
					close(client.Send)
				}
			}
		}
	}
}
