package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"bend/middleware"
	"bend/mq"
	"bend/repo"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

// Client is one websocket connection belonging to a user. A user can hold
// several at once (phone and laptop).
type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

type badgeMsg struct {
	UserID string
	Data   []byte
}

// Hub fans live badge updates out to every connection a user has open.
// The users map is owned by the Run goroutine; all access is serialized
// through the channels.
type Hub struct {
	users      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	push       chan badgeMsg
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		users:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan badgeMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			// Close every Send so writePump goroutines exit instead of
			// parking until process exit.
			for _, conns := range h.users {
				for c := range conns {
					close(c.Send)
				}
			}
			h.users = make(map[string]map[*Client]bool)
			return

		case c := <-h.register:
			if h.users[c.UserID] == nil {
				h.users[c.UserID] = make(map[*Client]bool)
			}
			h.users[c.UserID][c] = true

		case c := <-h.unregister:
			if conns := h.users[c.UserID]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}

		case m := <-h.push:
			for c := range h.users[m.UserID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.users[m.UserID], c)
				}
			}
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

type badgePayload struct {
	Unseen int64 `json:"unseen"`
}

// Push sends the unseen count to every connection the user has open.
func (h *Hub) Push(userID string, unseen int64) {
	data, err := json.Marshal(badgePayload{Unseen: unseen})
	if err != nil {
		return
	}
	select {
	case h.push <- badgeMsg{UserID: userID, Data: data}:
	case <-h.done:
	}
}

// Feed consumes badge events off redis and pushes the fresh unseen count
// to the affected user. Runs until ctx is cancelled.
func (h *Hub) Feed(ctx context.Context, conn *redis.Client, notifications repo.Notifications) {
	mq.Subscribe(ctx, conn, func(event mq.BadgeEvent) {
		unseen, err := notifications.CountUnseen(ctx, event.UserID)
		if err != nil {
			log.Printf("live: failed to count unseen for %s: %v", event.UserID, err)
			return
		}
		h.Push(event.UserID, unseen)
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/badge
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := middleware.RequesterID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: websocket upgrade failed: %v", err)
		return
	}

	client := &Client{Conn: conn, Send: make(chan []byte, 16), UserID: userID}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) writePump() {
	defer c.Conn.Close()
	for data := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
