package notify

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// directMessage — адресное сообщение одному пользователю.
type directMessage struct {
	userID string
	data   []byte
}

// Client — одно websocket-подключение пользователя.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub раздаёт события уведомлений по открытым websocket-подключениям.
// У пользователя может быть несколько подключений (вкладок) одновременно.
type Hub struct {
	clients    map[string]map[*Client]bool
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		direct:     make(chan directMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run обслуживает регистрацию подключений и доставку сообщений.
// Запускается одной горутиной из composition root.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok && conns[client] {
				delete(conns, client)
				close(client.send)
				if len(conns) == 0 {
					delete(h.clients, client.userID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.direct:
			h.mu.Lock()
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.data:
				default:
					// Клиент не читает — отключаем.
					delete(h.clients[msg.userID], client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Push отправляет сообщение во все подключения пользователя.
func (h *Hub) Push(userID string, data []byte) {
	h.direct <- directMessage{userID: userID, data: data}
}

// ServeWS подключает пользователя к потоку уведомлений.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не передан Id пользователя"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("не удалось открыть websocket", "error", err)
			return
		}

		client := &Client{hub: hub, conn: conn, send: make(chan []byte, 16), userID: userID}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Поток односторонний: входящие сообщения игнорируются,
	// чтение нужно только для обработки close/pong.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
