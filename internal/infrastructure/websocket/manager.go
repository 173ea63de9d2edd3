package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"helperhive/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 64
)

// Hooks connect the manager to the application without this package knowing
// about use cases. Any hook may be nil.
type Hooks struct {
	OnConnect    func(userID string)
	OnDisconnect func(userID string)
	// Subscribe starts a live feed for topic and returns its stop func. push
	// may be called from any goroutine until stop returns.
	Subscribe   func(ctx context.Context, userID, topic string, params json.RawMessage, push func(data interface{})) (func(), error)
	SendMessage func(ctx context.Context, userID string, data json.RawMessage) (interface{}, error)
}

// Client is one websocket connection. A user may hold several.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu            sync.Mutex
	closed        bool
	subscriptions map[string]func()
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID:        userID,
		Conn:          conn,
		Send:          make(chan []byte, sendBufferSize),
		subscriptions: make(map[string]func()),
	}
}

// enqueue never blocks. It reports false when the client is gone or its
// buffer is full.
func (c *Client) enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) setSubscription(topic string, stop func()) {
	c.mu.Lock()
	previous := c.subscriptions[topic]
	if c.closed {
		c.mu.Unlock()
		stop()
		return
	}
	c.subscriptions[topic] = stop
	c.mu.Unlock()

	if previous != nil {
		previous()
	}
}

func (c *Client) stopSubscription(topic string) bool {
	c.mu.Lock()
	stop, ok := c.subscriptions[topic]
	delete(c.subscriptions, topic)
	c.mu.Unlock()

	if ok {
		stop()
	}
	return ok
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subscriptions
	c.subscriptions = nil
	close(c.Send)
	c.mu.Unlock()

	for _, stop := range subs {
		stop()
	}
}

// Manager tracks open connections per user.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
	hooks      Hooks
	ctx        context.Context
	done       chan struct{}

	// presence holds the pending online/offline events of every user whose
	// worker is running. Hooks run off the main loop, one worker per user.
	presenceMu sync.Mutex
	presence   map[string][]bool
	presenceWG sync.WaitGroup
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		ctx:        context.Background(),
		done:       make(chan struct{}),
		presence:   make(map[string][]bool),
	}
}

// SetHooks must be called before Start.
func (m *Manager) SetHooks(h Hooks) {
	m.hooks = h
}

// Start runs the manager's main loop in a goroutine until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	m.ctx = ctx
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.Register:
				m.register(client)

			case client := <-m.Unregister:
				m.unregister(client)

			case <-ctx.Done():
				m.closeAll()
				return
			}
		}
	}()
}

func (m *Manager) register(client *Client) {
	m.mutex.Lock()
	conns, ok := m.clients[client.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		m.clients[client.UserID] = conns
	}
	conns[client] = struct{}{}
	first := len(conns) == 1
	m.mutex.Unlock()

	logger.Debug("Websocket client registered: %s", client.UserID)
	if first {
		m.queuePresence(client.UserID, true)
	}
}

func (m *Manager) unregister(client *Client) {
	m.mutex.Lock()
	conns, ok := m.clients[client.UserID]
	if !ok {
		m.mutex.Unlock()
		return
	}
	if _, ok := conns[client]; !ok {
		m.mutex.Unlock()
		return
	}
	delete(conns, client)
	last := len(conns) == 0
	if last {
		delete(m.clients, client.UserID)
	}
	m.mutex.Unlock()

	client.close()
	logger.Debug("Websocket client unregistered: %s", client.UserID)
	if last {
		m.queuePresence(client.UserID, false)
	}
}

// queuePresence appends an event to userID's queue and starts its worker
// when none is running, so each user's events apply in order.
func (m *Manager) queuePresence(userID string, online bool) {
	if (online && m.hooks.OnConnect == nil) || (!online && m.hooks.OnDisconnect == nil) {
		return
	}

	m.presenceMu.Lock()
	defer m.presenceMu.Unlock()

	pending, running := m.presence[userID]
	m.presence[userID] = append(pending, online)
	if !running {
		m.presenceWG.Add(1)
		go m.drainPresence(userID)
	}
}

func (m *Manager) drainPresence(userID string) {
	defer m.presenceWG.Done()

	for {
		m.presenceMu.Lock()
		pending := m.presence[userID]
		if len(pending) == 0 {
			delete(m.presence, userID)
			m.presenceMu.Unlock()
			return
		}
		online := pending[0]
		m.presence[userID] = pending[1:]
		m.presenceMu.Unlock()

		if online {
			m.hooks.OnConnect(userID)
		} else {
			m.hooks.OnDisconnect(userID)
		}
	}
}

// Wait blocks until the main loop has stopped and every queued presence
// event has been applied.
func (m *Manager) Wait() {
	<-m.done
	m.presenceWG.Wait()
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	all := m.clients
	m.clients = make(map[string]map[*Client]struct{})
	m.mutex.Unlock()

	for userID, conns := range all {
		for client := range conns {
			client.close()
		}
		m.queuePresence(userID, false)
	}
}

// SendToUser delivers message to every open connection of userID. Slow
// connections drop the message.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	conns := make([]*Client, 0, len(m.clients[userID]))
	for client := range m.clients[userID] {
		conns = append(conns, client)
	}
	m.mutex.RUnlock()

	for _, client := range conns {
		if !client.enqueue(message) {
			logger.Warn("Websocket send buffer full for user %s, dropping message", userID)
		}
	}
}

func (m *Manager) IsOnline(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID]) > 0
}

// Serve registers conn for userID and blocks until the connection closes.
func (m *Manager) Serve(userID string, conn *websocket.Conn) {
	client := NewClient(userID, conn)

	select {
	case m.Register <- client:
	case <-m.done:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump(m)
}

// ReadPump reads messages from the connection until it fails.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Websocket read error for %s: %v", c.UserID, err)
			}
			return
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump drains Send to the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("Websocket write error for %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
