// Package websocket implements the live channel between a page and the
// server. Each connection belongs to a browser session: notifications shown
// to that session are pushed as they happen, and search queries typed into
// the page are debounced and answered with filter results.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/bytehatacademy/academy/internal/middleware"
	"github.com/bytehatacademy/academy/internal/notify"
	"github.com/bytehatacademy/academy/internal/search"
	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 64
)

// Options tunes a Manager.
type Options struct {
	// Debounce is the quiet period before a live query is evaluated.
	Debounce time.Duration
	// MaxConnectionsPerSession bounds open tabs per session. Zero means 8.
	MaxConnectionsPerSession int
	// ClientIP keys the rate limiter. nil uses the peer address.
	ClientIP *middleware.ClientIP
}

// Manager owns every live connection.
//
// Invariants:
//   - clients and perSession are only touched with clientsMutex held
//   - a client is unsubscribed from its dispatcher exactly once
type Manager struct {
	clients      map[*websocket.Conn]*Client
	perSession   map[string]int
	clientsMutex sync.RWMutex

	register   chan *Client
	unregister chan *Client

	hub             *notify.Hub
	index           *search.Index
	originValidator OriginValidator
	rateLimiter     RateLimiter
	opts            Options
	logger          logging.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
	isShutdown   atomic.Bool
}

// NewManager creates a manager and starts its hub goroutine. limiter may be
// nil.
func NewManager(
	hub *notify.Hub,
	index *search.Index,
	originValidator OriginValidator,
	limiter RateLimiter,
	opts Options,
	logger logging.Logger,
) *Manager {
	if originValidator == nil {
		panic("websocket.Manager: originValidator cannot be nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.MaxConnectionsPerSession <= 0 {
		opts.MaxConnectionsPerSession = 8
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		clients:         make(map[*websocket.Conn]*Client),
		perSession:      make(map[string]int),
		register:        make(chan *Client, 32),
		unregister:      make(chan *Client, 32),
		hub:             hub,
		index:           index,
		originValidator: originValidator,
		rateLimiter:     limiter,
		opts:            opts,
		logger:          logger.WithComponent("live"),
		ctx:             ctx,
		cancel:          cancel,
	}

	go m.runHub()
	return m
}

// ServeSession upgrades the request and binds the connection to sessionID.
func (m *Manager) ServeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if m.isShutdown.Load() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	if origin := r.Header.Get("Origin"); origin != "" && !m.originValidator.IsAllowedOrigin(origin) {
		m.logger.Warn(r.Context(), errors.ErrInvalidOrigin(origin), "Live connection rejected",
			"ip", m.opts.ClientIP.Resolve(r))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	ip := m.opts.ClientIP.Resolve(r)
	if m.rateLimiter != nil && !m.rateLimiter.Allow(ip) {
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	if !m.reserve(sessionID) {
		http.Error(w, "Too many connections", http.StatusTooManyRequests)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// origin validated above
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		m.release(sessionID)
		m.logger.Warn(r.Context(), err, "Live connection upgrade failed", "ip", ip)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		ip:        ip,
	}
	client.debouncer = search.NewDebouncer(m.opts.Debounce, func(q string) {
		res := m.index.Search(q)
		m.enqueue(client, UpdateMessage{Type: TypeResults, Result: &res})
	})
	client.unsubscribe = m.hub.For(sessionID).Dispatcher.Subscribe(func(n notify.Notification) {
		m.enqueue(client, UpdateMessage{Type: TypeToast, Notification: toastPayload(n)})
	})

	select {
	case m.register <- client:
	case <-m.ctx.Done():
		m.closeClient(client, websocket.StatusServiceRestart, "Server shutting down")
		m.release(sessionID)
		return
	}

	go m.handleClient(client)
}

func (m *Manager) reserve(sessionID string) bool {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.perSession[sessionID] >= m.opts.MaxConnectionsPerSession {
		return false
	}
	m.perSession[sessionID]++
	return true
}

func (m *Manager) release(sessionID string) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.perSession[sessionID] <= 1 {
		delete(m.perSession, sessionID)
		return
	}
	m.perSession[sessionID]--
}

// runHub serialises registration and removal of clients.
func (m *Manager) runHub() {
	for {
		select {
		case client := <-m.register:
			m.clientsMutex.Lock()
			m.clients[client.conn] = client
			total := len(m.clients)
			m.clientsMutex.Unlock()
			m.logger.Debug(m.ctx, "Live client connected", "session_clients", m.SessionClients(client.sessionID), "total", total)

		case client := <-m.unregister:
			m.clientsMutex.Lock()
			_, ok := m.clients[client.conn]
			delete(m.clients, client.conn)
			m.clientsMutex.Unlock()
			if ok {
				m.release(client.sessionID)
				m.closeClient(client, websocket.StatusNormalClosure, "")
			}

		case <-m.ctx.Done():
			return
		}
	}
}

func (m *Manager) handleClient(client *Client) {
	defer func() {
		select {
		case m.unregister <- client:
		case <-m.ctx.Done():
		}
	}()

	go m.writeToClient(client)
	m.readFromClient(client)
}

func (m *Manager) readFromClient(client *Client) {
	for {
		_, data, err := client.conn.Read(m.ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && m.ctx.Err() == nil {
				m.logger.Debug(m.ctx, "Live client read ended", "error", err.Error())
			}
			return
		}

		if m.rateLimiter != nil && !m.rateLimiter.Allow("live:"+client.ip) {
			m.logger.Warn(m.ctx, errors.ErrRateLimited(), "Live client message rate exceeded", "ip", client.ip)
			return
		}

		m.processClientMessage(client, data)
	}
}

func (m *Manager) processClientMessage(client *Client, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		m.logger.Debug(m.ctx, "Ignoring malformed live message", "bytes", len(data))
		return
	}

	switch msg.Type {
	case TypeSearch:
		client.debouncer.Trigger(msg.Query)
	case TypeDismiss:
		ch, ok := m.hub.Lookup(client.sessionID)
		if ok && ch.Surface.Dismiss(msg.ID) {
			m.enqueue(client, UpdateMessage{Type: TypeDismissed, ID: msg.ID})
		}
	default:
		m.logger.Debug(m.ctx, "Ignoring unknown live message", "type", msg.Type)
	}
}

func (m *Manager) writeToClient(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-client.send:
			ctx, cancel := context.WithTimeout(m.ctx, writeWait)
			err := client.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(m.ctx, writeWait)
			err := client.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-client.done:
			return
		case <-m.ctx.Done():
			return
		}
	}
}

// enqueue never blocks; a client that cannot keep up loses messages.
func (m *Manager) enqueue(client *Client, msg UpdateMessage) {
	msg.Timestamp = time.Now()
	data, err := json.Marshal(msg)
	if err != nil {
		m.logger.Error(m.ctx, err, "Failed to marshal live message", "type", msg.Type)
		return
	}

	select {
	case <-client.done:
	case client.send <- data:
	default:
		m.logger.Debug(m.ctx, "Live client buffer full, dropping message", "type", msg.Type)
	}
}

func (m *Manager) closeClient(client *Client, code websocket.StatusCode, reason string) {
	client.closeOnce.Do(func() {
		if client.unsubscribe != nil {
			client.unsubscribe()
		}
		if client.debouncer != nil {
			client.debouncer.Stop()
		}
		close(client.done)
		_ = client.conn.Close(code, reason)
	})
}

// CloseSession closes every connection bound to sessionID. It is registered
// as a session expiry hook and does not wait for the close handshakes.
func (m *Manager) CloseSession(sessionID string) {
	m.clientsMutex.RLock()
	var closing []*Client
	for _, c := range m.clients {
		if c.sessionID == sessionID {
			closing = append(closing, c)
		}
	}
	m.clientsMutex.RUnlock()

	for _, c := range closing {
		go m.closeClient(c, websocket.StatusPolicyViolation, "Session expired")
	}
	if len(closing) > 0 {
		m.logger.Debug(m.ctx, "Closed live clients of expired session", "closed", len(closing))
	}
}

// ConnectedClients is the number of open connections.
func (m *Manager) ConnectedClients() int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()
	return len(m.clients)
}

// SessionClients is the number of open connections for sessionID.
func (m *Manager) SessionClients(sessionID string) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()
	return m.perSession[sessionID]
}

// Shutdown closes every connection. Later upgrades are refused.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.shutdownOnce.Do(func() {
		m.isShutdown.Store(true)
		m.cancel()

		m.clientsMutex.Lock()
		clients := make([]*Client, 0, len(m.clients))
		for _, c := range m.clients {
			clients = append(clients, c)
		}
		m.clients = make(map[*websocket.Conn]*Client)
		m.perSession = make(map[string]int)
		m.clientsMutex.Unlock()

		for _, c := range clients {
			m.closeClient(c, websocket.StatusGoingAway, "Server shutdown")
		}
		m.logger.Info(ctx, "Live channel shut down", "closed", len(clients))
	})
	return nil
}

// IsShutdown reports whether Shutdown was called.
func (m *Manager) IsShutdown() bool {
	return m.isShutdown.Load()
}
