package websocket

import (
	"sync"
	"time"

	"github.com/bytehatacademy/academy/internal/notify"
	"github.com/bytehatacademy/academy/internal/search"
	"github.com/coder/websocket"
)

// Message types exchanged with the page script.
const (
	TypeToast     = "toast"
	TypeDismiss   = "dismiss"
	TypeDismissed = "dismissed"
	TypeSearch    = "search"
	TypeResults   = "results"
)

// Client is one live connection from a browser tab.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
	done      chan struct{}
	ip        string

	closeOnce   sync.Once
	unsubscribe func()
	debouncer   *search.Debouncer
}

// InboundMessage is sent by the page.
type InboundMessage struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
	ID    string `json:"id,omitempty"`
}

// UpdateMessage is sent to the page.
type UpdateMessage struct {
	Type         string         `json:"type"`
	Notification *ToastPayload  `json:"notification,omitempty"`
	ID           string         `json:"id,omitempty"`
	Result       *search.Result `json:"result,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// ToastPayload is a notification as the page script renders it.
type ToastPayload struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Severity   string `json:"severity"`
	DurationMS int64  `json:"duration_ms"`
}

func toastPayload(n notify.Notification) *ToastPayload {
	return &ToastPayload{
		ID:         n.ID,
		Text:       n.Text,
		Severity:   string(n.Severity),
		DurationMS: n.DurationMillis(),
	}
}

// OriginValidator decides whether a connection's Origin is acceptable.
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}

// RateLimiter limits events per key, typically a client IP.
type RateLimiter interface {
	Allow(key string) bool
}
