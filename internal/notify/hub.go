package notify

import (
	"sync"
	"time"
)

// Channel is the notification pair for one browser session.
type Channel struct {
	Dispatcher *Dispatcher
	Surface    *Surface
}

// Hub owns one Channel per session. It is built once at startup and passed
// to everything that publishes or renders notifications.
type Hub struct {
	mu       sync.Mutex
	channels map[string]*Channel
	duration time.Duration
}

// NewHub creates an empty hub whose dispatchers use defaultDuration.
func NewHub(defaultDuration time.Duration) *Hub {
	return &Hub{
		channels: make(map[string]*Channel),
		duration: defaultDuration,
	}
}

// For returns the channel for sessionID, creating and attaching it on first
// use.
func (h *Hub) For(sessionID string) *Channel {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.channels[sessionID]; ok {
		return ch
	}

	ch := &Channel{
		Dispatcher: NewDispatcher(h.duration),
		Surface:    NewSurface(),
	}
	ch.Surface.Attach(ch.Dispatcher)
	h.channels[sessionID] = ch
	return ch
}

// Lookup returns the channel for sessionID without creating one.
func (h *Hub) Lookup(sessionID string) (*Channel, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[sessionID]
	return ch, ok
}

// Drop detaches and forgets the channel for sessionID.
func (h *Hub) Drop(sessionID string) {
	h.mu.Lock()
	ch, ok := h.channels[sessionID]
	delete(h.channels, sessionID)
	h.mu.Unlock()

	if ok {
		ch.Surface.Detach()
	}
}

// Len is the number of live channels.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

// Close drops every channel.
func (h *Hub) Close() {
	h.mu.Lock()
	channels := h.channels
	h.channels = make(map[string]*Channel)
	h.mu.Unlock()

	for _, ch := range channels {
		ch.Surface.Detach()
	}
}
