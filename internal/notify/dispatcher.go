package notify

import (
	"sync"
	"time"
)

// Callback receives every notification shown after it subscribed.
type Callback func(Notification)

type subscriber struct {
	id int
	fn Callback
}

// Dispatcher is a publish/subscribe registry for notifications. It holds no
// notification state of its own.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []subscriber
	nextID      int
	fallback    time.Duration
}

// NewDispatcher creates a dispatcher. Non-positive defaultDuration selects
// DefaultDuration.
func NewDispatcher(defaultDuration time.Duration) *Dispatcher {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Dispatcher{fallback: defaultDuration}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function may be called more than once.
func (d *Dispatcher) Subscribe(fn Callback) (unsubscribe func()) {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.subscribers = append(d.subscribers, subscriber{id: id, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(id) })
	}
}

func (d *Dispatcher) remove(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, s := range d.subscribers {
		if s.id == id {
			d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
			return
		}
	}
}

// Show builds a notification and hands it to every current subscriber in
// registration order, on the caller's goroutine. An unknown severity becomes
// info and a non-positive duration becomes the dispatcher default.
func (d *Dispatcher) Show(text string, severity Severity, duration time.Duration) {
	if duration <= 0 {
		duration = d.fallback
	}
	d.Publish(newNotification(text, severity, duration))
}

// Publish delivers an already built notification. Callers constructing
// notifications ahead of time, such as the contact service, use it so the
// rendered page and the live channel agree on the id.
func (d *Dispatcher) Publish(n Notification) {
	d.mu.RLock()
	subs := make([]subscriber, len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.RUnlock()

	for _, s := range subs {
		s.fn(n)
	}
}

// Build creates a notification with the dispatcher's defaults applied,
// without delivering it.
func (d *Dispatcher) Build(text string, severity Severity, duration time.Duration) Notification {
	if duration <= 0 {
		duration = d.fallback
	}
	return newNotification(text, severity, duration)
}

// Subscribers returns the number of registered callbacks.
func (d *Dispatcher) Subscribers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}
