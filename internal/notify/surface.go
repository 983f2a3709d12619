package notify

import (
	"sync"
	"time"
)

type entry struct {
	n     Notification
	timer *time.Timer
}

// Surface is the display side of a Dispatcher. It keeps the active
// notifications in arrival order and removes each one when its own timer
// fires or when it is dismissed. Removing one entry never touches another.
type Surface struct {
	mu          sync.Mutex
	entries     []*entry
	unsubscribe func()
	onRemove    func(id string)
}

// NewSurface creates a detached surface.
func NewSurface() *Surface {
	return &Surface{}
}

// OnRemove registers a hook called after an entry expires or is dismissed.
func (s *Surface) OnRemove(fn func(id string)) {
	s.mu.Lock()
	s.onRemove = fn
	s.mu.Unlock()
}

// Attach subscribes the surface to d. Attaching again replaces the previous
// subscription.
func (s *Surface) Attach(d *Dispatcher) {
	unsub := d.Subscribe(s.add)

	s.mu.Lock()
	prev := s.unsubscribe
	s.unsubscribe = unsub
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Detach unsubscribes the surface and stops every pending timer. The active
// list is cleared.
func (s *Surface) Detach() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	for _, e := range s.entries {
		e.timer.Stop()
	}
	s.entries = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (s *Surface) add(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{n: n}
	e.timer = time.AfterFunc(n.Duration, func() { s.remove(n.ID) })
	s.entries = append(s.entries, e)
}

// Dismiss removes the notification with id. It reports whether it was
// still active.
func (s *Surface) Dismiss(id string) bool {
	return s.remove(id)
}

func (s *Surface) remove(id string) bool {
	s.mu.Lock()
	var found bool
	for i, e := range s.entries {
		if e.n.ID == id {
			e.timer.Stop()
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			found = true
			break
		}
	}
	hook := s.onRemove
	s.mu.Unlock()

	if found && hook != nil {
		hook(id)
	}
	return found
}

// Active returns a snapshot of the visible notifications, oldest first.
func (s *Surface) Active() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.n
	}
	return out
}

// Len is the number of visible notifications.
func (s *Surface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
