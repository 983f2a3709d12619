package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"success", SeveritySuccess},
		{"ERROR", SeverityError},
		{" warning ", SeverityWarning},
		{"info", SeverityInfo},
		{"", SeverityInfo},
		{"fatal", SeverityInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSeverity(tt.in), tt.in)
	}
}

func TestDispatcherShowDefaults(t *testing.T) {
	d := NewDispatcher(0)

	var got []Notification
	d.Subscribe(func(n Notification) { got = append(got, n) })

	d.Show("hello", "", 0)
	d.Show("again", SeveritySuccess, time.Second)

	require.Len(t, got, 2)
	assert.Equal(t, SeverityInfo, got[0].Severity)
	assert.Equal(t, DefaultDuration, got[0].Duration)
	assert.Equal(t, int64(3000), got[0].DurationMillis())
	assert.Equal(t, SeveritySuccess, got[1].Severity)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestNotificationRemaining(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	n := Notification{Duration: 3 * time.Second, CreatedAt: created}

	assert.Equal(t, 3*time.Second, n.Remaining(created))
	assert.Equal(t, time.Second, n.Remaining(created.Add(2*time.Second)))
	assert.Equal(t, time.Duration(0), n.Remaining(created.Add(time.Minute)))
	assert.Equal(t, 3*time.Second, Notification{Duration: 3 * time.Second}.Remaining(created))
}

func TestDispatcherRegistrationOrder(t *testing.T) {
	d := NewDispatcher(time.Second)

	var order []int
	d.Subscribe(func(Notification) { order = append(order, 1) })
	d.Subscribe(func(Notification) { order = append(order, 2) })
	d.Subscribe(func(Notification) { order = append(order, 3) })

	d.Show("x", SeverityInfo, 0)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := NewDispatcher(time.Second)

	calls := 0
	unsub := d.Subscribe(func(Notification) { calls++ })
	other := 0
	d.Subscribe(func(Notification) { other++ })

	d.Show("one", SeverityInfo, 0)
	unsub()
	unsub()
	d.Show("two", SeverityInfo, 0)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
	assert.Equal(t, 1, d.Subscribers())
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewDispatcher(time.Second)
	assert.NotPanics(t, func() { d.Show("nobody listens", SeverityError, 0) })
}

func TestSurfaceLifecycle(t *testing.T) {
	d := NewDispatcher(time.Second)
	s := NewSurface()
	s.Attach(d)
	defer s.Detach()

	start := time.Now()
	d.Show("x", SeveritySuccess, 100*time.Millisecond)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, SeveritySuccess, active[0].Severity)
	assert.Equal(t, "x", active[0].Text)

	require.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestSurfaceIndependentTimers(t *testing.T) {
	d := NewDispatcher(time.Second)
	s := NewSurface()
	s.Attach(d)
	defer s.Detach()

	d.Show("short", SeverityInfo, 50*time.Millisecond)
	d.Show("long", SeverityInfo, 500*time.Millisecond)
	start := time.Now()

	require.Eventually(t, func() bool { return s.Len() == 1 }, time.Second, 5*time.Millisecond)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "long", active[0].Text)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	require.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 450*time.Millisecond)
}

func TestSurfaceInsertionOrder(t *testing.T) {
	d := NewDispatcher(time.Minute)
	s := NewSurface()
	s.Attach(d)
	defer s.Detach()

	for _, text := range []string{"a", "b", "c"} {
		d.Show(text, SeverityInfo, 0)
	}

	var texts []string
	for _, n := range s.Active() {
		texts = append(texts, n.Text)
	}
	assert.Equal(t, []string{"a", "b", "c"}, texts)
}

func TestSurfaceDismiss(t *testing.T) {
	d := NewDispatcher(time.Minute)
	s := NewSurface()
	s.Attach(d)
	defer s.Detach()

	var removed []string
	s.OnRemove(func(id string) { removed = append(removed, id) })

	d.Show("a", SeverityInfo, 0)
	d.Show("b", SeverityInfo, 0)
	first := s.Active()[0]

	assert.True(t, s.Dismiss(first.ID))
	assert.False(t, s.Dismiss(first.ID))
	assert.Equal(t, []string{first.ID}, removed)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Text)
}

func TestSurfaceDetachStopsDelivery(t *testing.T) {
	d := NewDispatcher(time.Minute)
	s := NewSurface()
	s.Attach(d)

	d.Show("a", SeverityInfo, 0)
	s.Detach()
	d.Show("b", SeverityInfo, 0)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, d.Subscribers())
}

func TestSurfaceReattachReplacesSubscription(t *testing.T) {
	d := NewDispatcher(time.Minute)
	s := NewSurface()
	s.Attach(d)
	s.Attach(d)
	defer s.Detach()

	d.Show("once", SeverityInfo, 0)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, d.Subscribers())
}

func TestHub(t *testing.T) {
	h := NewHub(time.Minute)
	defer h.Close()

	a := h.For("session-a")
	b := h.For("session-b")
	assert.Same(t, a, h.For("session-a"))
	assert.Equal(t, 2, h.Len())

	a.Dispatcher.Show("only a", SeverityInfo, 0)
	assert.Equal(t, 1, a.Surface.Len())
	assert.Equal(t, 0, b.Surface.Len())

	h.Drop("session-a")
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, a.Surface.Len())
	assert.NotSame(t, a, h.For("session-a"))
}

func TestHubLookupDoesNotCreate(t *testing.T) {
	h := NewHub(time.Minute)
	defer h.Close()

	_, ok := h.Lookup("gone")
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())

	ch := h.For("here")
	got, ok := h.Lookup("here")
	require.True(t, ok)
	assert.Same(t, ch, got)

	h.Drop("here")
	_, ok = h.Lookup("here")
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
}

func TestHubConcurrentShow(t *testing.T) {
	h := NewHub(time.Minute)
	defer h.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.For("shared").Dispatcher.Show("x", SeverityInfo, 0)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, h.For("shared").Surface.Len())
}

func TestPublishKeepsID(t *testing.T) {
	d := NewDispatcher(time.Minute)
	s := NewSurface()
	s.Attach(d)
	defer s.Detach()

	n := d.Build("prepared", SeverityWarning, 0)
	d.Publish(n)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, n.ID, active[0].ID)
	assert.Equal(t, time.Minute, active[0].Duration)
}
