package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/robfig/cron/v3"
)

// Store holds live sessions in memory.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cookieName string
	secure     bool
	ttl        time.Duration
	schedule   string
	now        func() time.Time

	onExpire []func(id string)
	cron     *cron.Cron
	logger   logging.Logger
}

// NewStore creates a store from the session configuration.
func NewStore(cfg *config.SessionConfig, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		sessions:   make(map[string]*Session),
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		ttl:        cfg.TTL,
		schedule:   cfg.CleanupSchedule,
		now:        time.Now,
		logger:     logger.WithComponent("session"),
	}
}

// OnExpire registers fn to run for each session removed by Sweep.
func (st *Store) OnExpire(fn func(id string)) {
	st.mu.Lock()
	st.onExpire = append(st.onExpire, fn)
	st.mu.Unlock()
}

// Get returns the live session with id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if ok {
		s.touch(st.now())
	}
	return s, ok
}

// Create starts a new session with a random id.
func (st *Store) Create() (*Session, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	s := newSession(id, st.now())
	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s, nil
}

// Resolve returns the session named by the request cookie, creating one and
// setting the cookie on w when the cookie is missing or stale.
func (st *Store) Resolve(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if c, err := r.Cookie(st.cookieName); err == nil {
		if s, ok := st.Get(c.Value); ok {
			return s, nil
		}
	}

	s, err := st.Create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     st.cookieName,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed. Sessions with a submission in flight are kept.
func (st *Store) Sweep() int {
	now := st.now()

	st.mu.Lock()
	var expired []string
	for id, s := range st.sessions {
		if s.expired(now, st.ttl) {
			expired = append(expired, id)
			delete(st.sessions, id)
		}
	}
	hooks := append([]func(string){}, st.onExpire...)
	st.mu.Unlock()

	for _, id := range expired {
		for _, fn := range hooks {
			fn(id)
		}
	}
	return len(expired)
}

// Start schedules Sweep on the configured cron schedule.
func (st *Store) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(st.schedule, func() {
		if n := st.Sweep(); n > 0 {
			st.logger.Debug(ctx, "Expired sessions removed", "count", n, "remaining", st.Len())
		}
	}); err != nil {
		return fmt.Errorf("schedule session cleanup: %w", err)
	}

	st.mu.Lock()
	st.cron = c
	st.mu.Unlock()

	c.Start()
	st.logger.Info(ctx, "Session cleanup scheduled", "schedule", st.schedule, "ttl", st.ttl)
	return nil
}

// Stop halts the cleanup job and waits for a running sweep to finish.
func (st *Store) Stop() {
	st.mu.Lock()
	c := st.cron
	st.cron = nil
	st.mu.Unlock()

	if c == nil {
		return
	}
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
}

func newID() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
