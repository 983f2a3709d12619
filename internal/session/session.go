// Package session keeps the server side state of a browser session: the
// CSRF token slot, the last accepted submission time, and the in-flight
// submission guard. Sessions are identified by an opaque cookie value and
// expire after an idle TTL; a cron job sweeps expired sessions.
package session

import (
	"sync"
	"time"
)

// Session is the per-browser state. All methods are safe for concurrent use.
type Session struct {
	id string

	mu             sync.Mutex
	csrfToken      string
	lastSubmission time.Time
	inFlight       bool
	lastSeen       time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{id: id, lastSeen: now}
}

// ID is the opaque session identifier carried by the cookie.
func (s *Session) ID() string {
	return s.id
}

// CSRFToken returns the stored form token, or "" when none was issued.
func (s *Session) CSRFToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.csrfToken
}

// SetCSRFToken replaces the stored form token.
func (s *Session) SetCSRFToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrfToken = token
}

// LastSubmission is the time of the last accepted submission, zero if none.
func (s *Session) LastSubmission() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSubmission
}

// RecordSubmission stores t as the last accepted submission.
func (s *Session) RecordSubmission(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSubmission = t
}

// TryBegin claims the submission slot. It returns false when another
// submission from this session is still running.
func (s *Session) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

// End releases the submission slot.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
}

// InFlight reports whether a submission is running.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.inFlight && now.Sub(s.lastSeen) > ttl
}
