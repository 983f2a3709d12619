// Package notify implements transient notifications ("toasts"). A Dispatcher
// fans a Notification out to its subscribers synchronously; a Surface is the
// subscriber that keeps the active list and expires entries on their own
// timers. The Hub owns one Dispatcher and Surface per browser session.
package notify

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long a notification stays visible when the caller
// does not choose.
const DefaultDuration = 3 * time.Second

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity maps s onto a known severity, falling back to info.
func ParseSeverity(s string) Severity {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return sev
	default:
		return SeverityInfo
	}
}

// Notification is one toast shown to a session.
type Notification struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Severity  Severity      `json:"severity"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"-"`
}

// Remaining is how long the toast stays visible after now, never negative.
func (n Notification) Remaining(now time.Time) time.Duration {
	if n.CreatedAt.IsZero() {
		return n.Duration
	}
	left := n.Duration - now.Sub(n.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// DurationMillis is the display duration in milliseconds for the page script.
func (n Notification) DurationMillis() int64 {
	return n.Duration.Milliseconds()
}

func newNotification(text string, severity Severity, d time.Duration) Notification {
	if d <= 0 {
		d = DefaultDuration
	}
	return Notification{
		ID:        uuid.NewString(),
		Text:      text,
		Severity:  ParseSeverity(string(severity)),
		Duration:  d,
		CreatedAt: time.Now(),
	}
}
