package mail

import (
	"context"
	"time"

	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
)

// StubSender accepts every valid message after a delay without delivering
// it. It is the default until provider credentials are configured.
type StubSender struct {
	delay  time.Duration
	logger logging.Logger
}

// NewStubSender creates a stub that answers after delay.
func NewStubSender(delay time.Duration, logger logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Nop()
	}
	return &StubSender{delay: delay, logger: logger.WithComponent("mail")}
}

// Send validates msg, waits, and reports acceptance.
func (s *StubSender) Send(ctx context.Context, msg Message) (Response, error) {
	msg = Normalize(msg)
	if err := Validate(msg); err != nil {
		return Response{}, err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Response{}, errors.ErrSendFailed(ctx.Err())
		case <-timer.C:
		}
	}

	s.logger.Info(ctx, "Email accepted by stub sender",
		"to", msg.To,
		"from_name", msg.FromName,
		"message_length", len(msg.Message))
	return Response{Status: StatusOK, Text: "stub: email accepted"}, nil
}
