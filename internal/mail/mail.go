// Package mail sends contact and enrollment messages through a
// transactional email provider. The provider is chosen by configuration:
// EmailJSSender calls the provider's REST API and StubSender only logs.
package mail

import (
	"context"
	"strings"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/bytehatacademy/academy/internal/validation"
)

// StatusOK is the provider status that signals acceptance.
const StatusOK = 200

// Message is one outbound email.
type Message struct {
	To       string
	FromName string
	Message  string
	ReplyTo  string
}

// Response is the provider's answer.
type Response struct {
	Status int
	Text   string
}

// Sender delivers messages. Any non-nil error or a status other than
// StatusOK means the message was not accepted.
type Sender interface {
	Send(ctx context.Context, msg Message) (Response, error)
}

// Normalize trims every field of msg.
func Normalize(msg Message) Message {
	return Message{
		To:       strings.TrimSpace(msg.To),
		FromName: strings.TrimSpace(msg.FromName),
		Message:  strings.TrimSpace(msg.Message),
		ReplyTo:  strings.TrimSpace(msg.ReplyTo),
	}
}

// Validate checks that the required fields are present and the addresses
// are well formed.
func Validate(msg Message) error {
	vec := &errors.ValidationErrorCollection{}

	if msg.To == "" || msg.FromName == "" || msg.Message == "" || msg.ReplyTo == "" {
		vec.AddField("message", "", "missing required email fields")
	}
	if msg.To != "" && !validation.IsValidEmail(msg.To) {
		vec.AddField("to", msg.To, "invalid recipient email format")
	}
	if msg.ReplyTo != "" && !validation.IsValidEmail(msg.ReplyTo) {
		vec.AddField("reply_to", msg.ReplyTo, "invalid reply-to email format")
	}

	if vec.HasErrors() {
		return vec.ToAcademyError()
	}
	return nil
}

// New builds the sender selected by cfg.Mode.
func New(cfg *config.MailConfig, logger logging.Logger) (Sender, error) {
	switch cfg.Mode {
	case config.MailModeEmailJS:
		return NewEmailJSSender(cfg, logger), nil
	case config.MailModeStub, "":
		return NewStubSender(cfg.StubDelay, logger), nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "unknown mail mode: "+cfg.Mode)
	}
}
