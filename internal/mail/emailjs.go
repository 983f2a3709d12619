package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
)

// maxResponseText bounds how much of a provider reply is kept for logs.
const maxResponseText = 512

// EmailJSSender posts messages to the EmailJS REST endpoint.
type EmailJSSender struct {
	endpoint   string
	publicKey  string
	serviceID  string
	templateID string
	httpClient *http.Client
	logger     logging.Logger
}

// NewEmailJSSender creates a sender from the mail configuration.
func NewEmailJSSender(cfg *config.MailConfig, logger logging.Logger) *EmailJSSender {
	if logger == nil {
		logger = logging.Nop()
	}
	return &EmailJSSender{
		endpoint:   cfg.Endpoint,
		publicKey:  cfg.PublicKey,
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.WithComponent("mail"),
	}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	ToEmail  string `json:"to_email"`
	FromName string `json:"from_name"`
	Message  string `json:"message"`
	ReplyTo  string `json:"reply_to"`
}

// Send validates msg and posts it to the provider.
func (s *EmailJSSender) Send(ctx context.Context, msg Message) (Response, error) {
	msg = Normalize(msg)
	if err := Validate(msg); err != nil {
		return Response{}, err
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:  s.serviceID,
		TemplateID: s.templateID,
		UserID:     s.publicKey,
		TemplateParams: templateParams{
			ToEmail:  msg.To,
			FromName: msg.FromName,
			Message:  msg.Message,
			ReplyTo:  msg.ReplyTo,
		},
	})
	if err != nil {
		return Response{}, errors.ErrSendFailed(fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, errors.ErrSendFailed(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Response{}, errors.ErrSendFailed(fmt.Errorf("perform request: %w", err))
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseText))
	out := Response{Status: resp.StatusCode, Text: strings.TrimSpace(string(text))}

	if resp.StatusCode != StatusOK {
		return out, errors.ErrSendFailed(fmt.Errorf("provider returned status %d", resp.StatusCode)).
			WithContext("status", resp.StatusCode).
			WithContext("body", out.Text)
	}

	s.logger.Info(ctx, "Email accepted by provider",
		"status", out.Status,
		"message_length", len(msg.Message))
	return out, nil
}
