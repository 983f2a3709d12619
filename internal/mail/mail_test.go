package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() Message {
	return Message{
		To:       "bytehatacademy@gmail.com",
		FromName: "Jo",
		Message:  "I would like to know more.",
		ReplyTo:  "jo@x.com",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr string
	}{
		{name: "valid", mutate: func(*Message) {}},
		{name: "missing name", mutate: func(m *Message) { m.FromName = "" }, wantErr: "missing required email fields"},
		{name: "bad recipient", mutate: func(m *Message) { m.To = "nobody" }, wantErr: "invalid recipient email format"},
		{name: "bad reply-to", mutate: func(m *Message) { m.ReplyTo = "jo@x" }, wantErr: "invalid reply-to email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(&msg)
			err := Validate(msg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestNormalize(t *testing.T) {
	msg := Normalize(Message{To: " a@b.co ", FromName: "\tJo ", Message: " hi \n", ReplyTo: " c@d.io"})
	assert.Equal(t, Message{To: "a@b.co", FromName: "Jo", Message: "hi", ReplyTo: "c@d.io"}, msg)
}

func emailJSConfig(endpoint string) *config.MailConfig {
	return &config.MailConfig{
		Mode:       config.MailModeEmailJS,
		Endpoint:   endpoint,
		PublicKey:  "pub-key",
		ServiceID:  "service_1",
		TemplateID: "template_1",
		Timeout:    2 * time.Second,
	}
}

func TestEmailJSSenderSuccess(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	s := NewEmailJSSender(emailJSConfig(srv.URL), nil)
	resp, err := s.Send(context.Background(), validMessage())
	require.NoError(t, err)

	assert.Equal(t, Response{Status: 200, Text: "OK"}, resp)
	assert.Equal(t, "service_1", got.ServiceID)
	assert.Equal(t, "template_1", got.TemplateID)
	assert.Equal(t, "pub-key", got.UserID)
	assert.Equal(t, "jo@x.com", got.TemplateParams.ReplyTo)
	assert.Equal(t, "Jo", got.TemplateParams.FromName)
}

func TestEmailJSSenderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The template ID is invalid"))
	}))
	defer srv.Close()

	s := NewEmailJSSender(emailJSConfig(srv.URL), nil)
	resp, err := s.Send(context.Background(), validMessage())
	require.Error(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTransport))
	assert.Equal(t, errors.MsgSendFailed, errors.UserMessage(err))
}

func TestEmailJSSenderNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := NewEmailJSSender(emailJSConfig(url), nil)
	_, err := s.Send(context.Background(), validMessage())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTransport))
}

func TestEmailJSSenderValidatesFirst(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	s := NewEmailJSSender(emailJSConfig(srv.URL), nil)
	msg := validMessage()
	msg.ReplyTo = "broken"
	_, err := s.Send(context.Background(), msg)

	require.Error(t, err)
	assert.False(t, called)
}

func TestStubSender(t *testing.T) {
	s := NewStubSender(10*time.Millisecond, nil)
	resp, err := s.Send(context.Background(), validMessage())
	require.NoError(t, err)
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, "stub: email accepted", resp.Text)
}

func TestStubSenderHonoursContext(t *testing.T) {
	s := NewStubSender(time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Send(ctx, validMessage())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTransport))
}

func TestNewSelectsSender(t *testing.T) {
	stub, err := New(&config.MailConfig{Mode: config.MailModeStub}, nil)
	require.NoError(t, err)
	assert.IsType(t, &StubSender{}, stub)

	live, err := New(emailJSConfig("https://api.emailjs.com/api/v1.0/email/send"), nil)
	require.NoError(t, err)
	assert.IsType(t, &EmailJSSender{}, live)

	_, err = New(&config.MailConfig{Mode: "smtp"}, nil)
	assert.Error(t, err)
}
