package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, MailModeStub, cfg.Mail.Mode)
	assert.Equal(t, 3*time.Second, cfg.Notifications.DefaultDuration)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 30*time.Second, cfg.Contact.MinInterval)
	assert.Equal(t, "bytehatacademy@gmail.com", cfg.Contact.Recipient)
	assert.Equal(t, "@every 10m", cfg.Session.CleanupSchedule)
	assert.True(t, cfg.Security.RateLimitEnabled)
	assert.Empty(t, cfg.Security.TrustedProxies)
}

func TestLoadFrom_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".academy.yml")
	content := `
server:
  port: 9090
  environment: production
  allowed_origins:
    - https://bytehatacademy.com
mail:
  mode: EmailJS
  public_key: pk_123
  service_id: service_abc
  template_id: template_xyz
contact:
  min_interval: 1m
security:
  trusted_proxies:
    - 10.0.0.0/8
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://bytehatacademy.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, MailModeEmailJS, cfg.Mail.Mode)
	assert.Equal(t, "service_abc", cfg.Mail.ServiceID)
	assert.Equal(t, time.Minute, cfg.Contact.MinInterval)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Security.TrustedProxies)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("ACADEMY_SERVER_PORT", "7070")
	t.Setenv("ACADEMY_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	v := viper.New()
	v.SetEnvPrefix("ACADEMY")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadFrom_LogLevelFlag(t *testing.T) {
	v := viper.New()
	v.Set("log-level", "debug")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
		field string
	}{
		{"port out of range", "server.port", 70000, "server.port"},
		{"dangerous host", "server.host", "localhost;rm", "server.host"},
		{"unknown environment", "server.environment", "staging", "server.environment"},
		{"unknown mail mode", "mail.mode", "smtp", "mail.mode"},
		{"emailjs without ids", "mail.mode", "emailjs", "mail.public_key"},
		{"bad recipient", "contact.recipient", "not-an-email", "contact.recipient"},
		{"bad cron", "session.cleanup_schedule", "every now and then", "session.cleanup_schedule"},
		{"bad log format", "logging.format", "xml", "logging.format"},
		{"bad trusted proxy", "security.trusted_proxies", []string{"10.0.0.0/99"}, "security.trusted_proxies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := LoadFrom(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateConfigWithDetails_Warnings(t *testing.T) {
	v := viper.New()
	v.Set("contact.min_interval", "0s")
	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	result := ValidateConfigWithDetails(cfg)
	assert.True(t, result.Valid)
	assert.True(t, result.HasWarnings())
	assert.Contains(t, result.String(), "contact.min_interval")
	assert.Contains(t, result.String(), "mail.mode")
}
