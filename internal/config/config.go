// Package config provides configuration management for the academy site
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable overrides
// with the ACADEMY_ prefix, defaults, and validation. It covers the HTTP
// server, security headers and rate limiting, browser sessions, the contact
// flow, the outbound mail provider, the content catalog, notifications,
// search, and logging.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete site configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Security      SecurityConfig      `mapstructure:"security"`
	Session       SessionConfig       `mapstructure:"session"`
	Contact       ContactConfig       `mapstructure:"contact"`
	Mail          MailConfig          `mapstructure:"mail"`
	Content       ContentConfig       `mapstructure:"content"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Search        SearchConfig        `mapstructure:"search"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ServerConfig is the HTTP listener and origin policy.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	Environment    string        `mapstructure:"environment"`
	BaseURL        string        `mapstructure:"base_url"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// SecurityConfig holds rate limiting and proxy trust settings.
type SecurityConfig struct {
	RateLimitEnabled  bool     `mapstructure:"rate_limit_enabled"`
	RequestsPerMinute int      `mapstructure:"requests_per_minute"`
	BurstSize         int      `mapstructure:"burst_size"`
	ExtraScriptSrc    []string `mapstructure:"extra_script_src"`
	ExtraConnectSrc   []string `mapstructure:"extra_connect_src"`
	TrustedProxies    []string `mapstructure:"trusted_proxies"`
}

// SessionConfig controls the session and theme cookies.
type SessionConfig struct {
	CookieName      string        `mapstructure:"cookie_name"`
	ThemeCookieName string        `mapstructure:"theme_cookie_name"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupSchedule string        `mapstructure:"cleanup_schedule"`
	Secure          bool          `mapstructure:"secure"`
}

// ContactConfig is where messages go and how often a session may send.
type ContactConfig struct {
	Recipient   string        `mapstructure:"recipient"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// Mail modes.
const (
	MailModeStub    = "stub"
	MailModeEmailJS = "emailjs"
)

// MailConfig selects and configures the mail sender.
type MailConfig struct {
	Mode       string        `mapstructure:"mode"`
	Endpoint   string        `mapstructure:"endpoint"`
	PublicKey  string        `mapstructure:"public_key"`
	ServiceID  string        `mapstructure:"service_id"`
	TemplateID string        `mapstructure:"template_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
	StubDelay  time.Duration `mapstructure:"stub_delay"`
}

// ContentConfig locates the catalog and syllabus files.
type ContentConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
	SyllabusDir string `mapstructure:"syllabus_dir"`
}

// NotificationsConfig sets toast timing.
type NotificationsConfig struct {
	DefaultDuration time.Duration `mapstructure:"default_duration"`
}

// SearchConfig tunes live search.
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingConfig sets log level and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every default on v. Keeping defaults in viper means
// IsSet-style overrides from files, env, and flags all layer on top.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.base_url", "https://bytehatacademy.com")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("security.rate_limit_enabled", true)
	v.SetDefault("security.requests_per_minute", 300)
	v.SetDefault("security.burst_size", 60)
	v.SetDefault("security.trusted_proxies", []string{})

	v.SetDefault("session.cookie_name", "academy_session")
	v.SetDefault("session.theme_cookie_name", "academy_theme")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.cleanup_schedule", "@every 10m")
	v.SetDefault("session.secure", false)

	v.SetDefault("contact.recipient", "bytehatacademy@gmail.com")
	v.SetDefault("contact.min_interval", 30*time.Second)

	v.SetDefault("mail.mode", MailModeStub)
	v.SetDefault("mail.endpoint", "https://api.emailjs.com/api/v1.0/email/send")
	v.SetDefault("mail.timeout", 10*time.Second)
	v.SetDefault("mail.stub_delay", 500*time.Millisecond)

	v.SetDefault("content.catalog_path", "")
	v.SetDefault("content.syllabus_dir", "syllabi")
	v.SetDefault("notifications.default_duration", 3*time.Second)
	v.SetDefault("search.debounce", 300*time.Millisecond)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// EnvPrefix is the prefix for environment overrides, e.g. ACADEMY_SERVER_PORT.
const EnvPrefix = "ACADEMY"

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvKeyReplacer maps viper keys onto environment variable names.
func EnvKeyReplacer() *strings.Replacer {
	return envReplacer
}

// Load reads the global viper instance into a validated Config.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads v into a validated Config.
func LoadFrom(v *viper.Viper) (*Config, error) {
	config, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Decode reads v into a Config without validating it.
func Decode(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Origins set via env arrive as one comma list (workaround for viper slice handling)
	config.Server.AllowedOrigins = splitList(strings.Join(config.Server.AllowedOrigins, ","))

	// log-level flag on the root command wins over the file value
	if v.IsSet("log-level") {
		config.Logging.Level = v.GetString("log-level")
	}

	config.Mail.Mode = strings.ToLower(strings.TrimSpace(config.Mail.Mode))

	return &config, nil
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction reports whether strict production policies apply.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
