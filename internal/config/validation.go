package config

import (
	"fmt"
	"strings"

	"github.com/bytehatacademy/academy/internal/middleware"
	"github.com/bytehatacademy/academy/internal/validation"
	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("      hint: %s\n", suggestion))
			}
		}
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("      hint: %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

func (vr *ValidationResult) addError(field string, value interface{}, msg string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: msg, Suggestions: suggestions})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, msg string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: msg, Suggestions: suggestions})
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateServerConfigDetails(&config.Server, result)
	validateSecurityConfigDetails(&config.Security, result)
	validateSessionConfigDetails(&config.Session, result)
	validateContactConfigDetails(&config.Contact, result)
	validateMailConfigDetails(&config.Mail, result)
	validateTimingDetails(config, result)

	result.Valid = !result.HasErrors()

	return result
}

// validateConfig returns the first validation error, if any.
func validateConfig(config *Config) error {
	result := ValidateConfigWithDetails(config)
	if result.HasErrors() {
		first := result.Errors[0]
		return &first
	}
	return nil
}

func validateServerConfigDetails(config *ServerConfig, result *ValidationResult) {
	// allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		result.addError("server.port", config.Port,
			fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			"Use a port between 1024-65535 for non-privileged access")
	} else if config.Port > 0 && config.Port < 1024 {
		result.addWarning("server.port", config.Port, "port below 1024 requires elevated privileges")
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				result.addError("server.host", config.Host, "host contains dangerous character: "+char)
				break
			}
		}
	}

	switch config.Environment {
	case "development", "production", "test":
	default:
		result.addError("server.environment", config.Environment,
			"environment must be development, production, or test")
	}

	if config.BaseURL != "" {
		if err := validation.ValidateURL(config.BaseURL); err != nil {
			result.addError("server.base_url", config.BaseURL, err.Error())
		}
	}

	for _, origin := range config.AllowedOrigins {
		if err := validation.ValidateURL(origin); err != nil {
			result.addError("server.allowed_origins", origin, err.Error())
		}
	}
}

func validateSecurityConfigDetails(config *SecurityConfig, result *ValidationResult) {
	if _, err := middleware.NewClientIP(config.TrustedProxies); err != nil {
		result.addError("security.trusted_proxies", config.TrustedProxies, err.Error(),
			"list proxy addresses or CIDR ranges, e.g. 10.0.0.0/8")
	}
	if !config.RateLimitEnabled {
		return
	}
	if config.RequestsPerMinute <= 0 {
		result.addError("security.requests_per_minute", config.RequestsPerMinute, "must be positive when rate limiting is enabled")
	}
	if config.BurstSize <= 0 {
		result.addError("security.burst_size", config.BurstSize, "must be positive when rate limiting is enabled")
	}
}

func validateSessionConfigDetails(config *SessionConfig, result *ValidationResult) {
	if strings.TrimSpace(config.CookieName) == "" {
		result.addError("session.cookie_name", config.CookieName, "cookie name cannot be empty")
	}
	if config.TTL <= 0 {
		result.addError("session.ttl", config.TTL, "session ttl must be positive")
	}
	if _, err := cron.ParseStandard(config.CleanupSchedule); err != nil {
		result.addError("session.cleanup_schedule", config.CleanupSchedule, err.Error(),
			"Use a descriptor such as \"@every 10m\" or a five-field cron expression")
	}
}

func validateContactConfigDetails(config *ContactConfig, result *ValidationResult) {
	if !validation.IsValidEmail(config.Recipient) {
		result.addError("contact.recipient", config.Recipient, "recipient must be a valid email address")
	}
	if config.MinInterval < 0 {
		result.addError("contact.min_interval", config.MinInterval, "minimum interval cannot be negative")
	} else if config.MinInterval == 0 {
		result.addWarning("contact.min_interval", config.MinInterval, "submission rate limiting is disabled")
	}
}

func validateMailConfigDetails(config *MailConfig, result *ValidationResult) {
	switch config.Mode {
	case MailModeStub:
		result.addWarning("mail.mode", config.Mode, "messages are logged, not delivered",
			"Set mail.mode to emailjs and provide provider ids to deliver mail")
	case MailModeEmailJS:
		if err := validation.ValidateURL(config.Endpoint); err != nil {
			result.addError("mail.endpoint", config.Endpoint, err.Error())
		}
		if config.PublicKey == "" {
			result.addError("mail.public_key", "", "public key is required in emailjs mode")
		}
		if config.ServiceID == "" {
			result.addError("mail.service_id", "", "service id is required in emailjs mode")
		}
		if config.TemplateID == "" {
			result.addError("mail.template_id", "", "template id is required in emailjs mode")
		}
	default:
		result.addError("mail.mode", config.Mode, "mail mode must be stub or emailjs")
	}

	if config.Timeout <= 0 {
		result.addError("mail.timeout", config.Timeout, "timeout must be positive")
	}
}

func validateTimingDetails(config *Config, result *ValidationResult) {
	if config.Notifications.DefaultDuration <= 0 {
		result.addError("notifications.default_duration", config.Notifications.DefaultDuration, "duration must be positive")
	}
	if config.Search.Debounce < 0 {
		result.addError("search.debounce", config.Search.Debounce, "debounce cannot be negative")
	}
	switch config.Logging.Format {
	case "text", "json":
	default:
		result.addError("logging.format", config.Logging.Format, "format must be text or json")
	}
}
