package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/bytehatacademy/academy/internal/middleware"
	"github.com/bytehatacademy/academy/internal/views"
)

// SecurityConfig holds the response security policy.
type SecurityConfig struct {
	CSP                 *CSPConfig
	HSTS                *HSTSConfig
	XFrameOptions       string
	XContentTypeNoSniff bool
	XSSProtection       string
	ReferrerPolicy      string
	PermissionsPolicy   *PermissionsPolicyConfig
	AllowedOrigins      []string
	// ClientIP names the client in security logs. nil uses the peer address.
	ClientIP *middleware.ClientIP
	Logger   logging.Logger
}

// CSPConfig holds Content Security Policy configuration
type CSPConfig struct {
	DefaultSrc []string
	ScriptSrc  []string
	StyleSrc   []string
	ImgSrc     []string
	FontSrc    []string
	ConnectSrc []string
	FrameSrc   []string
	ObjectSrc  []string
	BaseURI    []string
	FormAction []string
}

// HSTSConfig holds HTTP Strict Transport Security configuration
type HSTSConfig struct {
	MaxAge            int
	IncludeSubDomains bool
}

// PermissionsPolicyConfig lists the origins allowed per browser feature.
// An empty list denies the feature.
type PermissionsPolicyConfig struct {
	Camera      []string
	Microphone  []string
	Geolocation []string
}

// DefaultSecurityConfig returns the site policy. The CSP admits the mail
// provider and the font CDN the pages use.
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		CSP: &CSPConfig{
			DefaultSrc: []string{"'self'"},
			ScriptSrc:  []string{"'self'", "'unsafe-inline'", "https://emailjs.com"},
			StyleSrc:   []string{"'self'", "'unsafe-inline'", "https://fonts.googleapis.com"},
			ImgSrc:     []string{"'self'", "https:", "data:"},
			FontSrc:    []string{"'self'", "https://fonts.gstatic.com"},
			ConnectSrc: []string{"'self'", "https://api.emailjs.com"},
			FrameSrc:   []string{"'self'"},
			ObjectSrc:  []string{"'none'"},
		},
		HSTS: &HSTSConfig{
			MaxAge:            31536000, // 1 year
			IncludeSubDomains: true,
		},
		XFrameOptions:       "DENY",
		XContentTypeNoSniff: true,
		XSSProtection:       "1; mode=block",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy:   &PermissionsPolicyConfig{},
	}
}

// SecurityConfigFromAppConfig creates security config from application config
func SecurityConfigFromAppConfig(cfg *config.Config, logger logging.Logger) *SecurityConfig {
	sc := DefaultSecurityConfig()
	sc.Logger = logger

	ips, err := middleware.NewClientIP(cfg.Security.TrustedProxies)
	if err != nil && logger != nil {
		logger.Warn(context.Background(), err, "Ignoring trusted proxies")
	}
	sc.ClientIP = ips

	sc.CSP.ScriptSrc = append(sc.CSP.ScriptSrc, cfg.Security.ExtraScriptSrc...)
	sc.CSP.ConnectSrc = append(sc.CSP.ConnectSrc, cfg.Security.ExtraConnectSrc...)

	if cfg.IsProduction() {
		sc.CSP.BaseURI = []string{"'self'"}
		sc.CSP.FormAction = []string{"'self'"}
	} else {
		// HSTS on a dev host sticks to localhost for a year
		sc.HSTS = nil
	}

	sc.AllowedOrigins = append(sc.AllowedOrigins, cfg.Server.AllowedOrigins...)
	if cfg.Server.BaseURL != "" {
		if u, err := url.Parse(cfg.Server.BaseURL); err == nil && u.Host != "" {
			sc.AllowedOrigins = append(sc.AllowedOrigins, u.Scheme+"://"+u.Host)
		}
	}
	if !cfg.IsProduction() {
		sc.AllowedOrigins = append(sc.AllowedOrigins,
			fmt.Sprintf("http://localhost:%d", cfg.Server.Port),
			fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port))
	}

	return sc
}

// IsAllowedOrigin reports whether origin is on the allow list.
func (sc *SecurityConfig) IsAllowedOrigin(origin string) bool {
	for _, allowed := range sc.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// MetaTags mirrors the policy headers for the page head.
func (sc *SecurityConfig) MetaTags() []views.MetaTag {
	var tags []views.MetaTag
	if sc.CSP != nil {
		tags = append(tags, views.MetaTag{HTTPEquiv: "Content-Security-Policy", Content: buildCSPHeader(sc.CSP)})
	}
	if sc.XContentTypeNoSniff {
		tags = append(tags, views.MetaTag{HTTPEquiv: "X-Content-Type-Options", Content: "nosniff"})
	}
	if sc.XFrameOptions != "" {
		tags = append(tags, views.MetaTag{HTTPEquiv: "X-Frame-Options", Content: sc.XFrameOptions})
	}
	if sc.XSSProtection != "" {
		tags = append(tags, views.MetaTag{HTTPEquiv: "X-XSS-Protection", Content: sc.XSSProtection})
	}
	if sc.ReferrerPolicy != "" {
		tags = append(tags, views.MetaTag{HTTPEquiv: "Referrer-Policy", Content: sc.ReferrerPolicy})
	}
	if sc.PermissionsPolicy != nil {
		tags = append(tags, views.MetaTag{HTTPEquiv: "Permissions-Policy", Content: buildPermissionsPolicyHeader(sc.PermissionsPolicy)})
	}
	return tags
}

// SecurityMiddleware sets the policy headers and rejects state-changing
// requests from foreign origins.
func SecurityMiddleware(secConfig *SecurityConfig) func(http.Handler) http.Handler {
	if secConfig == nil {
		secConfig = DefaultSecurityConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applySecurityHeaders(w, r, secConfig)

			if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions {
				if !isValidOrigin(r, secConfig.AllowedOrigins) {
					if secConfig.Logger != nil {
						secConfig.Logger.Warn(r.Context(),
							errors.ErrInvalidOrigin(r.Header.Get("Origin")),
							"Security: Invalid origin",
							"referer", logging.SanitizeForLog(r.Header.Get("Referer")),
							"ip", secConfig.ClientIP.Resolve(r))
					}
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func applySecurityHeaders(w http.ResponseWriter, r *http.Request, config *SecurityConfig) {
	h := w.Header()

	if config.CSP != nil {
		h.Set("Content-Security-Policy", buildCSPHeader(config.CSP))
	}

	if config.HSTS != nil && r.TLS != nil {
		h.Set("Strict-Transport-Security", buildHSTSHeader(config.HSTS))
	}

	if config.XFrameOptions != "" {
		h.Set("X-Frame-Options", config.XFrameOptions)
	}

	if config.XContentTypeNoSniff {
		h.Set("X-Content-Type-Options", "nosniff")
	}

	if config.XSSProtection != "" {
		h.Set("X-XSS-Protection", config.XSSProtection)
	}

	if config.ReferrerPolicy != "" {
		h.Set("Referrer-Policy", config.ReferrerPolicy)
	}

	if config.PermissionsPolicy != nil {
		h.Set("Permissions-Policy", buildPermissionsPolicyHeader(config.PermissionsPolicy))
	}

	h.Set("Cross-Origin-Opener-Policy", "same-origin")
}

func buildCSPHeader(csp *CSPConfig) string {
	var directives []string

	addDirective := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, fmt.Sprintf("%s %s", name, strings.Join(values, " ")))
		}
	}

	addDirective("default-src", csp.DefaultSrc)
	addDirective("script-src", csp.ScriptSrc)
	addDirective("style-src", csp.StyleSrc)
	addDirective("img-src", csp.ImgSrc)
	addDirective("font-src", csp.FontSrc)
	addDirective("connect-src", csp.ConnectSrc)
	addDirective("frame-src", csp.FrameSrc)
	addDirective("object-src", csp.ObjectSrc)
	addDirective("base-uri", csp.BaseURI)
	addDirective("form-action", csp.FormAction)

	return strings.Join(directives, "; ")
}

func buildHSTSHeader(hsts *HSTSConfig) string {
	header := fmt.Sprintf("max-age=%d", hsts.MaxAge)
	if hsts.IncludeSubDomains {
		header += "; includeSubDomains"
	}
	return header
}

func buildPermissionsPolicyHeader(pp *PermissionsPolicyConfig) string {
	var policies []string

	addPolicy := func(name string, values []string) {
		policies = append(policies, fmt.Sprintf("%s=(%s)", name, strings.Join(values, " ")))
	}

	addPolicy("camera", pp.Camera)
	addPolicy("microphone", pp.Microphone)
	addPolicy("geolocation", pp.Geolocation)

	return strings.Join(policies, ", ")
}

// isValidOrigin validates the request origin against allowed origins. Same
// origin form posts from some browsers omit Origin, so Referer is checked
// as a fallback.
func isValidOrigin(r *http.Request, allowedOrigins []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		if referer := r.Header.Get("Referer"); referer != "" {
			if refererURL, err := url.Parse(referer); err == nil {
				origin = fmt.Sprintf("%s://%s", refererURL.Scheme, refererURL.Host)
			}
		}
	}

	if origin == "" {
		return false
	}

	for _, allowed := range allowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}
