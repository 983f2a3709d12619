// Package server is the academy's HTTP surface: server-rendered pages, the
// contact and enrollment forms, the JSON search endpoint, and the live
// channel, behind the security, rate limit, and session middleware.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/contact"
	"github.com/bytehatacademy/academy/internal/content"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/bytehatacademy/academy/internal/middleware"
	"github.com/bytehatacademy/academy/internal/notify"
	"github.com/bytehatacademy/academy/internal/search"
	"github.com/bytehatacademy/academy/internal/session"
	"github.com/bytehatacademy/academy/internal/websocket"
)

// Server serves the academy site.
type Server struct {
	config   *config.Config
	catalog  *content.Catalog
	index    *search.Index
	sessions *session.Store
	hub      *notify.Hub
	contact  *contact.Service
	live     *websocket.Manager
	security *SecurityConfig
	limiter  *RateLimiter
	logger   logging.Logger

	handler      http.Handler
	httpServer   *http.Server
	serverMutex  sync.RWMutex
	started      time.Time
	shutdownOnce sync.Once
}

// New assembles the server. Expired sessions lose their live connections,
// then their notification channel.
func New(
	cfg *config.Config,
	catalog *content.Catalog,
	index *search.Index,
	sessions *session.Store,
	hub *notify.Hub,
	contactSvc *contact.Service,
	logger logging.Logger,
) *Server {
	if logger == nil {
		logger = logging.Nop()
	}

	security := SecurityConfigFromAppConfig(cfg, logger.WithComponent("security"))
	limiter := NewRateLimiter(RateLimitConfigFromAppConfig(cfg), logger)

	s := &Server{
		config:   cfg,
		catalog:  catalog,
		index:    index,
		sessions: sessions,
		hub:      hub,
		contact:  contactSvc,
		security: security,
		limiter:  limiter,
		logger:   logger.WithComponent("server"),
		started:  time.Now(),
	}
	s.live = websocket.NewManager(hub, index, security, limiter, websocket.Options{
		Debounce: cfg.Search.Debounce,
		ClientIP: security.ClientIP,
	}, logger)

	sessions.OnExpire(s.live.CloseSession)
	sessions.OnExpire(hub.Drop)

	s.handler = s.buildHandler()
	return s
}

// Handler is the complete middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.withSession(s.handleHome))
	mux.HandleFunc("GET /about", s.withSession(s.handleAbout))
	mux.HandleFunc("GET /courses", s.withSession(s.handleCourses))
	mux.HandleFunc("GET /courses/{slug}", s.withSession(s.handleCourse))
	mux.HandleFunc("POST /courses/{slug}/enroll", s.withSession(s.handleEnroll))
	mux.HandleFunc("GET /blog", s.withSession(s.handleBlog))
	mux.HandleFunc("GET /blog/{slug}", s.withSession(s.handleBlogPost))
	mux.HandleFunc("GET /contact", s.withSession(s.handleContactPage))
	mux.HandleFunc("POST /contact", s.withSession(s.handleContactSubmit))
	mux.HandleFunc("POST /contact/quick", s.withSession(s.handleQuickContact))
	mux.HandleFunc("GET /search", s.withSession(s.handleSearchPage))
	mux.HandleFunc("GET /api/search", s.handleSearchAPI)
	mux.HandleFunc("POST /theme", s.withSession(s.handleTheme))
	mux.HandleFunc("POST /notifications/{id}/dismiss", s.withSession(s.handleDismiss))
	mux.HandleFunc("GET /ws", s.withSession(s.handleLive))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /static/", s.staticHandler())
	mux.HandleFunc("GET /syllabi/{file}", s.handleSyllabus)
	mux.HandleFunc("/", s.withSession(s.handleNotFound))

	return mux
}

func (s *Server) buildHandler() http.Handler {
	chain := middleware.NewChain(
		middleware.Recover(s.logger),
		middleware.Logging(s.logger),
	)
	if s.config.Security.RateLimitEnabled {
		chain.Add(RateLimitMiddleware(s.limiter, s.security.ClientIP))
	}
	chain.Add(SecurityMiddleware(s.security))

	return chain.Apply(s.routes())
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.sessions.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.config.Server.ReadTimeout,
		ReadHeaderTimeout: s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Listening", "addr", ln.Addr().String(), "environment", s.config.Server.Environment)
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = s.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown closes live connections, stops background work, and drains the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		if err := s.live.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, err, "Live channel shutdown failed")
		}
		s.sessions.Stop()
		s.limiter.Stop()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
		s.hub.Close()
	})

	return shutdownErr
}
