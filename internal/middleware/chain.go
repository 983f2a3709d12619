// Package middleware composes the HTTP middleware stack.
package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/bytehatacademy/academy/internal/logging"
)

// Middleware represents a single middleware function
type Middleware func(http.Handler) http.Handler

// Chain is an ordered middleware stack. The first added middleware is the
// outermost: requests flow through the chain in the order it was built.
//
// Invariants:
//   - middlewares is never nil
//   - Apply does not modify the chain
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a chain from mws, outermost first.
func NewChain(mws ...Middleware) *Chain {
	c := &Chain{middlewares: make([]Middleware, 0, len(mws)+4)}
	for _, mw := range mws {
		c.Add(mw)
	}
	return c
}

// Add appends a middleware inside the ones already added. nil is ignored.
func (c *Chain) Add(mw Middleware) *Chain {
	if mw != nil {
		c.middlewares = append(c.middlewares, mw)
	}
	return c
}

// Len returns the number of middlewares in the chain.
func (c *Chain) Len() int {
	return len(c.middlewares)
}

// Apply wraps handler with every middleware.
func (c *Chain) Apply(handler http.Handler) http.Handler {
	if handler == nil {
		panic("middleware.Chain.Apply: handler cannot be nil")
	}

	wrapped := handler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		wrapped = c.middlewares[i](wrapped)
		if wrapped == nil {
			panic(fmt.Sprintf("middleware.Chain.Apply: middleware at index %d returned nil handler", i))
		}
	}
	return wrapped
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is needed by the websocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Logging logs one line per request.
func Logging(logger logging.Logger) Middleware {
	logger = logger.WithComponent("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info(r.Context(), "Request",
				"method", r.Method,
				"path", logging.SanitizeForLog(r.URL.Path),
				"status", status,
				"bytes", rec.bytes,
				"duration", time.Since(start))
		})
	}
}

// Recover turns a handler panic into a 500 and logs it.
func Recover(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error(r.Context(),
						errors.NewInternalError(errors.ErrCodeInternalError, fmt.Sprintf("panic: %v", v), nil),
						"Handler panicked",
						"path", logging.SanitizeForLog(r.URL.Path))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
