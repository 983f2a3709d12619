// Package internal contains the implementation packages of the academy site.
//
// # Package Organization
//
//   - app: Wires the object graph from configuration
//   - config: Viper-backed configuration and its validation
//   - contact: Contact, quick contact, and enrollment submission flow
//   - content: Course and article catalog with markdown rendering
//   - csrf: Per-session form tokens
//   - errors: Structured errors and the text shown to visitors
//   - logging: Structured slog logging
//   - mail: Email delivery through the provider API or a stub
//   - middleware: HTTP middleware chain, request logging, panic recovery
//   - notify: Per-session toast notifications
//   - search: Course and article search
//   - server: Routes, handlers, security headers, rate limiting
//   - session: Cookie sessions with cron-driven expiry
//   - validation: Form field and URL validation
//   - version: Build metadata
//   - views: Server-rendered templ components and static assets
//   - websocket: Live channel for toasts and search-as-you-type
package internal
