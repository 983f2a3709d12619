// Package app assembles the academy from its configuration. The object graph
// is generated by wire; see wire.go for the provider set.
package app

import (
	"context"
	"os"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/content"
	"github.com/bytehatacademy/academy/internal/logging"
	"github.com/bytehatacademy/academy/internal/notify"
	"github.com/bytehatacademy/academy/internal/search"
	"github.com/bytehatacademy/academy/internal/server"
	"github.com/bytehatacademy/academy/internal/session"
)

// App is a fully wired site.
type App struct {
	Config  *config.Config
	Logger  logging.Logger
	Catalog *content.Catalog
	Index   *search.Index
	Server  *server.Server
}

// New bundles the wired components.
func New(cfg *config.Config, logger logging.Logger, catalog *content.Catalog, index *search.Index, srv *server.Server) *App {
	return &App{
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Index:   index,
		Server:  srv,
	}
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info(ctx, "Starting ByteHat Academy",
		"addr", a.Config.Addr(),
		"courses", len(a.Catalog.Courses()),
		"articles", len(a.Catalog.Articles()),
		"mail_mode", a.Config.Mail.Mode)
	return a.Server.Start(ctx)
}

// ProvideLogger builds the process logger from the logging section.
func ProvideLogger(cfg *config.Config) logging.Logger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Logging.Format,
		Output:    os.Stderr,
		Component: "academy",
	})
}

// ProvideCatalog loads the configured catalog, or the built-in one when no
// path is set.
func ProvideCatalog(cfg *config.Config) (*content.Catalog, error) {
	return content.Load(cfg.Content.CatalogPath)
}

func provideHub(cfg *config.Config) *notify.Hub {
	return notify.NewHub(cfg.Notifications.DefaultDuration)
}

func provideSessionStore(cfg *config.Config, logger logging.Logger) *session.Store {
	return session.NewStore(&cfg.Session, logger)
}

func provideMailConfig(cfg *config.Config) *config.MailConfig {
	return &cfg.Mail
}
