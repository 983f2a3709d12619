//go:build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/bytehatacademy/academy/internal/contact"
	"github.com/bytehatacademy/academy/internal/mail"
	"github.com/bytehatacademy/academy/internal/search"
	"github.com/bytehatacademy/academy/internal/server"
)

// Initialize wires the site for cfg.
func Initialize(cfg *config.Config) (*App, error) {
	wire.Build(
		ProvideLogger,
		ProvideCatalog,
		search.NewIndex,
		provideHub,
		provideSessionStore,
		provideMailConfig,
		mail.New,
		contact.NewService,
		server.New,
		New,
	)
	return nil, nil
}
