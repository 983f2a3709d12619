package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytehatacademy/academy/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	return cfg
}

func TestInitialize(t *testing.T) {
	a, err := Initialize(loadConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, a.Server)
	assert.NotNil(t, a.Logger)
	assert.Len(t, a.Catalog.Courses(), 6)
	assert.True(t, a.Index.Search("cloud").Active)
}

func TestInitializeBadCatalogPath(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Content.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Initialize(cfg)
	assert.Error(t, err)
}

func TestInitializeCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
courses:
  - slug: web-pentest
    title: Web Application Pentesting
    description: Break and fix web apps.
    duration: 8 weeks
    level: Intermediate
    status: open
articles: []
`), 0o644))

	cfg := loadConfig(t)
	cfg.Content.CatalogPath = path

	a, err := Initialize(cfg)
	require.NoError(t, err)
	require.Len(t, a.Catalog.Courses(), 1)
	assert.Equal(t, "web-pentest", a.Catalog.Courses()[0].Slug)
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := Initialize(loadConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
