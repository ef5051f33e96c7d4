package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KingdaKilla/ti-radar/internal/config"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

func TestNewServeCommand_Metadata(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}

func TestTranslateCORSConfig_ConvertsSecondsAndSetsDefaults(t *testing.T) {
	cfg := config.CORSConfig{
		AllowedOrigins:   []string{"https://example.com"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           2 * time.Minute,
	}

	got := translateCORSConfig(cfg)

	assert.Equal(t, cfg.AllowedOrigins, got.AllowedOrigins)
	assert.Equal(t, cfg.AllowedMethods, got.AllowedMethods)
	assert.True(t, got.AllowCredentials)
	assert.Equal(t, 120, got.MaxAge)
	assert.True(t, got.AllowWildcard)
	assert.Contains(t, got.ExposedHeaders, "X-Request-ID")
}

func TestOpenStoreIfConfigured_EmptyPathReturnsNil(t *testing.T) {
	db, err := openStoreIfConfigured("", logging.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestOpenStoreIfConfigured_OpensConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patents.db")
	require.NoError(t, sqlite.Migrate(sqlite.StorePatents, path))

	db, err := openStoreIfConfigured(path, logging.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()
}

func TestBuildHealthHandler_NeverNil(t *testing.T) {
	cfg := &config.Config{}

	handler := buildHealthHandler(cfg)
	assert.NotNil(t, handler)
}

func TestStaticTokenSource_DegradesGracefully(t *testing.T) {
	src := staticTokenSource{}

	assert.Equal(t, "", src.AccessToken())
	assert.False(t, src.HasRefreshToken())

	_, err := src.RefreshToken(context.Background())
	assert.Error(t, err)
}
