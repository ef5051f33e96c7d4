package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KingdaKilla/ti-radar/internal/config"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

func TestNewMigrateCommand_Metadata(t *testing.T) {
	cmd := NewMigrateCommand()

	assert.Equal(t, "migrate", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
}

func TestNewMigrateCommand_AppliesSchemaToConfiguredStores(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{}
	cfg.Store.PatentsDBPath = filepath.Join(tmpDir, "patents.db")

	cliCtx := &CLIContext{Config: cfg, Logger: logging.NewNopLogger()}
	cmd := NewMigrateCommand()
	ctx := context.WithValue(context.Background(), cliContextKey{}, cliCtx)
	cmd.SetContext(ctx)

	require.NoError(t, cmd.RunE(cmd, nil))

	_, statErr := os.Stat(cfg.Store.PatentsDBPath)
	assert.NoError(t, statErr, "migrate should create the patents store file")
}

func TestNewMigrateCommand_SkipsUnconfiguredStores(t *testing.T) {
	cfg := &config.Config{}
	cliCtx := &CLIContext{Config: cfg, Logger: logging.NewNopLogger()}
	cmd := NewMigrateCommand()
	ctx := context.WithValue(context.Background(), cliContextKey{}, cliCtx)
	cmd.SetContext(ctx)

	assert.NoError(t, cmd.RunE(cmd, nil))
}

func TestNewMigrateCommand_MissingCLIContextErrors(t *testing.T) {
	cmd := NewMigrateCommand()
	cmd.SetContext(context.Background())

	assert.Error(t, cmd.RunE(cmd, nil))
}
