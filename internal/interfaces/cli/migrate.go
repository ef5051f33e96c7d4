package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

// NewMigrateCommand applies the embedded schema to the three configured
// local SQLite stores, creating each file if it does not already exist.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply the embedded schema to the patents, CORDIS, and GLEIF-cache stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			targets := []struct {
				kind sqlite.StoreKind
				path string
			}{
				{sqlite.StorePatents, cliCtx.Config.Store.PatentsDBPath},
				{sqlite.StoreCordis, cliCtx.Config.Store.CordisDBPath},
				{sqlite.StoreGleifCache, cliCtx.Config.Store.GleifCacheDBPath},
			}

			for _, target := range targets {
				if target.path == "" {
					cliCtx.Logger.Warn("skipping migration: store path not configured",
						logging.String("store", string(target.kind)))
					continue
				}

				if err := sqlite.Migrate(target.kind, target.path); err != nil {
					return fmt.Errorf("migrate %s store at %q: %w", target.kind, target.path, err)
				}

				cliCtx.Logger.Info("store migrated",
					logging.String("store", string(target.kind)),
					logging.String("path", target.path))
			}

			return nil
		},
	}
}
