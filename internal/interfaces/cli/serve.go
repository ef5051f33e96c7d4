package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KingdaKilla/ti-radar/internal/application/radar"
	"github.com/KingdaKilla/ti-radar/internal/config"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/adapters"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/database/sqlite"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
	tiradarhttp "github.com/KingdaKilla/ti-radar/internal/interfaces/http"
	"github.com/KingdaKilla/ti-radar/internal/interfaces/http/handlers"
	"github.com/KingdaKilla/ti-radar/internal/interfaces/http/middleware"
)

// NewServeCommand builds and runs the HTTP API server until interrupted.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the radar HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cliCtx.Config, cliCtx.Logger)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	patentDB, err := openStoreIfConfigured(cfg.Store.PatentsDBPath, logger)
	if err != nil {
		return fmt.Errorf("open patents store: %w", err)
	}
	if patentDB != nil {
		defer patentDB.Close()
	}

	cordisDB, err := openStoreIfConfigured(cfg.Store.CordisDBPath, logger)
	if err != nil {
		return fmt.Errorf("open cordis store: %w", err)
	}
	if cordisDB != nil {
		defer cordisDB.Close()
	}

	var patentRepo *sqlite.PatentStore
	if patentDB != nil {
		patentRepo = sqlite.NewPatentStore(ctx, patentDB, logger)
	}

	var projectStore *sqlite.ProjectStore
	if cordisDB != nil {
		projectStore = sqlite.NewProjectStore(cordisDB, logger)
	}

	publications := adapters.NewPublicationAdapter(cfg.Adapter.OpenAIREBaseURL, staticTokenSource{}, logger)
	papers := adapters.NewPaperSearchAdapter(cfg.Adapter.SemanticScholarBaseURL)

	dc := radar.NewDataContext(ctx, patentRepo, projectStore, publications, papers, logger)

	healthChecker := buildHealthHandler(cfg)
	metadataHandler := handlers.NewMetadataHandler(
		cfg.Store.PatentsDBPath, cfg.Store.CordisDBPath, cfg.Store.GleifCacheDBPath,
		cfg.Adapter.OpenAIREBaseURL, cfg.Adapter.SemanticScholarBaseURL, cfg.Adapter.GleifAPIBaseURL,
	)
	suggestionsHandler := handlers.NewSuggestionsHandler(patentRepo)
	radarHandler := handlers.NewRadarHandler(dc)

	router := tiradarhttp.NewRouter(tiradarhttp.RouterConfig{
		HealthHandler:      healthChecker,
		MetadataHandler:    metadataHandler,
		SuggestionsHandler: suggestionsHandler,
		RadarHandler:       radarHandler,
		CORSConfig:         translateCORSConfig(cfg.CORS),
		LoggingConfig:      middleware.DefaultLoggingConfig(),
		Logger:             logger,
	})

	server := tiradarhttp.NewServer(tiradarhttp.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	return server.Start(ctx)
}

func openStoreIfConfigured(path string, logger logging.Logger) (*sql.DB, error) {
	if path == "" {
		return nil, nil
	}
	return sqlite.Open(path, logger)
}

func buildHealthHandler(cfg *config.Config) *handlers.HealthHandler {
	return handlers.NewHealthHandler(
		Version,
		&handlers.FilePresenceChecker{CheckerName: "patents_db", Path: cfg.Store.PatentsDBPath},
		&handlers.FilePresenceChecker{CheckerName: "cordis_db", Path: cfg.Store.CordisDBPath},
		&handlers.FilePresenceChecker{CheckerName: "gleif_cache_db", Path: cfg.Store.GleifCacheDBPath},
		&handlers.BaseURLPresenceChecker{CheckerName: "openaire_publications", BaseURL: cfg.Adapter.OpenAIREBaseURL},
		&handlers.BaseURLPresenceChecker{CheckerName: "semantic_scholar", BaseURL: cfg.Adapter.SemanticScholarBaseURL},
		&handlers.BaseURLPresenceChecker{CheckerName: "gleif_lei_lookup", BaseURL: cfg.Adapter.GleifAPIBaseURL},
	)
}

func translateCORSConfig(cfg config.CORSConfig) middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           int(cfg.MaxAge.Seconds()),
		AllowWildcard:    true,
	}
}

// staticTokenSource is a no-op adapters.TokenSource: this deployment has no
// OAuth-backed publication-API credential configured, so the publication
// adapter always degrades to its unauthenticated/warning path rather than
// attempting a refresh.
type staticTokenSource struct{}

func (staticTokenSource) AccessToken() string   { return "" }
func (staticTokenSource) HasRefreshToken() bool { return false }
func (staticTokenSource) RefreshToken(_ context.Context) (string, error) {
	return "", fmt.Errorf("no refresh token configured")
}
