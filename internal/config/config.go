// Package config defines all configuration structures for the ti-radar
// technology-intelligence service. No I/O or parsing logic lives here — only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig holds filesystem paths to the three SQLite-backed local stores
// the panel engines read from. Each path is independently optional: a missing
// path degrades the panels that depend on it rather than failing startup.
type StoreConfig struct {
	PatentsDBPath    string `mapstructure:"patents_db_path"`
	CordisDBPath     string `mapstructure:"cordis_db_path"`
	GleifCacheDBPath string `mapstructure:"gleif_cache_db_path"`
}

// AdapterConfig holds credentials and base URLs for the external
// collaborators consulted by the research-impact and entity-resolution
// panels. Each adapter is independently optional.
type AdapterConfig struct {
	OpenAIREBaseURL        string        `mapstructure:"openaire_base_url"`
	SemanticScholarBaseURL string        `mapstructure:"semantic_scholar_base_url"`
	SemanticScholarAPIKey  string        `mapstructure:"semantic_scholar_api_key"`
	EPOOpsBaseURL          string        `mapstructure:"epo_ops_base_url"`
	EPOOpsConsumerKey      string        `mapstructure:"epo_ops_consumer_key"`
	EPOOpsConsumerSecret   string        `mapstructure:"epo_ops_consumer_secret"`
	CordisAPIBaseURL       string        `mapstructure:"cordis_api_base_url"`
	GleifAPIBaseURL        string        `mapstructure:"gleif_api_base_url"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
	MaxRetries             int           `mapstructure:"max_retries"`
}

// OrchestratorConfig holds per-panel deadline tunables. They are loaded,
// defaulted and validated here; the radar orchestrator does not read them
// and applies its own fixed 30-second deadline to every panel engine.
type OrchestratorConfig struct {
	DefaultPanelTimeout time.Duration `mapstructure:"default_panel_timeout"`
	CpcFlowTimeout      time.Duration `mapstructure:"cpc_flow_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string `mapstructure:"format"` // "json" | "text"
	Output           string `mapstructure:"output"`
	EnableCaller     bool   `mapstructure:"enable_caller"`
	EnableStacktrace bool   `mapstructure:"enable_stacktrace"`
	SamplingRate     int    `mapstructure:"sampling_rate"`
}

// CORSConfig holds cross-origin request tunables for the HTTP API.
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the service. Every
// infrastructure component and application service reads its settings from
// the relevant sub-struct.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Store        StoreConfig        `mapstructure:"store"`
	Adapter      AdapterConfig      `mapstructure:"adapter"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Log          LogConfig          `mapstructure:"log"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// Unlike a conventional fail-fast validator, every problem found here is
// collected as a warning string rather than returned as a hard error: a
// radar service with no store paths or adapter credentials configured must
// still start and serve degraded (empty-panel) responses, never refuse to
// boot. Callers surface the returned warnings through startup logging.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		warnings = append(warnings, fmtWarning("server.port %d is out of range [1, 65535]; falling back to default", c.Server.Port))
		c.Server.Port = DefaultServerPort
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		warnings = append(warnings, fmtWarning("server.mode %q is invalid; expected debug|release|test", c.Server.Mode))
	}

	if c.Store.PatentsDBPath == "" {
		warnings = append(warnings, "store.patents_db_path is not configured; patent-derived panels will degrade")
	}
	if c.Store.CordisDBPath == "" {
		warnings = append(warnings, "store.cordis_db_path is not configured; funding-derived panels will degrade")
	}
	if c.Store.GleifCacheDBPath == "" {
		warnings = append(warnings, "store.gleif_cache_db_path is not configured; entity resolution will degrade")
	}

	if c.Adapter.SemanticScholarBaseURL == "" {
		warnings = append(warnings, "adapter.semantic_scholar_base_url is not configured; research impact panel will degrade")
	}
	if c.Adapter.EPOOpsBaseURL == "" {
		warnings = append(warnings, "adapter.epo_ops_base_url is not configured; live EPO lookups will be unavailable")
	}

	if c.Orchestrator.DefaultPanelTimeout <= 0 {
		warnings = append(warnings, "orchestrator.default_panel_timeout must be positive; falling back to default")
		c.Orchestrator.DefaultPanelTimeout = DefaultPanelTimeout
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmtWarning("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		warnings = append(warnings, fmtWarning("log.format %q is invalid; expected json|text", c.Log.Format))
	}

	return warnings
}

func fmtWarning(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
