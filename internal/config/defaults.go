// Package config provides configuration loading, defaults, and validation for
// the ti-radar technology-intelligence service.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultPanelTimeout   = 30 * time.Second
	DefaultCpcFlowTimeout = 45 * time.Second

	DefaultAdapterRequestTimeout = 10 * time.Second
	DefaultAdapterMaxRetries     = 2

	DefaultCORSMaxAge = 12 * time.Hour
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins. Store paths and
// adapter base URLs are deliberately NOT defaulted here — an unset path is a
// meaningful signal that the corresponding panels should degrade, and
// Validate() reports it as a warning rather than silently filling it in.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 1 << 20 // 1 MiB
	}

	// ── Orchestrator ──────────────────────────────────────────────────────────
	if cfg.Orchestrator.DefaultPanelTimeout == 0 {
		cfg.Orchestrator.DefaultPanelTimeout = DefaultPanelTimeout
	}
	if cfg.Orchestrator.CpcFlowTimeout == 0 {
		cfg.Orchestrator.CpcFlowTimeout = DefaultCpcFlowTimeout
	}

	// ── Adapter ───────────────────────────────────────────────────────────────
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultAdapterRequestTimeout
	}
	if cfg.Adapter.MaxRetries == 0 {
		cfg.Adapter.MaxRetries = DefaultAdapterMaxRetries
	}

	// ── CORS ──────────────────────────────────────────────────────────────────
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = DefaultCORSMaxAge
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
