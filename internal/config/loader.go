// Package config provides configuration loading, defaults, and validation for
// the ti-radar technology-intelligence service.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "TI_RADAR"

// newViper builds a pre-configured Viper instance with the service's standard
// settings: YAML file type, TI_RADAR_ env prefix, automatic env binding, and a
// key replacer that maps "." → "_" so that nested keys like "store.patents_db_path"
// resolve to "TI_RADAR_STORE_PATENTS_DB_PATH".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to all fields in the Config struct.
	// This is necessary because Viper's AutomaticEnv does not pick up
	// nested environment variables if they are not present in the
	// configuration file or explicitly bound.
	bindEnvs(v, Config{})

	return v
}

// bindEnvs recursively binds each field of the given struct to an environment
// variable using its "mapstructure" tag.
func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ift := reflect.TypeOf(iface)
	if ift.Kind() == reflect.Ptr {
		ift = ift.Elem()
	}
	for i := 0; i < ift.NumField(); i++ {
		field := ift.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "," {
			continue
		}
		newParts := append(parts, tag)
		if field.Type.Kind() == reflect.Struct {
			bindEnvs(v, reflect.New(field.Type).Elem().Interface(), newParts...)
		} else {
			key := strings.Join(newParts, ".")
			_ = v.BindEnv(key)
		}
	}
}

// Load reads the YAML file at configPath, merges any TI_RADAR_* environment
// variable overrides, applies service defaults for unset fields, and
// validates the result. It returns the populated *Config together with any
// soft-validation warnings (missing store paths, missing adapter URLs,
// out-of-range tunables that fell back to defaults). Load only returns a
// non-nil error when the file cannot be read or unmarshalled — a
// misconfigured-but-parseable config still starts, degraded.
func Load(configPath string) (*Config, []string, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from TI_RADAR_* environment variables,
// with no config file required. This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	TI_RADAR_<SECTION>_<FIELD>   e.g.  TI_RADAR_STORE_PATENTS_DB_PATH, TI_RADAR_SERVER_PORT
func LoadFromEnv() (*Config, []string, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and runs soft validation.
func unmarshalAndFinalize(v *viper.Viper) (*Config, []string, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	warnings := cfg.Validate()

	return cfg, warnings, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk. It is intended for
// hot-reloading the safe subset of settings — CORS origins, panel timeouts,
// log level — callers are responsible for applying only that subset at
// runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse, onChange is NOT called and the error is
// silently swallowed (viper behaviour) — add an OnConfigChange hook for
// custom error handling if needed.
func Watch(configPath string, onChange func(*Config, []string)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, warnings, err := unmarshalAndFinalize(v)
		if err != nil {
			// Config change produced an unparsable config; skip the callback to
			// prevent the application from entering a broken state.
			return
		}
		onChange(cfg, warnings)
	})
}

// MustLoad is a convenience wrapper around Load that panics only when the
// config file itself cannot be read or parsed. Soft-validation warnings are
// returned alongside the config for the caller to log.
func MustLoad(configPath string) (*Config, []string) {
	cfg, warnings, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg, warnings
}
