// Package config loads folio settings from defaults, an optional TOML file,
// FOLIO_* environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"folio/internal/api"
	"folio/internal/upload"
)

// EnvPrefix prefixes every environment override, e.g. FOLIO_API_URL.
const EnvPrefix = "FOLIO"

// Config holds application configuration.
type Config struct {
	API       APIConfig
	Session   SessionConfig
	Upload    UploadConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// APIConfig points at the works API.
type APIConfig struct {
	URL     string
	Timeout time.Duration
}

// SessionConfig controls where the auth token lives.
type SessionConfig struct {
	Persist bool   // false keeps the token in memory only
	Path    string // token file when Persist is set; empty means the XDG state default
}

// UploadConfig bounds picked images.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// LogConfig selects the log file and level.
type LogConfig struct {
	File  string
	Level string
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string
	ServiceName string `mapstructure:"service_name"`
}

// Flags registers the command-line overrides on fs. Flag names map to keys
// through Load; unset flags do not override lower layers.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a TOML config file")
	fs.String("api-url", "", "base URL of the works API")
	fs.Duration("api-timeout", 0, "per-request timeout")
	fs.Bool("persist-session", false, "keep the login token on disk between runs")
	fs.String("log-file", "", "log file path")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"api-url":         "api.url",
	"api-timeout":     "api.timeout",
	"persist-session": "session.persist",
	"log-file":        "log.file",
	"log-level":       "log.level",
}

// Load reads configuration. fs may be nil. A config file named by --config or
// FOLIO_CONFIG must exist; the default location is optional.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("api.url", api.DefaultBaseURL)
	v.SetDefault("api.timeout", api.DefaultTimeout)
	v.SetDefault("session.persist", false)
	v.SetDefault("session.path", "")
	v.SetDefault("upload.max_bytes", upload.DefaultMaxBytes)
	v.SetDefault("log.file", defaultLogFile())
	v.SetDefault("log.level", "info")
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "folio")

	v.SetConfigType("toml")
	cfgPath := os.Getenv(EnvPrefix + "_CONFIG")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			cfgPath = f.Value.String()
		}
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "folio"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telemetry.endpoint", EnvPrefix+"_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"); err != nil {
		return Config{}, fmt.Errorf("binding telemetry env: %w", err)
	}
	if err := v.BindEnv("telemetry.service_name", EnvPrefix+"_TELEMETRY_SERVICE_NAME", "OTEL_SERVICE_NAME"); err != nil {
		return Config{}, fmt.Errorf("binding telemetry env: %w", err)
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.API.URL == "" {
		return errors.New("config: api.url is empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout %s is negative", c.API.Timeout)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("config: upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}

func defaultLogFile() string {
	return filepath.Join(xdg.StateHome, "folio", "folio.log")
}
