package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "24h" decode cleanly.
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, errParse := time.ParseDuration(strings.TrimSpace(value.Value))
	if errParse != nil {
		return fmt.Errorf("config: invalid duration %q: %w", value.Value, errParse)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"`
	AllowedOrigins []string `yaml:"allowed-origins"`
}

// DatabaseConfig holds the database DSN.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	CookieName   string   `yaml:"cookie-name"`
	CookieDomain string   `yaml:"cookie-domain"`
	TTL          Duration `yaml:"ttl"`
}

// UploadConfig holds image upload settings.
type UploadConfig struct {
	Dir          string `yaml:"dir"`
	PublicPath   string `yaml:"public-path"`
	MaxFileSize  int64  `yaml:"max-file-size"`
	MaxBatchSize int    `yaml:"max-batch-size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{DSN: "file:data/landing.db"},
		Session: SessionConfig{
			CookieName: "landing_session",
			TTL:        Duration(24 * time.Hour),
		},
		Upload: UploadConfig{
			Dir:          "uploads",
			PublicPath:   "/uploads",
			MaxFileSize:  5 << 20,
			MaxBatchSize: 10,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence. A missing config file
// is not an error; a malformed one is.
func Load(path string) (Config, error) {
	// Populate os environ from a local .env when present.
	_ = godotenv.Load()

	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, errRead := os.ReadFile(path)
		switch {
		case errRead == nil:
			if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
			}
		case os.IsNotExist(errRead):
			// Fall through to env overrides.
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid port %d", cfg.Server.Port)
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = Duration(24 * time.Hour)
	}
	if cfg.Upload.MaxFileSize <= 0 {
		cfg.Upload.MaxFileSize = 5 << 20
	}
	if cfg.Upload.MaxBatchSize <= 0 {
		cfg.Upload.MaxBatchSize = 10
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = Default().Server.AllowedOrigins
	}
	return cfg, nil
}

// applyEnvOverrides maps well-known environment variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LANDING_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, errParse := strconv.Atoi(v); errParse == nil {
			cfg.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("HOST")); v != "" {
		cfg.Server.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.Server.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		origins := make([]string, 0, 4)
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			cfg.Server.AllowedOrigins = origins
		}
	}
	if v := strings.TrimSpace(os.Getenv("UPLOAD_DIR")); v != "" {
		cfg.Upload.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}

// Production reports whether the server runs with production hardening,
// which controls the Secure flag on session cookies.
func (c Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Server.Env), "production")
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
