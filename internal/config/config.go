package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sirupsen/logrus"
)

// Config is the root backend configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Sessions SessionConfig  `yaml:"sessions"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"2000"`
	AllowedOrigins  []string      `yaml:"allowed_origins"  env:"VOZCALC_ALLOWED_ORIGINS" env-separator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"VOZCALC_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path   string `yaml:"path"   env:"VOZCALC_DB_PATH"   env-default:"data/vozcalc.db"`
	Silent bool   `yaml:"silent" env:"VOZCALC_SILENT_DB" env-default:"false"`
}

// SessionConfig holds calculator session settings.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" env:"VOZCALC_SESSION_TTL" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from environment variables, layered over an
// optional YAML file named by CONFIG_PATH.
func Load() (*Config, error) {
	var cfg Config

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	port, err := strconv.Atoi(strings.TrimSpace(c.Server.Port))
	if err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: invalid port %q", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path: required"))
	}
	if c.Sessions.TTL <= 0 {
		errs = append(errs, fmt.Errorf("sessions.ttl: must be positive, got %s", c.Sessions.TTL))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Origins returns the configured CORS origins with blanks removed.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range s.AllowedOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Apply configures the global logrus logger.
func (l LogConfig) Apply() error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if strings.EqualFold(l.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
