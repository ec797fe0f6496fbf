// Package config loads WBS Hub settings from defaults, an optional YAML
// file, a .env file and WBSHUB_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PlaceholderEndpoint is the value shipped in sample configs. Submissions
// are refused while the endpoint still equals it.
const PlaceholderEndpoint = "https://hook.us1.make.com/SEU_ENDPOINT_AQUI"

// MaxDaysLimit mirrors breakdown.MaxDays.
const MaxDaysLimit = 100

// UIConfig holds presentation settings.
type UIConfig struct {
	PageTitle string `yaml:"page_title"`
}

// Config holds all runtime configuration.
type Config struct {
	Endpoint       string   `yaml:"make_endpoint"`
	TimeoutSeconds float64  `yaml:"request_timeout"`
	DelayMs        int      `yaml:"request_delay_ms"`
	MaxDays        int      `yaml:"max_days"`
	TemplatesDir   string   `yaml:"templates_dir"`
	DBPath         string   `yaml:"db_path"`
	LogLevel       string   `yaml:"log_level"`
	LogFormat      string   `yaml:"log_format"`
	UI             UIConfig `yaml:"ui"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:       PlaceholderEndpoint,
		TimeoutSeconds: 30,
		DelayMs:        1000,
		MaxDays:        30,
		TemplatesDir:   "./templates",
		DBPath:         defaultDBPath(),
		LogLevel:       "info",
		LogFormat:      "text",
		UI:             UIConfig{PageTitle: "WBS Hub"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wbshub", "wbshub.db")
	}
	return filepath.Join(home, ".wbshub", "wbshub.db")
}

// Load builds the configuration. path may be empty; a missing file at the
// default location is not an error, but an explicitly given one is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}
	if err := loadFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	// .env is optional; values never override variables already set.
	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WBSHUB_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("WBSHUB_REQUEST_TIMEOUT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.TimeoutSeconds = f
		}
	}
	if v := os.Getenv("WBSHUB_REQUEST_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DelayMs = n
		}
	}
	if v := os.Getenv("WBSHUB_MAX_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDays = n
		}
	}
	if v := os.Getenv("WBSHUB_TEMPLATES"); v != "" {
		cfg.TemplatesDir = v
	}
	if v := os.Getenv("WBSHUB_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WBSHUB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WBSHUB_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive"))
	}
	if c.DelayMs < 0 {
		errs = append(errs, fmt.Errorf("request_delay_ms must not be negative"))
	}
	if c.MaxDays < 1 || c.MaxDays > MaxDaysLimit {
		errs = append(errs, fmt.Errorf("max_days must be between 1 and %d", MaxDaysLimit))
	}
	if strings.TrimSpace(c.TemplatesDir) == "" {
		errs = append(errs, fmt.Errorf("templates_dir is required"))
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Delay returns the pause between consecutive submissions.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// EndpointConfigured reports whether endpoint is set to something other
// than the shipped placeholder.
func EndpointConfigured(endpoint string) bool {
	e := strings.TrimSpace(endpoint)
	return e != "" && e != PlaceholderEndpoint
}
