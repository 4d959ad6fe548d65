package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// AppConfig is assembled from defaults, an optional TOML file and
// finally environment overrides, in that order.
type AppConfig struct {
	Port        string
	Environment string

	DatabaseURL  string
	DatabasePath string
	RedisURL     string

	SessionTTL time.Duration

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	OTLPEndpoint string
	MetricsPort  string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// fileConfig mirrors the TOML layout. Only scalar knobs live in the
// file; the per-endpoint rate limit table stays in code.
type fileConfig struct {
	Port           string `toml:"port"`
	Environment    string `toml:"environment"`
	DatabaseURL    string `toml:"database_url"`
	DatabasePath   string `toml:"database_path"`
	RedisURL       string `toml:"redis_url"`
	SessionTTLMins int    `toml:"session_ttl_minutes"`
	RateLimit      *bool  `toml:"rate_limit_enabled"`
	OTLPEndpoint   string `toml:"otlp_endpoint"`
	MetricsPort    string `toml:"metrics_port"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:         "8080",
		Environment:  "development",
		DatabasePath: "database.db",
		SessionTTL:   24 * time.Hour,

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"/auth": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/login": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/api/todos": {
				Requests: 100,
				Window:   time.Minute,
			},
		},

		OTLPEndpoint: "localhost:4317",
		MetricsPort:  "9091",
	}
}

// Load builds the effective configuration. path may be empty or point
// to a missing file; both fall through to defaults plus env.
func Load(path string) (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var fc fileConfig

			if _, err := toml.DecodeFile(path, &fc); err != nil {
				return nil, err
			}

			applyFile(cfg, fc)
		}
	}

	applyEnv(cfg)

	return cfg, nil
}

func applyFile(cfg *AppConfig, fc fileConfig) {
	if fc.Port != "" {
		cfg.Port = fc.Port
	}

	if fc.Environment != "" {
		cfg.Environment = fc.Environment
	}

	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}

	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}

	if fc.RedisURL != "" {
		cfg.RedisURL = fc.RedisURL
	}

	if fc.SessionTTLMins > 0 {
		cfg.SessionTTL = time.Duration(fc.SessionTTLMins) * time.Minute
	}

	if fc.RateLimit != nil {
		cfg.RateLimitEnabled = *fc.RateLimit
	}

	if fc.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = fc.OTLPEndpoint
	}

	if fc.MetricsPort != "" {
		cfg.MetricsPort = fc.MetricsPort
	}
}

func applyEnv(cfg *AppConfig) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if path := os.Getenv("DATABASE_PATH"); path != "" {
		cfg.DatabasePath = path
	}

	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
	}
}
