package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Grouping GroupingConfig `yaml:"grouping"`
	Insights InsightsConfig `yaml:"insights"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type GroupingConfig struct {
	DefaultGroupCount int           `yaml:"default_group_count"`
	MaxGroupCount     int           `yaml:"max_group_count"`
	MaxRosterSize     int           `yaml:"max_roster_size"`
	DefaultWeights    WeightsConfig `yaml:"default_weights"`
}

type WeightsConfig struct {
	Coding     float64 `yaml:"coding"`
	Design     float64 `yaml:"design"`
	Writing    float64 `yaml:"writing"`
	Presenting float64 `yaml:"presenting"`
}

type InsightsConfig struct {
	UnbalancedStdDev float64 `yaml:"unbalanced_stddev"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Grouping: GroupingConfig{
			DefaultGroupCount: 2,
			MaxGroupCount:     50,
			MaxRosterSize:     1000,
			DefaultWeights: WeightsConfig{
				Coding:     1,
				Design:     1,
				Writing:    1,
				Presenting: 1,
			},
		},
		Insights: InsightsConfig{
			UnbalancedStdDev: 4.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate rejects limits and defaults the grouping service cannot honour.
func (c *Config) Validate() error {
	g := c.Grouping
	if g.MaxGroupCount < 1 {
		return errors.New("grouping.max_group_count must be at least 1")
	}
	if g.MaxRosterSize < 1 {
		return errors.New("grouping.max_roster_size must be at least 1")
	}
	if g.DefaultGroupCount < 1 || g.DefaultGroupCount > g.MaxGroupCount {
		return fmt.Errorf("grouping.default_group_count must be between 1 and %d", g.MaxGroupCount)
	}
	w := g.DefaultWeights
	if w.Coding < 0 || w.Design < 0 || w.Writing < 0 || w.Presenting < 0 {
		return errors.New("grouping.default_weights must be non-negative")
	}
	if c.Server.RateLimit < 1 {
		return errors.New("server.rate_limit_per_minute must be at least 1")
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q must be json or text", c.Logging.Format)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HUDDLE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("HUDDLE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("HUDDLE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("HUDDLE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v, ok := os.LookupEnv("HUDDLE_HERMES_URL"); ok {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("HUDDLE_MAX_ROSTER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grouping.MaxRosterSize = n
		}
	}
	if v := os.Getenv("HUDDLE_UNBALANCED_STDDEV"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Insights.UnbalancedStdDev = f
		}
	}
	if v := os.Getenv("HUDDLE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HUDDLE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
