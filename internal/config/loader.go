package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the service configuration. Values come from an optional
// YAML file, overridden by STAFFER_* environment variables.
type Config struct {
	HTTPPort     int    `yaml:"http_port"`
	MetricsPort  int    `yaml:"metrics_port"`
	SQLiteDSN    string `yaml:"sqlite_dsn"`
	LeadTimeDays int    `yaml:"lead_time_days"`
	LogLevel     string `yaml:"log_level"`
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty) and applies environment overrides. Defaults cover every field, so
// both sources are optional.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPPort:     8080,
		MetricsPort:  9090,
		SQLiteDSN:    "file:staffing.db?_foreign_keys=on",
		LeadTimeDays: 3,
		LogLevel:     "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	invalid := make([]string, 0, 2)

	if v := strings.TrimSpace(os.Getenv("STAFFER_HTTP_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STAFFER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAFFER_METRICS_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STAFFER_METRICS_PORT")
		} else {
			cfg.MetricsPort = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAFFER_SQLITE_DSN")); v != "" {
		cfg.SQLiteDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("STAFFER_LEAD_TIME_DAYS")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			invalid = append(invalid, "STAFFER_LEAD_TIME_DAYS")
		} else {
			cfg.LeadTimeDays = days
		}
	}
	if v := strings.TrimSpace(os.Getenv("STAFFER_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}

	if cfg.LeadTimeDays < 0 {
		invalid = append(invalid, "lead_time_days")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "log_level")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
