// Package config loads the server settings from an optional YAML file with
// environment-variable overrides. Environment always wins so deployments can
// keep credentials out of the file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// ServerURL is the base URL of the CalDAV/CardDAV server.
	ServerURL string
	Username  string
	Password  string

	// CalendarPath and AddressBookPath are the discovery roots, relative to
	// ServerURL.
	CalendarPath    string
	AddressBookPath string

	HTTPTimeout time.Duration
	CacheTTL    time.Duration
	LogLevel    string
}

// fileConfig is the YAML shape; durations are strings ("30s", "2m").
type fileConfig struct {
	ServerURL       string `yaml:"server_url"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	CalendarPath    string `yaml:"calendar_path"`
	AddressBookPath string `yaml:"addressbook_path"`
	HTTPTimeout     string `yaml:"http_timeout"`
	CacheTTL        string `yaml:"cache_ttl"`
	LogLevel        string `yaml:"log_level"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads path (when non-empty) and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		CalendarPath:    "/",
		AddressBookPath: "/",
		HTTPTimeout:     30 * time.Second,
		CacheTTL:        time.Minute,
		LogLevel:        "info",
	}

	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.Username != "" {
		cfg.Username = fc.Username
	}
	if fc.Password != "" {
		cfg.Password = fc.Password
	}
	if fc.CalendarPath != "" {
		cfg.CalendarPath = fc.CalendarPath
	}
	if fc.AddressBookPath != "" {
		cfg.AddressBookPath = fc.AddressBookPath
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}

	cfg.ServerURL = getenv("DAV_SERVER_URL", cfg.ServerURL)
	cfg.Username = getenv("DAV_USERNAME", cfg.Username)
	cfg.Password = getenv("DAV_PASSWORD", cfg.Password)
	cfg.CalendarPath = getenv("DAV_CALENDAR_PATH", cfg.CalendarPath)
	cfg.AddressBookPath = getenv("DAV_ADDRESSBOOK_PATH", cfg.AddressBookPath)
	cfg.LogLevel = getenv("DAV_LOG_LEVEL", cfg.LogLevel)

	if v := getenv("DAV_HTTP_TIMEOUT", fc.HTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse http timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := getenv("DAV_CACHE_TTL", fc.CacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse cache ttl: %w", err)
		}
		cfg.CacheTTL = d
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server_url is required (DAV_SERVER_URL)")
	}
	return cfg, nil
}
