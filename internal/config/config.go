package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds client and server settings. Values come from defaults, then
// an optional YAML file, then environment variables.
type Config struct {
	Home   string       `yaml:"home"`
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
}

type ClientConfig struct {
	Endpoint         string `yaml:"endpoint"`
	ClientID         string `yaml:"client_id"`
	RequestTimeoutMs int    `yaml:"request_timeout_ms"`
	LogCalls         bool   `yaml:"log_calls"`
	DateLayout       string `yaml:"date_layout"`
}

type ServerConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	CORSOrigins []string      `yaml:"cors_origins"`
	AccessTTL   time.Duration `yaml:"access_ttl"`
	RefreshTTL  time.Duration `yaml:"refresh_ttl"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config rooted at home.
func Default(home string) Config {
	return Config{
		Home: home,
		Client: ClientConfig{
			Endpoint:         "http://localhost:8080",
			ClientID:         "studenttracker-cli",
			RequestTimeoutMs: 15000,
			DateLayout:       "1/2/2006",
		},
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000"},
			AccessTTL:   time.Hour,
			RefreshTTL:  30 * 24 * time.Hour,
		},
		DB:  DBConfig{Path: filepath.Join(home, "studenttracker.db")},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the effective configuration.
func Load() (Config, error) {
	home := os.Getenv("STUDENTTRACKER_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		home = filepath.Join(userHome, ".studenttracker")
	}
	cfg := Default(home)

	if path := os.Getenv("STUDENTTRACKER_CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	} else if path := filepath.Join(home, "config.yaml"); fileExists(path) {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("STUDENTTRACKER_API_ENDPOINT"); v != "" {
		cfg.Client.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("STUDENTTRACKER_CLIENT_ID"); v != "" {
		cfg.Client.ClientID = v
	}
	if v := os.Getenv("STUDENTTRACKER_REQUEST_TIMEOUT_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid STUDENTTRACKER_REQUEST_TIMEOUT_MS: %q", v)
		}
		cfg.Client.RequestTimeoutMs = n
	}
	if v := os.Getenv("STUDENTTRACKER_LOG_CALLS"); v != "" {
		cfg.Client.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("STUDENTTRACKER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STUDENTTRACKER_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STUDENTTRACKER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("STUDENTTRACKER_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("STUDENTTRACKER_DB"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("STUDENTTRACKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// SessionPath is where the signed-in session is cached.
func (c Config) SessionPath() string {
	return filepath.Join(c.Home, "session.yaml")
}

// ClientLogPath is where client call logs go when enabled.
func (c Config) ClientLogPath() string {
	return filepath.Join(c.Home, "client.log")
}

// RequestTimeout returns the client request timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Client.RequestTimeoutMs) * time.Millisecond
}

// Addr returns the server listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
