package logx

import (
	"io"
	"os"
	"strings"
	"time"
)

// Format selects the output encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

type Config struct {
	Level           Level
	Format          Format
	EnableColors    bool
	EnableCaller    bool
	EnableTimestamp bool
	TimeFormat      string
	Output          io.Writer
}

func DefaultConfig() *Config {
	return &Config{
		Level:           LevelInfo,
		Format:          FormatConsole,
		EnableColors:    true,
		EnableTimestamp: true,
		TimeFormat:      time.RFC3339,
		Output:          os.Stdout,
	}
}

// LoadFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_COLOR, LOG_CALLER and
// LOG_TIME_FORMAT on top of the defaults.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = ParseLevel(v)
	}
	if v := os.Getenv("LOG_FORMAT"); strings.EqualFold(v, "json") {
		cfg.Format = FormatJSON
	}
	if v := os.Getenv("LOG_COLOR"); v != "" {
		cfg.EnableColors = isTruthy(v)
	}
	if v := os.Getenv("LOG_CALLER"); v != "" {
		cfg.EnableCaller = isTruthy(v)
	}
	if v := os.Getenv("LOG_TIME_FORMAT"); v != "" {
		switch strings.ToUpper(v) {
		case "RFC3339":
			cfg.TimeFormat = time.RFC3339
		case "RFC3339NANO":
			cfg.TimeFormat = time.RFC3339Nano
		case "UNIX":
			cfg.TimeFormat = "unix"
		default:
			cfg.TimeFormat = v
		}
	}

	return cfg
}

func isTruthy(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}
