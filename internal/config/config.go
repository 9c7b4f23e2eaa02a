package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config aggregates every tunable part of the application.
type Config struct {
	App        AppConfig
	DB         DBConfig
	Log        LogConfig
	RequestLog RequestLogConfig
}

// AppConfig contains settings related to the HTTP server.
type AppConfig struct {
	Port string
}

// Addr returns the listen address for the HTTP server.
func (a AppConfig) Addr() string {
	return fmt.Sprintf(":%s", a.Port)
}

// DBConfig selects the user store. An empty URL means the in-memory store.
type DBConfig struct {
	URL string
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string
}

// RequestLogConfig controls the per-request log records.
type RequestLogConfig struct {
	Sink             string
	ObfuscatedParams []string
	IgnoredMethods   []string
}

var defaultObfuscatedParams = "password,password_confirmation"

// Load reads an optional .env file, then environment variables.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		App: AppConfig{
			Port: getEnv("PORT", "8080"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		RequestLog: RequestLogConfig{
			Sink:             strings.ToLower(getEnv("REQUEST_LOG_SINK", "logrus")),
			ObfuscatedParams: splitList(getEnv("REQUEST_LOG_OBFUSCATED_PARAMS", defaultObfuscatedParams)),
			IgnoredMethods:   splitList(strings.ToUpper(getEnv("REQUEST_LOG_IGNORED_METHODS", ""))),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	switch cfg.RequestLog.Sink {
	case "logrus", "zerolog", "zap":
	default:
		return fmt.Errorf("invalid REQUEST_LOG_SINK %q: want logrus, zerolog or zap", cfg.RequestLog.Sink)
	}
	if strings.TrimLeft(cfg.App.Port, "0123456789") != "" {
		return fmt.Errorf("invalid PORT %q", cfg.App.Port)
	}
	return nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}
