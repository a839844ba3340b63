// Package config loads process configuration from the environment (and an
// optional .env file), in the viper/godotenv style this corpus uses for
// service configuration.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process-wide configuration for both the CLI and the HTTP
// server.
type Config struct {
	Env string

	HTTP   HTTPConfig
	Log    LogConfig
	Solver SolverConfig
}

// HTTPConfig configures the optional HTTP server.
type HTTPConfig struct {
	Port int
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig holds the default solve parameters, overridable per request
// (HTTP) or per flag (CLI).
type SolverConfig struct {
	DefaultTimeLimit time.Duration
	DefaultWorkers   int
}

// Load reads configuration from the environment, applying defaults and an
// optional .env file in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		HTTP: HTTPConfig{
			Port: v.GetInt("PORT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Solver: SolverConfig{
			DefaultTimeLimit: parseDuration(v.GetString("SOLVER_TIME_LIMIT"), 60*time.Second),
			DefaultWorkers:   v.GetInt("SOLVER_WORKERS"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SOLVER_TIME_LIMIT", "60s")
	v.SetDefault("SOLVER_WORKERS", 8)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
