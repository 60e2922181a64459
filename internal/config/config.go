// Package config loads server settings from .env, the environment and an
// optional configs/config.yml.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"Ampere/internal/calc/diversity"
)

type Config struct {
	Addr            string
	CertFile        string
	KeyFile         string
	DatabaseURL     string
	TokenKey        string
	LogLevel        string
	ShutdownTimeout time.Duration
	// Diversity floors after config overrides
	Policy diversity.Policy
}

// Load reads configuration from dir (config.yml) and the environment.
// A missing .env or config file is not an error; a missing TOKEN_KEY is.
func Load(dir string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("addr", ":443")
	v.SetDefault("tls.cert", "server.crt")
	v.SetDefault("tls.key", "server.key")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout", "5s")

	binds := map[string]string{
		"addr":         "ADDR",
		"tls.cert":     "TLS_CERT",
		"tls.key":      "TLS_KEY",
		"database_url": "DATABASE_URL",
		"token_key":    "TOKEN_KEY",
		"log_level":    "LOG_LEVEL",
	}
	for key, env := range binds {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Addr:            v.GetString("addr"),
		CertFile:        v.GetString("tls.cert"),
		KeyFile:         v.GetString("tls.key"),
		DatabaseURL:     v.GetString("database_url"),
		TokenKey:        v.GetString("token_key"),
		LogLevel:        v.GetString("log_level"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
	if cfg.TokenKey == "" {
		return cfg, errors.New("TOKEN_KEY is not set")
	}

	var floors map[diversity.Category]float64
	if err := v.UnmarshalKey("diversity.floors", &floors); err != nil {
		return cfg, fmt.Errorf("diversity.floors: %w", err)
	}
	policy, err := diversity.DefaultPolicy().WithFloors(floors)
	if err != nil {
		return cfg, fmt.Errorf("diversity.floors: %w", err)
	}
	cfg.Policy = policy
	return cfg, nil
}
