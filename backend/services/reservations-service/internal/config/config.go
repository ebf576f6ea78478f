package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evcharge/backend/libs/config"

	"evcharge/backend/services/reservations-service/internal/schedule"
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"RESERVATIONS_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"RESERVATIONS_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"RESERVATIONS_REDIS_ADDR"`
		Password string `yaml:"password" env:"RESERVATIONS_REDIS_PASSWORD"`
	} `yaml:"redis"`
	JWT struct {
		Secret           string `yaml:"secret" env:"RESERVATIONS_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"RESERVATIONS_JWT_EXPIRES_MINUTES"`
	} `yaml:"jwt"`
	Admin struct {
		Email    string `yaml:"email" env:"RESERVATIONS_ADMIN_EMAIL"`
		Password string `yaml:"password" env:"RESERVATIONS_ADMIN_PASSWORD"`
	} `yaml:"admin"`
	Schedule struct {
		OpenHour           int `yaml:"openHour" env:"RESERVATIONS_OPEN_HOUR"`
		CloseHour          int `yaml:"closeHour" env:"RESERVATIONS_CLOSE_HOUR"`
		GranularityMinutes int `yaml:"granularityMinutes" env:"RESERVATIONS_GRANULARITY_MINUTES"`
		SessionCount       int `yaml:"sessionCount" env:"RESERVATIONS_SESSION_COUNT"`
	} `yaml:"schedule"`
	Cache struct {
		SlotTTLSeconds int `yaml:"slotTtlSeconds" env:"RESERVATIONS_SLOT_TTL_SECONDS"`
	} `yaml:"cache"`
	Seed struct {
		Demo bool `yaml:"demo" env:"RESERVATIONS_SEED_DEMO"`
	} `yaml:"seed"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.JWT.ExpiresInMinutes = 60
	cfg.Admin.Email = "admin@demo.dev"
	cfg.Admin.Password = "admin123"
	cfg.Schedule.OpenHour = 9
	cfg.Schedule.CloseHour = 22
	cfg.Schedule.GranularityMinutes = 30
	cfg.Schedule.SessionCount = 4
	cfg.Cache.SlotTTLSeconds = 30
	cfg.Seed.Demo = true

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.JWT.ExpiresInMinutes <= 0 {
		cfg.JWT.ExpiresInMinutes = 60
	}
	if cfg.Schedule.OpenHour < 0 || cfg.Schedule.CloseHour > 24 || cfg.Schedule.OpenHour >= cfg.Schedule.CloseHour {
		return nil, errors.New("config: operating window is invalid")
	}
	if cfg.Schedule.GranularityMinutes <= 0 {
		cfg.Schedule.GranularityMinutes = 30
	}
	if cfg.Schedule.SessionCount <= 0 {
		cfg.Schedule.SessionCount = 4
	}

	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// Window returns the configured operating window in minutes from midnight.
func (c *Config) Window() schedule.Window {
	return schedule.Window{
		Open:  c.Schedule.OpenHour * 60,
		Close: c.Schedule.CloseHour * 60,
	}
}

// SlotTTL returns the configured availability cache TTL.
func (c *Config) SlotTTL() time.Duration {
	if c.Cache.SlotTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Cache.SlotTTLSeconds) * time.Second
}
