// Package config loads process-wide configuration for the planner: the
// HTTP/DB wiring plus the engine's read-only ranking and geodesy
// parameters.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Engine EngineConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"SERVER_HOST"`
	Port         int           `mapstructure:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"SERVER_IDLE_TIMEOUT"`
}

// DBConfig holds PostGIS connection settings.
type DBConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
	MaxConns int32  `mapstructure:"DB_MAX_CONNS"`
	MinConns int32  `mapstructure:"DB_MIN_CONNS"`
}

// EngineConfig holds the planning engine's tunable parameters. All of them
// are read-only once loaded; the engine carries no other global state.
type EngineConfig struct {
	WalkSpeedMPerMin       float64 `mapstructure:"ENGINE_WALK_SPEED_M_PER_MIN"`
	BusSpeedMPerMin        float64 `mapstructure:"ENGINE_BUS_SPEED_M_PER_MIN"`
	WaitSecondsPerBoard    int     `mapstructure:"ENGINE_WAIT_SECONDS_PER_BOARD"`
	TransferSettleSeconds  int     `mapstructure:"ENGINE_TRANSFER_SETTLE_SECONDS"`
	WalkPenaltyWeight      float64 `mapstructure:"ENGINE_WALK_PENALTY_WEIGHT"`
	TransferPenaltySeconds int     `mapstructure:"ENGINE_TRANSFER_PENALTY_SECONDS"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// ServerAddr returns the HTTP listen address in host:port format.
func (s *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "5s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "transport")
	viper.SetDefault("DB_PASSWORD", "transport_dev_pwd")
	viper.SetDefault("DB_NAME", "transport")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 20)
	viper.SetDefault("DB_MIN_CONNS", 5)

	viper.SetDefault("ENGINE_WALK_SPEED_M_PER_MIN", 70.0)
	viper.SetDefault("ENGINE_BUS_SPEED_M_PER_MIN", 333.0)
	viper.SetDefault("ENGINE_WAIT_SECONDS_PER_BOARD", 300)
	viper.SetDefault("ENGINE_TRANSFER_SETTLE_SECONDS", 180)
	viper.SetDefault("ENGINE_WALK_PENALTY_WEIGHT", 5.0)
	viper.SetDefault("ENGINE_TRANSFER_PENALTY_SECONDS", 240)

	// Try to read a .env file. If it doesn't exist (e.g. inside a container),
	// env vars injected by the deployment are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Host:         viper.GetString("SERVER_HOST"),
		Port:         viper.GetInt("SERVER_PORT"),
		ReadTimeout:  viper.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: viper.GetDuration("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:  viper.GetDuration("SERVER_IDLE_TIMEOUT"),
	}

	cfg.DB = DBConfig{
		Host:     viper.GetString("DB_HOST"),
		Port:     viper.GetInt("DB_PORT"),
		User:     viper.GetString("DB_USER"),
		Password: viper.GetString("DB_PASSWORD"),
		Name:     viper.GetString("DB_NAME"),
		SSLMode:  viper.GetString("DB_SSLMODE"),
		MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		MinConns: viper.GetInt32("DB_MIN_CONNS"),
	}

	cfg.Engine = EngineConfig{
		WalkSpeedMPerMin:       viper.GetFloat64("ENGINE_WALK_SPEED_M_PER_MIN"),
		BusSpeedMPerMin:        viper.GetFloat64("ENGINE_BUS_SPEED_M_PER_MIN"),
		WaitSecondsPerBoard:    viper.GetInt("ENGINE_WAIT_SECONDS_PER_BOARD"),
		TransferSettleSeconds:  viper.GetInt("ENGINE_TRANSFER_SETTLE_SECONDS"),
		WalkPenaltyWeight:      viper.GetFloat64("ENGINE_WALK_PENALTY_WEIGHT"),
		TransferPenaltySeconds: viper.GetInt("ENGINE_TRANSFER_PENALTY_SECONDS"),
	}

	return cfg, nil
}

// DefaultEngineConfig returns the engine defaults without touching viper's
// global state; used by tests that need the read-only parameters without a
// full Load().
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		WalkSpeedMPerMin:       70.0,
		BusSpeedMPerMin:        333.0,
		WaitSecondsPerBoard:    300,
		TransferSettleSeconds:  180,
		WalkPenaltyWeight:      5.0,
		TransferPenaltySeconds: 240,
	}
}
