package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	SnapshotBackend string   `mapstructure:"SNAPSHOT_BACKEND"`
	SnapshotDir     string   `mapstructure:"SNAPSHOT_DIR"`
	DatabaseURL     string   `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL        string   `mapstructure:"REDIS_URL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SNAPSHOT_BACKEND", "memory")
	v.SetDefault("SNAPSHOT_DIR", "./snapshots")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SNAPSHOT_BACKEND")
	v.BindEnv("SNAPSHOT_DIR")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configured snapshot backend has what it needs to
// start: a database url for postgres, a redis url for redis. The memory and
// fs backends have no external requirements.
func (c *Config) Validate() error {
	switch c.SnapshotBackend {
	case "memory":
	case "fs":
		if c.SnapshotDir == "" {
			return fmt.Errorf("SNAPSHOT_DIR is required when SNAPSHOT_BACKEND is \"fs\"")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when SNAPSHOT_BACKEND is \"postgres\"")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SNAPSHOT_BACKEND is \"redis\"")
		}
	default:
		return fmt.Errorf("SNAPSHOT_BACKEND must be \"memory\", \"fs\", \"postgres\" or \"redis\", got %q", c.SnapshotBackend)
	}
	return nil
}
