package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Log         LogConfig         `mapstructure:"log"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Attempt     AttemptConfig     `mapstructure:"attempt"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Jobs        JobsConfig        `mapstructure:"jobs"`

	// Runtime flags (set from command line, not the config file).
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig drives the rotating file sink. Level falls back to the server
// mode (debug mode logs at debug) when left empty.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AttemptConfig holds attempt lifecycle policy knobs.
type AttemptConfig struct {
	// AllowParallel permits a user to hold several in-progress attempts
	// for the same mock test. Off by default.
	AllowParallel bool `mapstructure:"allow_parallel"`
}

type LeaderboardConfig struct {
	// RecalcIntervalMinutes is the cadence of the scheduled aggregator.
	RecalcIntervalMinutes int `mapstructure:"recalc_interval_minutes"`
	// TopLimit caps the page size served from the leaderboard endpoints.
	TopLimit int `mapstructure:"top_limit"`
	// CacheTTLSeconds controls the redis cache of leaderboard pages.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

type JobsConfig struct {
	StatsIntervalMinutes       int `mapstructure:"stats_interval_minutes"`
	PublicationIntervalMinutes int `mapstructure:"publication_interval_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("EXAM_PREP")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Log.File == "" {
		cfg.Log.File = "logs/app.log"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 100
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 30
	}

	if cfg.Leaderboard.RecalcIntervalMinutes <= 0 {
		cfg.Leaderboard.RecalcIntervalMinutes = 30
	}
	if cfg.Leaderboard.TopLimit <= 0 {
		cfg.Leaderboard.TopLimit = 100
	}
	if cfg.Leaderboard.CacheTTLSeconds <= 0 {
		cfg.Leaderboard.CacheTTLSeconds = 60
	}
	if cfg.Jobs.StatsIntervalMinutes <= 0 {
		cfg.Jobs.StatsIntervalMinutes = 60
	}
	if cfg.Jobs.PublicationIntervalMinutes <= 0 {
		cfg.Jobs.PublicationIntervalMinutes = 360
	}

	return &cfg, nil
}
