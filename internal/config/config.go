package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Uploads   UploadsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host" envconfig:"DB_HOST"`
	Port         int    `mapstructure:"port" envconfig:"DB_PORT"`
	User         string `mapstructure:"user" envconfig:"DB_USER"`
	Password     string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name         string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode      string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns int    `mapstructure:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type UploadsConfig struct {
	Dir          string `mapstructure:"dir" envconfig:"UPLOADS_DIR"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes" envconfig:"UPLOADS_MAX_SIZE_BYTES"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" envconfig:"RATE_LIMIT_RPS"`
	Burst             int     `mapstructure:"burst" envconfig:"RATE_LIMIT_BURST"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"CORS_ALLOWED_ORIGINS"`
	MaxAge         int      `mapstructure:"max_age" envconfig:"CORS_MAX_AGE"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty" envconfig:"LOG_PRETTY"`
}

type WorkerConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" envconfig:"WORKER_POLL_INTERVAL_SECONDS"`
	BatchSize           int `mapstructure:"batch_size" envconfig:"WORKER_BATCH_SIZE"`
}

// LoadConfig reads config.yml and overlays CLINIC_-prefixed environment
// variables on top, so deployments override individual values without a
// file edit.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("clinic", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)

	viper.SetDefault("redis.url", "redis://localhost:6379/0")

	viper.SetDefault("smtp.port", 587)

	viper.SetDefault("uploads.dir", "./uploads")
	viper.SetDefault("uploads.max_size_bytes", 10<<20)

	viper.SetDefault("ratelimit.requests_per_second", 10)
	viper.SetDefault("ratelimit.burst", 20)

	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.max_age", 43200)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.pretty", false)

	viper.SetDefault("worker.poll_interval_seconds", 10)
	viper.SetDefault("worker.batch_size", 50)
}
