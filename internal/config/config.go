package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"prod"`
	Port        string `env:"PORT" envDefault:"8080"`

	DatabaseURL   string `env:"DATABASE_URL" envDefault:"host=localhost user=postgres password=postgres dbname=askboard port=5432 sslmode=disable"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"secret_key_change_me"`
	SessionName   string `env:"SESSION_NAME" envDefault:"askboard_session"`

	// Empty disables the cross-instance notifier bridge.
	RedisURL string `env:"REDIS_URL"`

	DailyQuestionLimit int           `env:"DAILY_QUESTION_LIMIT" envDefault:"3"`
	CommentMaxLength   int           `env:"COMMENT_MAX_LENGTH" envDefault:"2000"`
	ReconcileInterval  time.Duration `env:"RECONCILE_INTERVAL" envDefault:"24h"`
}

func (c Config) IsDevEnvironment() bool {
	return c.Environment == "dev"
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// .env 不存在时直接使用系统环境变量
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DailyQuestionLimit < 0 {
		return Config{}, fmt.Errorf("DAILY_QUESTION_LIMIT must not be negative, got %d", cfg.DailyQuestionLimit)
	}
	if cfg.CommentMaxLength <= 0 {
		return Config{}, fmt.Errorf("COMMENT_MAX_LENGTH must be positive, got %d", cfg.CommentMaxLength)
	}
	return cfg, nil
}
