package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/trivia.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// BotToken enables the Telegram transport.
	BotToken string `env:"BOT_TOKEN"`
	// RedisURL enables the all-time leaderboard.
	RedisURL string `env:"REDIS_URL"`

	StageDelay    time.Duration `env:"STAGE_DELAY" envDefault:"12s"`
	AnswerPause   time.Duration `env:"ANSWER_PAUSE" envDefault:"3s"`
	QuestionPause time.Duration `env:"QUESTION_PAUSE" envDefault:"2s"`

	BankCacheTTL  time.Duration `env:"BANK_CACHE_TTL" envDefault:"1m"`
	QuestionsFile string        `env:"QUESTIONS_FILE"`

	AdminEmail string `env:"ADMIN_EMAIL" envDefault:"admin@playperu.com"`
	// AdminPasswordHash is a bcrypt hash; the default is the hash of "changeme".
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH" envDefault:"$2a$10$trCdqP4npsbw0R1vQxVwXeT1HebzRmP01SXaNGPz1eSAZ7mpcL0Uu"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.StageDelay <= 0 {
		return nil, fmt.Errorf("STAGE_DELAY must be positive, got %s", cfg.StageDelay)
	}
	if cfg.AnswerPause < 0 || cfg.QuestionPause < 0 {
		return nil, fmt.Errorf("ANSWER_PAUSE and QUESTION_PAUSE must not be negative")
	}
	return &cfg, nil
}
