package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/playperu/triviachat/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.StageDelay != 12*time.Second || cfg.AnswerPause != 3*time.Second || cfg.QuestionPause != 2*time.Second {
		t.Errorf("timings = %s/%s/%s", cfg.StageDelay, cfg.AnswerPause, cfg.QuestionPause)
	}
	if cfg.BotToken != "" || cfg.RedisURL != "" {
		t.Errorf("optional transports enabled by default: %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STAGE_DELAY", "500ms")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.StageDelay != 500*time.Millisecond {
		t.Errorf("StageDelay = %s", cfg.StageDelay)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestLoadRejectsBadTimings(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STAGE_DELAY", "0s"},
		{"ANSWER_PAUSE", "-1s"},
		{"QUESTION_PAUSE", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := config.Load(); err == nil {
				t.Errorf("%s=%s accepted", tt.key, tt.value)
			}
		})
	}
}
