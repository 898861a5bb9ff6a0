package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/triviachat/internal/bank"
	"github.com/playperu/triviachat/internal/config"
	"github.com/playperu/triviachat/internal/database"
	"github.com/playperu/triviachat/internal/game"
	"github.com/playperu/triviachat/internal/handler/health"
	"github.com/playperu/triviachat/internal/leaderboard"
	"github.com/playperu/triviachat/internal/migrations"
	"github.com/playperu/triviachat/internal/server"
	"github.com/playperu/triviachat/internal/telegram"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	applied, err := migrations.Run(ctx, db)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", applied)

	// --- Question bank ---
	store := bank.NewStore(db)
	seed, err := bank.SeedQuestions(cfg.QuestionsFile)
	if err != nil {
		return fmt.Errorf("loading seed questions: %w", err)
	}
	added, err := store.SeedIfEmpty(ctx, seed)
	if err != nil {
		return fmt.Errorf("seeding questions: %w", err)
	}
	if added > 0 {
		logger.Info("seeded question bank", "count", added)
	}
	questions := bank.NewCache(store, cfg.BankCacheTTL)

	admins := server.NewAdminDocStore(db)
	created, err := admins.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		logger.Info("seeded admin account", "email", cfg.AdminEmail)
	}

	// --- Redis (optional) ---
	recorders := game.Recorders{store}
	checks := map[string]health.Checker{"sqlite": dbChecker{db}}
	deps := server.Deps{
		Questions: questions,
		History:   store,
		Admin:     admins,
		Sessions:  map[string]*game.Registry{},
	}
	if cfg.RedisURL != "" {
		rdb, err := leaderboard.Open(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		board := leaderboard.New(rdb, leaderboard.DefaultKey)
		recorders = append(recorders, board)
		checks["redis"] = board
		deps.Leaderboard = board
		logger.Info("connected to redis")
	}

	timings := game.Timings{
		StageDelay:    cfg.StageDelay,
		AnswerPause:   cfg.AnswerPause,
		QuestionPause: cfg.QuestionPause,
	}
	newEngine := func(transport string, out game.Messenger) *game.Engine {
		sessions := game.NewRegistry()
		deps.Sessions[transport] = sessions
		return game.NewEngine(sessions, questions, out,
			game.WithTimings(timings),
			game.WithRecorder(recorders),
			game.WithLogger(logger.With("transport", transport)),
		)
	}

	// --- Web chats ---
	broker := server.NewBroker()
	web := newEngine("web", broker)
	defer web.Close()
	deps.Engine = web
	deps.Broker = broker

	// --- Telegram (optional) ---
	var bot *telegram.Bot
	if cfg.BotToken != "" {
		api, err := telegram.Connect(cfg.BotToken, logger)
		if err != nil {
			return fmt.Errorf("connecting to telegram: %w", err)
		}
		tg := newEngine("telegram", telegram.NewMessenger(api))
		defer tg.Close()
		bot = telegram.NewBot(api, api.Self.UserName, tg, logger)
	}

	activeSessions := func() int {
		n := 0
		for _, reg := range deps.Sessions {
			n += reg.Len()
		}
		return n
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, deps, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).
			Optional("redis").
			WithSessions(activeSessions).
			Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	if bot != nil {
		g.Go(func() error {
			logger.Info("starting telegram bot")
			return bot.Run(gctx)
		})
	}

	return g.Wait()
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }
