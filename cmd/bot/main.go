package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweetshop-bot/internal/bot"
	"sweetshop-bot/internal/config"
	"sweetshop-bot/internal/db"
	"sweetshop-bot/internal/logger"
	"sweetshop-bot/internal/order"
	"sweetshop-bot/internal/ratelimit"
	"sweetshop-bot/internal/session"
	"sweetshop-bot/internal/telegram"
	"sweetshop-bot/internal/weather"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	sessions, closeSessions := buildSessionStore(cfg)
	defer closeSessions()

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)
	weatherClient := weather.NewClient(cfg.WeatherAPIKey)

	router := bot.NewRouter(sessions, orderSvc, weatherClient)

	limiter := ratelimit.NewPerUser()
	defer limiter.Close()

	poller, err := telegram.NewPoller(cfg.BotToken, router, limiter)
	if err != nil {
		logger.L().Fatal("telegram init failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.L().Info("shutting down...")
		cancel()
	}()

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.L().Fatal("polling loop failed", zap.Error(err))
	}

	logger.L().Info("shutdown complete")
}

// buildSessionStore picks the session backend: redis when configured, so open
// dialogues survive restarts, otherwise in-process memory.
func buildSessionStore(cfg *config.Config) (session.Store, func()) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.L().Fatal("redis unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	logger.L().Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	return session.NewRedisStore(rdb), func() { _ = rdb.Close() }
}
