package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/config"
	"github.com/hongminglow/astra-console/internal/http/handlers"
	"github.com/hongminglow/astra-console/internal/http/views"
	"github.com/hongminglow/astra-console/internal/logger"
	"github.com/hongminglow/astra-console/internal/server"
	"github.com/hongminglow/astra-console/internal/storage/postgres"
	"github.com/hongminglow/astra-console/internal/storage/redisstore"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Environment, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	zap.ReplaceGlobals(lg)

	if cfg.MigrateOnStart {
		changed, err := postgres.MigrateUp(cfg.DatabaseURL)
		if err != nil {
			lg.Fatal("apply migrations", zap.Error(err))
		}
		lg.Info("migrations checked", zap.Bool("applied", changed))
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Fatal("init database", zap.Error(err))
	}
	defer store.Close()

	rdb, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		lg.Fatal("init redis", zap.Error(err))
	}
	defer rdb.Close()

	renderer, err := views.New()
	if err != nil {
		lg.Fatal("parse templates", zap.Error(err))
	}

	srv := server.New(cfg, server.Deps{
		Store:    store,
		Sessions: redisstore.NewSessionStore(rdb),
		Edits:    redisstore.NewEditStore(rdb, cfg.EditSessionTTL),
		Attempts: redisstore.NewAttemptCounter(rdb),
		Views:    renderer,
		Checks: map[string]handlers.Pinger{
			"postgres": store,
			"redis": handlers.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}),
		},
		Logger: lg,
	})

	go func() {
		lg.Info("Astra console listening", zap.String("addr", cfg.HTTPAddress()), zap.String("env", cfg.Environment))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		lg.Error("graceful shutdown error", zap.Error(err))
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
