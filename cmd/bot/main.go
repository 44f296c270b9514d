package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"github.com/ovenlog/bakery-bot/internal/bot"
	"github.com/ovenlog/bakery-bot/internal/config"
	"github.com/ovenlog/bakery-bot/internal/dialog"
	"github.com/ovenlog/bakery-bot/internal/domain/ingredients"
	"github.com/ovenlog/bakery-bot/internal/domain/units"
	"github.com/ovenlog/bakery-bot/internal/infra/db"
	httpx "github.com/ovenlog/bakery-bot/internal/infra/http"
	"github.com/ovenlog/bakery-bot/internal/infra/logger"
	"github.com/ovenlog/bakery-bot/internal/ledger"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	ledgerRepo := ingredients.NewRepo(pool)
	ratesRepo := units.NewRepo(pool)
	statesRepo := dialog.NewRepo(pool)

	resolver := units.NewResolver(ratesRepo, log)
	if err := resolver.Reload(ctx); err != nil {
		log.Error("conversion rates load failed", "err", err)
		return
	}

	ids := ledger.NewAllocator(ledgerRepo, log)
	svc := ledger.NewService(ledgerRepo, resolver, ids, log)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram connected", "account", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, pool.Ping)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	b := bot.New(api, log, statesRepo, svc)
	if err := b.Run(ctx, cfg.Telegram.PollTimeoutSec); err != nil && ctx.Err() == nil {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
