package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fugevet/fintrack/internal/cli"
	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	infraRedis "github.com/fugevet/fintrack/internal/infra/redis"
	"github.com/fugevet/fintrack/internal/module/auth"
	"github.com/fugevet/fintrack/internal/module/transactions"
	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/pkg/config"
	"github.com/fugevet/fintrack/pkg/logger"
	"github.com/fugevet/fintrack/pkg/money"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global := flag.NewFlagSet("fintrack", flag.ContinueOnError)
	verbose := global.Bool("v", false, "verbose logging to stderr")
	if err := global.Parse(os.Args[1:]); err != nil {
		return 2
	}

	config.LoadDotEnv()
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := logger.NewWithLevel("cli", os.Getenv("LOG_FORMAT"), level, os.Stderr)

	methods, err := config.LoadPaymentMethods(cfg.PaymentMethodsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load payment methods: %v\n", err)
		return 1
	}

	client := finapi.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, log)
	txSvc := transactions.NewService(client, log)

	if cfg.CacheEnabled() {
		redisClient, err := infraRedis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Warn("Redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			txSvc.WithCache(infraRedis.NewTransactionCacheWithTTL(redisClient, cfg.CacheTTL, log))
			log.Debug("Redis cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	app := &cli.App{
		Transactions: txSvc,
		Auth:         auth.NewService(client, log),
		Sessions:     session.NewFileStore(cfg.SessionFile),
		Format:       money.NewFormatter(cfg.Locale, cfg.CurrencySymbol),
		Methods:      methods,
		Logger:       log,
		Out:          os.Stdout,
		Err:          os.Stderr,
	}
	return app.Run(ctx, global.Args())
}
