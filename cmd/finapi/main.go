package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fugevet/fintrack/internal/infra/memory"
	"github.com/fugevet/fintrack/internal/infra/postgres"
	"github.com/fugevet/fintrack/internal/platform/record"
	"github.com/fugevet/fintrack/internal/platform/user"
	"github.com/fugevet/fintrack/internal/transport/httpapi"
	"github.com/fugevet/fintrack/internal/transport/httpapi/handler"
	"github.com/fugevet/fintrack/internal/transport/httpapi/middleware"
	"github.com/fugevet/fintrack/pkg/config"
	"github.com/fugevet/fintrack/pkg/logger"
)

const version = "1.0.0"

// storage bundles the repositories the handlers need
type storage struct {
	users   user.Repository
	records record.Repository
	pinger  handler.Pinger
	close   func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadDotEnv()
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, os.Stdout).WithComponent("finapi")
	log.Info("starting finapi server", "env", cfg.Env, "port", cfg.Port, "postgres", cfg.UsesPostgres())

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.close()

	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	userSvc := user.NewService(store.users, log)
	recordSvc := record.NewService(store.records, log)

	r := httpapi.NewRouter(httpapi.Config{
		Context:            ctx,
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		AuthHandler:        handler.NewAuthHandler(userSvc, jwtSvc, log),
		TransactionHandler: handler.NewTransactionHandler(recordSvc, log),
		HealthHandler:      handler.NewHealthHandler(store.pinger, version),
		JWTMiddleware:      middleware.OptionalJWT(jwtSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}

// openStorage picks Postgres when DATABASE_URL is set and the in-memory
// store otherwise
func openStorage(ctx context.Context, cfg *config.Server, log *logger.Logger) (*storage, error) {
	if !cfg.UsesPostgres() {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		records := memory.NewRecordRepository()
		return &storage{
			users:   memory.NewUserRepository(),
			records: records,
			pinger:  records,
			close:   func() {},
		}, nil
	}

	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	log.Info("database connection established")

	if cfg.Migrate {
		if err := postgres.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("migrations applied")
	}

	return &storage{
		users:   postgres.NewUserRepository(db.Pool),
		records: postgres.NewRecordRepository(db.Pool),
		pinger:  db,
		close:   db.Close,
	}, nil
}
