package testdb

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	store "github.com/fugevet/fintrack/internal/infra/postgres"
)

// TestDB is a throwaway PostgreSQL container with the schema applied
type TestDB struct {
	Container *postgres.PostgresContainer
	DB        *store.DB
	ConnStr   string
}

// NewTestDB starts a PostgreSQL container and runs the embedded migrations
func NewTestDB(ctx context.Context) (*TestDB, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("fintrack_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := store.NewPool(ctx, store.Config{URL: connStr, MaxConns: 4})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err := store.RunMigrations(db); err != nil {
		db.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestDB{
		Container: container,
		DB:        db,
		ConnStr:   connStr,
	}, nil
}

// Reset truncates every table and restarts id sequences
func (t *TestDB) Reset(ctx context.Context) error {
	_, err := t.DB.Exec(ctx, `TRUNCATE TABLE transactions, users RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Close closes the pool and terminates the container
func (t *TestDB) Close(ctx context.Context) error {
	if t.DB != nil {
		t.DB.Close()
	}
	if t.Container != nil {
		return t.Container.Terminate(ctx)
	}
	return nil
}
