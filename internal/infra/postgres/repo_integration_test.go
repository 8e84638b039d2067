//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fugevet/fintrack/internal/infra/postgres"
	"github.com/fugevet/fintrack/internal/platform/record"
	"github.com/fugevet/fintrack/internal/platform/transaction"
	"github.com/fugevet/fintrack/internal/platform/user"
	"github.com/fugevet/fintrack/testutil/testdb"
)

var testDB *testdb.TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testDB, err = testdb.NewTestDB(ctx)
	if err != nil {
		panic("failed to start test database: " + err.Error())
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	os.Exit(code)
}

func newUser(t *testing.T, email string) *user.User {
	t.Helper()
	u := &user.User{Name: "Ayşe", Email: email, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	require.NoError(t, u.SetPassword("secret1"))
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))
	repo := postgres.NewUserRepository(testDB.DB.Pool)

	u := newUser(t, "ayse@example.com")
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, newUser(t, "ayse@example.com"))
		assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
	})

	t.Run("get by email and id", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ayse@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "Ayşe", got.Name)

		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("update last login", func(t *testing.T) {
		u.UpdateLastLogin()
		require.NoError(t, repo.Update(ctx, u))

		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLoginAt)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.Exists(ctx, "ayse@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRecordRepository(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))
	repo := postgres.NewRecordRepository(testDB.DB.Pool)

	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	older := &record.Record{
		UserID: 7, Type: transaction.TypeIncome, PaymentType: "Havale",
		Amount: decimal.RequireFromString("1500.25"), Description: "Maaş",
		Date: base, CreatedAt: base,
	}
	newer := &record.Record{
		UserID: 7, Type: transaction.TypeExpense, PaymentType: "Kredi Kartı",
		Amount: decimal.RequireFromString("-40.10"), CompanyPerson: "Bim",
		Date: base.Add(24 * time.Hour), CreatedAt: base,
	}
	other := &record.Record{
		UserID: 8, Type: transaction.TypeExpense, Amount: decimal.NewFromInt(-1),
		Date: base, CreatedAt: base,
	}
	for _, r := range []*record.Record{older, newer, other} {
		require.NoError(t, repo.Create(ctx, r))
		assert.NotZero(t, r.ID)
	}

	t.Run("list scoped and newest first", func(t *testing.T) {
		got, err := repo.List(ctx, record.ListFilter{UserID: 7})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.True(t, decimal.RequireFromString("-40.10").Equal(got[0].Amount))
		assert.Equal(t, "1500.25", got[1].Amount.StringFixed(2))
	})

	t.Run("list all", func(t *testing.T) {
		got, err := repo.List(ctx, record.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("sign constraint", func(t *testing.T) {
		bad := &record.Record{
			Type: transaction.TypeIncome, Amount: decimal.NewFromInt(-5),
			Date: base, CreatedAt: base,
		}
		assert.Error(t, repo.Create(ctx, bad))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, other.ID))
		assert.ErrorIs(t, repo.Delete(ctx, other.ID), record.ErrRecordNotFound)

		_, err := repo.GetByID(ctx, other.ID)
		assert.ErrorIs(t, err, record.ErrRecordNotFound)
	})
}

func TestRunMigrations_Idempotent(t *testing.T) {
	require.NoError(t, postgres.RunMigrations(testDB.DB))
}
