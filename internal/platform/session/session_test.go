package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/pkg/logger"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := session.FromContext(ctx)
	assert.False(t, ok)

	_, err := session.Require(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	s := &session.Session{UserID: 7, Token: "tok"}
	ctx = session.WithContext(ctx, s)

	got, err := session.Require(ctx)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, int64(7), ctx.Value(logger.UserIDKey))
}

func TestRequire_RejectsUserlessSession(t *testing.T) {
	ctx := session.WithContext(context.Background(), &session.Session{Token: "x"})
	_, err := session.Require(ctx)
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)

	in := &session.Session{UserID: 3, Name: "Ayşe", Email: "ayse@example.com", Token: "jwt"}
	require.NoError(t, store.Save(in))
	assert.NotEmpty(t, in.ID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestFileStore_SaveRejectsInvalid(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "s.json"))
	assert.ErrorIs(t, store.Save(&session.Session{}), session.ErrInvalidSession)
}
