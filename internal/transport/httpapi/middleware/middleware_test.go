package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fugevet/fintrack/pkg/logger"
)

const testSecret = "test-secret-that-is-long-enough-32b"

func echoUser(w http.ResponseWriter, r *http.Request) {
	if id, ok := GetUserIDFromContext(r.Context()); ok {
		w.Header().Set("X-User", strconv.FormatInt(id, 10))
	}
	w.WriteHeader(http.StatusOK)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, err := svc.GenerateToken(42, "a@b.co")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	svc := NewJWTService(testSecret)
	a, err := svc.GenerateToken(1, "a@b.co")
	require.NoError(t, err)
	b, err := svc.GenerateToken(1, "a@b.co")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(testSecret)
	token, err := svc.GenerateToken(7, "a@b.co")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTService("another-secret-that-is-long-enough!").ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewJWTService(testSecret)
		late.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
		_, err := late.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestOptionalJWT(t *testing.T) {
	svc := NewJWTService(testSecret)
	h := OptionalJWT(svc)(http.HandlerFunc(echoUser))
	token, err := svc.GenerateToken(5, "a@b.co")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser bool
	}{
		{"anonymous passes", "", http.StatusOK, false},
		{"valid bearer", "Bearer " + token, http.StatusOK, true},
		{"lowercase scheme", "bearer " + token, http.StatusOK, true},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, false},
		{"bad token", "Bearer nope", http.StatusUnauthorized, false},
		{"empty token", "Bearer ", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, rec.Header().Get("X-User") != "")
			if tt.wantCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, rec.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(t.Context(), 1, 2)(http.HandlerFunc(echoUser))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client")
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getVisitor("10.0.0.1")
	rl.getVisitor("10.0.0.2")
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-2 * visitorTTL)

	assert.Equal(t, 1, rl.evictIdle(time.Now()))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiter_RunStopsWithContext(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal Server Error"}`, rec.Body.String())
}

func TestExtractErrorMessage(t *testing.T) {
	assert.Equal(t, "Transaction not found", extractErrorMessage([]byte(`{"detail":"Transaction not found"}`)))
	assert.Equal(t, "2 validation errors", extractErrorMessage([]byte(`{"detail":[{},{}]}`)))
	assert.Empty(t, extractErrorMessage([]byte(`oops`)))
}

func TestLogger_CapturesErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithFormat("development", "json", &buf)

	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Transaction not found"}`))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/transactions/9", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "Transaction not found", line["error"])
	assert.EqualValues(t, 404, line["status"])
}

func TestAccessLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, accessLevel("/health/live", http.StatusOK))
	assert.Equal(t, slog.LevelInfo, accessLevel("/transactions", http.StatusOK))
	assert.Equal(t, slog.LevelError, accessLevel("/health", http.StatusServiceUnavailable))
}
