package finapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/pkg/logger"
	"github.com/fugevet/fintrack/pkg/money"
)

func testLogger() *logger.Logger {
	return logger.New("development", io.Discard)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *finapi.Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return finapi.NewClient(server.URL+"/", time.Second, testLogger())
}

// =============================================================================
// Header Tests
// =============================================================================

func TestClient_FixedHeaders(t *testing.T) {
	var got http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`[]`))
	})

	_, err := client.ListTransactions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "true", got.Get("ngrok-skip-browser-warning"))
	assert.Empty(t, got.Get("Authorization"), "no session means no bearer header")
}

func TestClient_BearerFromSession(t *testing.T) {
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	ctx := session.WithContext(context.Background(), &session.Session{UserID: 7, Token: "tok-123"})
	_, err := client.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", auth)
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`[]`))
	})

	_, err := client.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/transactions/", path)
}

// =============================================================================
// Operation Tests
// =============================================================================

func TestClient_ListTransactions_ReturnsRawBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"not": "an array"}`))
	})

	raw, err := client.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"not": "an array"}`, string(raw))
}

func TestClient_CreateTransaction(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transactions/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 42, "user_id": 1, "type": "expense", "amount": -40.5, "product_name": "Market"}`))
	})

	rec, err := client.CreateTransaction(context.Background(), finapi.TransactionCreate{
		UserID:      1,
		Type:        "expense",
		PaymentType: "Nakit",
		Amount:      money.NewWireAmount(decimal.RequireFromString("-40.5")),
		ProductName: "Market",
		Date:        "2025-10-10T10:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, -40.5, received["amount"])
	assert.Equal(t, "Market", received["product_name"])
	assert.Equal(t, float64(1), received["user_id"])

	require.NotNil(t, rec.ID)
	assert.Equal(t, int64(42), *rec.ID)
	assert.True(t, rec.Amount.Valid)
	assert.Equal(t, "-40.5", rec.Amount.Value.String())
}

func TestClient_DeleteTransaction_Status(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantErr  bool
		notFound bool
	}{
		{"no content", http.StatusNoContent, false, false},
		{"ok", http.StatusOK, false, false},
		{"accepted", http.StatusAccepted, false, false},
		{"not found", http.StatusNotFound, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				assert.Equal(t, http.MethodDelete, r.Method)
				if tt.status == http.StatusNotFound {
					w.WriteHeader(tt.status)
					w.Write([]byte(`{"detail": "Transaction not found"}`))
					return
				}
				w.WriteHeader(tt.status)
			})

			status, err := client.DeleteTransaction(context.Background(), 9)
			assert.Equal(t, "/transactions/9", path)
			assert.Equal(t, tt.status, status)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.notFound, finapi.IsNotFound(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClient_CreateUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/", r.URL.Path)
		var in finapi.UserCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ayse@example.com", in.Email)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 3, "name": "Ayşe", "email": "ayse@example.com"}`))
	})

	u, status, err := client.CreateUser(context.Background(), finapi.UserCreate{
		Name: "Ayşe", Email: "ayse@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(3), u.ID)
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"access_token": "jwt", "token_type": "bearer", "user": {"id": 5, "name": "Can", "email": "can@example.com"}}`))
	})

	resp, err := client.Login(context.Background(), finapi.LoginRequest{Email: "can@example.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AccessToken)
	assert.Equal(t, int64(5), resp.User.ID)
}

// =============================================================================
// Error Tests
// =============================================================================

func TestClient_StringDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Email already exists"}`))
	})

	_, _, err := client.CreateUser(context.Background(), finapi.UserCreate{})
	require.Error(t, err)

	apiErr, ok := finapi.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email already exists", apiErr.Detail)
	assert.False(t, finapi.IsValidation(err))
	assert.False(t, finapi.IsTransport(err))
}

func TestClient_ValidationDetailList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [
			{"loc": ["body", "email"], "msg": "value is not a valid email address", "type": "value_error"},
			{"loc": ["body", 0], "msg": "bad item", "type": "value_error"}
		]}`))
	})

	_, _, err := client.CreateUser(context.Background(), finapi.UserCreate{})
	require.Error(t, err)
	assert.True(t, finapi.IsValidation(err))

	apiErr, ok := finapi.AsAPIError(err)
	require.True(t, ok)
	require.Len(t, apiErr.Fields, 2)
	assert.Equal(t, "email", apiErr.Fields[0].Field())
	assert.Equal(t, "0", apiErr.Fields[1].Field())
	assert.Contains(t, err.Error(), "email: value is not a valid email address")
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := client.ListTransactions(context.Background())
	apiErr, ok := finapi.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "upstream down", apiErr.Detail)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := finapi.NewClient(url, time.Second, testLogger())
	_, err := client.ListTransactions(context.Background())
	require.Error(t, err)
	assert.True(t, finapi.IsTransport(err))
	assert.False(t, finapi.IsNotFound(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := finapi.NewClient(server.URL, 50*time.Millisecond, testLogger())
	_, err := client.ListTransactions(context.Background())
	require.Error(t, err)
	assert.True(t, finapi.IsTransport(err))
}
