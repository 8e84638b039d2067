package auth_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/module/auth"
	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/pkg/logger"
)

// MockGateway is a mock implementation of auth.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateUser(ctx context.Context, in finapi.UserCreate) (*finapi.User, int, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*finapi.User), args.Int(1), args.Error(2)
}

func (m *MockGateway) Login(ctx context.Context, in finapi.LoginRequest) (*finapi.LoginResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finapi.LoginResponse), args.Error(1)
}

func newService(gw *MockGateway) *auth.Service {
	return auth.NewService(gw, logger.New("development", io.Discard))
}

func TestRegister_LocalValidation(t *testing.T) {
	tests := []struct {
		name     string
		in       [3]string
		expected error
	}{
		{"blank name", [3]string{" ", "a@b.co", "secret1"}, auth.ErrMissingFields},
		{"blank password", [3]string{"Ali", "a@b.co", "   "}, auth.ErrMissingFields},
		{"bad email", [3]string{"Ali", "not-an-email", "secret1"}, auth.ErrInvalidEmail},
		{"email without dot", [3]string{"Ali", "a@b", "secret1"}, auth.ErrInvalidEmail},
		{"short password", [3]string{"Ali", "a@b.co", "12345"}, auth.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(MockGateway)
			_, err := newService(gw).Register(context.Background(), tt.in[0], tt.in[1], tt.in[2])
			assert.ErrorIs(t, err, tt.expected)
			gw.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted} {
		gw := new(MockGateway)
		gw.On("CreateUser", mock.Anything, finapi.UserCreate{Name: "Ayşe", Email: "ayse@example.com", Password: "secret1"}).
			Return(&finapi.User{ID: 1, Name: "Ayşe", Email: "ayse@example.com"}, status, nil)

		u, err := newService(gw).Register(context.Background(), " Ayşe ", "ayse@example.com ", "secret1")
		require.NoError(t, err, "status %d", status)
		assert.Equal(t, int64(1), u.ID)
		gw.AssertExpectations(t)
	}
}

func TestRegister_FieldErrors(t *testing.T) {
	gw := new(MockGateway)
	gw.On("CreateUser", mock.Anything, mock.Anything).Return(nil, http.StatusUnprocessableEntity, &finapi.APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Fields: []finapi.ValidationDetail{
			{Loc: []any{"body", "email"}, Msg: "value is not a valid email address"},
			{Loc: []any{"body", "password"}, Msg: "too weak"},
		},
	})

	_, err := newService(gw).Register(context.Background(), "Ali", "ali@example.com", "secret1")

	var fe *auth.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "email: value is not a valid email address\npassword: too weak", fe.Error())
}

func TestRegister_EmailTaken(t *testing.T) {
	gw := new(MockGateway)
	gw.On("CreateUser", mock.Anything, mock.Anything).Return(nil, http.StatusBadRequest, &finapi.APIError{
		StatusCode: http.StatusBadRequest,
		Detail:     "Email already exists",
	})

	_, err := newService(gw).Register(context.Background(), "Ali", "ali@example.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestRegister_OtherFailuresAreWrapped(t *testing.T) {
	gw := new(MockGateway)
	gw.On("CreateUser", mock.Anything, mock.Anything).Return(nil, 0, finapi.ErrTransport)

	_, err := newService(gw).Register(context.Background(), "Ali", "ali@example.com", "secret1")
	require.Error(t, err)
	assert.True(t, finapi.IsTransport(err))
}

func TestLogin_Success(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Login", mock.Anything, finapi.LoginRequest{Email: "can@example.com", Password: "pw"}).
		Return(&finapi.LoginResponse{
			AccessToken: "jwt",
			TokenType:   "bearer",
			User:        finapi.User{ID: 4, Name: "Can", Email: "can@example.com"},
		}, nil)

	sess, err := newService(gw).Login(context.Background(), "can@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(4), sess.UserID)
	assert.Equal(t, "jwt", sess.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Login", mock.Anything, mock.Anything).
		Return(nil, &finapi.APIError{StatusCode: http.StatusUnauthorized, Detail: "Invalid credentials"})

	_, err := newService(gw).Login(context.Background(), "can@example.com", "bad")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_ResponseWithoutUser(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Login", mock.Anything, mock.Anything).Return(&finapi.LoginResponse{AccessToken: "jwt"}, nil)

	_, err := newService(gw).Login(context.Background(), "can@example.com", "pw")
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestLogin_MissingFields(t *testing.T) {
	_, err := newService(new(MockGateway)).Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, auth.ErrMissingFields)
}
