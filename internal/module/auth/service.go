package auth

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/platform/session"
	"github.com/fugevet/fintrack/pkg/logger"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Gateway is the subset of the backend client used for accounts
type Gateway interface {
	CreateUser(ctx context.Context, in finapi.UserCreate) (*finapi.User, int, error)
	Login(ctx context.Context, in finapi.LoginRequest) (*finapi.LoginResponse, error)
}

// Service handles registration and login
type Service struct {
	api    Gateway
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(api Gateway, log *logger.Logger) *Service {
	return &Service{
		api:    api,
		logger: log.WithField("component", "auth"),
	}
}

// Register validates the input locally and then creates the account
func (s *Service) Register(ctx context.Context, name, email, password string) (*finapi.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	user, status, err := s.api.CreateUser(ctx, finapi.UserCreate{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, s.registerError(err)
	}

	if status != http.StatusOK && status != http.StatusCreated {
		s.logger.Warn("unexpected register status, treating as success", "status_code", status)
	}
	s.logger.Info("user registered", "email", email)
	return user, nil
}

func (s *Service) registerError(err error) error {
	apiErr, ok := finapi.AsAPIError(err)
	if !ok {
		s.logger.Error("register failed", "error", err)
		return fmt.Errorf("register: %w", err)
	}

	if len(apiErr.Fields) > 0 {
		fe := &FieldErrors{Fields: make([]FieldError, 0, len(apiErr.Fields))}
		for _, d := range apiErr.Fields {
			fe.Fields = append(fe.Fields, FieldError{Field: d.Field(), Message: d.Msg})
		}
		return fe
	}

	if strings.Contains(strings.ToLower(apiErr.Detail), "already exists") {
		return ErrEmailTaken
	}
	return fmt.Errorf("register: %w", err)
}

// Login exchanges credentials for a session
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	resp, err := s.api.Login(ctx, finapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		if apiErr, ok := finapi.AsAPIError(err); ok &&
			(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := &session.Session{
		UserID: resp.User.ID,
		Name:   resp.User.Name,
		Email:  resp.User.Email,
		Token:  resp.AccessToken,
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.logger.Info("user logged in", "user_id", sess.UserID)
	return sess, nil
}
