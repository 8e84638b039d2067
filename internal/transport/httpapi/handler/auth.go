package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/fugevet/fintrack/internal/infra/gateway/finapi"
	"github.com/fugevet/fintrack/internal/platform/user"
	"github.com/fugevet/fintrack/internal/platform/validation"
	"github.com/fugevet/fintrack/pkg/logger"
)

// UserServiceInterface defines the user operations needed by AuthHandler
type UserServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*user.User, error)
}

// JWTServiceInterface defines the interface for JWT operations
type JWTServiceInterface interface {
	GenerateToken(userID int64, email string) (string, error)
}

// AuthHandler handles signup and login
type AuthHandler struct {
	userService UserServiceInterface
	jwtService  JWTServiceInterface
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService UserServiceInterface, jwtService JWTServiceInterface, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		logger:      log.WithComponent("auth_handler"),
	}
}

// Register handles POST /users/
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req finapi.UserCreate
	if verr := decodeJSON(w, r, &req); verr != nil {
		respondValidation(w, verr)
		return
	}

	u, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			respondValidation(w, verr)
		case errors.Is(err, user.ErrUserAlreadyExists):
			respondDetail(w, "Email already exists", http.StatusBadRequest)
		default:
			h.logger.WithContext(r.Context()).WithError(err).Error("register failed")
			respondDetail(w, "Failed to register user", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, publicUser(u), http.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req finapi.LoginRequest
	if verr := decodeJSON(w, r, &req); verr != nil {
		respondValidation(w, verr)
		return
	}

	var verr validation.Error
	if req.Email == "" {
		verr.Add("email", "missing", "Field required")
	}
	if req.Password == "" {
		verr.Add("password", "missing", "Field required")
	}
	if verr.Err() != nil {
		respondValidation(w, &verr)
		return
	}

	u, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidPassword) {
			respondDetail(w, "Incorrect email or password", http.StatusUnauthorized)
			return
		}
		h.logger.WithContext(r.Context()).WithError(err).Error("login failed")
		respondDetail(w, "Failed to login", http.StatusInternalServerError)
		return
	}

	token, err := h.jwtService.GenerateToken(u.ID, u.Email)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("token generation failed")
		respondDetail(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, finapi.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        publicUser(u),
	}, http.StatusOK)
}

func publicUser(u *user.User) finapi.User {
	return finapi.User{ID: u.ID, Name: u.Name, Email: u.Email}
}
