package session

import (
	"context"
	"errors"

	"github.com/fugevet/fintrack/pkg/logger"
)

var (
	// ErrNoSession is returned when an operation needs an authenticated caller
	ErrNoSession = errors.New("no authenticated session")
	// ErrInvalidSession is returned for sessions without a user id
	ErrInvalidSession = errors.New("invalid session")
)

type contextKey struct{}

// Session is the authenticated caller as seen by the client
type Session struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Validate checks the session identifies a user
func (s *Session) Validate() error {
	if s == nil || s.UserID <= 0 {
		return ErrInvalidSession
	}
	return nil
}

// WithContext stores s in ctx. The user id is also exposed to the logger.
func WithContext(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, contextKey{}, s)
	if s != nil {
		ctx = context.WithValue(ctx, logger.UserIDKey, s.UserID)
	}
	return ctx
}

// FromContext returns the session stored in ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// Require returns the session in ctx or ErrNoSession
func Require(ctx context.Context) (*Session, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
