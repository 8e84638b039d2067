// Package memory holds in-process repositories for the reference backend.
// They are the default store and back the handler tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/fugevet/fintrack/internal/platform/user"
)

// UserRepository is an in-memory user.Repository
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*user.User
	byEmail map[string]int64
}

// NewUserRepository creates an empty repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[int64]*user.User),
		byEmail: make(map[string]int64),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores u and assigns its ID
func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(u.Email)
	if _, taken := r.byEmail[key]; taken {
		return user.ErrUserAlreadyExists
	}

	r.nextID++
	u.ID = r.nextID
	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[key] = u.ID
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

// Update replaces a stored user
func (r *UserRepository) Update(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	newKey := emailKey(u.Email)
	if owner, taken := r.byEmail[newKey]; taken && owner != u.ID {
		return user.ErrUserAlreadyExists
	}
	delete(r.byEmail, emailKey(old.Email))

	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[newKey] = u.ID
	return nil
}

// Exists checks if a user with the given email exists
func (r *UserRepository) Exists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[emailKey(email)]
	return ok, nil
}
