package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/fugevet/fintrack/internal/platform/validation"
)

// MinPasswordLength is the shortest accepted password, in characters
const MinPasswordLength = 6

// User represents a user account
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Validate validates a user about to be stored
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrNameRequired
	}
	if !isValidEmail(u.Email) {
		return ErrInvalidEmail
	}
	if u.PasswordHash == "" {
		return ErrInvalidPasswordHash
	}
	return nil
}

// ValidateSignup checks raw signup input and reports every bad field
func ValidateSignup(name, email, password string) error {
	var verr validation.Error
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "missing", "Field required")
	}
	switch {
	case strings.TrimSpace(email) == "":
		verr.Add("email", "missing", "Field required")
	case !isValidEmail(email):
		verr.Add("email", "value_error", "value is not a valid email address")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		verr.Add("password", "string_too_short", fmt.Sprintf("String should have at least %d characters", MinPasswordLength))
	}
	return verr.Err()
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword checks if the provided password matches the stored hash
func (u *User) CheckPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("failed to check password: %w", err)
	}
	return nil
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// isValidEmail accepts a bare address with a dotted domain
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
