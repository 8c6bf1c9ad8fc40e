// Package auth handles user accounts and browser sessions. Passwords are
// stored as bcrypt hashes only.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"naildash/internal/core"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyUsername      = errors.New("empty username")
	ErrEmptyPassword      = errors.New("empty password")
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository is the persistence port for accounts.
type UserRepository interface {
	// CreateUser stores a new user, returning ErrUsernameTaken when the
	// username is already registered (case-insensitive).
	CreateUser(ctx context.Context, u User) error
	UserByUsername(ctx context.Context, username string) (User, bool, error)
}

// NormalizeUsername lowercases and trims a username so lookups are
// case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type Service struct {
	users UserRepository
	clock core.Clock
}

func NewService(users UserRepository, clock core.Clock) *Service {
	if clock == nil {
		clock = core.SystemClock()
	}
	return &Service{users: users, clock: clock}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, ErrEmptyUsername
	}
	if strings.TrimSpace(password) == "" {
		return User{}, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords return
// the same error so the login form cannot be used to probe for accounts.
func (s *Service) Login(ctx context.Context, username, password string) (User, error) {
	u, ok, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
