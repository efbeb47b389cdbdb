// Package auth implements registration and login against the users table.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"tracker/internal/core"
	"tracker/internal/storage"
)

// ErrWeakPassword is returned by Register when the password does not
// meet the minimum policy.
var ErrWeakPassword = errors.New("password must be at least 8 characters and include both letters and numbers")

type Service struct {
	storage *storage.SQLiteRepository
}

func NewService(storage *storage.SQLiteRepository) *Service {
	return &Service{storage: storage}
}

// Register creates a new user and returns its id.
// Returns core.ErrDuplicateUser when the username is already taken.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, errors.New("username cannot be empty")
	}
	if err := checkPasswordPolicy(password); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.storage.CreateUser(ctx, username, string(hash))
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", id, "username", username)
	return id, nil
}

// Login verifies credentials and returns the user id. Unknown usernames
// and wrong passwords are both reported as core.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (int64, error) {
	u, err := s.storage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, core.ErrNotFound) {
		return 0, core.ErrInvalidCredentials
	}
	if err != nil {
		return 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return 0, core.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "User logged in", "user_id", u.ID, "username", u.Username)
	return u.ID, nil
}

// checkPasswordPolicy enforces the minimum strength rule: at least
// 8 characters containing both a letter and a digit.
func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
