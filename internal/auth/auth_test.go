package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tracker/internal/core"
	"tracker/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "expenses.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewService(repo)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "hunter2abc"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "another1pw")
	if !errors.Is(err, core.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestRegisterPasswordPolicy(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []string{
		"short1",      // too short
		"lettersonly", // no digits
		"12345678",    // no letters
	}
	for _, pw := range cases {
		if _, err := svc.Register(ctx, "bob", pw); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q: expected ErrWeakPassword, got %v", pw, err)
		}
	}

	if _, err := svc.Register(ctx, "bob", "goodpass1"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "carol", "hunter2abc")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.Login(ctx, "carol", "hunter2abc")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got != id {
		t.Fatalf("login id = %d, want %d", got, id)
	}

	if _, err := svc.Login(ctx, "carol", "wrongpass1"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "hunter2abc"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}
