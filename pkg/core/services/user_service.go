package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/ports"
)

const minAccountPasswordLen = 6

// UserService handles registration and login for dashboard accounts.
// Login failures use the same error for unknown email and wrong password.
type UserService struct {
	accounts ports.AccountStore
	hasher   ports.PasswordHasher
	sessions ports.SessionTokens
	nowFunc  func() time.Time
}

func NewUserService(accounts ports.AccountStore, hasher ports.PasswordHasher, sessions ports.SessionTokens) *UserService {
	return &UserService{
		accounts: accounts,
		hasher:   hasher,
		sessions: sessions,
		nowFunc:  time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	}
	if len(password) < minAccountPasswordLen {
		return "", fmt.Errorf("%w: password too short", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hashing account password: %w", err)
	}

	acc := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.nowFunc().UnixMilli(),
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		return "", err
	}

	return s.sessions.Issue(email)
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	acc, err := s.accounts.Get(ctx, email)
	if domain.IsNotFound(err) {
		// Burn a comparison so unknown emails cost the same as bad passwords.
		s.hasher.Verify(password, "00000000000000000000000000000000$00000000000000000000000000000000")
		return "", domain.ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}

	if ok, _ := s.hasher.Verify(password, acc.PasswordHash); !ok {
		return "", domain.ErrUnauthenticated
	}

	return s.sessions.Issue(email)
}
