package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/missiontracker/mission-backend/internal/auth/domain"
)

// UserStore is the persistence collaborator of AuthService.
type UserStore interface {
	UpsertByEmail(ctx context.Context, email, name string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{
		users: users,
	}
}

// FindOrCreateByEmail resolves an email to an identity, creating the user on
// first sight with the email's local part as name. The same email always
// resolves to the same identity.
func (s *AuthService) FindOrCreateByEmail(ctx context.Context, email string) (domain.Identity, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return domain.Identity{}, err
	}

	user, err := s.users.UpsertByEmail(ctx, normalized, NameFromEmail(normalized))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("find or create user: %w", err)
	}
	return user.Identity(), nil
}

// LookupByEmail resolves an existing user without creating one.
func (s *AuthService) LookupByEmail(ctx context.Context, email string) (domain.Identity, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return domain.Identity{}, err
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}

// NormalizeEmail trims and lower-cases an email and checks it has a local part
// and a domain.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// NameFromEmail returns the part before the first "@".
func NameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
