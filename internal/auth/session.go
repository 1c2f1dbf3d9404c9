package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/missiontracker/mission-backend/internal/auth/domain"
)

const defaultIssuer = "mission-backend"

// Revocations records signed-out sessions until they would have expired.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Issuer     string
}

type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Sessions issues and verifies HS256 session tokens. It is the default Gate.
// Tokens are accepted from the Authorization header or the session cookie.
type Sessions struct {
	secret      []byte
	ttl         time.Duration
	cookieName  string
	issuer      string
	revocations Revocations
	now         func() time.Time
}

type SessionOption func(*Sessions)

func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Sessions) { s.now = now }
}

// NewSessions builds the session gate. revocations may be nil, in which case
// sign-out only clears the cookie.
func NewSessions(cfg SessionConfig, revocations Revocations, opts ...SessionOption) (*Sessions, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "mission_session"
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}

	s := &Sessions{
		secret:      []byte(cfg.Secret),
		ttl:         cfg.TTL,
		cookieName:  cfg.CookieName,
		issuer:      cfg.Issuer,
		revocations: revocations,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Sessions) CookieName() string { return s.cookieName }

func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue signs a new session token for id.
func (s *Sessions) Issue(id domain.Identity) (string, time.Time, error) {
	if strings.TrimSpace(id.ID) == "" {
		return "", time.Time{}, errors.New("identity id required")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: id.Email,
		Name:  id.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a token and returns its claims. Every failure matches ErrUnauthenticated.
func (s *Sessions) Parse(token string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &SessionClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: subject and id claims required", ErrUnauthenticated)
	}
	return claims, nil
}

// Authenticate implements Gate.
func (s *Sessions) Authenticate(ctx context.Context, r *http.Request) (domain.Identity, error) {
	token := s.tokenFromRequest(r)
	if token == "" {
		return domain.Identity{}, ErrUnauthenticated
	}

	claims, err := s.Parse(token)
	if err != nil {
		return domain.Identity{}, err
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("check session revocation: %w", err)
		}
		if revoked {
			return domain.Identity{}, fmt.Errorf("%w: session revoked", ErrUnauthenticated)
		}
	}

	return domain.Identity{ID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Revoke invalidates the session presented by r for the rest of its lifetime.
func (s *Sessions) Revoke(ctx context.Context, r *http.Request) error {
	token := s.tokenFromRequest(r)
	if token == "" {
		return ErrUnauthenticated
	}

	claims, err := s.Parse(token)
	if err != nil {
		return err
	}
	if s.revocations == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

func (s *Sessions) tokenFromRequest(r *http.Request) string {
	if token := BearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
