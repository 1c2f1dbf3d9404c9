package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/missiontracker/mission-backend/config"
	"github.com/missiontracker/mission-backend/internal/auth"
	authrepo "github.com/missiontracker/mission-backend/internal/auth/repository"
	authservice "github.com/missiontracker/mission-backend/internal/auth/service"
)

type AuthDeps struct {
	Gate  auth.Gate
	Users *authservice.AuthService
	// Sessions is nil when AUTH_PROVIDER=firebase.
	Sessions *auth.Sessions
}

// BuildAuth wires the session gate selected by cfg.Auth.Provider. rdb may be nil.
func BuildAuth(ctx context.Context, cfg *config.Config, db *sql.DB, rdb *redis.Client) (*AuthDeps, error) {
	users := authservice.NewAuthService(authrepo.NewUserRepository(db))

	switch cfg.Auth.Provider {
	case config.AuthProviderSession:
		sessions, err := NewSessions(cfg.Auth, rdb)
		if err != nil {
			return nil, err
		}
		return &AuthDeps{Gate: sessions, Users: users, Sessions: sessions}, nil

	case config.AuthProviderFirebase:
		client, err := auth.InitializeFirebase(ctx, cfg.Firebase.CredentialsPath)
		if err != nil {
			return nil, err
		}
		return &AuthDeps{Gate: auth.NewFirebaseGate(client, users), Users: users}, nil

	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}

// NewSessions builds the session issuer, backed by Redis revocations when rdb is set.
func NewSessions(cfg config.AuthConfig, rdb *redis.Client) (*auth.Sessions, error) {
	var revocations auth.Revocations
	if rdb != nil {
		revocations = authrepo.NewRevocationRepository(rdb)
	}

	return auth.NewSessions(auth.SessionConfig{
		Secret:     cfg.SessionSecret,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.CookieName,
	}, revocations)
}
