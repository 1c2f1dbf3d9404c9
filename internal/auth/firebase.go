package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/missiontracker/mission-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client
func InitializeFirebase(ctx context.Context, credentialsPath string) (*fbauth.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

// TokenVerifier is satisfied by *fbauth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseGate authenticates Firebase ID tokens and maps the token's email to
// a local user through the find-or-create rule.
type FirebaseGate struct {
	verifier TokenVerifier
	users    Provisioner
}

func NewFirebaseGate(verifier TokenVerifier, users Provisioner) *FirebaseGate {
	return &FirebaseGate{verifier: verifier, users: users}
}

// Authenticate implements Gate.
func (g *FirebaseGate) Authenticate(ctx context.Context, r *http.Request) (domain.Identity, error) {
	token := BearerToken(r)
	if token == "" {
		return domain.Identity{}, ErrUnauthenticated
	}

	decoded, err := g.verifier.VerifyIDToken(ctx, token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	email, _ := decoded.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no email claim", ErrUnauthenticated)
	}

	id, err := g.users.FindOrCreateByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			return domain.Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		return domain.Identity{}, fmt.Errorf("provision firebase user: %w", err)
	}
	return id, nil
}
