package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missiontracker/mission-backend/internal/auth/domain"
)

type stubVerifier struct {
	token *fbauth.Token
	err   error
}

func (v stubVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return v.token, v.err
}

type stubProvisioner struct {
	calls []string
	err   error
}

func (p *stubProvisioner) FindOrCreateByEmail(_ context.Context, email string) (domain.Identity, error) {
	p.calls = append(p.calls, email)
	if p.err != nil {
		return domain.Identity{}, p.err
	}
	return domain.Identity{ID: "user-1", Email: email, Name: "ada"}, nil
}

func firebaseRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/missions", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestFirebaseGate_Authenticate(t *testing.T) {
	ctx := context.Background()
	valid := &fbauth.Token{UID: "fb-uid", Claims: map[string]interface{}{"email": "ada@example.com"}}

	t.Run("valid token provisions user", func(t *testing.T) {
		users := &stubProvisioner{}
		gate := NewFirebaseGate(stubVerifier{token: valid}, users)

		id, err := gate.Authenticate(ctx, firebaseRequest("id-token"))
		require.NoError(t, err)
		assert.Equal(t, "user-1", id.ID)
		assert.Equal(t, []string{"ada@example.com"}, users.calls)
	})

	t.Run("missing token", func(t *testing.T) {
		users := &stubProvisioner{}
		gate := NewFirebaseGate(stubVerifier{token: valid}, users)

		_, err := gate.Authenticate(ctx, firebaseRequest(""))
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Empty(t, users.calls)
	})

	t.Run("invalid token", func(t *testing.T) {
		users := &stubProvisioner{}
		gate := NewFirebaseGate(stubVerifier{err: errors.New("token expired")}, users)

		_, err := gate.Authenticate(ctx, firebaseRequest("id-token"))
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Empty(t, users.calls)
	})

	t.Run("token without email", func(t *testing.T) {
		gate := NewFirebaseGate(stubVerifier{token: &fbauth.Token{UID: "fb-uid", Claims: map[string]interface{}{}}}, &stubProvisioner{})

		_, err := gate.Authenticate(ctx, firebaseRequest("id-token"))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("provisioning rejects email", func(t *testing.T) {
		gate := NewFirebaseGate(stubVerifier{token: valid}, &stubProvisioner{err: domain.ErrInvalidEmail})

		_, err := gate.Authenticate(ctx, firebaseRequest("id-token"))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("provisioning storage failure", func(t *testing.T) {
		gate := NewFirebaseGate(stubVerifier{token: valid}, &stubProvisioner{err: errors.New("db down")})

		_, err := gate.Authenticate(ctx, firebaseRequest("id-token"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
	})
}
