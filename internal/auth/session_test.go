package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missiontracker/mission-backend/internal/auth/domain"
	"github.com/missiontracker/mission-backend/internal/auth/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var ada = domain.Identity{ID: "user-ada", Email: "ada@example.com", Name: "ada"}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestSessions(t *testing.T, rev Revocations) (*Sessions, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Now().Truncate(time.Second)}
	s, err := NewSessions(SessionConfig{Secret: testSecret, TTL: time.Hour}, rev, WithSessionClock(clock.Now))
	require.NoError(t, err)
	return s, clock
}

func bearerRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/missions", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestNewSessions_ValidatesConfig(t *testing.T) {
	_, err := NewSessions(SessionConfig{Secret: "short", TTL: time.Hour}, nil)
	assert.Error(t, err)

	_, err = NewSessions(SessionConfig{Secret: testSecret}, nil)
	assert.Error(t, err)

	s, err := NewSessions(SessionConfig{Secret: testSecret, TTL: time.Hour}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mission_session", s.CookieName())
	assert.Equal(t, time.Hour, s.TTL())
}

func TestSessions_IssueAndAuthenticate(t *testing.T) {
	s, clock := newTestSessions(t, nil)
	ctx := context.Background()

	token, expiresAt, err := s.Issue(ada)
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(time.Hour), expiresAt)

	t.Run("bearer header", func(t *testing.T) {
		id, err := s.Authenticate(ctx, bearerRequest(token))
		require.NoError(t, err)
		assert.Equal(t, ada, id)
	})

	t.Run("session cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/missions", nil)
		r.AddCookie(&http.Cookie{Name: s.CookieName(), Value: token})

		id, err := s.Authenticate(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, ada.ID, id.ID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := s.Authenticate(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Token "+token)
		_, err := s.Authenticate(ctx, r)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		clock.t = clock.t.Add(2 * time.Hour)
		defer func() { clock.t = clock.t.Add(-2 * time.Hour) }()

		_, err := s.Authenticate(ctx, bearerRequest(token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestSessions_RejectsForeignTokens(t *testing.T) {
	s, _ := newTestSessions(t, nil)
	other, err := NewSessions(SessionConfig{Secret: "ffffffffffffffffffffffffffffffff", TTL: time.Hour}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("different secret", func(t *testing.T) {
		token, _, err := other.Issue(ada)
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, bearerRequest(token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Subject:   ada.ID,
			Issuer:    defaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = s.Authenticate(ctx, bearerRequest(token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Issuer:    defaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = s.Authenticate(ctx, bearerRequest(token))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Authenticate(ctx, bearerRequest("not.a.jwt"))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestSessions_IssueRequiresIdentity(t *testing.T) {
	s, _ := newTestSessions(t, nil)
	_, _, err := s.Issue(domain.Identity{Email: "x@example.com"})
	assert.Error(t, err)
}

func TestSessions_Revoke(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s, _ := newTestSessions(t, repository.NewRevocationRepository(client))
	ctx := context.Background()

	token, _, err := s.Issue(ada)
	require.NoError(t, err)
	other, _, err := s.Issue(ada)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, bearerRequest(token)))

	_, err = s.Authenticate(ctx, bearerRequest(token))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	id, err := s.Authenticate(ctx, bearerRequest(other))
	require.NoError(t, err, "other sessions of the same user stay valid")
	assert.Equal(t, ada.ID, id.ID)

	t.Run("revocation store failure is not an auth rejection", func(t *testing.T) {
		mr.SetError("server down")
		defer mr.SetError("")

		_, err := s.Authenticate(ctx, bearerRequest(other))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("revoke without a session", func(t *testing.T) {
		err := s.Revoke(ctx, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestSessions_RevokeWithoutStoreIsNoop(t *testing.T) {
	s, _ := newTestSessions(t, nil)
	token, _, err := s.Issue(ada)
	require.NoError(t, err)

	require.NoError(t, s.Revoke(context.Background(), bearerRequest(token)))
}
