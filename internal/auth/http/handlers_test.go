package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/missiontracker/mission-backend/internal/auth"
	"github.com/missiontracker/mission-backend/internal/auth/domain"
	authmw "github.com/missiontracker/mission-backend/internal/auth/middleware"
	"github.com/missiontracker/mission-backend/internal/auth/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memUsers struct {
	byEmail map[string]*domain.User
	err     error
}

func (m *memUsers) UpsertByEmail(_ context.Context, email, name string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	u := &domain.User{ID: "user-" + name, Email: email, Name: name}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type memRevocations struct{ revoked map[string]bool }

func (m *memRevocations) Revoke(_ context.Context, id string, _ time.Duration) error {
	m.revoked[id] = true
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return m.revoked[id], nil
}

type fixture struct {
	router *gin.Engine
	users  *memUsers
}

func setup(t *testing.T, devSignIn bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUsers{byEmail: map[string]*domain.User{}}
	sessions, err := auth.NewSessions(auth.SessionConfig{Secret: testSecret, TTL: time.Hour}, &memRevocations{revoked: map[string]bool{}})
	require.NoError(t, err)

	h := New(Options{
		Sessions:     sessions,
		Users:        service.NewAuthService(users),
		DevSignIn:    devSignIn,
		CookieSecure: true,
	})

	r := gin.New()
	h.Register(r.Group("/api/auth"), authmw.RequireSession(sessions))
	return &fixture{router: r, users: users}
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) signIn(t *testing.T, email string) signInResp {
	t.Helper()
	rr := f.do(http.MethodPost, "/api/auth/dev/signin", `{"email":"`+email+`"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp signInResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestDevSignIn(t *testing.T) {
	f := setup(t, true)

	t.Run("creates user and opens session", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/api/auth/dev/signin", `{"email":"ada@example.com"}`, "")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp signInResp
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "ada", resp.User.Name)
		assert.Equal(t, "ada@example.com", resp.User.Email)

		cookie := rr.Header().Get("Set-Cookie")
		assert.Contains(t, cookie, "mission_session="+resp.Token)
		assert.Contains(t, cookie, "HttpOnly")
		assert.Contains(t, cookie, "Secure")
		assert.Contains(t, cookie, "SameSite=Lax")
	})

	t.Run("same email resolves to same user", func(t *testing.T) {
		first := f.signIn(t, "grace@example.com")
		second := f.signIn(t, "grace@example.com")
		assert.Equal(t, first.User.ID, second.User.ID)
		assert.Len(t, f.users.byEmail, 2)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		for _, body := range []string{`{"email":""}`, `{"email":"nope"}`, `{}`} {
			rr := f.do(http.MethodPost, "/api/auth/dev/signin", body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rr := f.do(http.MethodPost, "/api/auth/dev/signin", `{"email":`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		f.users.err = errors.New("pq: connection refused")
		defer func() { f.users.err = nil }()

		rr := f.do(http.MethodPost, "/api/auth/dev/signin", `{"email":"new@example.com"}`, "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
	})
}

func TestDevSignIn_Disabled(t *testing.T) {
	f := setup(t, false)

	rr := f.do(http.MethodPost, "/api/auth/dev/signin", `{"email":"ada@example.com"}`, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionAndSignOut(t *testing.T) {
	f := setup(t, true)
	session := f.signIn(t, "ada@example.com")

	rr := f.do(http.MethodGet, "/api/auth/session", "", session.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user":{"id":"user-ada","email":"ada@example.com","name":"ada"}}`, rr.Body.String())

	rr = f.do(http.MethodGet, "/api/auth/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodPost, "/api/auth/signout", "", session.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Set-Cookie"), "Max-Age=0")

	rr = f.do(http.MethodGet, "/api/auth/session", "", session.Token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(http.MethodPost, "/api/auth/signout", "", session.Token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
