// Package auth holds the session gate: the boundary check that turns an inbound
// request into an authenticated Identity or rejects it.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/missiontracker/mission-backend/internal/auth/domain"
)

// ErrUnauthenticated is returned by a Gate when the request carries no valid session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Gate authenticates an inbound request. Errors matching ErrUnauthenticated
// mean "no valid session"; any other error is an infrastructure failure.
type Gate interface {
	Authenticate(ctx context.Context, r *http.Request) (domain.Identity, error)
}

// Provisioner resolves an email to an identity, creating the user on first sight.
type Provisioner interface {
	FindOrCreateByEmail(ctx context.Context, email string) (domain.Identity, error)
}

const (
	CtxIdentity = "identity"
	CtxUserID   = "user_id"
)

// SetIdentity stores the authenticated identity in the Gin context.
func SetIdentity(c *gin.Context, id domain.Identity) {
	c.Set(CtxIdentity, id)
	c.Set(CtxUserID, id.ID)
}

// IdentityFrom extracts the identity stored by the session middleware.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	if !ok || strings.TrimSpace(id.ID) == "" {
		return domain.Identity{}, false
	}
	return id, true
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
