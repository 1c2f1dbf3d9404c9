package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/missiontracker/mission-backend/internal/auth"
	"github.com/missiontracker/mission-backend/internal/logx"
)

// RequireSession rejects requests the gate cannot authenticate before any
// handler runs, and stores the identity in the context otherwise.
func RequireSession(gate auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := gate.Authenticate(c.Request.Context(), c.Request)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				logx.New(c.Request.Context()).Debugf("auth.session", "rejected: %v", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			logx.New(c.Request.Context()).Error("auth.session", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}
