package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/missiontracker/mission-backend/internal/auth"
	"github.com/missiontracker/mission-backend/internal/auth/domain"
	"github.com/missiontracker/mission-backend/internal/logx"
)

type signInReq struct {
	Email string `json:"email"`
}

type signInResp struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      domain.Identity `json:"user"`
}

// DevSignIn provisions the user for an email and opens a session for it.
// It performs no credential check and is only mounted when enabled.
func (h *Handler) DevSignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	log := logx.New(c.Request.Context())

	id, err := h.users.FindOrCreateByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
			return
		}
		log.Error("auth.dev_signin", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, expiresAt, err := h.sessions.Issue(id)
	if err != nil {
		log.Error("auth.dev_signin", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.setSessionCookie(c, token, int(h.sessions.TTL().Seconds()))
	log.Infof("auth.dev_signin", "user_id=%s", id.ID)

	c.JSON(http.StatusOK, signInResp{Token: token, ExpiresAt: expiresAt.UTC(), User: id})
}

// GetSession returns the current user's identity
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": id})
}

// SignOut revokes the presented session and clears the cookie.
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.sessions.Revoke(c.Request.Context(), c.Request); err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		logx.New(c.Request.Context()).Error("auth.signout", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessions.CookieName(), value, maxAge, "/", "", h.cookieSecure, true)
}
