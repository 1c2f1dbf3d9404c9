package http

import "github.com/gin-gonic/gin"

// Register attaches auth routes. requireSession guards the routes that need a session.
func (h *Handler) Register(rg *gin.RouterGroup, requireSession gin.HandlerFunc) {
	if h.sessions != nil && h.devSignIn {
		rg.POST("/dev/signin", h.DevSignIn)
	}
	rg.GET("/session", requireSession, h.GetSession)
	if h.sessions != nil {
		rg.POST("/signout", requireSession, h.SignOut)
	}
}
