package http

import "github.com/gin-gonic/gin"

// Register attaches mission routes. The group must already be behind the session gate.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
