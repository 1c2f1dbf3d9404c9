package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/missiontracker/mission-backend/internal/auth"
	"github.com/missiontracker/mission-backend/internal/logx"
	"github.com/missiontracker/mission-backend/internal/missions/domain"
)

type missionReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r missionReq) input() domain.MissionInput {
	return domain.MissionInput{Title: r.Title, Description: r.Description, Status: r.Status}
}

// List returns the caller's missions, newest first.
func (h *Handler) List(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}

	items, err := h.missionService.List(c.Request.Context(), ownerID)
	if err != nil {
		writeError(c, "missions.list", err)
		return
	}
	if items == nil {
		items = []domain.Mission{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}

	var req missionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	m, err := h.missionService.Create(c.Request.Context(), ownerID, req.input())
	if err != nil {
		writeError(c, "missions.create", err)
		return
	}

	logx.New(c.Request.Context()).Infof("missions.create", "mission_id=%s owner_id=%s", m.ID, ownerID)
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) Update(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	missionID := strings.TrimSpace(c.Param("id"))

	var req missionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	m, err := h.missionService.Update(c.Request.Context(), ownerID, missionID, req.input())
	if err != nil {
		writeError(c, "missions.update", err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		return
	}
	missionID := strings.TrimSpace(c.Param("id"))

	if err := h.missionService.Delete(c.Request.Context(), ownerID, missionID); err != nil {
		writeError(c, "missions.delete", err)
		return
	}

	logx.New(c.Request.Context()).Infof("missions.delete", "mission_id=%s owner_id=%s", missionID, ownerID)
	c.JSON(http.StatusOK, gin.H{"message": "Mission deleted successfully"})
}

func ownerFrom(c *gin.Context) (string, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok || id.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return id.ID, true
}

// writeError maps service errors to responses. Internal error text never reaches the client.
func writeError(c *gin.Context, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Mission not found"})
	default:
		logx.New(c.Request.Context()).Error(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
