package http

import "github.com/missiontracker/mission-backend/internal/missions/service"

type Handler struct {
	missionService *service.MissionService
}

func New(missionService *service.MissionService) *Handler {
	return &Handler{
		missionService: missionService,
	}
}
