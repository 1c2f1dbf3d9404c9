package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/missiontracker/mission-backend/config"
	"github.com/missiontracker/mission-backend/internal/logx"
)

// ConfigureRuntime sets the gin mode and log level for the environment.
func ConfigureRuntime(app config.AppConfig) {
	if app.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logx.SetLevel(app.LogLevel)
}
