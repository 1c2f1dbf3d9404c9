package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/missiontracker/mission-backend/internal/api/http"
	"github.com/missiontracker/mission-backend/internal/api/http/middleware"
	"github.com/missiontracker/mission-backend/internal/auth"
	authhttp "github.com/missiontracker/mission-backend/internal/auth/http"
	authmw "github.com/missiontracker/mission-backend/internal/auth/middleware"
	missionhttp "github.com/missiontracker/mission-backend/internal/missions/http"
	missionservice "github.com/missiontracker/mission-backend/internal/missions/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	// DB may be nil, in which case health reports the database as disabled.
	DB httpapi.Pinger

	Gate         auth.Gate
	Sessions     *auth.Sessions
	Users        auth.Provisioner
	DevSignIn    bool
	CookieSecure bool

	Missions *missionservice.MissionService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	if len(dep.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	requireSession := authmw.RequireSession(dep.Gate)

	authHandler := authhttp.New(authhttp.Options{
		Sessions:     dep.Sessions,
		Users:        dep.Users,
		DevSignIn:    dep.DevSignIn,
		CookieSecure: dep.CookieSecure,
	})
	authHandler.Register(api.Group("/auth"), requireSession)

	missionsGroup := api.Group("/missions", requireSession)
	missionhttp.New(dep.Missions).Register(missionsGroup)

	return r
}
