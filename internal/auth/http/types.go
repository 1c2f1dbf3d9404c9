package http

import "github.com/missiontracker/mission-backend/internal/auth"

type Handler struct {
	sessions     *auth.Sessions
	users        auth.Provisioner
	devSignIn    bool
	cookieSecure bool
}

type Options struct {
	// Sessions is nil when an external provider issues sessions.
	Sessions     *auth.Sessions
	Users        auth.Provisioner
	DevSignIn    bool
	CookieSecure bool
}

func New(opt Options) *Handler {
	return &Handler{
		sessions:     opt.Sessions,
		users:        opt.Users,
		devSignIn:    opt.DevSignIn,
		cookieSecure: opt.CookieSecure,
	}
}
