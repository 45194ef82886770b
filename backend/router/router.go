package router

import (
	"net/http"

	"feedback-board/backend/app/controllers"
	"feedback-board/backend/app/middleware"
	"feedback-board/backend/app/session"
)

type Controllers struct {
	HTTP     *controllers.HTTPController
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Feedback *controllers.FeedbackController
}

func NewRouter(c Controllers, guard *middleware.Guard, sessions *session.Manager) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, middleware.WithRoute(pattern, h))
	}
	fn := func(f http.HandlerFunc) http.Handler { return f }

	// public
	handle("GET /{$}", fn(c.HTTP.Home))
	handle("GET /healthz", fn(c.HTTP.Ping))
	handle("GET /logout", fn(c.Auth.Logout))
	handle("POST /logout", fn(c.Auth.Logout))

	// anonymous only; signed in users bounce to their profile
	handle("GET /register", guard.RequireAnonymous(fn(c.Auth.RegisterForm)))
	handle("POST /register", guard.RequireAnonymous(fn(c.Auth.Register)))
	handle("GET /login", guard.RequireAnonymous(fn(c.Auth.LoginForm)))
	handle("POST /login", guard.RequireAnonymous(fn(c.Auth.Login)))

	// the caller's own account
	handle("GET /users/{username}", guard.RequireSelf(fn(c.Users.Show)))
	handle("POST /users/{username}/delete", guard.RequireSelf(fn(c.Users.Delete)))
	handle("GET /users/{username}/feedback/add", guard.RequireSelf(fn(c.Feedback.New)))
	handle("POST /users/{username}/feedback/add", guard.RequireSelf(fn(c.Feedback.Create)))

	// feedback owned by the caller
	handle("GET /feedback/{id}/update", guard.RequireFeedbackOwner(fn(c.Feedback.Edit)))
	handle("POST /feedback/{id}/update", guard.RequireFeedbackOwner(fn(c.Feedback.Update)))
	handle("POST /feedback/{id}/delete", guard.RequireFeedbackOwner(fn(c.Feedback.Delete)))

	var h http.Handler = mux
	h = sessions.Load(h)
	h = middleware.Recover(h)
	h = middleware.Logging(h)
	h = middleware.RequestID(h)
	return h
}
