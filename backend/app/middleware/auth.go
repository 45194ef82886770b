package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"feedback-board/backend/app/models"
	"feedback-board/backend/app/repo"
	"feedback-board/backend/app/session"

	"github.com/rs/zerolog"
)

// Authorized reports whether id may act on a row owned by owner.
func Authorized(id session.Identity, owner string) bool {
	return id.Authenticated() && owner != "" && id.Username == owner
}

// FeedbackLoader fetches a feedback row by id.
type FeedbackLoader func(ctx context.Context, id uint) (*models.Feedback, error)

// ErrorFunc writes an error response with the given status.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, status int)

type Guard struct {
	Feedback FeedbackLoader
	Deny     ErrorFunc
}

func (g *Guard) deny(w http.ResponseWriter, r *http.Request, status int) {
	if g.Deny != nil {
		g.Deny(w, r, status)
		return
	}
	http.Error(w, http.StatusText(status), status)
}

// ProfilePath is where an authenticated user lands.
func ProfilePath(username string) string {
	return "/users/" + url.PathEscape(username)
}

// RequireAnonymous sends authenticated callers to their own profile without
// running next.
func (g *Guard) RequireAnonymous(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := session.FromContext(r.Context()); id.Authenticated() {
			http.Redirect(w, r, ProfilePath(id.Username), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSelf only lets the request through when the {username} path value
// is the caller.
func (g *Guard) RequireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Authorized(session.FromContext(r.Context()), r.PathValue("username")) {
			g.deny(w, r, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireFeedbackOwner resolves the {id} path value and only lets the owner
// through. Anonymous callers are rejected before anything is read.
func (g *Guard) RequireFeedbackOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := session.FromContext(r.Context())
		if !id.Authenticated() {
			g.deny(w, r, http.StatusUnauthorized)
			return
		}

		fid, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
		if err != nil || fid == 0 {
			g.deny(w, r, http.StatusNotFound)
			return
		}
		f, err := g.Feedback(r.Context(), uint(fid))
		switch {
		case errors.Is(err, repo.ErrNotFound):
			g.deny(w, r, http.StatusNotFound)
			return
		case err != nil:
			zerolog.Ctx(r.Context()).Error().Err(err).Uint64("feedback_id", fid).Msg("load feedback")
			g.deny(w, r, http.StatusInternalServerError)
			return
		}

		if !Authorized(id, f.Username) {
			g.deny(w, r, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithFeedback(r.Context(), f)))
	})
}
