package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedback-board/backend/app/models"
	"feedback-board/backend/app/repo"
	"feedback-board/backend/app/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		id    session.Identity
		owner string
		want  bool
	}{
		{name: "owner", id: session.Identity{Username: "alice"}, owner: "alice", want: true},
		{name: "other user", id: session.Identity{Username: "bob"}, owner: "alice"},
		{name: "anonymous", owner: "alice"},
		{name: "anonymous empty owner"},
		{name: "case differs", id: session.Identity{Username: "Alice"}, owner: "alice"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, Authorized(test.id, test.owner))
		})
	}
}

// serve routes req through a mux so path values are populated.
func serve(pattern string, h http.Handler, req *http.Request, as string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.Handle(pattern, h)
	if as != "" {
		req = req.WithContext(session.WithIdentity(req.Context(), session.Identity{Username: as}))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

var reached = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestGuard_RequireAnonymous(t *testing.T) {
	t.Parallel()

	g := &Guard{}
	req := httptest.NewRequest(http.MethodGet, "/login", nil)

	rec := serve("GET /login", g.RequireAnonymous(reached), req, "")
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve("GET /login", g.RequireAnonymous(reached), req, "alice")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users/alice", rec.Header().Get("Location"))
}

func TestGuard_RequireSelf(t *testing.T) {
	t.Parallel()

	g := &Guard{}
	tests := []struct {
		name string
		as   string
		want int
	}{
		{name: "self", as: "alice", want: http.StatusTeapot},
		{name: "other", as: "bob", want: http.StatusUnauthorized},
		{name: "anonymous", want: http.StatusUnauthorized},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/users/alice/delete", nil)
			rec := serve("POST /users/{username}/delete", g.RequireSelf(reached), req, test.as)
			assert.Equal(t, test.want, rec.Code)
		})
	}
}

func TestGuard_RequireFeedbackOwner(t *testing.T) {
	t.Parallel()

	rows := map[uint]*models.Feedback{
		1: {ID: 1, Title: "t", Content: "c", Username: "alice"},
	}
	newGuard := func(calls *int) *Guard {
		return &Guard{
			Feedback: func(_ context.Context, id uint) (*models.Feedback, error) {
				*calls++
				if id == 99 {
					return nil, errors.New("boom")
				}
				f, ok := rows[id]
				if !ok {
					return nil, repo.ErrNotFound
				}
				return f, nil
			},
			Deny: func(w http.ResponseWriter, _ *http.Request, status int) {
				w.WriteHeader(status)
			},
		}
	}

	tests := []struct {
		name      string
		path      string
		as        string
		want      int
		wantCalls int
	}{
		{name: "owner", path: "/feedback/1/delete", as: "alice", want: http.StatusTeapot, wantCalls: 1},
		{name: "other user", path: "/feedback/1/delete", as: "bob", want: http.StatusUnauthorized, wantCalls: 1},
		{name: "anonymous is rejected before lookup", path: "/feedback/1/delete", want: http.StatusUnauthorized},
		{name: "anonymous missing row", path: "/feedback/7/delete", want: http.StatusUnauthorized},
		{name: "missing row", path: "/feedback/7/delete", as: "alice", want: http.StatusNotFound, wantCalls: 1},
		{name: "non numeric id", path: "/feedback/abc/delete", as: "alice", want: http.StatusNotFound},
		{name: "store failure", path: "/feedback/99/delete", as: "alice", want: http.StatusInternalServerError, wantCalls: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var calls int
			var seen *models.Feedback
			h := newGuard(&calls).RequireFeedbackOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = FeedbackFromContext(r.Context())
				w.WriteHeader(http.StatusTeapot)
			}))
			req := httptest.NewRequest(http.MethodPost, test.path, nil)
			rec := serve("POST /feedback/{id}/delete", h, req, test.as)

			assert.Equal(t, test.want, rec.Code)
			assert.Equal(t, test.wantCalls, calls)
			if test.want == http.StatusTeapot {
				require.NotNil(t, seen)
				assert.Equal(t, uint(1), seen.ID)
			}
		})
	}
}
