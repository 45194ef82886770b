package router_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"feedback-board/backend/app/db/dbtest"
	"feedback-board/backend/app/dto"
	"feedback-board/backend/app/models"
	"feedback-board/backend/config"
	"feedback-board/backend/initialize"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	t   *testing.T
	srv *httptest.Server
	app *initialize.App
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := &config.Config{
		Session: config.Session{Secret: "test-secret", Issuer: "feedback-board", Cookie: "session", TTL: time.Hour},
	}
	app, err := initialize.Wire(cfg, dbtest.Open(t), zerolog.Nop())
	require.NoError(t, err)
	app.Users.Cost = bcrypt.MinCost

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return &env{t: t, srv: srv, app: app}
}

// browser is one cookie jar. Redirects are returned, not followed.
type browser struct {
	env    *env
	client *http.Client
	json   bool
}

func (e *env) browser() *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &browser{env: e, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

type response struct {
	status   int
	location string
	body     string
}

func (b *browser) do(method, path string, form url.Values) response {
	b.env.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.env.srv.URL+path, body)
	require.NoError(b.env.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.json {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := b.client.Do(req)
	require.NoError(b.env.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.env.t, err)
	return response{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(raw)}
}

func (b *browser) get(path string) response { return b.do(http.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) response {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

func registration(username, password, email string) url.Values {
	return url.Values{
		"username": {username}, "password": {password}, "email": {email},
		"first_name": {"First"}, "last_name": {"Last"},
	}
}

func (b *browser) register(username, password string) {
	b.env.t.Helper()
	res := b.post("/register", registration(username, password, username+"@example.com"))
	require.Equal(b.env.t, http.StatusSeeOther, res.status, res.body)
	require.Equal(b.env.t, "/users/"+username, res.location)
}

func (b *browser) addFeedback(username, title, content string) {
	b.env.t.Helper()
	res := b.post("/users/"+username+"/feedback/add", url.Values{"title": {title}, "content": {content}})
	require.Equal(b.env.t, http.StatusSeeOther, res.status, res.body)
	require.Equal(b.env.t, "/users/"+username, res.location)
}

func (e *env) feedback(username string) []models.Feedback {
	e.t.Helper()
	var rows []models.Feedback
	require.NoError(e.t, e.app.DB.Where("username = ?", username).Order("id").Find(&rows).Error)
	return rows
}

func (e *env) userCount(username string) int64 {
	e.t.Helper()
	var n int64
	require.NoError(e.t, e.app.DB.Model(&models.User{}).Where("username = ?", username).Count(&n).Error)
	return n
}

func doc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return d
}

func feedbackPath(id uint, action string) string {
	return "/feedback/" + strconv.FormatUint(uint64(id), 10) + "/" + action
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	anon := e.browser()

	res := anon.get("/")
	assert.Equal(t, http.StatusFound, res.status)
	assert.Equal(t, "/register", res.location)

	res = anon.get("/healthz")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "pong", res.body)

	res = anon.get("/register")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, 1, doc(t, res.body).Find("form#register").Length())

	res = anon.get("/login")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, 1, doc(t, res.body).Find("form#login").Length())

	assert.Equal(t, http.StatusNotFound, anon.get("/nope").status)
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	alice := e.browser()
	alice.register("alice", "pw1")

	res := alice.get("/users/alice")
	require.Equal(t, http.StatusOK, res.status)
	d := doc(t, res.body)
	assert.Equal(t, "alice", d.Find("#username").Text())
	assert.Equal(t, "First Last", d.Find("#fullname").Text())

	t.Run("duplicate username leaves the original intact", func(t *testing.T) {
		other := e.browser()
		res := other.post("/register", registration("alice", "pw2", "other@example.com"))
		assert.Equal(t, http.StatusConflict, res.status)
		d := doc(t, res.body)
		assert.Equal(t, "Username or email is already taken.", d.Find(`[data-field="username"]`).Text())
		val, _ := d.Find(`input[name="email"]`).Attr("value")
		assert.Equal(t, "other@example.com", val)
		assert.Equal(t, int64(1), e.userCount("alice"))

		res = other.post("/login", url.Values{"username": {"alice"}, "password": {"pw2"}})
		assert.Equal(t, http.StatusUnauthorized, res.status)
		res = other.post("/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
		assert.Equal(t, http.StatusSeeOther, res.status)
		assert.Equal(t, "/users/alice", res.location)
	})

	t.Run("duplicate email", func(t *testing.T) {
		res := e.browser().post("/register", registration("carol", "pw", "alice@example.com"))
		assert.Equal(t, http.StatusConflict, res.status)
		assert.Zero(t, e.userCount("carol"))
	})

	t.Run("invalid form", func(t *testing.T) {
		res := e.browser().post("/register", registration("dave", "", "not-an-email"))
		assert.Equal(t, http.StatusBadRequest, res.status)
		d := doc(t, res.body)
		assert.Equal(t, "This field is required.", d.Find(`[data-field="password"]`).Text())
		assert.Equal(t, "Invalid email address.", d.Find(`[data-field="email"]`).Text())
		assert.Zero(t, e.userCount("dave"))
	})

	t.Run("multibyte password is measured in bytes", func(t *testing.T) {
		// 40 characters, 80 bytes
		res := e.browser().post("/register", registration("erin", strings.Repeat("é", 40), "erin@example.com"))
		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Empty(t, res.location)
		assert.Equal(t, "Must be at most 72 bytes.", doc(t, res.body).Find(`[data-field="password"]`).Text())
		assert.Zero(t, e.userCount("erin"))

		// 36 characters, exactly 72 bytes
		frank := e.browser()
		frank.register("frank", strings.Repeat("é", 36))
		assert.Equal(t, http.StatusOK, frank.get("/users/frank").status)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		anon := e.browser()
		wrong := anon.post("/login", url.Values{"username": {"alice"}, "password": {"nope"}})
		unknown := anon.post("/login", url.Values{"username": {"nobody"}, "password": {"nope"}})
		assert.Equal(t, http.StatusUnauthorized, wrong.status)
		assert.Equal(t, http.StatusUnauthorized, unknown.status)
		assert.Equal(t,
			doc(t, wrong.body).Find("#form-error").Text(),
			doc(t, unknown.body).Find("#form-error").Text())
		assert.Equal(t, http.StatusUnauthorized, anon.get("/users/alice").status)
	})

	t.Run("register and login while signed in do nothing", func(t *testing.T) {
		res := alice.post("/register", registration("bob", "pw", "bob@example.com"))
		assert.Equal(t, http.StatusSeeOther, res.status)
		assert.Equal(t, "/users/alice", res.location)
		assert.Zero(t, e.userCount("bob"))

		res = alice.get("/login")
		assert.Equal(t, http.StatusSeeOther, res.status)
		assert.Equal(t, "/users/alice", res.location)

		res = alice.post("/login", url.Values{"username": {"mallory"}, "password": {"x"}})
		assert.Equal(t, http.StatusSeeOther, res.status)
		assert.Equal(t, "/users/alice", res.location)
		assert.Equal(t, http.StatusOK, alice.get("/users/alice").status)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	alice := e.browser()
	alice.register("alice", "pw1")

	res := alice.get("/logout")
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, "/", res.location)
	assert.Equal(t, http.StatusUnauthorized, alice.get("/users/alice").status)

	res = alice.post("/login", url.Values{"username": {"alice"}, "password": {"pw1"}})
	require.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, http.StatusSeeOther, alice.post("/logout", nil).status)
	assert.Equal(t, http.StatusUnauthorized, alice.get("/users/alice").status)
}

func TestForgedCookie(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	alice := e.browser()
	alice.register("alice", "pw1")

	u, err := url.Parse(e.srv.URL)
	require.NoError(t, err)
	mallory := e.browser()
	mallory.client.Jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "alice"}})
	assert.Equal(t, http.StatusUnauthorized, mallory.get("/users/alice").status)
}

func TestFeedbackOwnership(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	alice := e.browser()
	alice.register("alice", "pw1")
	alice.addFeedback("alice", "first", "hello *world*")

	rows := e.feedback("alice")
	require.Len(t, rows, 1)
	id := rows[0].ID

	res := alice.get("/users/alice")
	require.Equal(t, http.StatusOK, res.status)
	item := doc(t, res.body).Find("li.feedback")
	assert.Equal(t, 1, item.Length())
	assert.Equal(t, "world", item.Find(".content em").Text())

	bob := e.browser()
	bob.register("bob", "pw2")
	anon := e.browser()

	t.Run("other users cannot touch it", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, bob.post(feedbackPath(id, "delete"), nil).status)
		assert.Equal(t, http.StatusUnauthorized, bob.get(feedbackPath(id, "update")).status)
		res := bob.post(feedbackPath(id, "update"), url.Values{"title": {"pwned"}, "content": {"x"}})
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, http.StatusUnauthorized, bob.get("/users/alice").status)
		assert.Equal(t, http.StatusUnauthorized, bob.post("/users/alice/feedback/add", url.Values{"title": {"t"}, "content": {"c"}}).status)
		assert.Equal(t, http.StatusUnauthorized, bob.post("/users/alice/delete", nil).status)

		rows := e.feedback("alice")
		require.Len(t, rows, 1)
		assert.Equal(t, "first", rows[0].Title)
		assert.Empty(t, e.feedback("bob"))
		assert.Equal(t, int64(1), e.userCount("alice"))
	})

	t.Run("anonymous is unauthorized even for missing rows", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, anon.post(feedbackPath(id, "delete"), nil).status)
		assert.Equal(t, http.StatusUnauthorized, anon.post(feedbackPath(9999, "delete"), nil).status)
		assert.Equal(t, http.StatusUnauthorized, anon.get("/users/alice/feedback/add").status)
	})

	t.Run("missing row is not found for a signed in user", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, alice.post(feedbackPath(9999, "delete"), nil).status)
		assert.Equal(t, http.StatusNotFound, alice.get("/feedback/abc/update").status)
	})

	t.Run("owner edits", func(t *testing.T) {
		res := alice.get(feedbackPath(id, "update"))
		require.Equal(t, http.StatusOK, res.status)
		val, _ := doc(t, res.body).Find(`input[name="title"]`).Attr("value")
		assert.Equal(t, "first", val)

		res = alice.post(feedbackPath(id, "update"), url.Values{"title": {""}, "content": {"x"}})
		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Equal(t, "first", e.feedback("alice")[0].Title)

		res = alice.post(feedbackPath(id, "update"), url.Values{
			"title": {"edited"}, "content": {"new"}, "username": {"bob"},
		})
		assert.Equal(t, http.StatusSeeOther, res.status)
		assert.Equal(t, "/users/alice", res.location)
		rows := e.feedback("alice")
		require.Len(t, rows, 1)
		assert.Equal(t, "edited", rows[0].Title)
		assert.Equal(t, "new", rows[0].Content)
		assert.Empty(t, e.feedback("bob"))
	})

	t.Run("owner deletes", func(t *testing.T) {
		res := alice.post(feedbackPath(id, "delete"), nil)
		assert.Equal(t, http.StatusSeeOther, res.status)
		assert.Empty(t, e.feedback("alice"))
		assert.Equal(t, http.StatusNotFound, alice.post(feedbackPath(id, "delete"), nil).status)
	})
}

func TestAddFeedbackValidation(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	alice := e.browser()
	alice.register("alice", "pw1")

	res := alice.get("/users/alice/feedback/add")
	require.Equal(t, http.StatusOK, res.status)
	action, _ := doc(t, res.body).Find("form#feedback-form").Attr("action")
	assert.Equal(t, "/users/alice/feedback/add", action)

	res = alice.post("/users/alice/feedback/add", url.Values{"title": {strings.Repeat("t", 101)}, "content": {"c"}})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Must be at most 100 characters.", doc(t, res.body).Find(`[data-field="title"]`).Text())
	assert.Empty(t, e.feedback("alice"))
}

func TestDeleteUserCascades(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	alice := e.browser()
	alice.register("alice", "pw1")
	alice.addFeedback("alice", "one", "1")
	alice.addFeedback("alice", "two", "2")
	bob := e.browser()
	bob.register("bob", "pw2")
	bob.addFeedback("bob", "mine", "b")
	require.Len(t, e.feedback("alice"), 2)

	res := alice.post("/users/alice/delete", nil)
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, "/", res.location)

	assert.Zero(t, e.userCount("alice"))
	assert.Empty(t, e.feedback("alice"))
	assert.Len(t, e.feedback("bob"), 1)
	assert.Equal(t, http.StatusUnauthorized, alice.get("/users/alice").status)

	// the name is free again
	alice.register("alice", "pw3")
	assert.Empty(t, e.feedback("alice"))
}

func TestJSONClient(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	alice := e.browser()
	alice.json = true

	res := alice.post("/register", registration("alice", "", "alice@example.com"))
	assert.Equal(t, http.StatusBadRequest, res.status)
	var verr dto.ErrorView
	require.NoError(t, json.Unmarshal([]byte(res.body), &verr))
	assert.Equal(t, "This field is required.", verr.Fields["password"])

	alice.register("alice", "pw1")
	alice.addFeedback("alice", "first", "body")

	res = alice.get("/users/alice")
	require.Equal(t, http.StatusOK, res.status)
	var profile dto.UserView
	require.NoError(t, json.Unmarshal([]byte(res.body), &profile))
	assert.Equal(t, "alice", profile.Username)
	require.Len(t, profile.Feedback, 1)
	assert.Equal(t, "first", profile.Feedback[0].Title)

	res = alice.get(feedbackPath(profile.Feedback[0].ID, "update"))
	require.Equal(t, http.StatusOK, res.status)
	var fv dto.FeedbackView
	require.NoError(t, json.Unmarshal([]byte(res.body), &fv))
	assert.Equal(t, "body", fv.Content)

	res = e.browser().post("/login", url.Values{"username": {"alice"}, "password": {"bad"}})
	assert.Equal(t, http.StatusUnauthorized, res.status)

	anon := e.browser()
	anon.json = true
	res = anon.get("/users/alice")
	assert.Equal(t, http.StatusUnauthorized, res.status)
	var uerr dto.ErrorView
	require.NoError(t, json.Unmarshal([]byte(res.body), &uerr))
	assert.Equal(t, "Unauthorized", uerr.Error)
}
