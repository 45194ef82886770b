package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"feedback-board/backend/global"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The logging tests swap global.Logger and so do not run in parallel.

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := global.Logger
	global.Logger = zerolog.New(&buf)
	t.Cleanup(func() { global.Logger = prev })

	h := RequestID(Logging(WithRoute("GET /users/{username}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFromContext(r.Context()))
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusAccepted)
	}))))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/alice", nil))
	id := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, id, line["request_id"])
	assert.Equal(t, "/users/alice", line["path"])
	assert.Equal(t, "GET /users/{username}", line["route"])
	assert.EqualValues(t, http.StatusCreated, line["status"])
}

func TestRequestID_Incoming(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", RequestIDFromContext(r.Context()))
	})).ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	prev := global.Logger
	global.Logger = zerolog.New(&buf)
	t.Cleanup(func() { global.Logger = prev })

	h := Logging(Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "kaboom")
	assert.Contains(t, buf.String(), `"status":500`)
}
