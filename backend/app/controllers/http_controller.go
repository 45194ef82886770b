package controllers

import (
	"context"
	"net/http"
)

type HTTPController struct {
	// Check reports whether the backing store is reachable.
	Check func(context.Context) error
}

func NewHTTPController(check func(context.Context) error) *HTTPController {
	return &HTTPController{Check: check}
}

func (c *HTTPController) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/register", http.StatusFound)
}

func (c *HTTPController) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if c.Check != nil {
		if err := c.Check(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
