package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"feedback-board/backend/app/dto"
	"feedback-board/backend/app/session"
	"feedback-board/backend/app/views"

	"github.com/rs/zerolog"
)

// Responder writes HTML pages for browsers and JSON for clients that ask
// for it with the Accept header.
type Responder struct {
	Views *views.Renderer
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (x *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Page renders page for the current identity.
func (x *Responder) Page(w http.ResponseWriter, r *http.Request, status int, page string, data views.Page) {
	data.Identity = session.FromContext(r.Context())
	if err := x.Views.Render(w, status, page, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("page", page).Msg("render")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Error answers with a bare status. It satisfies middleware.ErrorFunc.
func (x *Responder) Error(w http.ResponseWriter, r *http.Request, status int) {
	msg := http.StatusText(status)
	if wantsJSON(r) {
		x.JSON(w, status, dto.ErrorView{Error: msg})
		return
	}
	x.Page(w, r, status, views.PageError, views.Page{Status: status, Message: msg})
}

// Invalid re-renders a form with its field errors.
func (x *Responder) Invalid(w http.ResponseWriter, r *http.Request, status int, page string, data views.Page) {
	if wantsJSON(r) {
		msg := data.Errors[""]
		if msg == "" {
			msg = "validation failed"
		}
		x.JSON(w, status, dto.ErrorView{Error: msg, Fields: data.Errors})
		return
	}
	x.Page(w, r, status, page, data)
}

// Fail logs an unexpected error and answers 500 without leaking it.
func (x *Responder) Fail(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	x.Error(w, r, http.StatusInternalServerError)
}

// SeeOther redirects after a successful form post. JSON clients read the
// Location header themselves.
func (x *Responder) SeeOther(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
