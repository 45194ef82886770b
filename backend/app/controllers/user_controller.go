package controllers

import (
	"errors"
	"net/http"

	"feedback-board/backend/app/dto"
	"feedback-board/backend/app/repo"
	"feedback-board/backend/app/services"
	"feedback-board/backend/app/session"
	"feedback-board/backend/app/views"
)

// UserController serves the caller's own account. Routes are expected to sit
// behind Guard.RequireSelf.
type UserController struct {
	*Responder
	Users    *services.UserService
	Sessions *session.Manager
}

func NewUserController(x *Responder, users *services.UserService, sessions *session.Manager) *UserController {
	return &UserController{Responder: x, Users: users, Sessions: sessions}
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	u, err := c.Users.Profile(r.Context(), r.PathValue("username"))
	switch {
	case errors.Is(err, repo.ErrNotFound):
		c.Error(w, r, http.StatusNotFound)
		return
	case err != nil:
		c.Fail(w, r, err)
		return
	}
	if wantsJSON(r) {
		c.JSON(w, http.StatusOK, dto.NewUserView(u))
		return
	}
	c.Page(w, r, http.StatusOK, views.PageProfile, views.Page{User: u})
}

// Delete removes the account with all of its feedback and ends the session.
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.Users.Delete(r.Context(), r.PathValue("username"))
	switch {
	case errors.Is(err, repo.ErrNotFound):
		c.Sessions.ClearIdentity(w)
		c.Error(w, r, http.StatusNotFound)
		return
	case err != nil:
		c.Fail(w, r, err)
		return
	}
	c.Sessions.ClearIdentity(w)
	c.SeeOther(w, r, "/")
}
