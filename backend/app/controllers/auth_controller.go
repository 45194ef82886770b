package controllers

import (
	"errors"
	"net/http"

	"feedback-board/backend/app/dto"
	"feedback-board/backend/app/middleware"
	"feedback-board/backend/app/repo"
	"feedback-board/backend/app/services"
	"feedback-board/backend/app/session"
	"feedback-board/backend/app/views"
)

const (
	msgUsernameTaken      = "Username or email is already taken."
	msgInvalidCredentials = "Invalid username or password."
)

type AuthController struct {
	*Responder
	Users    *services.UserService
	Sessions *session.Manager
}

func NewAuthController(x *Responder, users *services.UserService, sessions *session.Manager) *AuthController {
	return &AuthController{Responder: x, Users: users, Sessions: sessions}
}

func (c *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	c.Page(w, r, http.StatusOK, views.PageRegister, views.Page{Form: &dto.RegisterForm{}})
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var form dto.RegisterForm
	errs, err := dto.Decode(r, &form)
	if err != nil {
		c.Error(w, r, http.StatusBadRequest)
		return
	}
	password := form.Password
	form.Password = ""
	if errs != nil {
		c.Invalid(w, r, http.StatusBadRequest, views.PageRegister, views.Page{Form: &form, Errors: errs})
		return
	}

	u, err := c.Users.Register(r.Context(), services.RegisterInput{
		Username:  form.Username,
		Password:  password,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	switch {
	case errors.Is(err, repo.ErrAlreadyExists):
		errs = dto.FieldErrors{"username": msgUsernameTaken}
		c.Invalid(w, r, http.StatusConflict, views.PageRegister, views.Page{Form: &form, Errors: errs})
		return
	case err != nil:
		c.Fail(w, r, err)
		return
	}

	if err := c.Sessions.SetIdentity(w, u.Username); err != nil {
		c.Fail(w, r, err)
		return
	}
	c.SeeOther(w, r, middleware.ProfilePath(u.Username))
}

func (c *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	c.Page(w, r, http.StatusOK, views.PageLogin, views.Page{Form: &dto.LoginForm{}})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form dto.LoginForm
	errs, err := dto.Decode(r, &form)
	if err != nil {
		c.Error(w, r, http.StatusBadRequest)
		return
	}
	password := form.Password
	form.Password = ""
	if errs != nil {
		c.Invalid(w, r, http.StatusBadRequest, views.PageLogin, views.Page{Form: &form, Errors: errs})
		return
	}

	u, err := c.Users.Authenticate(r.Context(), form.Username, password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		errs = dto.FieldErrors{"": msgInvalidCredentials}
		c.Invalid(w, r, http.StatusUnauthorized, views.PageLogin, views.Page{Form: &form, Errors: errs})
		return
	case err != nil:
		c.Fail(w, r, err)
		return
	}

	if err := c.Sessions.SetIdentity(w, u.Username); err != nil {
		c.Fail(w, r, err)
		return
	}
	c.SeeOther(w, r, middleware.ProfilePath(u.Username))
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.Sessions.ClearIdentity(w)
	c.SeeOther(w, r, "/")
}
