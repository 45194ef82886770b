package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"feedback-board/backend/app/dto"
	"feedback-board/backend/app/middleware"
	"feedback-board/backend/app/repo"
	"feedback-board/backend/app/services"
	"feedback-board/backend/app/views"
)

// FeedbackController handles the notes of one user. Add routes sit behind
// Guard.RequireSelf; the others behind Guard.RequireFeedbackOwner, which
// leaves the loaded row in the request context.
type FeedbackController struct {
	*Responder
	Feedback *services.FeedbackService
}

func NewFeedbackController(x *Responder, feedback *services.FeedbackService) *FeedbackController {
	return &FeedbackController{Responder: x, Feedback: feedback}
}

func addPath(username string) string { return middleware.ProfilePath(username) + "/feedback/add" }

func updatePath(id uint) string { return "/feedback/" + strconv.FormatUint(uint64(id), 10) + "/update" }

func (c *FeedbackController) New(w http.ResponseWriter, r *http.Request) {
	c.Page(w, r, http.StatusOK, views.PageFeedback, views.Page{
		Form:   &dto.FeedbackForm{},
		Action: addPath(r.PathValue("username")),
	})
}

func (c *FeedbackController) Create(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("username")
	var form dto.FeedbackForm
	errs, err := dto.Decode(r, &form)
	if err != nil {
		c.Error(w, r, http.StatusBadRequest)
		return
	}
	if errs != nil {
		c.Invalid(w, r, http.StatusBadRequest, views.PageFeedback, views.Page{
			Form: &form, Errors: errs, Action: addPath(owner),
		})
		return
	}

	_, err = c.Feedback.Create(r.Context(), owner, services.FeedbackInput{Title: form.Title, Content: form.Content})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		c.Error(w, r, http.StatusNotFound)
		return
	case err != nil:
		c.Fail(w, r, err)
		return
	}
	c.SeeOther(w, r, middleware.ProfilePath(owner))
}

func (c *FeedbackController) Edit(w http.ResponseWriter, r *http.Request) {
	f := middleware.FeedbackFromContext(r.Context())
	if wantsJSON(r) {
		c.JSON(w, http.StatusOK, dto.NewFeedbackView(*f))
		return
	}
	c.Page(w, r, http.StatusOK, views.PageFeedback, views.Page{
		Form:     &dto.FeedbackForm{Title: f.Title, Content: f.Content},
		Feedback: f,
		Action:   updatePath(f.ID),
	})
}

func (c *FeedbackController) Update(w http.ResponseWriter, r *http.Request) {
	f := middleware.FeedbackFromContext(r.Context())
	var form dto.FeedbackForm
	errs, err := dto.Decode(r, &form)
	if err != nil {
		c.Error(w, r, http.StatusBadRequest)
		return
	}
	if errs != nil {
		c.Invalid(w, r, http.StatusBadRequest, views.PageFeedback, views.Page{
			Form: &form, Errors: errs, Feedback: f, Action: updatePath(f.ID),
		})
		return
	}

	err = c.Feedback.Update(r.Context(), f, services.FeedbackInput{Title: form.Title, Content: form.Content})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		c.Error(w, r, http.StatusNotFound)
		return
	case err != nil:
		c.Fail(w, r, err)
		return
	}
	c.SeeOther(w, r, middleware.ProfilePath(f.Username))
}

func (c *FeedbackController) Delete(w http.ResponseWriter, r *http.Request) {
	f := middleware.FeedbackFromContext(r.Context())
	err := c.Feedback.Delete(r.Context(), f.ID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		c.Error(w, r, http.StatusNotFound)
		return
	case err != nil:
		c.Fail(w, r, err)
		return
	}
	c.SeeOther(w, r, middleware.ProfilePath(f.Username))
}
