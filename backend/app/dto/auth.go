package dto

import "feedback-board/backend/app/models"

// JSON shapes served to clients that send Accept: application/json.

type FeedbackView struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Username string `json:"username"`
}

type UserView struct {
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Feedback  []FeedbackView `json:"feedback"`
}

type ErrorView struct {
	Error  string      `json:"error"`
	Fields FieldErrors `json:"fields,omitempty"`
}

func NewFeedbackView(f models.Feedback) FeedbackView {
	return FeedbackView{ID: f.ID, Title: f.Title, Content: f.Content, Username: f.Username}
}

func NewUserView(u *models.User) UserView {
	v := UserView{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Feedback:  make([]FeedbackView, 0, len(u.Feedback)),
	}
	for _, f := range u.Feedback {
		v.Feedback = append(v.Feedback, NewFeedbackView(f))
	}
	return v
}
