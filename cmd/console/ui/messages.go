package ui

import (
	"context"

	"feedback-board/backend/app/dto"

	tea "github.com/charmbracelet/bubbletea"
)

type loginResultMsg struct {
	client *Client
	err    error
}

type profileMsg struct {
	view dto.UserView
	err  error
}

// doneMsg follows a create, update or delete.
type doneMsg struct{ err error }

type loggedOutMsg struct{}

// openFormMsg opens the feedback form. A nil edit means a new note.
type openFormMsg struct{ edit *dto.FeedbackView }

type cancelFormMsg struct{}

func loginCmd(server, username, password string) tea.Cmd {
	return func() tea.Msg {
		c, err := NewClient(server)
		if err != nil {
			return loginResultMsg{err: err}
		}
		if err := c.Login(context.Background(), username, password); err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{client: c}
	}
}

func profileCmd(c *Client) tea.Cmd {
	return func() tea.Msg {
		v, err := c.Profile(context.Background())
		return profileMsg{view: v, err: err}
	}
}

func deleteCmd(c *Client, id uint) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: c.DeleteFeedback(context.Background(), id)}
	}
}

func logoutCmd(c *Client) tea.Cmd {
	return func() tea.Msg {
		_ = c.Logout(context.Background())
		return loggedOutMsg{}
	}
}
