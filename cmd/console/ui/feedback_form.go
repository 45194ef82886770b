package ui

import (
	"context"
	"strings"

	"feedback-board/backend/app/dto"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FeedbackFormModel edits one note. Editing is nil for a new note.
type FeedbackFormModel struct {
	Client  *Client
	Editing *dto.FeedbackView
	Title   textinput.Model
	Content textarea.Model
	focus   int
	Err     error
	Busy    bool
}

func NewFeedbackFormModel(c *Client, edit *dto.FeedbackView, width int) FeedbackFormModel {
	title := textinput.New()
	title.Prompt = "Title: "
	title.Placeholder = "short summary"
	title.CharLimit = 100
	title.Focus()

	content := textarea.New()
	content.Placeholder = "Markdown is supported"
	content.SetWidth(max(30, width-8))
	content.SetHeight(8)

	if edit != nil {
		title.SetValue(edit.Title)
		content.SetValue(edit.Content)
	}
	return FeedbackFormModel{Client: c, Editing: edit, Title: title, Content: content}
}

func (m FeedbackFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m FeedbackFormModel) Update(msg tea.Msg) (FeedbackFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, func() tea.Msg { return cancelFormMsg{} }
		case tea.KeyTab, tea.KeyShiftTab:
			m.toggleFocus()
			return m, nil
		case tea.KeyCtrlS:
			return m.submit()
		}
	case doneMsg:
		m.Busy = false
		m.Err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.Title, cmd = m.Title.Update(msg)
	} else {
		m.Content, cmd = m.Content.Update(msg)
	}
	return m, cmd
}

func (m *FeedbackFormModel) toggleFocus() {
	if m.focus == 0 {
		m.focus = 1
		m.Title.Blur()
		m.Content.Focus()
		return
	}
	m.focus = 0
	m.Content.Blur()
	m.Title.Focus()
}

func (m FeedbackFormModel) submit() (FeedbackFormModel, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	m.Busy = true
	m.Err = nil
	c, edit := m.Client, m.Editing
	title, content := strings.TrimSpace(m.Title.Value()), m.Content.Value()
	return m, func() tea.Msg {
		if edit == nil {
			return doneMsg{err: c.AddFeedback(context.Background(), title, content)}
		}
		return doneMsg{err: c.UpdateFeedback(context.Background(), edit.ID, title, content)}
	}
}

func (m FeedbackFormModel) View() string {
	var b strings.Builder
	heading := "New feedback"
	if m.Editing != nil {
		heading = "Edit feedback"
	}
	b.WriteString(titleStyle.Render(heading) + "\n\n")
	b.WriteString(m.Title.View() + "\n\n")
	b.WriteString(m.Content.View() + "\n\n")
	if m.Busy {
		b.WriteString(focusedStyle.Render("Saving..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab switch field  Ctrl+S save  Esc cancel"))
	}
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return docStyle.Render(b.String())
}
