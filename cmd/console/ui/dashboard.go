package ui

import (
	"strconv"
	"strings"

	"feedback-board/backend/app/dto"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type DashboardModel struct {
	Client   *Client
	Table    table.Model
	Profile  dto.UserView
	Feedback []dto.FeedbackView
	Err      error
}

func NewDashboardModel(c *Client, width, height int) DashboardModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Title", Width: 30},
		{Title: "Content", Width: max(20, width-50)},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(5, height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{Client: c, Table: t}
}

func (m DashboardModel) Init() tea.Cmd {
	return profileCmd(m.Client)
}

// Selected returns the highlighted note, if any.
func (m DashboardModel) Selected() (dto.FeedbackView, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Feedback) {
		return dto.FeedbackView{}, false
	}
	return m.Feedback[i], true
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, profileCmd(m.Client)
		case "a":
			return m, func() tea.Msg { return openFormMsg{} }
		case "e", "enter":
			if f, ok := m.Selected(); ok {
				return m, func() tea.Msg { return openFormMsg{edit: &f} }
			}
			return m, nil
		case "d":
			if f, ok := m.Selected(); ok {
				return m, deleteCmd(m.Client, f.ID)
			}
			return m, nil
		case "l":
			return m, logoutCmd(m.Client)
		case "q":
			return m, tea.Quit
		}

	case profileMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Profile = msg.view
		m.setFeedback(msg.view.Feedback)
		return m, nil

	case doneMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		return m, profileCmd(m.Client)
	}

	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m *DashboardModel) setFeedback(items []dto.FeedbackView) {
	m.Feedback = items
	rows := make([]table.Row, 0, len(items))
	for _, f := range items {
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(f.ID), 10),
			f.Title,
			strings.ReplaceAll(f.Content, "\n", " "),
		})
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) {
		m.Table.SetCursor(max(0, len(rows)-1))
	}
}

func (m DashboardModel) View() string {
	var b strings.Builder
	header := "Feedback"
	if m.Profile.Username != "" {
		header = "Feedback of " + m.Profile.FirstName + " " + m.Profile.LastName + " (" + m.Profile.Username + ")"
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")
	if len(m.Feedback) == 0 {
		b.WriteString(blurredStyle.Render("No feedback yet. Press 'a' to add one.") + "\n")
	} else {
		b.WriteString(m.Table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("r refresh  a add  e edit  d delete  l log out  q quit"))
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return docStyle.Render(b.String())
}
