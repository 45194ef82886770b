package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateLogin state = iota
	stateDashboard
	stateForm
)

type RootModel struct {
	State     state
	Server    string
	Client    *Client
	Login     LoginModel
	Dashboard DashboardModel
	Form      FeedbackFormModel
	Quitting  bool
	width     int
	height    int
}

func NewRootModel(server string) RootModel {
	return RootModel{
		State:  stateLogin,
		Server: server,
		Login:  NewLoginModel(server),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.Login.Init()
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.State != stateLogin {
			m.Dashboard.Table.SetHeight(max(5, msg.Height-10))
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case stateLogin:
		if res, ok := msg.(loginResultMsg); ok {
			m.Login.Busy = false
			if res.err != nil {
				m.Login.Err = res.err
				return m, nil
			}
			m.Client = res.client
			m.State = stateDashboard
			m.Dashboard = NewDashboardModel(m.Client, m.width, m.height)
			return m, m.Dashboard.Init()
		}
		m.Login, cmd = m.Login.Update(msg)

	case stateDashboard:
		switch msg := msg.(type) {
		case openFormMsg:
			m.State = stateForm
			m.Form = NewFeedbackFormModel(m.Client, msg.edit, m.width)
			return m, m.Form.Init()
		case loggedOutMsg:
			m.State = stateLogin
			m.Client = nil
			m.Login = NewLoginModel(m.Server)
			return m, m.Login.Init()
		}
		m.Dashboard, cmd = m.Dashboard.Update(msg)

	case stateForm:
		switch msg := msg.(type) {
		case cancelFormMsg:
			m.State = stateDashboard
			return m, nil
		case doneMsg:
			if msg.err == nil {
				m.State = stateDashboard
				return m, profileCmd(m.Client)
			}
		}
		m.Form, cmd = m.Form.Update(msg)
	}
	return m, cmd
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateLogin:
		return m.Login.View()
	case stateDashboard:
		return m.Dashboard.View()
	case stateForm:
		return m.Form.View()
	}
	return "Unknown state"
}
