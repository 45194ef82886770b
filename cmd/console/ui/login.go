package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type LoginModel struct {
	Inputs   []textinput.Model
	FocusIdx int
	Err      error
	Busy     bool
}

const (
	inputServer = iota
	inputUsername
	inputPassword
)

func NewLoginModel(server string) LoginModel {
	inputs := make([]textinput.Model, 3)

	inputs[inputServer] = textinput.New()
	inputs[inputServer].Placeholder = "http://127.0.0.1:5000"
	inputs[inputServer].Prompt = "Server: "
	inputs[inputServer].SetValue(server)

	inputs[inputUsername] = textinput.New()
	inputs[inputUsername].Placeholder = "alice"
	inputs[inputUsername].Prompt = "Username: "
	inputs[inputUsername].CharLimit = 20
	inputs[inputUsername].Focus()

	inputs[inputPassword] = textinput.New()
	inputs[inputPassword].Placeholder = "password"
	inputs[inputPassword].EchoMode = textinput.EchoPassword
	inputs[inputPassword].Prompt = "Password: "

	return LoginModel{Inputs: inputs, FocusIdx: inputUsername}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 {
				return m.submit()
			}
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			m.focus(m.FocusIdx + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.focus(m.FocusIdx - 1)
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.Inputs))
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *LoginModel) focus(idx int) {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx = (idx + len(m.Inputs)) % len(m.Inputs)
	m.Inputs[m.FocusIdx].Focus()
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	if m.Busy {
		return m, nil
	}
	m.Busy = true
	m.Err = nil
	return m, loginCmd(
		strings.TrimSpace(m.Inputs[inputServer].Value()),
		strings.TrimSpace(m.Inputs[inputUsername].Value()),
		m.Inputs[inputPassword].Value(),
	)
}

func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Feedback Board - Log in") + "\n\n")
	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		if i < len(m.Inputs)-1 {
			b.WriteRune('\n')
		}
	}

	b.WriteString("\n\n")
	if m.Busy {
		b.WriteString(focusedStyle.Render("Signing in..."))
	} else {
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit, Ctrl+C to quit"))
	}
	if m.Err != nil {
		b.WriteString("\n\n" + errorMessageStyle(m.Err.Error()))
	}
	return docStyle.Render(b.String())
}
