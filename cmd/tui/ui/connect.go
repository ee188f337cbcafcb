package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type errMsg error

type ConnectModel struct {
	Session  *Session
	Inputs   []textinput.Model
	FocusIdx int
	Dialing  bool
	Err      error
}

const (
	inputHost = iota
	inputPort
)

func NewConnectModel(s *Session, host string, port int) ConnectModel {
	inputs := make([]textinput.Model, 2)

	inputs[inputHost] = textinput.New()
	inputs[inputHost].Placeholder = "127.0.0.1"
	inputs[inputHost].Focus()
	inputs[inputHost].Prompt = "Host: "
	inputs[inputHost].SetValue(host)

	inputs[inputPort] = textinput.New()
	inputs[inputPort].Placeholder = "57005"
	inputs[inputPort].Prompt = "Port: "
	inputs[inputPort].SetValue(strconv.Itoa(port))

	return ConnectModel{
		Session:  s,
		Inputs:   inputs,
		FocusIdx: 0,
	}
}

func (m ConnectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConnectModel) Update(msg tea.Msg) (ConnectModel, tea.Cmd) {
	var cmds []tea.Cmd = make([]tea.Cmd, len(m.Inputs))

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 {
				m.Dialing = true
				m.Err = nil
				return m, m.DialCmd
			}
			m.nextInput()
		case tea.KeyTab, tea.KeyDown:
			m.nextInput()
		case tea.KeyShiftTab, tea.KeyUp:
			m.prevInput()
		}

	case errMsg:
		m.Dialing = false
		m.Err = msg
	}

	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *ConnectModel) nextInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx++
	if m.FocusIdx >= len(m.Inputs) {
		m.FocusIdx = 0
	}
	m.Inputs[m.FocusIdx].Focus()
}

func (m *ConnectModel) prevInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx--
	if m.FocusIdx < 0 {
		m.FocusIdx = len(m.Inputs) - 1
	}
	m.Inputs[m.FocusIdx].Focus()
}

// DialCmd validates the form and dials the server.
func (m ConnectModel) DialCmd() tea.Msg {
	host := strings.TrimSpace(m.Inputs[inputHost].Value())
	portStr := strings.TrimSpace(m.Inputs[inputPort].Value())

	if host == "" {
		return errMsg(fmt.Errorf("host is required"))
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return errMsg(fmt.Errorf("invalid port %q", portStr))
	}

	if err := m.Session.Connect(host, port); err != nil {
		return ConnectedMsg{Err: err}
	}
	return ConnectedMsg{}
}

func (m ConnectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SFMP Console - Connect") + "\n\n")

	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		if i < len(m.Inputs)-1 {
			b.WriteRune('\n')
		}
	}

	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("Press Tab to change fields, Enter to connect"))

	if m.Dialing {
		b.WriteString("\n\n")
		b.WriteString(focusedStyle.Render("Connecting..."))
	}

	if m.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorMessageStyle(m.Err.Error()))
	}

	return b.String()
}
