package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// BackToBrowserMsg signals transition back to the file browser.
type BackToBrowserMsg struct{}

type TransferFormModel struct {
	Session  *Session
	Verb     string
	Inputs   []textinput.Model
	FocusIdx int
	Busy     bool
	Done     string
	Err      error
}

const (
	inputSrc = iota
	inputDst
)

func NewTransferFormModel(s *Session, verb, src, dst string) TransferFormModel {
	inputs := make([]textinput.Model, 2)

	inputs[inputSrc] = textinput.New()
	inputs[inputSrc].Focus()
	inputs[inputSrc].SetValue(src)

	inputs[inputDst] = textinput.New()
	inputs[inputDst].SetValue(dst)

	if verb == "PUT" {
		inputs[inputSrc].Prompt = "Local path:  "
		inputs[inputDst].Prompt = "Server path: "
	} else {
		inputs[inputSrc].Prompt = "Server path: "
		inputs[inputDst].Prompt = "Local path:  "
	}

	return TransferFormModel{
		Session: s,
		Verb:    verb,
		Inputs:  inputs,
	}
}

func (m TransferFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m TransferFormModel) Update(msg tea.Msg) (TransferFormModel, tea.Cmd) {
	var cmds []tea.Cmd = make([]tea.Cmd, len(m.Inputs))

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Busy {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEsc:
			return m, func() tea.Msg { return BackToBrowserMsg{} }
		case tea.KeyEnter:
			if m.FocusIdx == len(m.Inputs)-1 {
				m.Busy = true
				m.Done = ""
				m.Err = nil
				return m, m.TransferCmd
			}
			m.nextInput()
		case tea.KeyTab, tea.KeyDown:
			m.nextInput()
		case tea.KeyShiftTab, tea.KeyUp:
			m.prevInput()
		}

	case errMsg:
		m.Busy = false
		m.Err = msg

	case TransferDoneMsg:
		m.Busy = false
		if msg.Err != nil {
			m.Err = msg.Err
		} else if msg.Res.OK() {
			m.Done = msg.Res.Status.Message
		} else {
			m.Err = fmt.Errorf("%s: %s", msg.Res.Status.Code, msg.Res.Status.Message)
		}
	}

	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *TransferFormModel) nextInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx++
	if m.FocusIdx >= len(m.Inputs) {
		m.FocusIdx = 0
	}
	m.Inputs[m.FocusIdx].Focus()
}

func (m *TransferFormModel) prevInput() {
	m.Inputs[m.FocusIdx].Blur()
	m.FocusIdx--
	if m.FocusIdx < 0 {
		m.FocusIdx = len(m.Inputs) - 1
	}
	m.Inputs[m.FocusIdx].Focus()
}

// TransferCmd runs the whole exchange for one GET or PUT.
func (m TransferFormModel) TransferCmd() tea.Msg {
	src := strings.TrimSpace(m.Inputs[inputSrc].Value())
	dst := strings.TrimSpace(m.Inputs[inputDst].Value())
	if src == "" || dst == "" {
		return errMsg(fmt.Errorf("both paths are required"))
	}

	if m.Verb == "PUT" {
		res, err := m.Session.Put(src, dst)
		return TransferDoneMsg{Verb: m.Verb, Res: res, Err: err}
	}
	res, err := m.Session.Get(src, dst)
	return TransferDoneMsg{Verb: m.Verb, Res: res, Err: err}
}

func (m TransferFormModel) View() string {
	var b strings.Builder

	title := "Download File"
	if m.Verb == "PUT" {
		title = "Upload File"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View())
		if i < len(m.Inputs)-1 {
			b.WriteRune('\n')
		}
	}

	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("Press Enter to start, Esc to go back"))

	if m.Busy {
		b.WriteString("\n\n")
		b.WriteString(focusedStyle.Render(m.Verb + " in progress..."))
	}
	if m.Done != "" {
		b.WriteString("\n\n")
		b.WriteString(statusMessageStyle(m.Done))
	}
	if m.Err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorMessageStyle(m.Err.Error()))
	}

	return b.String()
}
