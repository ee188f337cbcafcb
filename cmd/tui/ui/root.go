package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateConnect state = iota
	stateBrowser
	stateTransfer
)

type RootModel struct {
	State    state
	Session  *Session
	Connect  ConnectModel
	Browser  BrowserModel
	Form     TransferFormModel
	Quitting bool
	width    int
	height   int
}

func NewRootModel(host string, port int) RootModel {
	s := NewSession()
	return RootModel{
		State:   stateConnect,
		Session: s,
		Connect: NewConnectModel(s, host, port),
	}
}

func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.Connect.Init())
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.Browser.Table.SetHeight(msg.Height - 10)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Quitting = true
			m.Session.Close()
			return m, tea.Quit
		}

	case ListingMsg:
		// a listing that broke the link falls back to the connect screen
		if msg.Err != nil && !m.Session.Connected() {
			return m.toConnect(msg.Err)
		}

	case TransferDoneMsg:
		if msg.Err != nil && !m.Session.Connected() {
			return m.toConnect(msg.Err)
		}
	}

	switch m.State {
	case stateConnect:
		if cMsg, ok := msg.(ConnectedMsg); ok {
			if cMsg.Err != nil {
				m.Connect.Dialing = false
				m.Connect.Err = cMsg.Err
			} else {
				m.State = stateBrowser
				m.Browser = NewBrowserModel(m.Session, m.width, m.height)
				cmds = append(cmds, m.Browser.Init())
				return m, tea.Batch(cmds...)
			}
		}

		newConnect, newCmd := m.Connect.Update(msg)
		m.Connect = newConnect
		cmds = append(cmds, newCmd)

	case stateBrowser:
		switch msg := msg.(type) {
		case OpenTransferMsg:
			m.State = stateTransfer
			m.Form = NewTransferFormModel(m.Session, msg.Verb, msg.Src, msg.Dst)
			cmds = append(cmds, m.Form.Init())
			return m, tea.Batch(cmds...)
		}

		newBrowser, newCmd := m.Browser.Update(msg)
		m.Browser = newBrowser
		cmds = append(cmds, newCmd)

	case stateTransfer:
		switch msg.(type) {
		case BackToBrowserMsg:
			m.State = stateBrowser
			cmds = append(cmds, m.Browser.Init()) // refresh the listing
			return m, tea.Batch(cmds...)
		}

		newForm, newCmd := m.Form.Update(msg)
		m.Form = newForm
		cmds = append(cmds, newCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m RootModel) toConnect(err error) (tea.Model, tea.Cmd) {
	m.State = stateConnect
	m.Connect = NewConnectModel(m.Session, m.Session.Host, m.Session.Port)
	m.Connect.Err = err
	return m, m.Connect.Init()
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	switch m.State {
	case stateConnect:
		return m.Connect.View()
	case stateBrowser:
		return m.Browser.View()
	case stateTransfer:
		return m.Form.View()
	}
	return "Unknown state"
}
