package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type BrowserModel struct {
	Session *Session
	Table   table.Model
	Names   []string
	Status  string
	Err     error
}

// OpenTransferMsg asks the root model to open the transfer form.
type OpenTransferMsg struct {
	Verb string
	Src  string
	Dst  string
}

func NewBrowserModel(s *Session, width, height int) BrowserModel {
	columns := []table.Column{
		{Title: "Name", Width: 48},
	}

	h := height - 10
	if h < 3 {
		h = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(h),
	)

	sStyle := table.DefaultStyles()
	sStyle.Header = sStyle.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	sStyle.Selected = sStyle.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(sStyle)

	return BrowserModel{
		Session: s,
		Table:   t,
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return m.RefreshCmd
}

// RefreshCmd fetches the server listing.
func (m BrowserModel) RefreshCmd() tea.Msg {
	names, res, err := m.Session.List()
	return ListingMsg{Names: names, Res: res, Err: err}
}

func (m BrowserModel) Update(msg tea.Msg) (BrowserModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.RefreshCmd
		case "enter", "d":
			selected := m.Table.SelectedRow()
			if len(selected) > 0 {
				name := selected[0]
				return m, func() tea.Msg {
					return OpenTransferMsg{Verb: "GET", Src: name, Dst: name}
				}
			}
		case "u":
			return m, func() tea.Msg {
				return OpenTransferMsg{Verb: "PUT"}
			}
		case "q":
			return m, tea.Quit
		}

	case ListingMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		if !msg.Res.OK() {
			m.Err = fmt.Errorf("%s: %s", msg.Res.Status.Code, msg.Res.Status.Message)
			return m, nil
		}
		m.Err = nil
		m.Names = msg.Names
		rows := []table.Row{}
		for _, n := range msg.Names {
			rows = append(rows, table.Row{n})
		}
		m.Table.SetRows(rows)
		m.Status = msg.Res.Status.Message
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Server Files - %s:%d", m.Session.Host, m.Session.Port)) + "\n\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render("Press 'd'/Enter to download, 'u' to upload, 'r' to refresh, 'q' to quit"))

	if m.Status != "" {
		b.WriteString("\n" + statusMessageStyle(m.Status))
	}
	if m.Err != nil {
		b.WriteString("\n" + errorMessageStyle(m.Err.Error()))
	}
	return b.String()
}
