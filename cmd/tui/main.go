package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sfmp/cmd/tui/ui"
)

func main() {
	var (
		host = flag.String("host", "127.0.0.1", "Server host")
		port = flag.Int("port", 57005, "Server port")
	)
	flag.Parse()

	p := tea.NewProgram(ui.NewRootModel(*host, *port), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
