package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"blockflow/internal/logging"
	"blockflow/internal/notify"
	"blockflow/internal/store"
	"blockflow/internal/tui"
)

func main() {
	debug := os.Getenv("BLOCKFLOW_DEBUG") == "1"
	if err := logging.Initialize(debug); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	player := notify.NewPlayer(logging.Logger)

	app := tui.NewApp(s, player)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
