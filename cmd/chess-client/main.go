// Package main implements an interactive debugging client for the chessgrid server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"chessgrid/internal/client/commands"
	"chessgrid/internal/client/display"
	"chessgrid/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080", "API base URL")
	flag.Parse()

	s := session.New(*apiURL, os.Stdout)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chessgrid_client_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChessgrid Debug Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.Verbose = strings.HasSuffix(line, " -v")
		line = strings.TrimSuffix(line, " -v")

		if err := registry.Execute(line); errors.Is(err, commands.ErrExit) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	promptStr := "chess"
	if s.CurrentGame != "" {
		game := s.CurrentGame
		if len(game) > 8 {
			game = game[:8]
		}
		seat := "watching"
		if s.Seat != "" {
			seat = display.ColorForTurn(s.Seat)
		}
		promptStr += display.Yellow + " [" + display.White + game + display.Reset + " " + seat + display.Yellow + "]"
	}

	if s.State != nil {
		promptStr += fmt.Sprintf(" - Turn:%s", display.ColorForTurn(s.State.Turn))
	}

	return display.Prompt(promptStr)
}
