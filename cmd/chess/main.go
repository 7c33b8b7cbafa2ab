package main

import (
	"flag"
	"fmt"
	"os"

	"chessgrid/internal/cli"
	"chessgrid/internal/core"

	"github.com/chzyer/readline"
)

func main() {
	colorFlag := flag.String("color", "w", "Side seen at the bottom of the board: w or b")
	themeFlag := flag.String("theme", "", "Board theme: off, brown, green or gray (default brown on a terminal)")
	flag.Parse()

	player, ok := core.ParseColor(*colorFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "invalid -color %q, use w or b\n", *colorFlag)
		os.Exit(1)
	}

	view := cli.New(os.Stdout)
	theme := cli.DefaultTheme(int(os.Stdout.Fd()))
	if *themeFlag != "" {
		theme = cli.ColorTheme(*themeFlag)
	}
	if err := view.SetTheme(theme); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".chessgrid_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	view.ShowWelcome()
	handler := cli.NewHandler(view, player)
	if err := handler.Run(rl); err != nil {
		fmt.Fprintf(os.Stderr, "Input error: %v\n", err)
		os.Exit(1)
	}
}
