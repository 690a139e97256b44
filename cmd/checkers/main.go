// Package main runs a local checkers game in the terminal
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"checkers/internal/cli"
	"checkers/internal/engine"
	"checkers/internal/logger"
	"checkers/internal/service"
	clitransport "checkers/internal/transport/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		depth   = flag.Int("depth", engine.DefaultDepth, "Search depth for computer seats and hints (1-6)")
		color   = flag.String("color", "", "Board theme (off|brown|green|gray), brown on a terminal by default")
		history = flag.String("history", "", "Optional readline history file")
	)
	flag.Parse()

	log := logger.Must("warn", true)
	defer log.Sync()

	svc := service.New(nil, nil, log)
	defer svc.Shutdown(time.Second)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	view := cli.New(rl, rl.Stdout())

	theme := cli.ThemeOff
	if term.IsTerminal(int(os.Stdout.Fd())) {
		theme = cli.ThemeBrown
	}
	if *color != "" {
		theme = cli.ColorTheme(*color)
	}
	if err := view.SetTheme(theme); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	handler := clitransport.New(svc, view, engine.NewSeeded(*depth))

	view.ShowWelcome()
	handler.Run()
}
