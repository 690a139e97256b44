// Package cli drives a local game from terminal commands against the
// in-process game service and a local engine.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"checkers/internal/board"
	"checkers/internal/cli"
	"checkers/internal/core"
	"checkers/internal/engine"
	"checkers/internal/game"
	"checkers/internal/service"
)

type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	eng    *engine.Engine
	depth  int // Depth for new computer seats and hints
	gameID string
}

func New(svc *service.Service, view *cli.CLI, eng *engine.Engine) *CLIHandler {
	return &CLIHandler{
		svc:   svc,
		view:  view,
		eng:   eng,
		depth: eng.Depth(),
	}
}

// Run is the main loop, it returns when the user quits or input ends
func (h *CLIHandler) Run() {
	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			h.view.ShowError(err)
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
	h.closeGame()
}

// getPrompt shows whose turn it is in a running game
func (h *CLIHandler) getPrompt() string {
	prompt := "> "
	if h.gameID == "" {
		return prompt
	}
	h.svc.View(h.gameID, func(g *game.Game) error {
		if g.State() != core.StateOngoing {
			return nil
		}
		prompt = fmt.Sprintf("[%s]> ", g.NextTurn())
		if g.NextPlayer().Type == core.PlayerComputer {
			prompt = "ENTER to execute computer move\n" + prompt
		}
		return nil
	})
	return prompt
}

// ProcessCommand handles one command, false means exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		if cmd.Raw == "" && h.computerToMove() {
			h.executeComputerMove()
		}

	case cli.CmdNew:
		h.handleNewGame("")

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <layout>")
			return true
		}
		h.handleNewGame(strings.Join(cmd.Args, " "))

	case cli.CmdMove:
		h.handleMove(cmd.Args[0])

	case cli.CmdUndo:
		h.handleUndo(cmd.Args)

	case cli.CmdMoves:
		if !h.requireGame() {
			return true
		}
		h.svc.View(h.gameID, func(g *game.Game) error {
			h.view.ShowLegalMoves(g.NextTurn(), g.LegalMoves())
			return nil
		})

	case cli.CmdHint:
		h.handleHint()

	case cli.CmdDepth:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage(fmt.Sprintf("Search depth: %d", h.depth))
			return true
		}
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil || n < 1 || n > core.MaxSearchDepth {
			h.view.ShowMessage(fmt.Sprintf("Usage: depth <1-%d>", core.MaxSearchDepth))
			return true
		}
		h.depth = n
		h.view.ShowMessage(fmt.Sprintf("Search depth set to %d", n))

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		h.showBoard()

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		h.svc.View(h.gameID, func(g *game.Game) error {
			h.view.ShowGameHistory(g)
			return nil
		})

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <layout>'.")
		return false
	}
	return true
}

func (h *CLIHandler) computerToMove() bool {
	if h.gameID == "" {
		return false
	}
	computer := false
	h.svc.View(h.gameID, func(g *game.Game) error {
		computer = g.State() == core.StateOngoing && g.NextPlayer().Type == core.PlayerComputer
		return nil
	})
	return computer
}

func (h *CLIHandler) handleMove(notation string) {
	if !h.requireGame() {
		return
	}

	result, err := h.svc.ApplyHumanMove(h.gameID, notation, core.SideNone)
	switch {
	case errors.Is(err, service.ErrNotHumanTurn):
		h.view.ShowMessage("It's not a human player's turn. Press ENTER to execute computer move.")
		return
	case err != nil:
		h.view.ShowError(fmt.Errorf("invalid move: %w", err))
		return
	}

	h.view.ShowHumanMove(result)
	h.afterMove(result)
}

// executeComputerMove runs the search synchronously through the same
// pending/complete cycle the server uses
func (h *CLIHandler) executeComputerMove() {
	turn, err := h.svc.StartComputerMove(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.eng.SetDepth(turn.Player.Depth)
	search, err := h.eng.Search(turn.Board, turn.Side)
	out := service.SearchOutcome{Err: err}
	if search != nil {
		out.Move = search.Move
		out.Score = search.Score
		out.Depth = search.Depth
		out.Nodes = search.Nodes
	}

	result, err := h.svc.CompleteComputerMove(turn, out)
	if err != nil {
		h.view.ShowError(fmt.Errorf("engine error: %w", err))
		return
	}

	h.view.ShowComputerMove(result)
	h.afterMove(result)
}

func (h *CLIHandler) afterMove(result *game.MoveResult) {
	h.showBoard()
	if result.GameState.IsOver() {
		h.svc.View(h.gameID, func(g *game.Game) error {
			h.view.ShowGameOver(g)
			return nil
		})
	}
}

func (h *CLIHandler) handleUndo(args []string) {
	if !h.requireGame() {
		return
	}

	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
			return
		}
		count = n
	}

	if err := h.svc.UndoMoves(h.gameID, count); err != nil {
		h.view.ShowError(err)
		return
	}

	if count == 1 {
		h.view.ShowMessage("Move undone")
	} else {
		h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
	}
	h.showBoard()
}

func (h *CLIHandler) handleHint() {
	if !h.requireGame() {
		return
	}

	var (
		b    board.Board
		side core.Side
	)
	h.svc.View(h.gameID, func(g *game.Game) error {
		b, side = g.CurrentBoard(), g.NextTurn()
		return nil
	})

	h.eng.SetDepth(h.depth)
	if move := h.eng.BestMove(b, side); move != nil {
		h.view.ShowMessage(fmt.Sprintf("Hint for %s: %s", side.Name(), move))
	} else {
		h.view.ShowMessage(fmt.Sprintf("%s has no move", side.Name()))
	}
}

func (h *CLIHandler) showBoard() {
	if h.gameID == "" {
		return
	}
	h.svc.View(h.gameID, func(g *game.Game) error {
		h.view.DisplayBoard(g.CurrentBoard())
		return nil
	})
}

func (h *CLIHandler) closeGame() {
	if h.gameID != "" {
		h.svc.DeleteGame(h.gameID)
		h.gameID = ""
	}
}

// selectPlayer asks for a seat type, computer seats use the current depth
func (h *CLIHandler) selectPlayer(side core.Side) core.PlayerConfig {
	answer := strings.ToLower(h.view.Ask(fmt.Sprintf("Select %s player (h/c): ", side.Name())))
	if answer == "c" || answer == "computer" {
		return core.PlayerConfig{Type: core.PlayerComputer, Depth: h.depth}
	}
	return core.PlayerConfig{Type: core.PlayerHuman}
}

// handleNewGame starts a game from the standard position or a layout,
// replacing the current one
func (h *CLIHandler) handleNewGame(layout string) {
	initial, turn := board.Standard(), core.SideWhite
	if layout != "" {
		b, side, err := board.ParseLayout(layout)
		if err == nil {
			err = b.Validate()
		}
		if err != nil {
			h.view.ShowError(fmt.Errorf("could not read layout: %w", err))
			return
		}
		initial, turn = b, side
	}

	white := core.NewPlayer(h.selectPlayer(core.SideWhite), core.SideWhite)
	black := core.NewPlayer(h.selectPlayer(core.SideBlack), core.SideBlack)

	h.closeGame()
	gameID := h.svc.GenerateGameID()
	if err := h.svc.CreateGame(gameID, white, black, initial, turn); err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}
	h.gameID = gameID

	h.view.ShowMessage("Game started.")
	h.showBoard()

	h.svc.View(gameID, func(g *game.Game) error {
		if g.State().IsOver() {
			h.view.ShowGameOver(g)
		}
		return nil
	})
}
