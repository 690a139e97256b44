// Package cli is the terminal view of the local game: command parsing, board
// rendering with colour themes, and game messages.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"

	"github.com/chzyer/readline"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdUndo
	CmdMoves
	CmdHint
	CmdDepth
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// LineReader is the subset of *readline.Instance the view needs
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand prompts and reads one command. End of input quits; an
// interrupted line is discarded.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	switch {
	case errors.Is(err, io.EOF):
		return &Command{Type: CmdQuit}, nil
	case errors.Is(err, readline.ErrInterrupt):
		return &Command{Type: CmdNone, Raw: "^C"}, nil
	case err != nil:
		return nil, err
	}

	return ParseCommand(line), nil
}

// ParseCommand maps an input line to a command; unknown words are moves
func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := parts[0]
	args := parts[1:]

	switch strings.ToLower(cmd) {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "moves":
		return &Command{Type: CmdMoves}
	case "hint":
		return &Command{Type: CmdHint}
	case "depth":
		return &Command{Type: CmdDepth, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		return &Command{Type: CmdMove, Args: []string{cmd}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// Ask prompts for a single answer, empty on end of input
func (c *CLI) Ask(prompt string) string {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (c *CLI) DisplayBoard(b board.Board) {
	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < board.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < board.Size; f++ {
			cell := b[r][f]

			if c.theme == ThemeOff {
				sb.WriteByte(cell.Symbol())
				sb.WriteByte(' ')
				continue
			}

			bg := theme.lightBg
			if (r+f)%2 == 1 {
				bg = theme.darkBg
			}

			if cell == core.Empty {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}

			color := theme.black
			if cell.Owner() == core.SideWhite {
				color = theme.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, cell.Symbol(), theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game with player type selection
  resume <layout>  - Resume from a layout, e.g. resume 8/8/8/4b3/3w4/8/8/8 w
  <move>           - Make a move (e.g., c3-d4, a1xe5 or a1xe5(b2,d4))
  undo [count]     - Undo last move(s), default 1
  moves            - List the legal moves of the side to move
  hint             - Ask the engine for a move
  depth <1-6>      - Search depth for new computer seats and hints
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  history          - Show game move history and positions
  quit/exit        - Exit the program
  help/?           - Show this help message

During any game:
  Press ENTER      - Execute computer move (when it's computer's turn)`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Checkers!")
	c.ShowMessage("Commands: new, resume <layout>, <move>, undo, moves, hint, quit/exit, verbose, history, help/?")
	c.ShowMessage("White moves first, captures are mandatory, men capture backwards and kings fly.")
	c.ShowMessage("Press ENTER to execute computer moves when it's computer's turn.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(g *game.Game) {
	c.ShowMessage(fmt.Sprintf("Starting layout: %s\n", g.InitialLayout()))

	// Pairs follow the move order, the first entry may belong to either side
	moves := g.Moves()
	for i := 0; i < len(moves); i += 2 {
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", i/2+1, moves[i], moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", i/2+1, moves[i]))
		}
	}
	c.ShowMessage(fmt.Sprintf("\nCurrent layout: %s", g.Layout()))
	c.ShowMessage(fmt.Sprintf("Scores: white %d, black %d", g.Score(core.SideWhite), g.Score(core.SideBlack)))
	c.ShowMessage(fmt.Sprintf("Game state: %s\n", g.State()))
}

func (c *CLI) ShowLegalMoves(side core.Side, moves rules.MoveMap) {
	all := moves.All()
	if len(all) == 0 {
		c.ShowMessage(fmt.Sprintf("%s has no legal moves", side.Name()))
		return
	}

	notation := make([]string, len(all))
	for i, m := range all {
		notation[i] = m.String()
	}

	header := fmt.Sprintf("%s to move, %d moves", side.Name(), len(all))
	if moves.IsCapture() {
		header += " (capture required)"
	}
	c.ShowMessage(header)
	c.ShowMessage("  " + strings.Join(notation, " "))
}

func (c *CLI) ShowComputerMove(result *game.MoveResult) {
	if c.verbose {
		c.ShowMessage(fmt.Sprintf("Computer (%s): %s (depth=%d, score=%d, nodes=%d)\n",
			result.Player, result.Move, result.Depth, result.Score, result.Nodes))
	} else {
		c.ShowMessage(fmt.Sprintf("Computer (%s): %s\n", result.Player, result.Move))
	}
}

func (c *CLI) ShowHumanMove(result *game.MoveResult) {
	if !c.verbose {
		return
	}
	msg := fmt.Sprintf("Your move: %s", result.Move)
	if result.Promoted {
		msg += " (crowned)"
	}
	c.ShowMessage(msg + "\n")
}

func (c *CLI) ShowGameOver(g *game.Game) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s (white %d, black %d)\n",
		g.State(), g.Score(core.SideWhite), g.Score(core.SideBlack)))
	c.ShowMessage("Start a new game with 'new' or 'resume', or 'undo' to take moves back.")
}
