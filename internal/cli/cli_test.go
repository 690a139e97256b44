package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"checkers/internal/board"

	"github.com/chzyer/readline"
)

type scriptReader struct {
	lines   []string
	errs    map[int]error
	prompts []string
	read    int
}

func (s *scriptReader) SetPrompt(prompt string) {
	s.prompts = append(s.prompts, prompt)
}

func (s *scriptReader) Readline() (string, error) {
	defer func() { s.read++ }()
	if err, ok := s.errs[s.read]; ok {
		return "", err
	}
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		input string
		want  CommandType
		args  int
	}{
		{"", CmdNone, 0},
		{"   ", CmdNone, 0},
		{"new", CmdNew, 0},
		{"resume 8/8/8/4b3/3w4/8/8/8 w", CmdResume, 2},
		{"undo 3", CmdUndo, 1},
		{"moves", CmdMoves, 0},
		{"hint", CmdHint, 0},
		{"depth 4", CmdDepth, 1},
		{"color green", CmdColor, 1},
		{"verbose", CmdVerbose, 0},
		{"history", CmdHistory, 0},
		{"?", CmdHelp, 0},
		{"EXIT", CmdQuit, 0},
		{"c3-d4", CmdMove, 1},
		{"a1xe5(b2,d4)", CmdMove, 1},
	}
	for _, tc := range cases {
		cmd := ParseCommand(tc.input)
		if cmd.Type != tc.want || len(cmd.Args) != tc.args {
			t.Errorf("ParseCommand(%q) = %v %v, want type %v with %d args", tc.input, cmd.Type, cmd.Args, tc.want, tc.args)
		}
	}
}

func TestGetCommand(t *testing.T) {
	r := &scriptReader{
		lines: []string{"c3-d4"},
		errs:  map[int]error{1: readline.ErrInterrupt},
	}
	c := New(r, io.Discard)

	cmd, err := c.GetCommand("[w]> ")
	if err != nil || cmd.Type != CmdMove || cmd.Args[0] != "c3-d4" {
		t.Fatalf("got %+v, %v", cmd, err)
	}
	if r.prompts[0] != "[w]> " {
		t.Fatalf("prompt %q", r.prompts[0])
	}

	cmd, err = c.GetCommand("> ")
	if err != nil || cmd.Type != CmdNone || cmd.Raw == "" {
		t.Fatalf("interrupt gave %+v, %v", cmd, err)
	}

	cmd, err = c.GetCommand("> ")
	if err != nil || cmd.Type != CmdQuit {
		t.Fatalf("end of input gave %+v, %v", cmd, err)
	}
}

func TestDisplayBoard(t *testing.T) {
	var out bytes.Buffer
	c := New(&scriptReader{}, &out)

	c.DisplayBoard(board.Standard())
	text := out.String()
	if !strings.Contains(text, "1 w . w . w . w .  1") {
		t.Fatalf("plain board missing first rank:\n%s", text)
	}
	if !strings.Contains(text, "8 . b . b . b . b  8") {
		t.Fatalf("plain board missing last rank:\n%s", text)
	}

	if err := c.SetTheme(ThemeBrown); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	c.DisplayBoard(board.Standard())
	if !strings.Contains(out.String(), themes[ThemeBrown].darkBg) {
		t.Fatal("themed board has no dark squares")
	}

	if err := c.SetTheme("purple"); err == nil {
		t.Fatal("unknown theme accepted")
	}
	if c.Theme() != ThemeBrown {
		t.Fatalf("theme changed to %s", c.Theme())
	}
}

func TestToggleVerbose(t *testing.T) {
	c := New(&scriptReader{}, io.Discard)
	if !c.ToggleVerbose() || !c.IsVerbose() {
		t.Fatal("verbose not enabled")
	}
	if c.ToggleVerbose() {
		t.Fatal("verbose not disabled")
	}
}
