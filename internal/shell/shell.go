// Package shell is a terminal front end for a single word-square board.
//
// Commands (coordinates are 0-based):
//
//	type <row> <col> <letters>   type letters starting at a cell, following the cursor
//	type <letters>               same, starting at the cursor
//	bs [row col]                 backspace at a cell (default: the cursor)
//	dir [h|v]                    set the typing direction (toggle without argument)
//	at <row> <col>               move the cursor
//	check                        score the board
//	reset                        restore the starting board
//	show                         print the board
//	points                       print letter values
//	preset [name|random]         start a preset (list them without argument)
//	new <size> <target>          start a blank board
//	help, exit
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Hungryfoodies/WordSquare/internal/game"
	"github.com/Hungryfoodies/WordSquare/internal/puzzle"
)

var errQuit = errors.New("quit")

// Controller owns the board and the readline instance.
type Controller struct {
	l   *readline.Instance
	out io.Writer

	dict    game.WordChecker
	presets *puzzle.Set
	engine  *game.Engine
	preset  string
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewController opens a readline prompt and starts on the named preset.
func NewController(dict game.WordChecker, presets *puzzle.Set, preset string) (*Controller, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mwordsquare>\033[0m ",
		HistoryFile:     "/tmp/wordsquare_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	c := newController(dict, presets, l.Stdout())
	c.l = l
	c.start(preset)
	return c, nil
}

func newController(dict game.WordChecker, presets *puzzle.Set, out io.Writer) *Controller {
	if presets == nil {
		presets = &puzzle.Set{}
	}
	return &Controller{out: out, dict: dict, presets: presets}
}

// start loads a preset by name, falling back to a random one, or to a
// blank 5x5 board when there are no presets.
func (c *Controller) start(name string) {
	if p, ok := c.presets.Find(name); ok {
		c.load(p)
		return
	}
	if c.presets.Len() > 0 {
		c.load(c.presets.Random())
		return
	}
	c.engine = game.New(5, 15, nil, c.dict)
	c.preset = ""
}

func (c *Controller) load(p puzzle.Preset) {
	c.engine = p.NewEngine(c.dict)
	c.preset = p.Name
}

// Loop reads commands until exit, EOF or an interrupt on an empty line.
func (c *Controller) Loop(sig chan os.Signal) {
	defer c.l.Close()

	c.show()
	for {
		line, err := c.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if err := c.Execute(line); err != nil {
			if errors.Is(err, errQuit) {
				sig <- syscall.SIGINT
				break
			}
			c.printf("error: %v\n", err)
		}
	}
	log.Debug().Msg("exiting readline loop")
}

// Execute runs a single command line.
func (c *Controller) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "type", "t":
		return c.typeLetters(args)
	case "bs", "backspace":
		return c.backspace(args)
	case "dir", "d":
		return c.direction(args)
	case "at", "cursor":
		row, col, err := coords(args)
		if err != nil {
			return err
		}
		if !c.engine.SetCursor(row, col) {
			return fmt.Errorf("(%d,%d) is off the board", row, col)
		}
		c.show()
	case "check", "c":
		c.check()
	case "reset":
		c.engine.Reset()
		c.show()
	case "show", "s":
		c.show()
	case "points":
		c.points()
	case "preset", "p":
		return c.choosePreset(args)
	case "new":
		return c.newBoard(args)
	case "help", "h", "?":
		c.printf("%s\n", help)
	case "exit", "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

const help = `type <row> <col> <letters> | type <letters>
bs [row col]
dir [h|v]
at <row> <col>
check | reset | show | points
preset [name|random]
new <size> <target>
exit`

func (c *Controller) typeLetters(args []string) error {
	var (
		pos     = c.engine.Cursor()
		letters string
	)
	switch len(args) {
	case 1:
		letters = args[0]
	case 3:
		row, col, err := coords(args[:2])
		if err != nil {
			return err
		}
		pos = game.Position{Row: row, Col: col}
		letters = args[2]
	default:
		return errors.New("usage: type [row col] <letters>")
	}

	if pos.Row < 0 || pos.Row >= c.engine.Size() || pos.Col < 0 || pos.Col >= c.engine.Size() {
		return fmt.Errorf("(%d,%d) is off the board", pos.Row, pos.Col)
	}

	skipped := 0
	for _, r := range letters {
		next, ok := c.engine.TypeLetter(pos.Row, pos.Col, string(r))
		switch {
		case ok:
			pos = next
		case c.engine.Locked(pos.Row, pos.Col):
			// Locked cells consume a letter so words can be typed across them.
			pos = c.engine.Next(pos)
			c.engine.SetCursor(pos.Row, pos.Col)
		default:
			skipped++
		}
	}
	if skipped > 0 {
		c.printf("%d character(s) not placed\n", skipped)
	}
	c.show()
	return nil
}

func (c *Controller) backspace(args []string) error {
	pos := c.engine.Cursor()
	if len(args) > 0 {
		row, col, err := coords(args)
		if err != nil {
			return err
		}
		pos = game.Position{Row: row, Col: col}
	}
	if _, ok := c.engine.Backspace(pos.Row, pos.Col); !ok {
		return fmt.Errorf("(%d,%d) is off the board", pos.Row, pos.Col)
	}
	c.show()
	return nil
}

func (c *Controller) direction(args []string) error {
	d := c.engine.Direction().Toggle()
	if len(args) > 0 {
		var err error
		if d, err = game.ParseDirection(args[0]); err != nil {
			return err
		}
	}
	c.engine.SetDirection(d)
	c.printf("direction: %s\n", d)
	return nil
}

func (c *Controller) check() {
	res := c.engine.CheckWords()
	c.printf("rows:    %s\n", wordList(res.ValidRows))
	c.printf("columns: %s\n", wordList(res.ValidCols))
	c.printf("score:   %d / %d\n", res.Score, c.engine.TargetScore())
	if res.Won {
		c.printf("*** target reached, you win! the board has been reset ***\n")
		c.show()
	}
}

func wordList(ws []string) string {
	if len(ws) == 0 {
		return "-"
	}
	return strings.Join(ws, ", ")
}

func (c *Controller) points() {
	parts := lo.Map(c.engine.Points().Letters(), func(lv game.LetterValue, _ int) string {
		return fmt.Sprintf("%s=%d", lv.Letter, lv.Points)
	})
	for i := 0; i < len(parts); i += 13 {
		c.printf("%s\n", strings.Join(parts[i:min(i+13, len(parts))], " "))
	}
}

func (c *Controller) choosePreset(args []string) error {
	if len(args) == 0 {
		for _, name := range c.presets.Names() {
			marker := " "
			if name == c.preset {
				marker = "*"
			}
			c.printf("%s %s\n", marker, name)
		}
		return nil
	}
	if strings.EqualFold(args[0], "random") && c.presets.Len() > 0 {
		c.load(c.presets.Random())
	} else if p, ok := c.presets.Find(args[0]); ok {
		c.load(p)
	} else {
		return fmt.Errorf("no preset named %q", args[0])
	}
	c.show()
	return nil
}

func (c *Controller) newBoard(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: new <size> <target>")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil || size < 1 {
		return fmt.Errorf("bad size %q", args[0])
	}
	target, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad target %q", args[1])
	}
	c.engine = game.New(size, target, nil, c.dict)
	c.preset = ""
	c.show()
	return nil
}

// show prints the board. Locked letters are wrapped in parentheses and the
// cursor cell in brackets.
func (c *Controller) show() {
	st := c.engine.Snapshot()
	var sb strings.Builder

	name := c.preset
	if name == "" {
		name = "custom"
	}
	fmt.Fprintf(&sb, "%s  target %d  direction %s\n", name, st.TargetScore, st.Direction)
	sb.WriteString("   ")
	for col := 0; col < st.Size; col++ {
		fmt.Fprintf(&sb, "%3d", col)
	}
	sb.WriteByte('\n')
	for row, cells := range st.Grid {
		fmt.Fprintf(&sb, "%3d", row)
		for col, cell := range cells {
			if cell == string(game.Blank) {
				cell = "."
			}
			switch {
			case row == st.Cursor.Row && col == st.Cursor.Col:
				fmt.Fprintf(&sb, "[%s]", cell)
			case c.engine.Locked(row, col):
				fmt.Fprintf(&sb, "(%s)", cell)
			default:
				fmt.Fprintf(&sb, " %s ", cell)
			}
		}
		sb.WriteByte('\n')
	}
	io.WriteString(c.out, sb.String())
}

func (c *Controller) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func coords(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.New("expected <row> <col>")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad row %q", args[0])
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad col %q", args[1])
	}
	return row, col, nil
}
