// internal/game/engine.go
//
// Core engine for a single word-square board.
// Responsibilities:
//   - Own the grid, the locked (initial) letters, cursor, direction and score.
//   - Apply typed letters and backspaces, moving the cursor with wraparound.
//   - Check every row and column against the dictionary and score valid words.
//   - Detect a win (score >= target) and reset the board when it happens.
//
// Notes:
//   - The engine performs no I/O and no locking. Callers that share an engine
//     between goroutines must serialize access (see the store package).
//   - Invalid input (out-of-range cells, non-letters, locked cells) is ignored
//     rather than reported; TypeLetter/Backspace return applied=false.
package game

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/Hungryfoodies/WordSquare/internal/words"
)

// WordChecker answers dictionary membership queries.
// *words.Dictionary satisfies it.
type WordChecker interface {
	Contains(word string) bool
}

// Engine holds the state of one board.
type Engine struct {
	size    int
	target  int
	grid    [][]rune
	initial map[Position]rune
	dict    WordChecker
	points  Points

	dir    Direction
	cursor Position
	score  int
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithPoints replaces the default letter-value table.
func WithPoints(p Points) Option {
	return func(e *Engine) { e.points = p }
}

// New builds an engine with every cell blank except those in initial, which
// are filled and locked. Initial entries outside the grid or that are not
// letters are dropped. A nil dict behaves like an empty dictionary.
func New(size, target int, initial map[Position]rune, dict WordChecker, opts ...Option) *Engine {
	if size < 1 {
		size = 1
	}
	if target < 0 {
		target = 0
	}
	if dict == nil {
		dict = words.Empty()
	}
	e := &Engine{
		size:    size,
		target:  target,
		initial: make(map[Position]rune, len(initial)),
		dict:    dict,
		points:  LetterPoints,
		dir:     Horizontal,
	}
	for pos, r := range initial {
		if !e.inBounds(pos.Row, pos.Col) || !unicode.IsLetter(r) {
			continue
		}
		e.initial[pos] = unicode.ToUpper(r)
	}
	for _, opt := range opts {
		opt(e)
	}

	e.grid = make([][]rune, size)
	for r := range e.grid {
		e.grid[r] = make([]rune, size)
	}
	e.Reset()
	return e
}

// Construct loads a dictionary from src and builds an engine around it.
// If the dictionary cannot be read the engine is still returned, backed by an
// empty dictionary, together with the *words.LoadError.
func Construct(size, target int, initial map[Position]rune, src io.Reader, name string) (*Engine, error) {
	dict, err := words.Load(src, name)
	return New(size, target, initial, dict), err
}

// TypeLetter writes ch at (row, col) and advances the cursor from that cell.
// ch must be exactly one letter; it is stored uppercased. Out-of-range cells,
// locked cells and anything else are ignored: the current cursor is returned
// with applied=false.
func (e *Engine) TypeLetter(row, col int, ch string) (Position, bool) {
	if !e.inBounds(row, col) || e.Locked(row, col) {
		return e.cursor, false
	}
	if utf8.RuneCountInString(ch) != 1 {
		return e.cursor, false
	}
	r, _ := utf8.DecodeRuneInString(ch)
	if !unicode.IsLetter(r) {
		return e.cursor, false
	}
	e.grid[row][col] = unicode.ToUpper(r)
	e.cursor = e.next(Position{Row: row, Col: col})
	return e.cursor, true
}

// Backspace blanks (row, col) and moves the cursor to the previous cell in
// the current direction. Locked cells are cleared too; only Reset restores
// them. Out-of-range coordinates are ignored.
func (e *Engine) Backspace(row, col int) (Position, bool) {
	if !e.inBounds(row, col) {
		return e.cursor, false
	}
	e.grid[row][col] = Blank
	e.cursor = e.prev(Position{Row: row, Col: col})
	return e.cursor, true
}

// SetDirection changes the typing axis. The cursor and grid are untouched.
func (e *Engine) SetDirection(d Direction) {
	if d != Vertical {
		d = Horizontal
	}
	e.dir = d
}

// SetCursor moves the cursor to (row, col), e.g. when a player clicks a cell.
// Out-of-range coordinates are ignored.
func (e *Engine) SetCursor(row, col int) bool {
	if !e.inBounds(row, col) {
		return false
	}
	e.cursor = Position{Row: row, Col: col}
	return true
}

// CheckWords scores every row and column that forms a dictionary word.
//
// Each line is read as-is (blanks included) and trimmed of edge blanks only.
// A line counts if it is at least MinWordLength characters long and in the
// dictionary. The score is the sum of letter values over all valid rows plus
// all valid columns, so a letter shared by a valid row and a valid column is
// counted twice. If the score reaches the target the result is marked won and
// the board is reset before returning.
func (e *Engine) CheckWords() CheckResult {
	validRows := lo.Filter(e.rows(), e.isWord)
	validCols := lo.Filter(e.cols(), e.isWord)

	score := lo.SumBy(validRows, e.points.Word) + lo.SumBy(validCols, e.points.Word)
	e.score = score

	res := CheckResult{
		ValidRows: validRows,
		ValidCols: validCols,
		Score:     score,
	}
	if score >= e.target {
		res.Won = true
		e.Reset()
	}
	return res
}

// Reset restores the construction-time board: locked cells get their initial
// letter back, everything else is blanked, and the score drops to 0.
// Cursor and direction are kept.
func (e *Engine) Reset() {
	for r := range e.grid {
		for c := range e.grid[r] {
			if l, ok := e.initial[Position{Row: r, Col: c}]; ok {
				e.grid[r][c] = l
			} else {
				e.grid[r][c] = Blank
			}
		}
	}
	e.score = 0
}

// --------------------------- accessors -------------------------------------

func (e *Engine) Size() int            { return e.size }
func (e *Engine) TargetScore() int     { return e.target }
func (e *Engine) Score() int           { return e.score }
func (e *Engine) Direction() Direction { return e.dir }
func (e *Engine) Cursor() Position     { return e.cursor }
func (e *Engine) Points() Points       { return e.points }

// Next returns the cell after p in the current direction, with the same
// wraparound the cursor follows.
func (e *Engine) Next(p Position) Position { return e.next(p) }

// Locked reports whether (row, col) holds an initial letter.
func (e *Engine) Locked(row, col int) bool {
	_, ok := e.initial[Position{Row: row, Col: col}]
	return ok
}

// LockedCells lists the locked cells in row-major order.
func (e *Engine) LockedCells() []Position {
	out := make([]Position, 0, len(e.initial))
	for r := 0; r < e.size; r++ {
		for c := 0; c < e.size; c++ {
			if e.Locked(r, c) {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// Cell returns the content of (row, col) as a one-character string, or ""
// when out of range.
func (e *Engine) Cell(row, col int) string {
	if !e.inBounds(row, col) {
		return ""
	}
	return string(e.grid[row][col])
}

// Grid returns a copy of the board; blank cells are " ".
func (e *Engine) Grid() [][]string {
	out := make([][]string, e.size)
	for r, row := range e.grid {
		out[r] = make([]string, len(row))
		for c, ch := range row {
			out[r][c] = string(ch)
		}
	}
	return out
}

// Snapshot bundles the read accessors into one value.
func (e *Engine) Snapshot() State {
	return State{
		Size:        e.size,
		TargetScore: e.target,
		Score:       e.score,
		Direction:   e.dir,
		Cursor:      e.cursor,
		Grid:        e.Grid(),
		Locked:      e.LockedCells(),
	}
}

// --------------------------- internals -------------------------------------

func (e *Engine) inBounds(row, col int) bool {
	return row >= 0 && row < e.size && col >= 0 && col < e.size
}

// next steps forward along the current axis. Leaving the end of a line
// wraps to the start of the next one, and the last cell wraps to (0,0).
func (e *Engine) next(p Position) Position {
	n := e.size
	if e.dir == Vertical {
		p.Row = (p.Row + 1) % n
		if p.Row == 0 {
			p.Col = (p.Col + 1) % n
		}
		return p
	}
	p.Col = (p.Col + 1) % n
	if p.Col == 0 {
		p.Row = (p.Row + 1) % n
	}
	return p
}

// prev is the inverse of next.
func (e *Engine) prev(p Position) Position {
	n := e.size
	if e.dir == Vertical {
		if p.Row == 0 {
			p.Col = (p.Col - 1 + n) % n
		}
		p.Row = (p.Row - 1 + n) % n
		return p
	}
	if p.Col == 0 {
		p.Row = (p.Row - 1 + n) % n
	}
	p.Col = (p.Col - 1 + n) % n
	return p
}

func (e *Engine) rows() []string {
	out := make([]string, e.size)
	for r, row := range e.grid {
		out[r] = trimBlank(string(row))
	}
	return out
}

func (e *Engine) cols() []string {
	out := make([]string, e.size)
	line := make([]rune, e.size)
	for c := 0; c < e.size; c++ {
		for r := 0; r < e.size; r++ {
			line[r] = e.grid[r][c]
		}
		out[c] = trimBlank(string(line))
	}
	return out
}

// isWord has the lo.Filter predicate shape.
func (e *Engine) isWord(s string, _ int) bool {
	return utf8.RuneCountInString(s) >= MinWordLength && e.dict.Contains(s)
}

func trimBlank(s string) string { return strings.Trim(s, string(Blank)) }
