package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/Hungryfoodies/WordSquare/internal/words"
)

func catDog() map[Position]rune {
	return map[Position]rune{
		{0, 0}: 'C', {0, 1}: 'A', {0, 2}: 'T',
		{1, 0}: 'D', {1, 1}: 'O', {1, 2}: 'G',
	}
}

func newCatDog(target int) *Engine {
	return New(5, target, catDog(), words.LoadString("cat\ndog\n"))
}

func TestNewPlacesLockedLetters(t *testing.T) {
	is := is.New(t)
	for n := 1; n <= 6; n++ {
		initial := map[Position]rune{{0, 0}: 'q', {n - 1, n - 1}: 'Z'}
		e := New(n, 10, initial, nil)
		g := e.Grid()
		is.Equal(len(g), n)
		for r := 0; r < n; r++ {
			is.Equal(len(g[r]), n)
			for c := 0; c < n; c++ {
				switch {
				case r == n-1 && c == n-1:
					is.Equal(g[r][c], "Z")
					is.True(e.Locked(r, c))
				case r == 0 && c == 0:
					is.Equal(g[r][c], "Q")
					is.True(e.Locked(r, c))
				default:
					is.Equal(g[r][c], " ")
					is.True(!e.Locked(r, c))
				}
			}
		}
		is.Equal(e.Score(), 0)
		is.Equal(e.Direction(), Horizontal)
		is.Equal(e.Cursor(), Position{0, 0})
	}
}

func TestNewDropsInvalidInitialLetters(t *testing.T) {
	is := is.New(t)
	e := New(3, 5, map[Position]rune{{5, 5}: 'A', {-1, 0}: 'B', {1, 1}: '7', {2, 2}: 'x'}, nil)
	is.Equal(e.LockedCells(), []Position{{2, 2}})
	is.Equal(e.Cell(2, 2), "X")
}

func TestNewClampsSizeAndTarget(t *testing.T) {
	is := is.New(t)
	e := New(0, -4, nil, nil)
	is.Equal(e.Size(), 1)
	is.Equal(e.TargetScore(), 0)
}

func TestTypeLetterAdvancesHorizontally(t *testing.T) {
	is := is.New(t)
	e := New(3, 100, nil, nil)

	cur, ok := e.TypeLetter(0, 0, "a")
	is.True(ok)
	is.Equal(e.Cell(0, 0), "A")
	is.Equal(cur, Position{0, 1})

	cur, _ = e.TypeLetter(0, 2, "b")
	is.Equal(cur, Position{1, 0}) // end of row wraps to next row

	cur, _ = e.TypeLetter(2, 2, "c")
	is.Equal(cur, Position{0, 0}) // last cell wraps to the first
	is.Equal(e.Cursor(), Position{0, 0})
}

func TestTypeLetterAdvancesVertically(t *testing.T) {
	is := is.New(t)
	e := New(3, 100, nil, nil)
	e.SetDirection(Vertical)

	cur, _ := e.TypeLetter(0, 0, "a")
	is.Equal(cur, Position{1, 0})
	cur, _ = e.TypeLetter(2, 0, "b")
	is.Equal(cur, Position{0, 1})
	cur, _ = e.TypeLetter(2, 2, "c")
	is.Equal(cur, Position{0, 0})
}

func TestTraversalVisitsEveryCellOnce(t *testing.T) {
	for _, dir := range []Direction{Horizontal, Vertical} {
		t.Run(dir.String(), func(t *testing.T) {
			is := is.New(t)
			const n = 4
			e := New(n, 1000, nil, nil)
			e.SetDirection(dir)

			seen := map[Position]bool{}
			cur := Position{0, 0}
			for i := 0; i < n*n; i++ {
				is.True(!seen[cur])
				seen[cur] = true
				next, ok := e.TypeLetter(cur.Row, cur.Col, "x")
				is.True(ok)
				cur = next
			}
			is.Equal(len(seen), n*n)
			is.Equal(cur, Position{0, 0})
		})
	}
}

func TestTypeLetterSingleCellGrid(t *testing.T) {
	is := is.New(t)
	e := New(1, 1, nil, nil)
	cur, ok := e.TypeLetter(0, 0, "k")
	is.True(ok)
	is.Equal(cur, Position{0, 0})
	cur, ok = e.Backspace(0, 0)
	is.True(ok)
	is.Equal(cur, Position{0, 0})
}

func TestTypeLetterIgnoresInvalidInput(t *testing.T) {
	is := is.New(t)
	e := New(3, 100, nil, nil)
	e.SetCursor(1, 1)
	before := e.Grid()

	for _, in := range []string{"", "ab", "1", " ", "!", "\t"} {
		cur, ok := e.TypeLetter(0, 0, in)
		is.True(!ok)
		is.Equal(cur, Position{1, 1})
	}
	for _, p := range []Position{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, ok := e.TypeLetter(p.Row, p.Col, "a")
		is.True(!ok)
	}
	is.Equal(e.Grid(), before)
	is.Equal(e.Cursor(), Position{1, 1})
}

func TestTypeLetterLockedCellIsNoop(t *testing.T) {
	is := is.New(t)
	e := newCatDog(100)
	before := e.Grid()
	for i := 0; i < 3; i++ {
		_, ok := e.TypeLetter(0, 1, "z")
		is.True(!ok)
		is.Equal(e.Grid(), before)
	}
}

func TestBackspaceRetreats(t *testing.T) {
	is := is.New(t)
	e := New(3, 100, nil, nil)
	e.TypeLetter(1, 1, "a")

	cur, ok := e.Backspace(1, 1)
	is.True(ok)
	is.Equal(e.Cell(1, 1), " ")
	is.Equal(cur, Position{1, 0})

	cur, _ = e.Backspace(1, 0)
	is.Equal(cur, Position{0, 2}) // start of row wraps to end of previous row

	cur, _ = e.Backspace(0, 0)
	is.Equal(cur, Position{2, 2})

	e.SetDirection(Vertical)
	cur, _ = e.Backspace(0, 1)
	is.Equal(cur, Position{2, 0})
	cur, _ = e.Backspace(0, 0)
	is.Equal(cur, Position{2, 2})
	cur, _ = e.Backspace(2, 1)
	is.Equal(cur, Position{1, 1})
}

func TestBackspaceIsIdempotentOnBlankCell(t *testing.T) {
	is := is.New(t)
	e := New(3, 100, nil, nil)
	e.Backspace(2, 2)
	e.Backspace(2, 2)
	is.Equal(e.Cell(2, 2), " ")
}

func TestBackspaceOutOfRange(t *testing.T) {
	is := is.New(t)
	e := New(3, 100, nil, nil)
	e.SetCursor(2, 1)
	cur, ok := e.Backspace(9, 9)
	is.True(!ok)
	is.Equal(cur, Position{2, 1})
}

// A locked cell can be cleared by Backspace; Reset brings it back.
func TestBackspaceClearsLockedCell(t *testing.T) {
	is := is.New(t)
	e := newCatDog(100)
	_, ok := e.Backspace(0, 0)
	is.True(ok)
	is.Equal(e.Cell(0, 0), " ")
	is.True(e.Locked(0, 0))

	e.Reset()
	is.Equal(e.Cell(0, 0), "C")
}

func TestBackspaceThenTypeRestoresGrid(t *testing.T) {
	for _, dir := range []Direction{Horizontal, Vertical} {
		t.Run(dir.String(), func(t *testing.T) {
			is := is.New(t)
			e := New(4, 100, nil, nil)
			e.SetDirection(dir)
			for _, s := range []string{"w", "o", "r", "d", "s"} {
				e.TypeLetter(e.Cursor().Row, e.Cursor().Col, s)
			}
			before := e.Grid()

			target := Position{1, 0}
			if dir == Vertical {
				target = Position{0, 1}
			}
			ch := before[target.Row][target.Col]
			e.Backspace(target.Row, target.Col)
			cur, ok := e.TypeLetter(target.Row, target.Col, ch)
			is.True(ok)
			is.Equal(e.Grid(), before)
			is.Equal(cur, e.next(target))
		})
	}
}

func TestSetDirection(t *testing.T) {
	is := is.New(t)
	e := newCatDog(100)
	e.SetCursor(3, 3)
	before := e.Grid()

	e.SetDirection(Vertical)
	e.SetDirection(Vertical)
	is.Equal(e.Direction(), Vertical)
	is.Equal(e.Cursor(), Position{3, 3})
	is.Equal(e.Grid(), before)

	e.SetDirection(Horizontal)
	is.Equal(e.Direction(), Horizontal)
}

func TestSetCursor(t *testing.T) {
	is := is.New(t)
	e := New(3, 1, nil, nil)
	is.True(e.SetCursor(2, 1))
	is.Equal(e.Cursor(), Position{2, 1})
	is.True(!e.SetCursor(3, 0))
	is.Equal(e.Cursor(), Position{2, 1})
}

func TestNextFollowsDirection(t *testing.T) {
	is := is.New(t)
	e := New(3, 1, nil, nil)
	is.Equal(e.Next(Position{0, 2}), Position{1, 0})
	is.Equal(e.Next(Position{2, 2}), Position{0, 0})
	is.Equal(e.Cursor(), Position{0, 0}) // Next does not move the cursor

	e.SetDirection(Vertical)
	is.Equal(e.Next(Position{2, 0}), Position{0, 1})
	is.Equal(e.Next(Position{2, 2}), Position{0, 0})
}

func TestCheckWordsCatDog(t *testing.T) {
	is := is.New(t)
	e := newCatDog(100)
	res := e.CheckWords()
	is.Equal(res.ValidRows, []string{"CAT", "DOG"})
	is.Equal(res.ValidCols, []string{})
	is.Equal(res.Score, 10)
	is.True(!res.Won)
	is.Equal(e.Score(), 10)
}

func TestCheckWordsIsIdempotent(t *testing.T) {
	is := is.New(t)
	e := newCatDog(100)
	a := e.CheckWords()
	b := e.CheckWords()
	is.Equal(a, b)
	is.Equal(e.Score(), 10)
}

func TestCheckWordsWinResets(t *testing.T) {
	is := is.New(t)
	e := newCatDog(10)
	e.TypeLetter(3, 3, "x")

	res := e.CheckWords()
	is.True(res.Won)
	is.Equal(res.Score, 10)
	is.Equal(res.ValidRows, []string{"CAT", "DOG"})

	is.Equal(e.Score(), 0)
	is.Equal(e.Cell(3, 3), " ")
	is.Equal(e.Grid(), newCatDog(10).Grid())
}

func TestCheckWordsCountsSharedLettersTwice(t *testing.T) {
	is := is.New(t)
	// C A T
	// A . .
	// T . .
	e := New(3, 100, nil, words.LoadString("CAT"))
	e.TypeLetter(0, 0, "c")
	e.TypeLetter(0, 1, "a")
	e.TypeLetter(0, 2, "t")
	e.TypeLetter(1, 0, "a")
	e.TypeLetter(2, 0, "t")

	res := e.CheckWords()
	is.Equal(res.ValidRows, []string{"CAT"})
	is.Equal(res.ValidCols, []string{"CAT"})
	is.Equal(res.Score, 10) // the shared C is scored in both words
}

func TestCheckWordsTrimsOnlyEdges(t *testing.T) {
	is := is.New(t)
	dict := words.LoadString("CAT\nC T\n")
	e := New(5, 100, nil, dict)

	e.TypeLetter(0, 1, "c")
	e.TypeLetter(0, 2, "a")
	e.TypeLetter(0, 3, "t") // " CAT " -> "CAT"

	e.TypeLetter(1, 0, "c")
	e.TypeLetter(1, 2, "t") // "C T" keeps its inner blank

	e.TypeLetter(2, 0, "c")
	e.TypeLetter(2, 1, "a") // "CA" is too short

	res := e.CheckWords()
	is.Equal(res.ValidRows, []string{"CAT", "C T"})
	is.Equal(res.Score, 5+4)
}

func TestCheckWordsMinimumLength(t *testing.T) {
	is := is.New(t)
	e := New(2, 100, nil, words.LoadString("AB\nA"))
	e.TypeLetter(0, 0, "a")
	e.TypeLetter(0, 1, "b")
	res := e.CheckWords()
	is.Equal(len(res.ValidRows), 0)
	is.Equal(res.Score, 0)
}

func TestCheckWordsZeroTargetAlwaysWins(t *testing.T) {
	is := is.New(t)
	e := New(3, 0, nil, nil)
	is.True(e.CheckWords().Won)
}

func TestCheckWordsEmptyDictionary(t *testing.T) {
	is := is.New(t)
	dict, err := words.LoadFile("testdata/does-not-exist.txt")
	is.True(err != nil)
	e := New(5, 1, catDog(), dict)
	res := e.CheckWords()
	is.Equal(len(res.ValidRows)+len(res.ValidCols), 0)
	is.Equal(res.Score, 0)
	is.True(!res.Won)
}

func TestResetRestoresInitialState(t *testing.T) {
	is := is.New(t)
	e := newCatDog(100)
	want := e.Grid()

	e.SetDirection(Vertical)
	for i := 0; i < 40; i++ {
		cur := e.Cursor()
		if i%3 == 0 {
			e.Backspace(cur.Row, cur.Col)
		} else {
			e.TypeLetter(cur.Row, cur.Col, string(rune('a'+i%26)))
		}
	}
	e.CheckWords()
	cursor := e.Cursor()

	e.Reset()
	is.Equal(e.Grid(), want)
	is.Equal(e.Score(), 0)
	is.Equal(e.Direction(), Vertical) // direction survives a reset
	is.Equal(e.Cursor(), cursor)
}

func TestWithPoints(t *testing.T) {
	is := is.New(t)
	var flat Points
	for i := range flat {
		flat[i] = 2
	}
	e := New(5, 100, catDog(), words.LoadString("cat\ndog"), WithPoints(flat))
	is.Equal(e.CheckWords().Score, 12)
	is.Equal(LetterPoints.Value('Q'), 10) // default table untouched
}

func TestConstruct(t *testing.T) {
	is := is.New(t)
	e, err := Construct(5, 10, catDog(), strings.NewReader("cat\n\n  dog  \n"), "inline")
	is.NoErr(err)
	is.True(e.CheckWords().Won)

	e, err = Construct(5, 10, catDog(), nil, "missing")
	var le *words.LoadError
	is.True(errors.As(err, &le))
	is.Equal(le.Source, "missing")
	is.Equal(e.CheckWords().Score, 0)
}

func TestSnapshot(t *testing.T) {
	is := is.New(t)
	e := newCatDog(15)
	e.SetDirection(Vertical)
	e.TypeLetter(2, 0, "e")

	s := e.Snapshot()
	is.Equal(s.Size, 5)
	is.Equal(s.TargetScore, 15)
	is.Equal(s.Direction, Vertical)
	is.Equal(s.Cursor, Position{3, 0})
	is.Equal(s.Grid[2][0], "E")
	is.Equal(len(s.Locked), 6)
	is.Equal(s.Locked[0], Position{0, 0})

	// snapshot is a copy
	s.Grid[0][0] = "Z"
	is.Equal(e.Cell(0, 0), "C")
}
