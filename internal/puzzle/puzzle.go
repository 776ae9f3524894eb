// internal/puzzle/puzzle.go
//
// Puzzle presets: board size, target score and locked letters, decoded from
// YAML. A preset turns into a fresh game.Engine with NewEngine.
//
// YAML shape:
//
//	presets:
//	  - name: cat-dog
//	    grid_size: 5
//	    target_score: 15
//	    rows: ["CAT", "DOG"]          # '.' or ' ' leaves a cell open
//	    letters:                      # explicit placements, merged with rows
//	      - {row: 4, col: 4, letter: S}
package puzzle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/Hungryfoodies/WordSquare/assets"
	"github.com/Hungryfoodies/WordSquare/internal/game"
)

// DefaultName is the preset used when a caller does not ask for one.
const DefaultName = "cat-dog"

// Placement is one locked letter.
type Placement struct {
	Row    int    `yaml:"row" json:"row"`
	Col    int    `yaml:"col" json:"col"`
	Letter string `yaml:"letter" json:"letter"`
}

// Preset describes a starting board.
type Preset struct {
	Name        string      `yaml:"name" json:"name"`
	GridSize    int         `yaml:"grid_size" json:"gridSize"`
	TargetScore int         `yaml:"target_score" json:"targetScore"`
	Rows        []string    `yaml:"rows,omitempty" json:"-"`
	Letters     []Placement `yaml:"letters,omitempty" json:"letters"`
}

// Set is an ordered collection of presets with unique names.
type Set struct {
	presets []Preset
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Parse decodes and validates a preset file. Rows are folded into Letters.
func Parse(r io.Reader) (*Set, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("puzzle: decode: %w", err)
	}
	seen := map[string]bool{}
	for i := range f.Presets {
		p := &f.Presets[i]
		if err := p.normalize(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("puzzle: duplicate preset %q", p.Name)
		}
		seen[p.Name] = true
	}
	return &Set{presets: f.Presets}, nil
}

// LoadFile parses the preset file at path.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("puzzle: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Default parses the presets embedded in the binary.
func Default() (*Set, error) {
	f, err := assets.FS.Open(assets.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("puzzle: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (p *Preset) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errors.New("puzzle: preset without a name")
	}
	if p.GridSize < 1 {
		return fmt.Errorf("puzzle: %s: grid_size must be at least 1", p.Name)
	}
	if p.TargetScore < 0 {
		return fmt.Errorf("puzzle: %s: target_score must not be negative", p.Name)
	}
	if len(p.Rows) > p.GridSize {
		return fmt.Errorf("puzzle: %s: %d rows on a %d grid", p.Name, len(p.Rows), p.GridSize)
	}

	var fromRows []Placement
	for r, line := range p.Rows {
		if utf8.RuneCountInString(line) > p.GridSize {
			return fmt.Errorf("puzzle: %s: row %d is longer than the grid", p.Name, r)
		}
		for c, ch := range []rune(line) {
			if ch == '.' || ch == ' ' {
				continue
			}
			fromRows = append(fromRows, Placement{Row: r, Col: c, Letter: string(ch)})
		}
	}
	all := append(fromRows, p.Letters...)
	for i := range all {
		pl := &all[i]
		if pl.Row < 0 || pl.Row >= p.GridSize || pl.Col < 0 || pl.Col >= p.GridSize {
			return fmt.Errorf("puzzle: %s: letter at (%d,%d) is off the grid", p.Name, pl.Row, pl.Col)
		}
		r, n := utf8.DecodeRuneInString(pl.Letter)
		if n == 0 || n != len(pl.Letter) || !unicode.IsLetter(r) {
			return fmt.Errorf("puzzle: %s: %q at (%d,%d) is not a single letter", p.Name, pl.Letter, pl.Row, pl.Col)
		}
		pl.Letter = string(unicode.ToUpper(r))
	}
	p.Letters = lo.UniqBy(all, func(pl Placement) game.Position {
		return game.Position{Row: pl.Row, Col: pl.Col}
	})
	p.Rows = nil
	return nil
}

// InitialLetters returns the locked letters keyed by position.
func (p Preset) InitialLetters() map[game.Position]rune {
	out := make(map[game.Position]rune, len(p.Letters))
	for _, pl := range p.Letters {
		r, _ := utf8.DecodeRuneInString(pl.Letter)
		out[game.Position{Row: pl.Row, Col: pl.Col}] = r
	}
	return out
}

// NewEngine starts a board for this preset.
func (p Preset) NewEngine(dict game.WordChecker, opts ...game.Option) *game.Engine {
	return game.New(p.GridSize, p.TargetScore, p.InitialLetters(), dict, opts...)
}

// Len returns the number of presets.
func (s *Set) Len() int { return len(s.presets) }

// At returns the i-th preset.
func (s *Set) At(i int) Preset { return s.presets[i] }

// Names lists preset names in file order.
func (s *Set) Names() []string {
	return lo.Map(s.presets, func(p Preset, _ int) string { return p.Name })
}

// Find looks up a preset by name, ignoring case.
func (s *Set) Find(name string) (Preset, bool) {
	return lo.Find(s.presets, func(p Preset) bool { return strings.EqualFold(p.Name, name) })
}

// Random picks a preset uniformly. It panics on an empty set.
func (s *Set) Random() Preset {
	return s.presets[frand.Intn(len(s.presets))]
}
