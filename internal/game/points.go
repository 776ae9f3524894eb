package game

import "unicode"

// Points is a letter-value table indexed by 'A'..'Z'. It is a value type, so
// handing one out never exposes the engine's copy to mutation.
type Points [26]int

// LetterValue pairs a letter with its point value, for display.
type LetterValue struct {
	Letter string `json:"letter"`
	Points int    `json:"points"`
}

// LetterPoints is the Scrabble-style table used when no other is injected.
var LetterPoints = Points{
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8, 5, 1, 3, // A-M
	1, 1, 3, 10, 1, 1, 1, 1, 4, 4, 8, 4, 10, // N-Z
}

// DefaultPoints returns a copy of LetterPoints.
func DefaultPoints() Points { return LetterPoints }

// Value returns the points for r, or 0 for anything that is not A-Z.
// Lowercase letters are scored as their uppercase form.
func (p Points) Value(r rune) int {
	r = unicode.ToUpper(r)
	if r < 'A' || r > 'Z' {
		return 0
	}
	return p[r-'A']
}

// Word sums the value of every character in w.
func (p Points) Word(w string) int {
	total := 0
	for _, r := range w {
		total += p.Value(r)
	}
	return total
}

// Letters lists the table in alphabetical order.
func (p Points) Letters() []LetterValue {
	out := make([]LetterValue, 0, len(p))
	for i, v := range p {
		out = append(out, LetterValue{Letter: string(rune('A' + i)), Points: v})
	}
	return out
}
