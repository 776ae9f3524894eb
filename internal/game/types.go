// internal/game/types.go
//
// Core type definitions for the word-square engine.
// Defines:
//   - Direction: typing axis (horizontal/vertical) driving cursor motion.
//   - Position: a (row, col) cell address.
//   - CheckResult: outcome of a word check (valid rows/cols, score, win flag).
//   - State: a render-ready snapshot of an engine.

package game

import (
	"fmt"
	"strings"
)

// Blank marks an empty cell.
const Blank = ' '

// MinWordLength is the shortest row/column string that can count as a word.
const MinWordLength = 3

// Direction is the axis along which the cursor advances after input.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Toggle returns the other direction.
func (d Direction) Toggle() Direction {
	if d == Vertical {
		return Horizontal
	}
	return Vertical
}

// MarshalText encodes the direction as "horizontal" or "vertical".
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText accepts anything ParseDirection does.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection maps user-facing names onto a Direction.
// Arrow-key names are accepted too: left/right select horizontal typing,
// up/down select vertical typing.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h", "across", "a", "left", "right":
		return Horizontal, nil
	case "vertical", "v", "down", "d", "up":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown direction %q", s)
}

// Position addresses a single grid cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CheckResult is returned by Engine.CheckWords.
type CheckResult struct {
	ValidRows []string `json:"validRows"`
	ValidCols []string `json:"validCols"`
	Score     int      `json:"score"`
	Won       bool     `json:"won"`
}

// State is a copy of everything a renderer needs to draw the board.
type State struct {
	Size        int        `json:"size"`
	TargetScore int        `json:"targetScore"`
	Score       int        `json:"score"`
	Direction   Direction  `json:"direction"`
	Cursor      Position   `json:"cursor"`
	Grid        [][]string `json:"grid"`   // [row][col], blank = " "
	Locked      []Position `json:"locked"` // row-major
}
