package domain

import "fmt"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the mark shown for the cell, or "" for Empty.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// MarshalText encodes the cell as its mark so boards serialize as strings.
func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText accepts "X", "O" or "" (Empty).
func (c *Cell) UnmarshalText(b []byte) error {
	switch string(b) {
	case "X":
		*c = X
	case "O":
		*c = O
	case "":
		*c = Empty
	default:
		return fmt.Errorf("invalid cell %q", b)
	}
	return nil
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Full reports whether no cell is Empty.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Line is a triple of cell indices.
type Line [3]int

// Lines holds the winning lines in scan order: rows, columns, diagonals.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// FindWinningLine returns the first line in scan order holding three equal
// non-empty cells.
func FindWinningLine(b Board) (Line, bool) {
	for _, ln := range Lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return ln, true
		}
	}
	return Line{}, false
}

// IsDraw reports a full board without a winning line.
func IsDraw(b Board) bool {
	if !b.Full() {
		return false
	}
	_, won := FindWinningLine(b)
	return !won
}

// DiffCell returns the index where a and b differ. Identical boards yield 0.
func DiffCell(a, b Board) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return 0
}

// Phase is the coarse state of a board.
type Phase uint8

const (
	InProgress Phase = iota
	Won
	Drawn
)

func (p Phase) String() string {
	switch p {
	case Won:
		return "won"
	case Drawn:
		return "drawn"
	default:
		return "in progress"
	}
}

// Status is derived from a board; Winner and Line are only set when Won.
type Status struct {
	Phase  Phase
	Winner Cell
	Line   Line
}

// StatusOf derives the status of b. A winning line beats a full board.
func StatusOf(b Board) Status {
	if ln, ok := FindWinningLine(b); ok {
		return Status{Phase: Won, Winner: b[ln[0]], Line: ln}
	}
	if b.Full() {
		return Status{Phase: Drawn}
	}
	return Status{Phase: InProgress}
}
