package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidMoveIndex is returned when a history index is out of range.
var ErrInvalidMoveIndex = errors.New("invalid move index")

// Game holds the snapshot history of a match and the selected move.
// The zero value is not usable; call New.
type Game struct {
	history []Board
	move    int
}

// New returns a game holding only the empty starting board.
func New() *Game {
	return &Game{history: []Board{{}}}
}

// Current returns the active snapshot.
func (g *Game) Current() Board { return g.history[g.move] }

// Move returns the move pointer.
func (g *Game) Move() int { return g.move }

// Len returns the number of snapshots, including the starting board.
func (g *Game) Len() int { return len(g.history) }

// History returns a copy of every recorded snapshot.
func (g *Game) History() []Board {
	out := make([]Board, len(g.history))
	copy(out, g.history)
	return out
}

// Status derives the status of the active snapshot.
func (g *Game) Status() Status { return StatusOf(g.Current()) }

// NextPlayer is X on even moves and O on odd ones.
func (g *Game) NextPlayer() Cell {
	if g.move%2 == 0 {
		return X
	}
	return O
}

// ApplyMove places the next player's mark at cell. Out-of-range cells,
// occupied cells and finished games are ignored; the return value reports
// whether the move was recorded.
func (g *Game) ApplyMove(cell int) bool {
	if cell < 0 || cell >= len(Board{}) {
		return false
	}
	cur := g.Current()
	if cur[cell] != Empty || StatusOf(cur).Phase != InProgress {
		return false
	}

	next := cur
	next[cell] = g.NextPlayer()

	// Drop any snapshots past the pointer before appending.
	g.history = append(g.history[:g.move+1:g.move+1], next)
	g.move = len(g.history) - 1
	return true
}

// JumpTo selects an existing snapshot without touching history.
func (g *Game) JumpTo(move int) error {
	if move < 0 || move >= len(g.history) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidMoveIndex, move, len(g.history))
	}
	g.move = move
	return nil
}

// MoveDescriptor identifies the mark placed by one history entry.
// Row and Col are 1-based; the starting board has Start set.
type MoveDescriptor struct {
	Index int
	Start bool
	Mark  Cell
	Cell  int
	Row   int
	Col   int
}

func (d MoveDescriptor) String() string {
	if d.Start {
		return "game start"
	}
	return fmt.Sprintf("%s at (%d,%d)", d.Mark, d.Row, d.Col)
}

// DescribeMove reports which mark history entry index placed and where.
func (g *Game) DescribeMove(index int) (MoveDescriptor, error) {
	if index < 0 || index >= len(g.history) {
		return MoveDescriptor{}, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidMoveIndex, index, len(g.history))
	}
	if index == 0 {
		return MoveDescriptor{Start: true}, nil
	}
	cur := g.history[index]
	cell := DiffCell(cur, g.history[index-1])
	return MoveDescriptor{
		Index: index,
		Mark:  cur[cell],
		Cell:  cell,
		Row:   cell/3 + 1,
		Col:   cell%3 + 1,
	}, nil
}

// Tips returns the status line for the active snapshot.
func (g *Game) Tips() string {
	st := g.Status()
	switch st.Phase {
	case Won:
		return "Winner: " + st.Winner.String()
	case Drawn:
		return "Draw"
	default:
		return fmt.Sprintf("Player %s to move", g.NextPlayer())
	}
}

// HighlightedCells returns the winning line, or nothing while no one has won.
func (g *Game) HighlightedCells() []int {
	st := g.Status()
	if st.Phase != Won {
		return nil
	}
	return []int{st.Line[0], st.Line[1], st.Line[2]}
}
