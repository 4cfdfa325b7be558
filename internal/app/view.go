package app

import (
	"fmt"

	"github.com/jaminalder/tictactoe-history/internal/domain"
)

// MoveEntry is one row of the rendered history list.
type MoveEntry struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// View is the read-only model handed to renderers after every event.
type View struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Board       domain.Board `json:"board"`
	Highlighted []int        `json:"highlighted"`
	Tips        string       `json:"tips"`
	Phase       string       `json:"phase"`
	Moves       []MoveEntry  `json:"moves"`
	Descending  bool         `json:"descending"`
	OrderLabel  string       `json:"order_label"`
}

// IsHighlighted reports whether cell i belongs to the winning line.
func (v View) IsHighlighted(i int) bool {
	for _, h := range v.Highlighted {
		if h == i {
			return true
		}
	}
	return false
}

// Mark returns the symbol in cell i.
func (v View) Mark(i int) string { return v.Board[i].String() }

// buildView derives the view model; it never mutates g.
func buildView(id, name string, g *domain.Game, descending bool) View {
	v := View{
		ID:          id,
		Name:        name,
		Board:       g.Current(),
		Highlighted: g.HighlightedCells(),
		Tips:        g.Tips(),
		Phase:       g.Status().Phase.String(),
		Descending:  descending,
		OrderLabel:  orderLabel(descending),
	}
	if v.Highlighted == nil {
		v.Highlighted = []int{}
	}
	n := g.Len()
	v.Moves = make([]MoveEntry, n)
	for i := 0; i < n; i++ {
		pos := i
		if descending {
			pos = n - 1 - i
		}
		v.Moves[pos] = MoveEntry{Index: i, Label: moveLabel(g, i), Current: i == g.Move()}
	}
	return v
}

func moveLabel(g *domain.Game, i int) string {
	if i == g.Move() {
		if i == 0 {
			return "You are at game start"
		}
		return fmt.Sprintf("You are at move #%d", i)
	}
	if i == 0 {
		return "Go to game start"
	}
	d, err := g.DescribeMove(i)
	if err != nil {
		return fmt.Sprintf("Go to move #%d", i)
	}
	return fmt.Sprintf("Go to move #%d (%s)", i, d)
}

// orderLabel names what the toggle switches to.
func orderLabel(descending bool) string {
	if descending {
		return "Ascend"
	}
	return "Descend"
}
