// Package textview renders a game view as styled terminal text.
package textview

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

// Colors are termenv color specs: ANSI numbers or "#rrggbb".
type Colors struct {
	X   string
	O   string
	Win string
}

// Renderer writes views to a termenv output.
type Renderer struct {
	out    *termenv.Output
	colors Colors
}

// New returns a renderer for w. Pass termenv.WithProfile(termenv.Ascii) to
// get plain text.
func New(w io.Writer, colors Colors, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...), colors: colors}
}

// Render writes the board, the status line and the move list.
func (r *Renderer) Render(v app.View) error {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			b.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				b.WriteString("|")
			}
			b.WriteString(" " + r.cell(v, row*3+col) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + r.out.String(v.Tips).Bold().String() + "\n\n")
	for _, m := range v.Moves {
		marker := " "
		if m.Current {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %d. %s\n", marker, m.Index, m.Label)
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) cell(v app.View, i int) string {
	c := v.Board[i]
	if c == domain.Empty {
		// show the 1-9 key that plays this cell
		return r.out.String(fmt.Sprint(i + 1)).Faint().String()
	}
	s := r.out.String(c.String()).Bold()
	switch {
	case v.IsHighlighted(i):
		s = s.Foreground(r.out.Color(r.colors.Win)).Underline()
	case c == domain.X:
		s = s.Foreground(r.out.Color(r.colors.X))
	default:
		s = s.Foreground(r.out.Color(r.colors.O))
	}
	return s.String()
}
