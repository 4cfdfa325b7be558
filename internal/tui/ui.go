// Package tui is a terminal frontend for a single game session.
package tui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/config"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

// GameUI shows the board, the status line and the move list of a session.
// All methods run on the tview event goroutine.
type GameUI struct {
	app     *tview.Application
	session *app.Session
	view    app.View

	cells [9]*tview.Button
	tips  *tview.TextView
	order *tview.Button
	moves *tview.List
	flex  *tview.Flex

	xColor, oColor, winColor tcell.Color
}

// NewGameUI builds the widgets for s. a may be nil in tests.
func NewGameUI(a *tview.Application, s *app.Session, theme config.Theme) *GameUI {
	u := &GameUI{
		app:      a,
		session:  s,
		xColor:   themeColor(theme.XColor, tcell.ColorBlue),
		oColor:   themeColor(theme.OColor, tcell.ColorRed),
		winColor: themeColor(theme.WinColor, tcell.ColorGreen),
	}

	grid := tview.NewGrid().SetRows(3, 3, 3).SetColumns(7, 7, 7)
	for i := range u.cells {
		i := i
		b := tview.NewButton("")
		b.SetSelectedFunc(func() { u.play(i) })
		u.cells[i] = b
		grid.AddItem(b, i/3, i%3, 1, 1, 0, 0, i == 4)
	}
	grid.SetBorder(true).SetTitle(" " + s.Name + " ")

	u.tips = tview.NewTextView()
	u.tips.SetBorder(true)
	u.tips.SetTitle(" Status ")
	u.tips.SetTitleAlign(tview.AlignLeft)

	u.order = tview.NewButton("")
	u.order.SetSelectedFunc(u.toggleOrder)

	u.moves = tview.NewList()
	u.moves.ShowSecondaryText(false)
	u.moves.SetHighlightFullLine(true)
	u.moves.SetBorder(true)
	u.moves.SetTitle(" Moves ")
	u.moves.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		u.jump(index)
	})

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.tips, 3, 0, false).
		AddItem(u.order, 1, 0, false).
		AddItem(u.moves, 0, 1, false)

	hint := tview.NewTextView().SetDynamicColors(true)
	hint.SetText("  [dimgray]1-9[-] play  [dimgray]o[-] order  [dimgray]q[-] quit")

	top := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(grid, 25, 0, true).
		AddItem(side, 0, 1, false)
	u.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, true).
		AddItem(hint, 1, 0, false)

	u.refresh()
	return u
}

// Flex returns the root container.
func (u *GameUI) Flex() *tview.Flex { return u.flex }

// HandleKey is the application input capture: 1-9 play a cell, o toggles
// the move order, q quits.
func (u *GameUI) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch r := event.Rune(); {
	case r >= '1' && r <= '9':
		u.play(int(r - '1'))
		return nil
	case r == 'o':
		u.toggleOrder()
		return nil
	case r == 'q':
		if u.app != nil {
			u.app.Stop()
		}
		return nil
	}
	return event
}

func (u *GameUI) play(cell int) {
	if u.session.CellClicked(cell) {
		u.refresh()
	}
}

// jump selects the move shown at row of the list.
func (u *GameUI) jump(row int) {
	if row < 0 || row >= len(u.view.Moves) {
		return
	}
	// rows come from history itself, so the index is always in range
	if err := u.session.HistoryEntryClicked(u.view.Moves[row].Index); err != nil {
		panic(err)
	}
	u.refresh()
}

func (u *GameUI) toggleOrder() {
	u.session.OrderToggleClicked()
	u.refresh()
}

func (u *GameUI) refresh() {
	u.view = u.session.View()
	v := u.view
	for i, b := range u.cells {
		b.SetLabel(v.Mark(i))
		b.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
		switch {
		case v.IsHighlighted(i):
			b.SetBackgroundColor(u.winColor)
			b.SetLabelColor(tcell.ColorWhite)
		case v.Board[i] == domain.X:
			b.SetLabelColor(u.xColor)
		case v.Board[i] == domain.O:
			b.SetLabelColor(u.oColor)
		}
	}
	u.tips.SetText(v.Tips)
	u.order.SetLabel(fmt.Sprintf("Order: %s", v.OrderLabel))

	u.moves.Clear()
	current := 0
	for row, m := range v.Moves {
		u.moves.AddItem(m.Label, "", 0, nil)
		if m.Current {
			current = row
		}
	}
	u.moves.SetCurrentItem(current)
}

// themeColor parses a palette number or a color name/"#rrggbb".
func themeColor(s string, fallback tcell.Color) tcell.Color {
	if s == "" {
		return fallback
	}
	if n, err := strconv.Atoi(s); err == nil {
		return tcell.PaletteColor(n)
	}
	if c := tcell.GetColor(s); c != tcell.ColorDefault {
		return c
	}
	return fallback
}
