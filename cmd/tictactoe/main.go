// tictactoe plays a game in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rivo/tview"

	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/config"
	"github.com/jaminalder/tictactoe-history/internal/textview"
	"github.com/jaminalder/tictactoe-history/internal/tui"
)

var (
	flagReplay     = flag.String("replay", "", "Play comma-separated cells (0-8), print the result and exit")
	flagDescending = flag.Bool("descending", false, "Show the move list newest first")
)

func main() {
	flag.Parse()
	log.SetPrefix("tictactoe: ")
	log.SetFlags(0)

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(err)
	}
	session := app.NewSession(cfg.Game.Descending || *flagDescending)

	if *flagReplay != "" {
		if err := replay(session, *flagReplay); err != nil {
			log.Fatal(err)
		}
		r := textview.New(os.Stdout, textview.Colors{
			X:   cfg.Theme.XColor,
			O:   cfg.Theme.OColor,
			Win: cfg.Theme.WinColor,
		})
		if err := r.Render(session.View()); err != nil {
			log.Fatal(err)
		}
		return
	}

	a := tview.NewApplication()
	ui := tui.NewGameUI(a, session, cfg.Theme)
	a.SetInputCapture(ui.HandleKey)
	a.EnableMouse(true)
	if err := a.SetRoot(ui.Flex(), true).Run(); err != nil {
		log.Fatal(err)
	}
}

// replay plays each listed cell in order; ignored moves are reported.
func replay(s *app.Session, moves string) error {
	for _, f := range strings.Split(moves, ",") {
		f = strings.TrimSpace(f)
		cell, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("replay: bad cell %q: %w", f, err)
		}
		if !s.CellClicked(cell) {
			log.Printf("move %d ignored", cell)
		}
	}
	return nil
}
