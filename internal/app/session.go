package app

import (
	"time"

	"github.com/jaminalder/tictactoe-history/internal/domain"
)

// Session is one game plus its display preferences. It is not safe for
// concurrent use; Service serializes access to the sessions it owns.
type Session struct {
	ID         string
	Name       string
	Game       *domain.Game
	Descending bool
	Created    time.Time
	Updated    time.Time
}

// NewSession starts a fresh game.
func NewSession(descending bool) *Session {
	now := time.Now()
	return &Session{
		ID:         newSessionID(),
		Name:       newSessionName(),
		Game:       domain.New(),
		Descending: descending,
		Created:    now,
		Updated:    now,
	}
}

// CellClicked plays cell for the player to move. Illegal clicks are ignored
// and reported as false.
func (s *Session) CellClicked(cell int) bool {
	if !s.Game.ApplyMove(cell) {
		return false
	}
	s.Updated = time.Now()
	return true
}

// HistoryEntryClicked selects a recorded move.
func (s *Session) HistoryEntryClicked(move int) error {
	if err := s.Game.JumpTo(move); err != nil {
		return err
	}
	s.Updated = time.Now()
	return nil
}

// OrderToggleClicked flips the history display order.
func (s *Session) OrderToggleClicked() {
	s.Descending = !s.Descending
	s.Updated = time.Now()
}

// View derives the current view model.
func (s *Session) View() View {
	return buildView(s.ID, s.Name, s.Game, s.Descending)
}
