// internal/game/types.go
//
// Core type definitions for the Minesweeper engine.
// Defines:
//   - Status: per-cell visibility (hidden/revealed/flagged).
//   - Cell:   one square of the board.
//   - State:  coarse session state (setup/playing/lost/won).
//   - Outcome: result of a click/chord, for renderers.

package game

import "errors"

// ErrInvalidConfig is returned when a board size / mine count pair cannot be
// played (non-positive size, negative mines, or no free cell left for the
// first click).
var ErrInvalidConfig = errors.New("invalid board configuration")

// Status is the visibility of a single cell.
type Status string

const (
	Hidden   Status = "hidden"
	Revealed Status = "revealed"
	Flagged  Status = "flagged"
)

// Cell holds the state of one square.
type Cell struct {
	Mine   bool   `json:"mine"`   // True if stepping here loses the game.
	Count  int    `json:"count"`  // Mines among the up-to-8 neighbors (0 for mines).
	Status Status `json:"status"` // Hidden, Revealed or Flagged.
}

// State is the coarse lifecycle of a Session.
type State string

const (
	StateSetup   State = "setup"   // no click yet, mines not placed
	StatePlaying State = "playing" // first click consumed
	StateLost    State = "lost"
	StateWon     State = "won"
)

// Terminal reports whether no further moves are accepted.
func (s State) Terminal() bool { return s == StateLost || s == StateWon }

// Outcome describes what a click or chord changed.
type Outcome struct {
	State    State `json:"state"`
	Revealed []int `json:"revealed"` // indices revealed by this move, in order
	Changed  bool  `json:"changed"`  // false when the move was a no-op
}
