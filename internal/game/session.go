// internal/game/session.go
//
// Session drives one game on a Board.
// State transitions:
//   setup   → playing (first click places mines, never under the click)
//   playing → lost    (a mine is clicked; every mine is revealed)
//   playing → won     (every non-mine cell is revealed)
//
// Lost and won are terminal until Reset. Invalid or stale input (out of
// range, already revealed, flagged, game over) is a no-op, never an error.
package game

// Session is the mutable state of a single game. Not safe for concurrent use.
type Session struct {
	board      *Board
	difficulty Difficulty
	opts       []BoardOption

	firstClick bool
	over       bool
	won        bool
	detonated  int
	moves      int
}

// NewSession starts a game in setup state for d.
func NewSession(d Difficulty, opts ...BoardOption) (*Session, error) {
	s := &Session{opts: opts}
	if err := s.Reset(d); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSessionWithBoard wraps an existing board. If the board is already
// armed the first click does not place mines.
func NewSessionWithBoard(b *Board) *Session {
	return &Session{
		board:      b,
		difficulty: Difficulty{Key: CustomKey, Size: b.Size, Mines: b.Mines},
		firstClick: !b.Armed(),
		detonated:  -1,
	}
}

// Reset discards the current board and returns to setup with a fresh board
// sized for d.
func (s *Session) Reset(d Difficulty) error {
	b, err := NewBoard(d.Size, d.Mines, s.opts...)
	if err != nil {
		return err
	}
	s.board = b
	s.difficulty = d
	s.firstClick = true
	s.over, s.won = false, false
	s.detonated = -1
	s.moves = 0
	return nil
}

// Click reveals the cell at index.
func (s *Session) Click(index int) Outcome {
	if s.over || s.won {
		return s.noop()
	}
	c, ok := s.board.Cell(index)
	if !ok || c.Status != Hidden {
		return s.noop()
	}
	if s.firstClick {
		s.board.GenerateMines(index)
		s.firstClick = false
	}
	s.moves++
	if s.board.Cells[index].Mine {
		s.over = true
		s.detonated = index
		return Outcome{State: StateLost, Revealed: s.board.RevealMines(), Changed: true}
	}
	opened := s.board.Reveal(index)
	if s.board.HiddenSafe() == 0 {
		s.won = true
	}
	return Outcome{State: s.State(), Revealed: opened, Changed: true}
}

// Flag toggles a flag on a hidden cell. Returns whether anything changed.
func (s *Session) Flag(index int) bool {
	if s.over || s.won || !s.board.InRange(index) {
		return false
	}
	cell := &s.board.Cells[index]
	switch cell.Status {
	case Hidden:
		cell.Status = Flagged
	case Flagged:
		cell.Status = Hidden
	default:
		return false
	}
	return true
}

// Chord clicks every hidden neighbor of a revealed number once the player
// has flagged as many neighbors as the number shows.
func (s *Session) Chord(index int) Outcome {
	if s.over || s.won {
		return s.noop()
	}
	c, ok := s.board.Cell(index)
	if !ok || c.Status != Revealed || c.Count == 0 {
		return s.noop()
	}
	neighbors := s.board.Neighbors(index)
	flags := 0
	for _, j := range neighbors {
		if s.board.Cells[j].Status == Flagged {
			flags++
		}
	}
	if flags != c.Count {
		return s.noop()
	}
	out := Outcome{State: s.State()}
	for _, j := range neighbors {
		res := s.Click(j)
		if !res.Changed {
			continue
		}
		out.Changed = true
		out.Revealed = append(out.Revealed, res.Revealed...)
		out.State = res.State
		if res.State.Terminal() {
			break
		}
	}
	return out
}

func (s *Session) noop() Outcome { return Outcome{State: s.State()} }

// State reports the coarse lifecycle state.
func (s *Session) State() State {
	switch {
	case s.over:
		return StateLost
	case s.won:
		return StateWon
	case s.firstClick:
		return StateSetup
	default:
		return StatePlaying
	}
}

func (s *Session) Board() *Board { return s.board }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) Over() bool { return s.over }
func (s *Session) Won() bool { return s.won }
func (s *Session) FirstClick() bool { return s.firstClick }
func (s *Session) Moves() int { return s.moves }

// Detonated returns the mine that ended the game, if any.
func (s *Session) Detonated() (int, bool) {
	if !s.over {
		return -1, false
	}
	return s.detonated, true
}
