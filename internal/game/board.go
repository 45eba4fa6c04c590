// internal/game/board.go
//
// Board owns a flat, row-major slice of cells sized Size*Size.
// Responsibilities:
//   - Validate size/mine combinations (ErrInvalidConfig).
//   - Lazily place mines by rejection sampling, excluding the first click.
//   - Compute neighbor mine counts.
//   - Flood-fill reveal using an explicit work-list.
//
// Index i maps to row i/Size, column i%Size.
package game

import (
	"fmt"
	"math/rand/v2"
)

// Board is a square minefield.
type Board struct {
	Size  int    // Cells per side.
	Mines int    // Number of mines placed on arming.
	Cells []Cell // Row-major, len Size*Size.

	armed bool
	rng   *rand.Rand
}

// BoardOption customizes a Board at construction.
type BoardOption func(*Board)

// WithRand makes mine placement draw from r instead of the global source.
func WithRand(r *rand.Rand) BoardOption {
	return func(b *Board) { b.rng = r }
}

// WithSeed is shorthand for a PCG source seeded with (seed, seed).
func WithSeed(seed uint64) BoardOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// NewBoard returns an unarmed board with every cell hidden.
func NewBoard(size, mines int, opts ...BoardOption) (*Board, error) {
	b := &Board{}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.Reset(size, mines); err != nil {
		return nil, err
	}
	return b, nil
}

// validate reports whether a size/mines pair can be armed.
// One cell must stay free for the excluded first click.
func validate(size, mines int) error {
	switch {
	case size <= 0:
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	case mines < 0:
		return fmt.Errorf("%w: negative mine count %d", ErrInvalidConfig, mines)
	case mines >= size*size:
		return fmt.Errorf("%w: %d mines do not fit a %dx%d board", ErrInvalidConfig, mines, size, size)
	}
	return nil
}

// Reset reinitializes the board: all cells hidden, no mines, counts zero.
func (b *Board) Reset(size, mines int) error {
	if err := validate(size, mines); err != nil {
		return err
	}
	b.Size = size
	b.Mines = mines
	b.Cells = make([]Cell, size*size)
	for i := range b.Cells {
		b.Cells[i] = Cell{Status: Hidden}
	}
	b.armed = false
	return nil
}

// Armed reports whether mines have been placed.
func (b *Board) Armed() bool { return b.armed }

// Len is the number of cells.
func (b *Board) Len() int { return len(b.Cells) }

// InRange reports whether i addresses a cell.
func (b *Board) InRange(i int) bool { return i >= 0 && i < len(b.Cells) }

// Index converts (row, col) to a cell index, or -1 when off the board.
func (b *Board) Index(row, col int) int {
	if row < 0 || col < 0 || row >= b.Size || col >= b.Size {
		return -1
	}
	return row*b.Size + col
}

// Row and Col split an index.
func (b *Board) Row(i int) int { return i / b.Size }
func (b *Board) Col(i int) int { return i % b.Size }

// Cell returns a copy of the cell at i.
func (b *Board) Cell(i int) (Cell, bool) {
	if !b.InRange(i) {
		return Cell{}, false
	}
	return b.Cells[i], true
}

// GenerateMines places b.Mines mines uniformly at random, never at exclude,
// then computes neighbor counts. Calling it on an armed board is a no-op.
func (b *Board) GenerateMines(exclude int) {
	if b.armed {
		return
	}
	total := len(b.Cells)
	placed := 0
	for placed < b.Mines {
		i := b.intN(total)
		if i == exclude || b.Cells[i].Mine {
			continue
		}
		b.Cells[i].Mine = true
		placed++
	}
	b.arm()
}

// PlaceMines arms the board with an explicit layout. Mines becomes
// len(indices).
func (b *Board) PlaceMines(indices ...int) error {
	if b.armed {
		return fmt.Errorf("%w: board already armed", ErrInvalidConfig)
	}
	if err := validate(b.Size, len(indices)); err != nil {
		return err
	}
	seen := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if !b.InRange(i) {
			return fmt.Errorf("%w: mine index %d out of range", ErrInvalidConfig, i)
		}
		if _, dup := seen[i]; dup {
			return fmt.Errorf("%w: duplicate mine index %d", ErrInvalidConfig, i)
		}
		seen[i] = struct{}{}
	}
	for _, i := range indices {
		b.Cells[i].Mine = true
	}
	b.Mines = len(indices)
	b.arm()
	return nil
}

func (b *Board) arm() {
	for i := range b.Cells {
		if b.Cells[i].Mine {
			b.Cells[i].Count = 0
			continue
		}
		n := 0
		for _, j := range b.Neighbors(i) {
			if b.Cells[j].Mine {
				n++
			}
		}
		b.Cells[i].Count = n
	}
	b.armed = true
}

func (b *Board) intN(n int) int {
	if b.rng != nil {
		return b.rng.IntN(n)
	}
	return rand.IntN(n)
}

// Neighbors returns the in-range indices around i in row-major order.
func (b *Board) Neighbors(i int) []int {
	if !b.InRange(i) {
		return nil
	}
	row, col := b.Row(i), b.Col(i)
	out := make([]int, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if j := b.Index(row+dr, col+dc); j >= 0 {
				out = append(out, j)
			}
		}
	}
	return out
}

// Reveal opens the hidden cell at i. A zero-count cell also opens its
// neighbors, repeatedly, until the zero region and its numbered border are
// open. Returns the opened indices in order; nil when nothing changed.
func (b *Board) Reveal(i int) []int {
	if !b.InRange(i) || b.Cells[i].Status != Hidden {
		return nil
	}
	var opened []int
	stack := []int{i}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.Cells[cur].Status != Hidden {
			continue
		}
		b.Cells[cur].Status = Revealed
		opened = append(opened, cur)
		if b.Cells[cur].Mine || b.Cells[cur].Count != 0 {
			continue
		}
		for _, j := range b.Neighbors(cur) {
			if b.Cells[j].Status == Hidden {
				stack = append(stack, j)
			}
		}
	}
	return opened
}

// RevealMines opens every mine cell, flagged or not.
func (b *Board) RevealMines() []int {
	var opened []int
	for i := range b.Cells {
		if b.Cells[i].Mine && b.Cells[i].Status != Revealed {
			b.Cells[i].Status = Revealed
			opened = append(opened, i)
		}
	}
	return opened
}

// MineIndices lists mine positions in ascending order.
func (b *Board) MineIndices() []int {
	var out []int
	for i, c := range b.Cells {
		if c.Mine {
			out = append(out, i)
		}
	}
	return out
}

// HiddenSafe counts non-mine cells that are not yet revealed.
func (b *Board) HiddenSafe() int {
	n := 0
	for _, c := range b.Cells {
		if !c.Mine && c.Status != Revealed {
			n++
		}
	}
	return n
}

// Flagged counts flagged cells.
func (b *Board) Flagged() int {
	n := 0
	for _, c := range b.Cells {
		if c.Status == Flagged {
			n++
		}
	}
	return n
}

// MinesLeft is the mine count minus flags placed; it can go negative.
func (b *Board) MinesLeft() int { return b.Mines - b.Flagged() }
