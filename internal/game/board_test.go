package game

import (
	"errors"
	"reflect"
	"testing"
)

func mustBoard(t *testing.T, size, mines int, opts ...BoardOption) *Board {
	t.Helper()
	b, err := NewBoard(size, mines, opts...)
	if err != nil {
		t.Fatalf("NewBoard(%d, %d): %v", size, mines, err)
	}
	return b
}

func TestNewBoardRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name        string
		size, mines int
	}{
		{"zero size", 0, 0},
		{"negative size", -3, 1},
		{"negative mines", 3, -1},
		{"board full of mines", 3, 9},
		{"more mines than cells", 3, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoard(tc.size, tc.mines)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestResetClearsCells(t *testing.T) {
	b := mustBoard(t, 4, 3, WithSeed(7))
	b.GenerateMines(0)
	b.Reveal(0)
	if err := b.Reset(3, 1); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if b.Len() != 9 || b.Armed() {
		t.Fatalf("len=%d armed=%v, want 9 cells unarmed", b.Len(), b.Armed())
	}
	for i, c := range b.Cells {
		if c != (Cell{Status: Hidden}) {
			t.Fatalf("cell %d = %+v, want fresh hidden cell", i, c)
		}
	}
}

func TestGenerateMinesPlacesExactCountAndSkipsExcluded(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		b := mustBoard(t, 5, 24, WithSeed(seed))
		b.GenerateMines(12)
		if got := len(b.MineIndices()); got != 24 {
			t.Fatalf("seed %d: %d mines, want 24", seed, got)
		}
		if b.Cells[12].Mine {
			t.Fatalf("seed %d: excluded index became a mine", seed)
		}
		if !b.Armed() {
			t.Fatalf("seed %d: board not armed", seed)
		}
	}
}

func TestGenerateMinesIsStableOnceArmed(t *testing.T) {
	b := mustBoard(t, 6, 8, WithSeed(3))
	b.GenerateMines(0)
	before := b.MineIndices()
	b.GenerateMines(5)
	if !reflect.DeepEqual(before, b.MineIndices()) {
		t.Fatal("second GenerateMines changed the layout")
	}
}

func TestSeededBoardsAreReproducible(t *testing.T) {
	a := mustBoard(t, 10, 10, WithSeed(42))
	b := mustBoard(t, 10, 10, WithSeed(42))
	a.GenerateMines(55)
	b.GenerateMines(55)
	if !reflect.DeepEqual(a.MineIndices(), b.MineIndices()) {
		t.Fatal("same seed produced different layouts")
	}
}

func TestNeighborCountsMatchBruteForce(t *testing.T) {
	b := mustBoard(t, 8, 15, WithSeed(11))
	b.GenerateMines(27)
	for i, c := range b.Cells {
		if c.Mine {
			continue
		}
		want := 0
		row, col := i/8, i%8
		for r := row - 1; r <= row+1; r++ {
			for cc := col - 1; cc <= col+1; cc++ {
				if r < 0 || cc < 0 || r >= 8 || cc >= 8 || (r == row && cc == col) {
					continue
				}
				if b.Cells[r*8+cc].Mine {
					want++
				}
			}
		}
		if c.Count != want {
			t.Fatalf("cell %d count = %d, want %d", i, c.Count, want)
		}
	}
}

func TestNeighborCountsSmallBoard(t *testing.T) {
	b := mustBoard(t, 3, 0)
	if err := b.PlaceMines(4); err != nil {
		t.Fatalf("place mines: %v", err)
	}
	for i, c := range b.Cells {
		if i == 4 {
			continue
		}
		if c.Count != 1 {
			t.Fatalf("cell %d count = %d, want 1", i, c.Count)
		}
	}
}

func TestNeighborsOrderAndEdges(t *testing.T) {
	b := mustBoard(t, 3, 0)
	cases := []struct {
		index int
		want  []int
	}{
		{4, []int{0, 1, 2, 3, 5, 6, 7, 8}},
		{0, []int{1, 3, 4}},
		{8, []int{4, 5, 7}},
		{1, []int{0, 2, 3, 4, 5}},
		{-1, nil},
		{9, nil},
	}
	for _, tc := range cases {
		got := b.Neighbors(tc.index)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Neighbors(%d) = %v, want %v", tc.index, got, tc.want)
		}
	}
}

func TestNeighborsDoNotWrapRows(t *testing.T) {
	b := mustBoard(t, 4, 0)
	// index 3 is the last cell of row 0; index 4 starts row 1.
	for _, j := range b.Neighbors(3) {
		if b.Col(j) == 0 {
			t.Fatalf("Neighbors(3) wrapped to column 0 via %d", j)
		}
	}
}

func TestRevealFloodFillStopsAtNumberedBorder(t *testing.T) {
	b := mustBoard(t, 5, 0)
	// A wall of mines down the middle column.
	if err := b.PlaceMines(2, 7, 12, 17, 22); err != nil {
		t.Fatalf("place mines: %v", err)
	}
	opened := b.Reveal(0)
	want := map[int]bool{0: true, 5: true, 10: true, 15: true, 20: true, 1: true, 6: true, 11: true, 16: true, 21: true}
	if len(opened) != len(want) {
		t.Fatalf("opened %v, want the two left columns", opened)
	}
	for _, i := range opened {
		if !want[i] {
			t.Fatalf("cell %d opened outside the left region", i)
		}
	}
	for i, c := range b.Cells {
		if want[i] != (c.Status == Revealed) {
			t.Fatalf("cell %d status %s", i, c.Status)
		}
	}
}

func TestRevealVisitsEachCellOnce(t *testing.T) {
	b := mustBoard(t, 25, 0)
	if err := b.PlaceMines(); err != nil {
		t.Fatalf("arm: %v", err)
	}
	opened := b.Reveal(312)
	if len(opened) != 625 {
		t.Fatalf("opened %d cells, want 625", len(opened))
	}
	seen := make(map[int]bool, len(opened))
	for _, i := range opened {
		if seen[i] {
			t.Fatalf("cell %d revealed twice", i)
		}
		seen[i] = true
	}
}

func TestRevealOpensSingleNumberedCell(t *testing.T) {
	b := mustBoard(t, 5, 0)
	if err := b.PlaceMines(24); err != nil {
		t.Fatalf("place mines: %v", err)
	}
	if got := b.Reveal(18); !reflect.DeepEqual(got, []int{18}) {
		t.Fatalf("Reveal(18) = %v, want [18]", got)
	}
	if got := b.Reveal(0); len(got) != 23 {
		t.Fatalf("Reveal(0) opened %d cells, want the 23 remaining safe cells", len(got))
	}
	if b.HiddenSafe() != 0 {
		t.Fatalf("hidden safe = %d, want 0", b.HiddenSafe())
	}
}

func TestRevealNoops(t *testing.T) {
	b := mustBoard(t, 3, 0)
	if err := b.PlaceMines(0); err != nil {
		t.Fatalf("place mines: %v", err)
	}
	if got := b.Reveal(-1); got != nil {
		t.Fatalf("Reveal(-1) = %v", got)
	}
	if got := b.Reveal(9); got != nil {
		t.Fatalf("Reveal(9) = %v", got)
	}
	b.Cells[1].Status = Flagged
	if got := b.Reveal(1); got != nil {
		t.Fatalf("Reveal(flagged) = %v", got)
	}
	b.Reveal(4)
	if got := b.Reveal(4); got != nil {
		t.Fatalf("second Reveal(4) = %v", got)
	}
}

func TestPlaceMinesRejectsBadLayouts(t *testing.T) {
	cases := []struct {
		name  string
		mines []int
	}{
		{"out of range", []int{9}},
		{"negative", []int{-1}},
		{"duplicate", []int{1, 1}},
		{"full board", []int{0, 1, 2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := mustBoard(t, 3, 0)
			if tc.name == "full board" {
				b = mustBoard(t, 2, 0)
			}
			if err := b.PlaceMines(tc.mines...); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	b := mustBoard(t, 3, 0)
	if err := b.PlaceMines(0, 8); err != nil {
		t.Fatalf("place mines: %v", err)
	}
	if b.HiddenSafe() != 7 {
		t.Fatalf("hidden safe = %d, want 7", b.HiddenSafe())
	}
	b.Cells[0].Status = Flagged
	b.Cells[1].Status = Flagged
	if b.Flagged() != 2 || b.MinesLeft() != 0 {
		t.Fatalf("flagged=%d minesLeft=%d", b.Flagged(), b.MinesLeft())
	}
	b.Reveal(4)
	if b.HiddenSafe() != 6 {
		t.Fatalf("hidden safe = %d, want 6", b.HiddenSafe())
	}
	if b.Index(1, 2) != 5 || b.Index(3, 0) != -1 || b.Row(5) != 1 || b.Col(5) != 2 {
		t.Fatal("index helpers disagree with row-major layout")
	}
}
