// internal/tui/app.go
//
// Terminal front end for the stage machine.
//
// Keys:
//   language / difficulty   ↑↓ move, Enter select, Esc back, q quit
//   playing                 arrows move, Space/Enter tap, f flag, c chord,
//                           m toggle flag mode, r new board, Esc back
//   result                  Enter/r play again, d/Esc change difficulty
// Mouse: left button taps a cell, right button flags it.
//
// The app owns no game rules; every key becomes a machine intent and the
// screen is redrawn from the machine afterwards.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/i18n"
	"github.com/robalobadob/minesweeper/internal/stage"
)

// Board layout on screen.
const (
	boardX = 2
	boardY = 4
	cellW  = 2
)

// quitSignal is posted as an interrupt to stop Run.
type quitSignal struct{}

// App renders one stage machine on a tcell screen.
type App struct {
	screen tcell.Screen
	m      *stage.Machine

	langCursor int
	diffCursor int
	cursor     int // board cell
	round      int // machine round the cursor was placed for
}

// New returns an app drawing m on screen. The screen must be initialized.
func New(screen tcell.Screen, m *stage.Machine) *App {
	a := &App{screen: screen, m: m}
	for i, lang := range m.Catalog().Languages() {
		if lang.ID == m.Language().ID {
			a.langCursor = i
		}
	}
	return a
}

// Run draws and handles events until the player quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				if parent.Err() != nil {
					_ = a.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
				}
				return
			case <-t.C:
				_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()
	for {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.Handle(ev) {
			return nil
		}
	}
}

// Handle applies one event. It returns false when the app should exit.
func (a *App) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		if _, quit := ev.Data().(quitSignal); quit {
			return false
		}
	case *tcell.EventKey:
		return a.key(ev)
	case *tcell.EventMouse:
		a.mouse(ev)
	}
	return true
}

func (a *App) key(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}
	switch a.m.Stage() {
	case stage.LanguageSelect:
		langs := a.m.Catalog().Languages()
		switch {
		case ev.Key() == tcell.KeyUp:
			a.langCursor = (a.langCursor + len(langs) - 1) % len(langs)
		case ev.Key() == tcell.KeyDown:
			a.langCursor = (a.langCursor + 1) % len(langs)
		case ev.Key() == tcell.KeyEnter:
			_ = a.m.SelectLanguage(langs[a.langCursor].ID)
		case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
			return false
		}

	case stage.DifficultySelect:
		presets := game.Difficulties()
		switch {
		case ev.Key() == tcell.KeyUp:
			a.diffCursor = (a.diffCursor + len(presets) - 1) % len(presets)
		case ev.Key() == tcell.KeyDown:
			a.diffCursor = (a.diffCursor + 1) % len(presets)
		case ev.Key() == tcell.KeyEnter:
			_ = a.m.SelectDifficulty(presets[a.diffCursor].Key)
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyBackspace2:
			_ = a.m.Back()
		case ev.Rune() == 'q':
			return false
		}

	case stage.Playing:
		a.syncCursor()
		size := a.m.Session().Board().Size
		row, col := a.cursor/size, a.cursor%size
		switch {
		case ev.Key() == tcell.KeyUp:
			row = (row + size - 1) % size
		case ev.Key() == tcell.KeyDown:
			row = (row + 1) % size
		case ev.Key() == tcell.KeyLeft:
			col = (col + size - 1) % size
		case ev.Key() == tcell.KeyRight:
			col = (col + 1) % size
		case ev.Key() == tcell.KeyEnter, ev.Rune() == ' ':
			_, _ = a.m.Tap(a.cursor)
		case ev.Rune() == 'f':
			_, _ = a.m.Flag(a.cursor)
		case ev.Rune() == 'c':
			_, _ = a.m.Chord(a.cursor)
		case ev.Rune() == 'm':
			_ = a.m.ToggleFlagMode()
		case ev.Rune() == 'r':
			_ = a.m.Reset()
		case ev.Key() == tcell.KeyEscape:
			_ = a.m.Back()
		case ev.Rune() == 'q':
			return false
		}
		if a.m.Stage() == stage.Playing {
			a.cursor = row*size + col
		}

	case stage.Result:
		switch {
		case ev.Key() == tcell.KeyEnter, ev.Rune() == 'r':
			_ = a.m.Reset()
		case ev.Key() == tcell.KeyEscape, ev.Rune() == 'd':
			_ = a.m.Back()
		case ev.Rune() == 'q':
			return false
		}
	}
	return true
}

func (a *App) mouse(ev *tcell.EventMouse) {
	if a.m.Stage() != stage.Playing {
		return
	}
	a.syncCursor()
	x, y := ev.Position()
	i, ok := a.cellAt(x, y)
	if !ok {
		return
	}
	switch ev.Buttons() {
	case tcell.Button1:
		a.cursor = i
		_, _ = a.m.Tap(i)
	case tcell.Button2, tcell.Button3:
		a.cursor = i
		_, _ = a.m.Flag(i)
	}
}

// cellAt maps screen coordinates to a board index.
func (a *App) cellAt(x, y int) (int, bool) {
	b := a.m.Session().Board()
	if x < boardX || y < boardY {
		return 0, false
	}
	col, row := (x-boardX)/cellW, y-boardY
	i := b.Index(row, col)
	return i, i >= 0
}

// syncCursor centers the cursor when a new board starts.
func (a *App) syncCursor() {
	if a.round == a.m.Round() {
		return
	}
	a.round = a.m.Round()
	size := a.m.Session().Board().Size
	a.cursor = (size/2)*size + size/2
}

// Cursor is the selected board cell.
func (a *App) Cursor() int {
	if a.m.Session() != nil {
		a.syncCursor()
	}
	return a.cursor
}

// ------------------------------- drawing -----------------------------------

var (
	styleBase     = tcell.StyleDefault
	styleTitle    = styleBase.Bold(true)
	styleSelected = styleBase.Reverse(true)
	styleHidden   = styleBase.Foreground(tcell.ColorGray)
	styleFlag     = styleBase.Foreground(tcell.ColorRed).Bold(true)
	styleMine     = styleBase.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
	styleWon      = styleBase.Foreground(tcell.ColorGreen).Bold(true)
	styleLost     = styleBase.Foreground(tcell.ColorRed).Bold(true)
)

// countColors follow the classic palette.
var countColors = [...]tcell.Color{
	tcell.ColorDefault, tcell.ColorBlue, tcell.ColorGreen, tcell.ColorRed, tcell.ColorNavy,
	tcell.ColorMaroon, tcell.ColorTeal, tcell.ColorBlack, tcell.ColorGray,
}

// Draw renders the current stage.
func (a *App) Draw() {
	a.screen.Clear()
	drawText(a.screen, 1, 0, styleTitle, a.m.Label(i18n.KeyTitle))

	switch a.m.Stage() {
	case stage.LanguageSelect:
		drawText(a.screen, 1, 2, styleBase, a.m.Label(i18n.KeyChooseLanguage))
		for i, lang := range a.m.Catalog().Languages() {
			style := styleBase
			if i == a.langCursor {
				style = styleSelected
			}
			drawText(a.screen, 3, 4+i, style, lang.Flag+" "+lang.Name)
		}

	case stage.DifficultySelect:
		drawText(a.screen, 1, 2, styleBase, a.m.Label(i18n.KeyChooseDifficulty))
		for i, d := range game.Difficulties() {
			style := styleBase
			if i == a.diffCursor {
				style = styleSelected
			}
			name := a.m.Catalog().DifficultyName(a.m.Language().ID, d.Key)
			drawText(a.screen, 3, 4+i, style, fmt.Sprintf("%s  %dx%d, %d", name, d.Size, d.Size, d.Mines))
		}
		drawText(a.screen, 1, 9, styleHidden, "Esc: "+a.m.Label(i18n.KeyBack))

	case stage.Playing, stage.Result:
		a.syncCursor()
		a.drawStatus()
		a.drawBoard()
		if a.m.Stage() == stage.Result {
			a.drawResult()
		}
	}
	a.screen.Show()
}

func (a *App) drawStatus() {
	sess := a.m.Session()
	mode := i18n.KeyRevealMode
	if a.m.FlagMode() {
		mode = i18n.KeyFlagMode
	}
	x := drawText(a.screen, 1, 2, styleBase, a.m.Count(i18n.KeyMinesLeft, sess.Board().MinesLeft()))
	x = drawText(a.screen, x+3, 2, styleBase, a.m.Count(i18n.KeyMoves, sess.Moves()))
	x = drawText(a.screen, x+3, 2, styleBase, a.m.Count(i18n.KeyElapsed, int(a.m.Elapsed().Seconds())))
	drawText(a.screen, x+3, 2, styleHidden, "["+a.m.Label(mode)+"]")
}

func (a *App) drawBoard() {
	sess := a.m.Session()
	b := sess.Board()
	detonated, boom := sess.Detonated()
	for i, c := range b.Cells {
		r, style := cellGlyph(c, boom && i == detonated)
		if i == a.cursor && a.m.Stage() == stage.Playing {
			style = style.Reverse(true)
		}
		x, y := boardX+b.Col(i)*cellW, boardY+b.Row(i)
		a.screen.SetContent(x, y, r, nil, style)
		a.screen.SetContent(x+1, y, ' ', nil, styleBase)
	}
}

func cellGlyph(c game.Cell, detonated bool) (rune, tcell.Style) {
	switch {
	case c.Status == game.Flagged:
		return 'F', styleFlag
	case c.Status == game.Hidden:
		return '.', styleHidden
	case c.Mine && detonated:
		return 'X', styleMine
	case c.Mine:
		return '*', styleMine
	case c.Count == 0:
		return ' ', styleBase
	default:
		return rune('0' + c.Count), styleBase.Foreground(countColors[c.Count])
	}
}

func (a *App) drawResult() {
	size := a.m.Session().Board().Size
	y := boardY + size + 1
	label, style := a.m.Label(i18n.KeyLost), styleLost
	if a.m.Session().Won() {
		label, style = a.m.Label(i18n.KeyWon), styleWon
	}
	drawText(a.screen, 1, y, style, label)
	drawText(a.screen, 1, y+1, styleBase,
		"Enter: "+a.m.Label(i18n.KeyPlayAgain)+"   Esc: "+a.m.Label(i18n.KeyChangeDifficulty))
}

// drawText writes s at (x, y) and returns the column after it. Wide runes
// (CJK labels, flag emoji) take two columns.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// Zero-width runes (variation selectors, joiners) are dropped.
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}
