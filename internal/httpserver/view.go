package httpserver

import (
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/i18n"
	"github.com/robalobadob/minesweeper/internal/stage"
	"github.com/robalobadob/minesweeper/internal/store"
)

// Cell view states. Mines stay hidden until revealed by a loss.
const (
	cellHidden    = "hidden"
	cellFlagged   = "flagged"
	cellRevealed  = "revealed"
	cellMine      = "mine"
	cellDetonated = "detonated"
)

type cellView struct {
	State string `json:"state"`
	Count int    `json:"count,omitempty"`
}

type boardView struct {
	Size      int        `json:"size"`
	Mines     int        `json:"mines"`
	MinesLeft int        `json:"minesLeft"`
	Cells     []cellView `json:"cells"`
}

// statusView holds the localized status line texts.
type statusView struct {
	MinesLeft string `json:"minesLeft"`
	Moves     string `json:"moves"`
	Elapsed   string `json:"elapsed"`
	Mode      string `json:"mode"`
	Result    string `json:"result,omitempty"`
}

type gameView struct {
	ID         string           `json:"id"`
	Stage      stage.Stage      `json:"stage"`
	State      game.State       `json:"state,omitempty"`
	Language   languageOption   `json:"language"`
	Difficulty *game.Difficulty `json:"difficulty,omitempty"`
	FlagMode   bool             `json:"flagMode"`
	Moves      int              `json:"moves"`
	ElapsedMs  int64            `json:"elapsedMs"`
	Board      *boardView       `json:"board,omitempty"`
	Status     *statusView      `json:"status,omitempty"`
	Labels     i18n.Labels      `json:"labels"`
	Daily      string           `json:"daily,omitempty"` // date key of a daily board
}

// buildView renders an entry. fallback is the request language, used for
// labels while no language has been picked.
func buildView(e *store.Entry, fallback i18n.Language) gameView {
	m := e.Machine
	lang := fallback
	if m.Stage() != stage.LanguageSelect {
		lang = m.Language()
	}
	v := gameView{
		ID:       e.ID,
		Stage:    m.Stage(),
		Language: optionFor(lang),
		Labels:   lang.Labels,
		Daily:    e.DailyDate,
	}

	sess := m.Session()
	if sess == nil || (m.Stage() != stage.Playing && m.Stage() != stage.Result) {
		return v
	}
	d := m.Difficulty()
	v.Difficulty = &d
	v.State = sess.State()
	v.FlagMode = m.FlagMode()
	v.Moves = sess.Moves()
	v.ElapsedMs = m.Elapsed().Milliseconds()
	v.Board = renderBoard(sess)

	cat := m.Catalog()
	mode := i18n.KeyRevealMode
	if v.FlagMode {
		mode = i18n.KeyFlagMode
	}
	v.Status = &statusView{
		MinesLeft: cat.Count(lang.ID, i18n.KeyMinesLeft, v.Board.MinesLeft),
		Moves:     cat.Count(lang.ID, i18n.KeyMoves, v.Moves),
		Elapsed:   cat.Count(lang.ID, i18n.KeyElapsed, int(m.Elapsed().Seconds())),
		Mode:      cat.Label(lang.ID, mode),
	}
	switch v.State {
	case game.StateWon:
		v.Status.Result = cat.Label(lang.ID, i18n.KeyWon)
	case game.StateLost:
		v.Status.Result = cat.Label(lang.ID, i18n.KeyLost)
	}
	return v
}

func renderBoard(sess *game.Session) *boardView {
	b := sess.Board()
	detonated, boom := sess.Detonated()
	bv := &boardView{
		Size:      b.Size,
		Mines:     b.Mines,
		MinesLeft: b.MinesLeft(),
		Cells:     make([]cellView, len(b.Cells)),
	}
	for i, c := range b.Cells {
		switch {
		case c.Status == game.Flagged:
			bv.Cells[i] = cellView{State: cellFlagged}
		case c.Status == game.Hidden:
			bv.Cells[i] = cellView{State: cellHidden}
		case c.Mine && boom && i == detonated:
			bv.Cells[i] = cellView{State: cellDetonated}
		case c.Mine:
			bv.Cells[i] = cellView{State: cellMine}
		default:
			bv.Cells[i] = cellView{State: cellRevealed, Count: c.Count}
		}
	}
	return bv
}
