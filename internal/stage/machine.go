// internal/stage/machine.go
//
// Presentation state machine shared by every front end (HTTP view, terminal).
//
// Stages:
//   language   → difficulty (SelectLanguage)
//   difficulty → playing    (SelectDifficulty / SelectCustom)
//   playing    → result     (the session is won or lost)
//   result     → playing    (Reset, same difficulty)
//   playing/result → difficulty → language (Back)
//
// The machine owns the game session; renderers only read it and send
// intents. Intents that make no sense in the current stage return
// ErrWrongStage and change nothing.
package stage

import (
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/i18n"
)

// ErrWrongStage is returned for intents that do not apply to the current stage.
var ErrWrongStage = errors.New("intent not valid in this stage")

// Stage is one screen of the UI.
type Stage string

const (
	LanguageSelect   Stage = "language"
	DifficultySelect Stage = "difficulty"
	Playing          Stage = "playing"
	Result           Stage = "result"
)

// Machine is the UI state of one player. Not safe for concurrent use.
type Machine struct {
	catalog *i18n.Catalog
	now     func() time.Time
	opts    []game.BoardOption

	stage      Stage
	language   i18n.Language
	difficulty game.Difficulty
	session    *game.Session
	flagMode   bool
	round      int

	startedAt  time.Time // first click
	finishedAt time.Time // terminal state reached
}

// Option customizes a Machine.
type Option func(*Machine)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithBoardOptions is passed to every board the machine creates.
func WithBoardOptions(opts ...game.BoardOption) Option {
	return func(m *Machine) { m.opts = append(m.opts, opts...) }
}

// New returns a machine on the language selection stage.
func New(cat *i18n.Catalog, opts ...Option) *Machine {
	m := &Machine{
		catalog:  cat,
		now:      time.Now,
		stage:    LanguageSelect,
		language: cat.Base(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SelectLanguage picks the UI language and moves to difficulty selection.
func (m *Machine) SelectLanguage(id string) error {
	if m.stage != LanguageSelect {
		return ErrWrongStage
	}
	lang, ok := m.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", i18n.ErrUnknownLanguage, id)
	}
	m.language = lang
	m.stage = DifficultySelect
	return nil
}

// SelectDifficulty starts a game on a preset.
func (m *Machine) SelectDifficulty(key string) error {
	if m.stage != DifficultySelect {
		return ErrWrongStage
	}
	d, err := game.ParseDifficulty(key)
	if err != nil {
		return err
	}
	return m.start(d)
}

// SelectCustom starts a game on a custom board.
func (m *Machine) SelectCustom(size, mines int) error {
	if m.stage != DifficultySelect {
		return ErrWrongStage
	}
	d, err := game.Custom(size, mines)
	if err != nil {
		return err
	}
	return m.start(d)
}

func (m *Machine) start(d game.Difficulty) error {
	if m.session == nil {
		s, err := game.NewSession(d, m.opts...)
		if err != nil {
			return err
		}
		m.session = s
	} else if err := m.session.Reset(d); err != nil {
		return err
	}
	m.difficulty = d
	m.round++
	m.flagMode = false
	m.startedAt, m.finishedAt = time.Time{}, time.Time{}
	m.stage = Playing
	return nil
}

// Click reveals a cell.
func (m *Machine) Click(index int) (game.Outcome, error) {
	if m.stage != Playing {
		return game.Outcome{}, ErrWrongStage
	}
	out := m.session.Click(index)
	m.track(out)
	return out, nil
}

// Flag toggles a flag on a cell.
func (m *Machine) Flag(index int) (bool, error) {
	if m.stage != Playing {
		return false, ErrWrongStage
	}
	return m.session.Flag(index), nil
}

// Chord opens the neighbors of a satisfied number.
func (m *Machine) Chord(index int) (game.Outcome, error) {
	if m.stage != Playing {
		return game.Outcome{}, ErrWrongStage
	}
	out := m.session.Chord(index)
	m.track(out)
	return out, nil
}

// Tap is a click in reveal mode and a flag in flag mode.
func (m *Machine) Tap(index int) (game.Outcome, error) {
	if m.stage != Playing {
		return game.Outcome{}, ErrWrongStage
	}
	if m.flagMode {
		changed := m.session.Flag(index)
		return game.Outcome{State: m.session.State(), Changed: changed}, nil
	}
	return m.Click(index)
}

// ToggleFlagMode switches what Tap does.
func (m *Machine) ToggleFlagMode() error {
	if m.stage != Playing {
		return ErrWrongStage
	}
	m.flagMode = !m.flagMode
	return nil
}

// Reset starts a fresh board with the current difficulty.
func (m *Machine) Reset() error {
	if m.stage != Playing && m.stage != Result {
		return ErrWrongStage
	}
	return m.start(m.difficulty)
}

// Back returns to the previous selection screen.
func (m *Machine) Back() error {
	switch m.stage {
	case Playing, Result:
		m.stage = DifficultySelect
	case DifficultySelect:
		m.stage = LanguageSelect
	default:
		return ErrWrongStage
	}
	return nil
}

func (m *Machine) track(out game.Outcome) {
	if !out.Changed {
		return
	}
	now := m.now()
	if m.startedAt.IsZero() {
		m.startedAt = now
	}
	if out.State.Terminal() {
		m.finishedAt = now
		m.stage = Result
	}
}

func (m *Machine) Stage() Stage { return m.stage }
func (m *Machine) Language() i18n.Language { return m.language }
func (m *Machine) Catalog() *i18n.Catalog { return m.catalog }
func (m *Machine) Difficulty() game.Difficulty { return m.difficulty }
func (m *Machine) FlagMode() bool { return m.flagMode }

// Round counts the boards started so far; it changes on every new game.
func (m *Machine) Round() int { return m.round }

// Session is nil until a difficulty has been chosen.
func (m *Machine) Session() *game.Session { return m.session }

// Elapsed is the play time from the first click to the end of the game (or
// now, while playing).
func (m *Machine) Elapsed() time.Duration {
	if m.startedAt.IsZero() {
		return 0
	}
	if !m.finishedAt.IsZero() {
		return m.finishedAt.Sub(m.startedAt)
	}
	return m.now().Sub(m.startedAt)
}

// Label is a shortcut for the active language's label.
func (m *Machine) Label(key string) string {
	return m.catalog.Label(m.language.ID, key)
}

// Count formats a counted label in the active language.
func (m *Machine) Count(key string, n int) string {
	return m.catalog.Count(m.language.ID, key, n)
}
