// internal/i18n/catalog.go
//
// Localization catalog: a keyed mapping from language id (BCP 47) to a
// structured record of UI labels.
//
// Responsibilities:
//   - Parse a catalog document and validate it at load time: every language
//     has a parseable tag, a display name, a flag glyph, and every label key.
//   - Resolve ids and Accept-Language headers to a supported language.
//   - Provide label lookups with base-language fallback and x/text printers
//     for the counted labels (mines left, moves, elapsed seconds).
//
// Languages are never inferred from their display names.
package i18n

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ErrUnknownLanguage is returned when an id matches no catalog language.
var ErrUnknownLanguage = errors.New("unknown language")

// Labels is the full set of UI strings for one language.
type Labels struct {
	Title            string `json:"title"`
	ChooseLanguage   string `json:"chooseLanguage"`
	ChooseDifficulty string `json:"chooseDifficulty"`
	Easy             string `json:"easy"`
	Medium           string `json:"medium"`
	Hard             string `json:"hard"`
	Insane           string `json:"insane"`
	Custom           string `json:"custom"`
	MinesLeft        string `json:"minesLeft"` // takes one %d
	Moves            string `json:"moves"`     // takes one %d
	Elapsed          string `json:"elapsed"`   // takes one %d (seconds)
	FlagMode         string `json:"flagMode"`
	RevealMode       string `json:"revealMode"`
	NewGame          string `json:"newGame"`
	Back             string `json:"back"`
	Won              string `json:"won"`
	Lost             string `json:"lost"`
	PlayAgain        string `json:"playAgain"`
	ChangeDifficulty string `json:"changeDifficulty"`
}

// Label keys, as used in the catalog document and by Label().
const (
	KeyTitle            = "title"
	KeyChooseLanguage   = "chooseLanguage"
	KeyChooseDifficulty = "chooseDifficulty"
	KeyEasy             = "easy"
	KeyMedium           = "medium"
	KeyHard             = "hard"
	KeyInsane           = "insane"
	KeyCustom           = "custom"
	KeyMinesLeft        = "minesLeft"
	KeyMoves            = "moves"
	KeyElapsed          = "elapsed"
	KeyFlagMode         = "flagMode"
	KeyRevealMode       = "revealMode"
	KeyNewGame          = "newGame"
	KeyBack             = "back"
	KeyWon              = "won"
	KeyLost             = "lost"
	KeyPlayAgain        = "playAgain"
	KeyChangeDifficulty = "changeDifficulty"
)

// counted labels must carry exactly one integer verb.
var counted = map[string]bool{KeyMinesLeft: true, KeyMoves: true, KeyElapsed: true}

// Map returns the labels keyed by catalog key.
func (l Labels) Map() map[string]string {
	return map[string]string{
		KeyTitle:            l.Title,
		KeyChooseLanguage:   l.ChooseLanguage,
		KeyChooseDifficulty: l.ChooseDifficulty,
		KeyEasy:             l.Easy,
		KeyMedium:           l.Medium,
		KeyHard:             l.Hard,
		KeyInsane:           l.Insane,
		KeyCustom:           l.Custom,
		KeyMinesLeft:        l.MinesLeft,
		KeyMoves:            l.Moves,
		KeyElapsed:          l.Elapsed,
		KeyFlagMode:         l.FlagMode,
		KeyRevealMode:       l.RevealMode,
		KeyNewGame:          l.NewGame,
		KeyBack:             l.Back,
		KeyWon:              l.Won,
		KeyLost:             l.Lost,
		KeyPlayAgain:        l.PlayAgain,
		KeyChangeDifficulty: l.ChangeDifficulty,
	}
}

// Language is one selectable language.
type Language struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Flag   string `json:"flag"`
	Labels Labels `json:"labels"`

	tag language.Tag
}

// Tag is the parsed language tag.
func (l Language) Tag() language.Tag { return l.tag }

type document struct {
	Base      string     `json:"base"`
	Languages []Language `json:"languages"`
}

// Catalog is an immutable, validated set of languages.
type Catalog struct {
	base      string
	languages []Language
	byID      map[string]int
	matcher   language.Matcher
	messages  *catalog.Builder
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Languages) == 0 {
		return nil, errors.New("catalog: no languages defined")
	}

	c := &Catalog{
		byID:     make(map[string]int, len(doc.Languages)),
		messages: catalog.NewBuilder(),
	}
	for _, lang := range doc.Languages {
		tag, err := language.Parse(strings.TrimSpace(lang.ID))
		if err != nil {
			return nil, fmt.Errorf("catalog: language %q: %w", lang.ID, err)
		}
		lang.tag = tag
		lang.ID = tag.String()
		if _, dup := c.byID[lang.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate language %q", lang.ID)
		}
		if strings.TrimSpace(lang.Name) == "" {
			return nil, fmt.Errorf("catalog: language %q: name is required", lang.ID)
		}
		if strings.TrimSpace(lang.Flag) == "" {
			return nil, fmt.Errorf("catalog: language %q: flag is required", lang.ID)
		}
		for key, value := range lang.Labels.Map() {
			if strings.TrimSpace(value) == "" {
				return nil, fmt.Errorf("catalog: language %q: label %q is missing", lang.ID, key)
			}
			if counted[key] && strings.Count(value, "%d") != 1 {
				return nil, fmt.Errorf("catalog: language %q: label %q needs exactly one %%d", lang.ID, key)
			}
			if err := c.messages.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("catalog: language %q: register %q: %w", lang.ID, key, err)
			}
		}
		c.byID[lang.ID] = len(c.languages)
		c.languages = append(c.languages, lang)
	}

	baseTag, err := language.Parse(strings.TrimSpace(doc.Base))
	if err != nil {
		return nil, fmt.Errorf("catalog: base language %q: %w", doc.Base, err)
	}
	c.base = baseTag.String()
	baseIdx, ok := c.byID[c.base]
	if !ok {
		return nil, fmt.Errorf("catalog: base language %q is not defined", c.base)
	}

	// The matcher falls back to its first tag, so the base goes first.
	tags := []language.Tag{c.languages[baseIdx].tag}
	for i, lang := range c.languages {
		if i != baseIdx {
			tags = append(tags, lang.tag)
		}
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

// Base returns the fallback language.
func (c *Catalog) Base() Language { return c.languages[c.byID[c.base]] }

// Languages returns every language in catalog order.
func (c *Catalog) Languages() []Language {
	return append([]Language(nil), c.languages...)
}

// Lookup resolves an id to a catalog language. Exact ids win; otherwise a
// close match is accepted ("en-US" → "en", "pt" → "pt-BR").
func (c *Catalog) Lookup(id string) (Language, bool) {
	tag, err := language.Parse(strings.TrimSpace(id))
	if err != nil {
		return Language{}, false
	}
	if i, ok := c.byID[tag.String()]; ok {
		return c.languages[i], true
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf < language.High {
		return Language{}, false
	}
	return c.fromMatcher(idx), true
}

// Match picks the best language for an Accept-Language header, falling back
// to the base language.
func (c *Catalog) Match(accept string) Language {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return c.Base()
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.Base()
	}
	return c.fromMatcher(idx)
}

// fromMatcher maps an index into the matcher's tag list (base first, then
// the rest in catalog order) back to a catalog entry.
func (c *Catalog) fromMatcher(idx int) Language {
	baseIdx := c.byID[c.base]
	if idx == 0 {
		return c.languages[baseIdx]
	}
	if idx <= baseIdx {
		idx--
	}
	return c.languages[idx]
}

// Label returns the label for key in language id, falling back to the base
// language for unknown ids. Unknown keys return the key itself.
func (c *Catalog) Label(id, key string) string {
	lang, ok := c.Lookup(id)
	if !ok {
		lang = c.Base()
	}
	if v, ok := lang.Labels.Map()[key]; ok {
		return v
	}
	return key
}

// DifficultyName returns the localized name of a difficulty key.
func (c *Catalog) DifficultyName(id, difficulty string) string {
	switch difficulty {
	case KeyEasy, KeyMedium, KeyHard, KeyInsane, KeyCustom:
		return c.Label(id, difficulty)
	}
	return difficulty
}

// Printer returns a printer that formats catalog keys in language id.
func (c *Catalog) Printer(id string) *message.Printer {
	lang, ok := c.Lookup(id)
	if !ok {
		lang = c.Base()
	}
	return message.NewPrinter(lang.tag, message.Catalog(c.messages))
}

// Count formats a counted label (minesLeft, moves, elapsed).
func (c *Catalog) Count(id, key string, n int) string {
	return c.Printer(id).Sprintf(key, n)
}
