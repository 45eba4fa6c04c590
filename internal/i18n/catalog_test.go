package i18n

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/robalobadob/minesweeper/assets"
)

func loadEmbedded(t *testing.T) *Catalog {
	t.Helper()
	data, err := assets.Locales()
	if err != nil {
		t.Fatalf("read embedded catalog: %v", err)
	}
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("parse embedded catalog: %v", err)
	}
	return c
}

// docWith renders a catalog document holding the given languages.
func docWith(t *testing.T, base string, langs ...Language) []byte {
	t.Helper()
	data, err := json.Marshal(document{Base: base, Languages: langs})
	if err != nil {
		t.Fatalf("marshal doc: %v", err)
	}
	return data
}

func TestEmbeddedCatalogIsComplete(t *testing.T) {
	c := loadEmbedded(t)
	if c.Base().ID != "en" {
		t.Fatalf("base = %q, want en", c.Base().ID)
	}
	langs := c.Languages()
	if len(langs) < 10 {
		t.Fatalf("only %d languages embedded", len(langs))
	}
	for _, lang := range langs {
		for key, value := range lang.Labels.Map() {
			if value == "" {
				t.Fatalf("%s: empty label %q", lang.ID, key)
			}
		}
	}
}

func TestDefaultMatchesEmbedded(t *testing.T) {
	if got := len(Default().Languages()); got != len(loadEmbedded(t).Languages()) {
		t.Fatalf("default catalog has %d languages", got)
	}
}

func TestParseRejectsIncompleteCatalogs(t *testing.T) {
	base := loadEmbedded(t).Base()

	missing := base
	missing.Labels.Back = ""

	badCount := base
	badCount.Labels.MinesLeft = "Mines left"

	noFlag := base
	noFlag.Flag = " "

	badID := base
	badID.ID = "not a tag"

	cases := []struct {
		name string
		doc  []byte
	}{
		{"missing label", docWith(t, "en", missing)},
		{"counted label without verb", docWith(t, "en", badCount)},
		{"missing flag", docWith(t, "en", noFlag)},
		{"bad id", docWith(t, "en", badID)},
		{"duplicate id", docWith(t, "en", base, base)},
		{"base not defined", docWith(t, "fr", base)},
		{"no languages", docWith(t, "en")},
		{"unknown field", []byte(`{"base":"en","languages":[],"extra":1}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.doc); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLookup(t *testing.T) {
	c := loadEmbedded(t)
	cases := []struct {
		id   string
		want string
		ok   bool
	}{
		{"en", "en", true},
		{"EN", "en", true},
		{"en-US", "en", true},
		{"ja", "ja", true},
		{"pt-BR", "pt-BR", true},
		{"tlh", "", false},
		{"", "", false},
		{"not a tag", "", false},
	}
	for _, tc := range cases {
		lang, ok := c.Lookup(tc.id)
		if ok != tc.ok || lang.ID != tc.want {
			t.Fatalf("Lookup(%q) = %q,%v, want %q,%v", tc.id, lang.ID, ok, tc.want, tc.ok)
		}
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	c := loadEmbedded(t)
	cases := map[string]string{
		"fr-CH, fr;q=0.9, en;q=0.8": "fr",
		"de":                        "de",
		"tlh":                       "en",
		"":                          "en",
		"%%%":                       "en",
	}
	for header, want := range cases {
		if got := c.Match(header).ID; got != want {
			t.Fatalf("Match(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestMatchWithBaseNotFirst(t *testing.T) {
	embedded := loadEmbedded(t)
	fr, _ := embedded.Lookup("fr")
	en, _ := embedded.Lookup("en")
	de, _ := embedded.Lookup("de")
	c, err := Parse(docWith(t, "en", fr, en, de))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, id := range []string{"fr", "de"} {
		if got := c.Match(id).ID; got != id {
			t.Fatalf("Match(%q) = %q", id, got)
		}
	}
	if got := c.Match("ja").ID; got != "en" {
		t.Fatalf("Match(ja) = %q, want base", got)
	}
}

func TestLabels(t *testing.T) {
	c := loadEmbedded(t)
	if got := c.Label("de", KeyBack); got != "Zurück" {
		t.Fatalf("de back = %q", got)
	}
	if got := c.Label("tlh", KeyTitle); got != "Minesweeper" {
		t.Fatalf("fallback title = %q", got)
	}
	if got := c.Label("en", "nope"); got != "nope" {
		t.Fatalf("unknown key = %q", got)
	}
	if got := c.DifficultyName("es", "hard"); got != "Difícil" {
		t.Fatalf("es hard = %q", got)
	}
	if got := c.DifficultyName("es", "weird"); got != "weird" {
		t.Fatalf("unknown difficulty = %q", got)
	}
}

func TestCount(t *testing.T) {
	c := loadEmbedded(t)
	if got := c.Count("en", KeyMinesLeft, 7); got != "Mines left: 7" {
		t.Fatalf("en minesLeft = %q", got)
	}
	if got := c.Count("fr", KeyMoves, 3); got != "Coups : 3" {
		t.Fatalf("fr moves = %q", got)
	}
	if got := c.Count("ja", KeyElapsed, 12); !strings.Contains(got, "12") {
		t.Fatalf("ja elapsed = %q", got)
	}
}
