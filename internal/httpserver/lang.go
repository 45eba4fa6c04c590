package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/i18n"
)

const (
	// langParam selects a language for one request.
	langParam = "lang"
	// langCookieName stores the player's language preference.
	langCookieName = "mines_lang"
)

// resolveLanguage picks the request language from ?lang=, the language
// cookie, then Accept-Language, falling back to the catalog base.
func (s *Server) resolveLanguage(r *http.Request) i18n.Language {
	if v := strings.TrimSpace(r.URL.Query().Get(langParam)); v != "" {
		if lang, ok := s.catalog.Lookup(v); ok {
			return lang
		}
	}
	if c, err := r.Cookie(langCookieName); err == nil {
		if lang, ok := s.catalog.Lookup(c.Value); ok {
			return lang
		}
	}
	return s.catalog.Match(r.Header.Get("Accept-Language"))
}

func setLanguageCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     langCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

type languageOption struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Flag   string `json:"flag"`
	Active bool   `json:"active,omitempty"`
}

func optionFor(lang i18n.Language) languageOption {
	return languageOption{ID: lang.ID, Name: lang.Name, Flag: lang.Flag}
}

// handleLanguages lists every catalog language, marking the one this
// request resolves to.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	active := s.resolveLanguage(r)
	langs := s.catalog.Languages()
	out := make([]languageOption, 0, len(langs))
	for _, lang := range langs {
		opt := optionFor(lang)
		opt.Active = lang.ID == active.ID
		out = append(out, opt)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"base":      s.catalog.Base().ID,
		"selected":  active.ID,
		"languages": out,
	})
}

// handleLanguage returns one language with its labels.
func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.catalog.Lookup(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_language")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     lang.ID,
		"name":   lang.Name,
		"flag":   lang.Flag,
		"labels": lang.Labels,
	})
}

type difficultyOption struct {
	game.Difficulty
	Name string `json:"name"`
}

// handleDifficulties lists the presets with localized names.
func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	lang := s.resolveLanguage(r)
	presets := game.Difficulties()
	out := make([]difficultyOption, 0, len(presets)+1)
	for _, d := range presets {
		out = append(out, difficultyOption{Difficulty: d, Name: s.catalog.DifficultyName(lang.ID, d.Key)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"language":     lang.ID,
		"difficulties": out,
		"custom":       s.catalog.DifficultyName(lang.ID, game.CustomKey),
	})
}
