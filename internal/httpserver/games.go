package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/history"
	"github.com/robalobadob/minesweeper/internal/i18n"
	"github.com/robalobadob/minesweeper/internal/stage"
	"github.com/robalobadob/minesweeper/internal/store"
)

var (
	errNotOwner  = errors.New("game belongs to another player")
	errBadIntent = errors.New("bad intent")
	errDailyOnly = errors.New("intent not allowed on a daily board")
)

// Intent types accepted by POST /game/{id}/intent.
const (
	intentLanguage   = "language"
	intentDifficulty = "difficulty"
	intentCustom     = "custom"
	intentClick      = "click"
	intentFlag       = "flag"
	intentChord      = "chord"
	intentTap        = "tap"
	intentFlagMode   = "toggleFlagMode"
	intentReset      = "reset"
	intentBack       = "back"
)

// dailyIntents are the intents a daily board accepts; it cannot be reset or
// swapped for another difficulty.
var dailyIntents = map[string]bool{
	intentClick: true, intentFlag: true, intentChord: true, intentTap: true, intentFlagMode: true,
}

type intentReq struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"` // language id or difficulty key
	Index *int   `json:"index,omitempty"`
	Row   *int   `json:"row,omitempty"`
	Col   *int   `json:"col,omitempty"`
	Size  int    `json:"size,omitempty"`
	Mines int    `json:"mines,omitempty"`
}

type intentRes struct {
	Changed  bool     `json:"changed"`
	Revealed []int    `json:"revealed,omitempty"`
	Game     gameView `json:"game"`
}

// cellIndex resolves index or row/col against the current board.
func cellIndex(m *stage.Machine, req intentReq) (int, error) {
	if req.Index != nil {
		return *req.Index, nil
	}
	if req.Row != nil && req.Col != nil && m.Session() != nil {
		return m.Session().Board().Index(*req.Row, *req.Col), nil
	}
	return 0, fmt.Errorf("%w: index or row/col required", errBadIntent)
}

// applyIntent drives the stage machine with one intent.
func applyIntent(m *stage.Machine, req intentReq) (game.Outcome, error) {
	switch req.Type {
	case intentLanguage:
		return game.Outcome{Changed: true}, m.SelectLanguage(req.Value)
	case intentDifficulty:
		if strings.EqualFold(req.Value, game.CustomKey) {
			return game.Outcome{Changed: true}, m.SelectCustom(req.Size, req.Mines)
		}
		return game.Outcome{Changed: true}, m.SelectDifficulty(req.Value)
	case intentCustom:
		return game.Outcome{Changed: true}, m.SelectCustom(req.Size, req.Mines)
	case intentFlagMode:
		return game.Outcome{Changed: true}, m.ToggleFlagMode()
	case intentReset:
		return game.Outcome{Changed: true}, m.Reset()
	case intentBack:
		return game.Outcome{Changed: true}, m.Back()
	case intentClick, intentFlag, intentChord, intentTap:
	default:
		return game.Outcome{}, fmt.Errorf("%w: unknown type %q", errBadIntent, req.Type)
	}

	idx, err := cellIndex(m, req)
	if err != nil {
		return game.Outcome{}, err
	}
	switch req.Type {
	case intentClick:
		return m.Click(idx)
	case intentChord:
		return m.Chord(idx)
	case intentTap:
		return m.Tap(idx)
	default:
		changed, err := m.Flag(idx)
		if err != nil {
			return game.Outcome{}, err
		}
		return game.Outcome{State: m.Session().State(), Changed: changed}, nil
	}
}

// intentError maps intent errors to status codes.
func intentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNotOwner):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, stage.ErrWrongStage):
		writeError(w, http.StatusConflict, "wrong_stage")
	case errors.Is(err, errDailyOnly):
		writeError(w, http.StatusConflict, "daily_board")
	case errors.Is(err, i18n.ErrUnknownLanguage):
		writeError(w, http.StatusBadRequest, "unknown_language")
	case errors.Is(err, game.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, "invalid_difficulty")
	case errors.Is(err, errBadIntent):
		writeError(w, http.StatusBadRequest, "bad_intent")
	default:
		log.Error().Err(err).Msg("apply intent")
		writeError(w, http.StatusInternalServerError, "intent_failed")
	}
}

// owner returns the request's player id and anonymous id. Guests get an
// anonymous cookie on first use.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (userID, anon string) {
	if me := currentUser(r); me != nil {
		return me.ID, anonID(r)
	}
	return "", s.ensureAnonID(w, r)
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Language   string `json:"language,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Size       int    `json:"size,omitempty"`
	Mines      int    `json:"mines,omitempty"`
}

type newGameRes struct {
	GameID string   `json:"gameId"`
	Game   gameView `json:"game"`
}

// handleNewGame creates a live game and advances its stage machine as far
// as the request allows: a language, then a difficulty (preset or custom).
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	reqLang := s.resolveLanguage(r)
	m := stage.New(s.catalog, stage.WithBoardOptions(s.boardOpts...))

	if req.Language != "" || req.Difficulty != "" {
		langID := req.Language
		if langID == "" {
			langID = reqLang.ID
		}
		if err := m.SelectLanguage(langID); err != nil {
			intentError(w, err)
			return
		}
		setLanguageCookie(w, m.Language().ID)
	}
	if req.Difficulty != "" {
		if _, err := applyIntent(m, intentReq{Type: intentDifficulty, Value: req.Difficulty, Size: req.Size, Mines: req.Mines}); err != nil {
			intentError(w, err)
			return
		}
	}

	userID, anon := s.owner(w, r)
	e := &store.Entry{ID: uuid.NewString(), Machine: m, UserID: userID}
	if userID == "" {
		e.AnonID = anon
	}
	s.record(r.Context(), e)
	if err := s.store.Save(r.Context(), e); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusCreated, newGameRes{GameID: e.ID, Game: buildView(e, reqLang)})
}

// handleGetGame returns the current view of a game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	reqLang := s.resolveLanguage(r)
	userID, anon := currentUserID(r), anonID(r)
	var view gameView
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(e *store.Entry) error {
		if !e.Owns(userID, anon) {
			return errNotOwner
		}
		view = buildView(e, reqLang)
		return nil
	})
	if err != nil {
		intentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleIntent applies one intent to a game.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.intent(w, r, chi.URLParam(r, "id"), req)
}

func (s *Server) intent(w http.ResponseWriter, r *http.Request, id string, req intentReq) {
	reqLang := s.resolveLanguage(r)
	userID, anon := currentUserID(r), anonID(r)
	var res intentRes
	err := s.store.Update(r.Context(), id, func(e *store.Entry) error {
		if !e.Owns(userID, anon) {
			return errNotOwner
		}
		if e.Daily && !dailyIntents[req.Type] {
			return errDailyOnly
		}
		out, err := applyIntent(e.Machine, req)
		if err != nil {
			return err
		}
		s.record(r.Context(), e)
		res = intentRes{Changed: out.Changed, Revealed: out.Revealed, Game: buildView(e, reqLang)}
		return nil
	})
	if err != nil {
		intentError(w, err)
		return
	}
	if req.Type == intentLanguage {
		setLanguageCookie(w, res.Game.Language.ID)
	}
	writeJSON(w, http.StatusOK, res)
}

// handleDeleteGame drops a live game. Daily boards stay until pruned.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID, anon := currentUserID(r), anonID(r)
	err := s.store.Update(r.Context(), id, func(e *store.Entry) error {
		if !e.Owns(userID, anon) {
			return errNotOwner
		}
		if e.Daily {
			return errDailyOnly
		}
		return nil
	})
	if err == nil {
		err = s.store.Delete(r.Context(), id)
	}
	if err != nil {
		intentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func currentUserID(r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return ""
}

// record writes history for the entry's current round: a row when a board
// starts, and the result (plus user stats and the daily result) once it ends.
// Failures are logged; play continues without persistence.
func (s *Server) record(ctx context.Context, e *store.Entry) {
	m := e.Machine
	if m.Session() == nil {
		return
	}
	if m.Round() != e.Round {
		e.Round = m.Round()
		e.RoundID = uuid.NewString()
		e.Recorded = false
		d := m.Difficulty()
		err := s.history.Start(ctx, history.Game{
			ID:         e.RoundID,
			UserID:     e.UserID,
			AnonID:     e.AnonID,
			Difficulty: d.Key,
			Size:       d.Size,
			Mines:      d.Mines,
			Language:   m.Language().ID,
		})
		if err != nil {
			log.Warn().Err(err).Str("gameId", e.ID).Msg("record game start")
		}
	}
	if e.Recorded || m.Stage() != stage.Result {
		return
	}
	e.Recorded = true
	sess := m.Session()
	if _, err := s.history.Finish(ctx, e.RoundID, sess.Won(), sess.Moves()); err != nil {
		log.Warn().Err(err).Str("gameId", e.ID).Msg("record game result")
	}
	if e.Daily {
		_, err := s.daily.store.InsertResult(ctx, daily.Result{
			UserID:     s.daily.playerID(e.UserID, e.AnonID),
			Date:       e.DailyDate,
			Difficulty: m.Difficulty().Key,
			Won:        sess.Won(),
			Moves:      sess.Moves(),
			ElapsedMs:  m.Elapsed().Milliseconds(),
		})
		if err != nil {
			log.Warn().Err(err).Str("gameId", e.ID).Msg("record daily result")
		}
	}
}
