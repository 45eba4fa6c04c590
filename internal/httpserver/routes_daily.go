// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily board.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's board for a difficulty
//   - POST /daily/intent      → play a move on today's board
//   - GET  /daily/leaderboard → top results for a date (default today)
//
// Every player gets the same mines on a given day: the board seed is derived
// from the date, the difficulty and DAILY_SALT. One result (win or loss) is
// recorded per player, date and difficulty; a finished board cannot be
// restarted. Guests appear on results under daily.GuestID, never under their
// anonymous cookie.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/stage"
	"github.com/robalobadob/minesweeper/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string

	mu       sync.Mutex
	day      string            // date the sessions belong to
	sessions map[string]string // player|difficulty → live game id
}

// playerID is the identity daily results are stored under.
func (d *dailyServer) playerID(userID, anon string) string {
	if userID != "" {
		return userID
	}
	return daily.GuestID(d.salt, anon)
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router, st *daily.Store, salt string) {
	dd := &dailyServer{
		srv:      s,
		store:    st,
		salt:     salt,
		sessions: make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/intent", dd.handleIntent)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

type dailyNewReq struct {
	Difficulty string `json:"difficulty"`
	Language   string `json:"language,omitempty"`
}

type dailyNewRes struct {
	GameID string    `json:"gameId,omitempty"`
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *gameView `json:"game,omitempty"`
}

// handleNew creates or resumes today's board.
//   - A recorded result for today → Played=true, no game.
//   - A live board for today → the same game id.
//   - Otherwise a new seeded board, already on the playing stage.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	diff, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_difficulty")
		return
	}
	userID, anon := d.srv.owner(w, r)
	ownerID := d.playerID(userID, anon)
	now := d.srv.now()
	date := daily.DateKey(now)
	reqLang := d.srv.resolveLanguage(r)

	played, err := d.store.AlreadyPlayed(r.Context(), ownerID, date, diff.Key)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := ownerID + "|" + diff.Key
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.day != date {
		// Yesterday's boards can no longer be resumed.
		d.day = date
		clear(d.sessions)
	}
	if id, ok := d.sessions[key]; ok {
		var view gameView
		err := d.srv.store.Update(r.Context(), id, func(e *store.Entry) error {
			view = buildView(e, reqLang)
			return nil
		})
		if err == nil {
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: id, Date: date, Game: &view})
			return
		}
		// Pruned; start over below.
		delete(d.sessions, key)
	}

	m := stage.New(d.srv.catalog, stage.WithBoardOptions(daily.BoardOptions(now, d.salt, diff)...))
	langID := req.Language
	if langID == "" {
		langID = reqLang.ID
	}
	if err := m.SelectLanguage(langID); err != nil {
		intentError(w, err)
		return
	}
	if err := m.SelectDifficulty(diff.Key); err != nil {
		intentError(w, err)
		return
	}
	e := &store.Entry{
		ID:        uuid.NewString(),
		Machine:   m,
		UserID:    userID,
		Daily:     true,
		DailyDate: date,
	}
	if userID == "" {
		e.AnonID = anon
	}
	d.srv.record(r.Context(), e)
	if err := d.srv.store.Save(r.Context(), e); err != nil {
		log.Error().Err(err).Msg("save daily game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = e.ID
	view := buildView(e, reqLang)
	writeJSON(w, http.StatusCreated, dailyNewRes{GameID: e.ID, Date: date, Game: &view})
}

type dailyIntentReq struct {
	GameID string `json:"gameId"`
	intentReq
}

// handleIntent plays a move on a daily board.
func (d *dailyServer) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req dailyIntentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	e, err := d.srv.store.Get(r.Context(), req.GameID)
	if err != nil {
		intentError(w, err)
		return
	}
	if !e.Daily {
		writeError(w, http.StatusConflict, "not_daily")
		return
	}
	d.srv.intent(w, r, req.GameID, req.intentReq)
}

type lbRes struct {
	Date       string        `json:"date"`
	Difficulty string        `json:"difficulty"`
	Top        []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for a date (default today) and
// difficulty (default easy).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	} else if _, err := daily.ParseDateKey(date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	diff := game.Easy
	if v := q.Get("difficulty"); v != "" {
		var err error
		if diff, err = game.ParseDifficulty(v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_difficulty")
			return
		}
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	rows, err := d.store.Leaderboard(r.Context(), date, diff.Key, limit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Difficulty: diff.Key, Top: rows})
}
