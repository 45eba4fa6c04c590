// internal/httpserver/server.go
//
// HTTP server wiring for the Minesweeper backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, JSON, CORS, timeouts,
//     panic recovery).
//   - Public endpoints: "/", "/health", languages and difficulties.
//   - Game endpoints (optional auth): create a game, read its view, send
//     stage intents, delete it.
//   - Daily board endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Live games sit in the in-memory store; finished games are written to
//     SQLite (history, user stats, daily results) on a best-effort basis.
//   - Optional auth decorates requests with the signed-in player when a
//     valid token is present; guests are tracked by an anonymous cookie.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/config"
	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/history"
	"github.com/robalobadob/minesweeper/internal/i18n"
	"github.com/robalobadob/minesweeper/internal/players"
	"github.com/robalobadob/minesweeper/internal/store"
)

// Deps are the collaborators of a Server.
type Deps struct {
	Config  config.Config
	Store   store.Store
	DB      *sql.DB
	Catalog *i18n.Catalog

	// Optional.
	Now          func() time.Time
	BoardOptions []game.BoardOption // applied to every non-daily board
	BcryptCost   int
}

// Server bundles the router, live game store and DB-backed stores.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	catalog *i18n.Catalog

	users   *players.Store
	tokens  *players.Tokens
	history *history.Store
	daily   *dailyServer

	now       func() time.Time
	boardOpts []game.BoardOption
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		cfg:       d.Config,
		store:     d.Store,
		catalog:   d.Catalog,
		users:     players.NewStore(d.DB),
		tokens:    players.NewTokens(d.Config.JWTSecret, d.Config.JWTTTL()),
		history:   history.NewStore(d.DB),
		now:       d.Now,
		boardOpts: d.BoardOptions,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if d.BcryptCost > 0 {
		s.users = s.users.WithCost(d.BcryptCost)
	}
	timeout := d.Config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(timeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(d.Config.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "minesweeper-go",
			"endpoints": []string{
				"/health", "/languages", "/difficulties",
				"POST /game/new", "GET /game/{id}", "POST /game/{id}/intent",
				"/daily/*", "/auth/*",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "liveGames": s.store.Len()})
	})

	// Languages and presets.
	s.r.Get("/languages", s.handleLanguages)
	s.r.Get("/languages/{id}", s.handleLanguage)
	s.r.Get("/difficulties", s.handleDifficulties)

	// Games: OPTIONAL AUTH (guests can play).
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleGetGame)
		r.Post("/game/{id}/intent", s.handleIntent)
		r.Delete("/game/{id}", s.handleDeleteGame)
		s.mountDaily(r, daily.NewStore(d.DB), d.Config.DailySalt)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
