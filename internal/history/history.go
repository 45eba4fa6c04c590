// internal/history/history.go
//
// Game history (games table).
// Responsibilities:
//   - Record a row when a game starts, owned by a user or an anonymous id.
//   - Close the row when the game is won or lost and, for signed-in players,
//     bump their counters in the same transaction.
//   - List a player's recent games and move guest games to an account after
//     signup/login.

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/minesweeper/internal/players"
)

// Game is one row of the games table.
type Game struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	AnonID     string     `json:"-"`
	Difficulty string     `json:"difficulty"`
	Size       int        `json:"size"`
	Mines      int        `json:"mines"`
	Language   string     `json:"language"`
	Status     string     `json:"status"`
	Moves      int        `json:"moves"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// timeLayout has a fixed width so rows sort by text.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Status values.
const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// Store reads and writes game rows.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Start inserts a playing row for g.
func (s *Store) Start(ctx context.Context, g Game) error {
	if g.UserID == "" && g.AnonID == "" {
		return errors.New("history: game has no owner")
	}
	if g.StartedAt.IsZero() {
		g.StartedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anonymous_id, difficulty, size, mines, language, status, moves, started_at)
        VALUES (?,?,?,?,?,?,?,?,0,?)`,
		g.ID, nullable(g.UserID), nullable(g.AnonID), g.Difficulty, g.Size, g.Mines, g.Language,
		StatusPlaying, g.StartedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	return nil
}

// Finish closes a playing row. It returns false when the row was already
// closed or never recorded.
func (s *Store) Finish(ctx context.Context, id string, won bool, moves int) (bool, error) {
	status := StatusLost
	if won {
		status = StatusWon
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var userID sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=? AND status=?`, id, StatusPlaying).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, moves=?, finished_at=? WHERE id=?`,
		status, moves, s.now().UTC().Format(timeLayout), id); err != nil {
		return false, fmt.Errorf("finish game %s: %w", id, err)
	}
	if userID.Valid {
		if err := players.BumpStats(ctx, tx, userID.String, won); err != nil {
			return false, fmt.Errorf("bump stats: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Mine lists a user's most recent games, newest first.
func (s *Store) Mine(ctx context.Context, userID string, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, difficulty, size, mines, language, status, moves, started_at, COALESCE(finished_at, '')
        FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Game{}
	for rows.Next() {
		var (
			g                 Game
			started, finished string
		)
		if err := rows.Scan(&g.ID, &g.Difficulty, &g.Size, &g.Mines, &g.Language, &g.Status, &g.Moves, &started, &finished); err != nil {
			return nil, err
		}
		g.UserID = userID
		g.StartedAt, _ = time.Parse(timeLayout, started)
		if finished != "" {
			if t, err := time.Parse(timeLayout, finished); err == nil {
				g.FinishedAt = &t
			}
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Claim transfers a guest's games to a user account.
func (s *Store) Claim(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, fmt.Errorf("claim games: %w", err)
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
