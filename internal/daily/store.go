package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is one finished daily game. Losses use up the day's attempt but
// never reach the leaderboard.
type Result struct {
	UserID     string `json:"userId"`
	Date       string `json:"date"`
	Difficulty string `json:"difficulty"`
	Won        bool   `json:"won"`
	Moves      int    `json:"moves"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date, difficulty string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=? AND difficulty=?`,
		userID, date, difficulty,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a result; a second result for the same player, date
// and difficulty is ignored. It reports whether the row was written.
func (s *Store) InsertResult(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, difficulty, won, moves, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`, r.UserID, r.Date, r.Difficulty, r.Won, r.Moves, r.ElapsedMs,
	)
	if err != nil {
		return false, fmt.Errorf("insert daily result: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type LBRow struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"userId"`
	Username  string `json:"username,omitempty"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard ranks a day's wins by time, then moves, then who finished
// first.
func (s *Store) Leaderboard(ctx context.Context, date, difficulty string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.user_id, COALESCE(u.username, ''), d.moves, d.elapsed_ms
		 FROM daily_results d LEFT JOIN users u ON u.id = d.user_id
		 WHERE d.date=? AND d.difficulty=? AND d.won=1
		 ORDER BY d.elapsed_ms ASC, d.moves ASC, d.created_at ASC
		 LIMIT ?`, date, difficulty, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		r := LBRow{Rank: len(out) + 1}
		if err := rows.Scan(&r.UserID, &r.Username, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
