package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ParseDateKey accepts a YYYY-MM-DD key.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// Seed returns the board seed for a date and difficulty:
// the first 8 bytes of HMAC-SHA256(salt, "YYYY-MM-DD|difficulty").
func Seed(date time.Time, salt, difficulty string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date) + "|" + difficulty))
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

// BoardOptions seeds a board so every player gets the same mines for the day.
func BoardOptions(date time.Time, salt string, d game.Difficulty) []game.BoardOption {
	return []game.BoardOption{game.WithSeed(Seed(date, salt, d.Key))}
}

// GuestID is the public identity of a guest on daily results. The anonymous
// cookie is a credential and must never be shown, so results carry an HMAC
// of it instead.
func GuestID(salt, anonID string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("guest|" + anonID))
	return "guest-" + hex.EncodeToString(h.Sum(nil)[:12])
}
