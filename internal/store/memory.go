// internal/store/memory.go
//
// In-memory store for live game sessions.
//
// Characteristics:
//   - Holds *Entry values (one stage machine per game) keyed by ID.
//   - The map is guarded by an RWMutex; each entry has its own mutex so
//     intents on one game are serialized without blocking other games.
//   - Entries idle for longer than the session TTL are dropped by Prune,
//     which the server runs from a janitor goroutine.
//   - State is lost when the process restarts; finished games are recorded
//     in SQLite by the history and daily packages.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/minesweeper/internal/stage"
)

// ErrNotFound is returned for unknown or pruned game ids.
var ErrNotFound = errors.New("game not found")

// Entry is one live game.
type Entry struct {
	ID      string
	Machine *stage.Machine

	// Owner: a signed-in user id, or the anonymous cookie id for guests.
	UserID string
	AnonID string

	// Daily games are bound to one date and difficulty.
	Daily     bool
	DailyDate string

	// Round is the machine round RoundID was issued for. Each board gets
	// its own history row.
	Round   int
	RoundID string

	// Recorded is set once the current round's result has been written.
	Recorded bool

	LastActive time.Time

	mu sync.Mutex
}

// Owns reports whether the entry belongs to the given user or guest.
func (e *Entry) Owns(userID, anonID string) bool {
	if e.UserID != "" {
		return e.UserID == userID
	}
	return e.AnonID != "" && e.AnonID == anonID
}

// Store defines the persistence interface for live games.
type Store interface {
	// Save adds or replaces an entry.
	Save(ctx context.Context, e *Entry) error

	// Get returns the entry for id. The machine must only be used inside
	// Update.
	Get(ctx context.Context, id string) (*Entry, error)

	// Update runs fn with exclusive access to the entry and marks it active.
	Update(ctx context.Context, id string, fn func(*Entry) error) error

	// Delete removes an entry. Deleting an unknown id returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Prune drops entries idle since before cutoff and returns how many.
	Prune(ctx context.Context, cutoff time.Time) int

	// Len is the number of live entries.
	Len() int
}

type memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *memory {
	return &memory{entries: make(map[string]*Entry), now: now}
}

func (m *memory) Save(ctx context.Context, e *Entry) error {
	if e == nil || e.ID == "" {
		return errors.New("store: entry needs an id")
	}
	if e.LastActive.IsZero() {
		e.LastActive = m.now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*Entry) error) error {
	e, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	e.LastActive = m.now()
	return fn(e)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		// An entry held by Update is in use; skip it this round.
		if !e.mu.TryLock() {
			continue
		}
		if e.LastActive.Before(cutoff) {
			delete(m.entries, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Janitor prunes entries idle for longer than ttl every interval until ctx
// is done. It reports each non-empty sweep through onPrune (may be nil).
func Janitor(ctx context.Context, s Store, ttl, interval time.Duration, onPrune func(n int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Prune(ctx, now.Add(-ttl)); n > 0 && onPrune != nil {
				onPrune(n)
			}
		}
	}
}
