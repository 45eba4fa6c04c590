package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/minesweeper/internal/i18n"
	"github.com/robalobadob/minesweeper/internal/stage"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	e := &Entry{ID: "g1", Machine: stage.New(i18n.Default())}
	if err := s.Save(ctx, e); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Get(ctx, "g1")
	if err != nil || got != e {
		t.Fatalf("get: %v %p", err, got)
	}
	if got.LastActive.IsZero() {
		t.Fatal("save did not stamp LastActive")
	}
	if err := s.Delete(ctx, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if err := s.Delete(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if err := s.Save(ctx, &Entry{}); err == nil {
		t.Fatal("saved an entry without id")
	}
}

func TestUpdateSerializesAndPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Save(ctx, &Entry{ID: "g"})

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, "g", func(e *Entry) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}

	boom := errors.New("boom")
	if err := s.Update(ctx, "g", func(*Entry) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("update error = %v", err)
	}
	if err := s.Update(ctx, "missing", func(*Entry) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Update(cancelled, "g", func(*Entry) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("update with cancelled ctx = %v", err)
	}
}

func TestPruneDropsIdleEntries(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newMemory(c.now)

	_ = s.Save(ctx, &Entry{ID: "old"})
	c.advance(20 * time.Minute)
	_ = s.Save(ctx, &Entry{ID: "fresh"})
	c.advance(20 * time.Minute)
	_ = s.Update(ctx, "fresh", func(*Entry) error { return nil })

	if n := s.Prune(ctx, c.now().Add(-30*time.Minute)); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if _, err := s.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Fatal("idle entry survived")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestJanitorStopsWithContext(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Save(context.Background(), &Entry{ID: "a", LastActive: time.Now().Add(-time.Hour)})

	ctx, cancel := context.WithCancel(context.Background())
	pruned := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		Janitor(ctx, s, time.Minute, 5*time.Millisecond, func(n int) {
			select {
			case pruned <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-pruned:
		if n != 1 {
			t.Fatalf("janitor pruned %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never pruned")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestOwns(t *testing.T) {
	cases := []struct {
		entry      *Entry
		user, anon string
		want       bool
	}{
		{&Entry{UserID: "u1"}, "u1", "", true},
		{&Entry{UserID: "u1"}, "u2", "", false},
		{&Entry{UserID: "u1", AnonID: "a"}, "", "a", false},
		{&Entry{AnonID: "a"}, "", "a", true},
		{&Entry{AnonID: "a"}, "u1", "b", false},
		{&Entry{}, "", "", false},
	}
	for i, tc := range cases {
		if got := tc.entry.Owns(tc.user, tc.anon); got != tc.want {
			t.Fatalf("case %d: Owns = %v", i, got)
		}
	}
}
