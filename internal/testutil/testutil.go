// Package testutil provides shared test helpers for controllers and the search index.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/starford/kanboard/internal/board"
	"github.com/starford/kanboard/internal/index"
	"github.com/starford/kanboard/internal/models"
)

// TestDB opens an in-memory search index that is closed on cleanup.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeqIDs returns an id generator yielding prefix1, prefix2, ...
func SeqIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// TestController starts a controller seeded with the default board, driven
// by the returned fake clock and sequential "n" ids. It is closed on cleanup.
func TestController(t *testing.T, opts ...board.Option) (*board.Controller, *FakeClock) {
	t.Helper()
	clock := &FakeClock{}
	base := []board.Option{
		board.WithSeed(board.DefaultSeed()),
		board.WithClock(clock),
		board.WithIDFunc(SeqIDs("n")),
	}
	ctrl, err := board.New(append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl, clock
}

// IDs returns the ids of cards in order.
func IDs(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

// EventRecorder collects board events. Record is safe to pass to board.WithObserver.
type EventRecorder struct {
	mu     sync.Mutex
	events []models.Event
}

// Record appends ev.
func (r *EventRecorder) Record(ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Kinds returns the kinds of all recorded events in order.
func (r *EventRecorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}
