package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/kanboard/internal/models"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishBoardEvent(models.Event{Kind: models.EventCardAdded, CardID: "t1", To: models.ColumnTodo})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: card.added") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"card_id":"t1"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishBoardEvent_BoardThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger board.updated.
	b.PublishBoardEvent(models.Event{Kind: models.EventCardAdded, CardID: "n1", To: models.ColumnTodo})
	// Second event immediately should NOT trigger another board.updated.
	b.PublishBoardEvent(models.Event{Kind: models.EventCardMoved, CardID: "n1", From: models.ColumnTodo, To: models.ColumnDone})

	// Drain and count events.
	time.Sleep(50 * time.Millisecond)
	boardCount := 0
	cardCount := 0
	var moved string
loop:
	for {
		select {
		case msg := <-ch:
			s := string(msg)
			switch {
			case strings.Contains(s, "event: "+BoardUpdated):
				boardCount++
			case strings.Contains(s, "event: card.moved"):
				moved = s
				cardCount++
			default:
				cardCount++
			}
		default:
			break loop
		}
	}

	if cardCount != 2 {
		t.Errorf("card events = %d, want 2", cardCount)
	}
	if boardCount != 1 {
		t.Errorf("board events = %d, want 1 (throttled)", boardCount)
	}
	if !strings.Contains(moved, `"from":"todo"`) || !strings.Contains(moved, `"to":"done"`) {
		t.Errorf("card.moved payload = %q", moved)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	// Start handler in background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishBoardEvent(models.Event{Kind: models.EventNoticeSet, Message: "hi"})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: notice.set") {
		t.Errorf("handler output missing event: %q", body)
	}

	// Client should be cleaned up.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishBoardEvent_NeverBlocks(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill the client buffer (capacity 64) and the broker queue; neither may block.
	for i := 0; i < 400; i++ {
		b.PublishBoardEvent(models.Event{Kind: models.EventDraftUpdated})
	}
	// If we reach here without deadlock, the test passes.
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.PublishBoardEvent(models.Event{Kind: models.EventNoticeCleared})
}

func TestPublishBoardEvent_TrailingBoardUpdate(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishBoardEvent(models.Event{Kind: models.EventCardAdded, CardID: "n1", To: models.ColumnTodo})
	b.PublishBoardEvent(models.Event{Kind: models.EventNoticeSet, Message: "hi"})
	b.PublishBoardEvent(models.Event{Kind: models.EventNoticeCleared})

	var boards []string
	deadline := time.After(time.Second)
	for len(boards) < 2 {
		select {
		case msg := <-ch:
			if s := string(msg); strings.Contains(s, "event: "+BoardUpdated) {
				boards = append(boards, s)
			}
		case <-deadline:
			t.Fatalf("board.updated events = %d, want 2", len(boards))
		}
	}

	if !strings.Contains(boards[0], `"events":1`) {
		t.Errorf("first board.updated = %q", boards[0])
	}
	if !strings.Contains(boards[1], `"events":2`) {
		t.Errorf("trailing board.updated = %q, want it to cover the 2 throttled events", boards[1])
	}
}

func TestEventIDsIncrease(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// card.added, board.updated, then card.moved (throttled, no board.updated).
	b.PublishBoardEvent(models.Event{Kind: models.EventCardAdded, CardID: "n1", To: models.ColumnTodo})
	b.PublishBoardEvent(models.Event{Kind: models.EventCardMoved, CardID: "n1", From: models.ColumnTodo, To: models.ColumnDone})

	for _, want := range []string{"id: 1\n", "id: 2\n", "id: 3\n"} {
		select {
		case msg := <-ch:
			if !strings.HasPrefix(string(msg), want) {
				t.Errorf("frame = %q, want prefix %q", msg, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for message")
		}
	}
}
