package grok

import (
	"log/slog"
	"testing"
)

func TestDestroyQueueDrain(t *testing.T) {
	q := newDestroyQueue(slog.New(slog.DiscardHandler))
	s := DestroySender{q: q}

	for i := range 5 {
		if err := s.Send(Destroy{Kind: DestroyBuffer, Handle: uint32(i + 1)}); err != nil {
			t.Fatal(err)
		}
	}
	if q.len() != 5 {
		t.Fatalf("expected 5 pending, got %d", q.len())
	}

	got := q.drain(nil)
	if len(got) != 5 || got[0].Handle != 1 || got[4].Handle != 5 {
		t.Errorf("expected requests in send order, got %v", got)
	}
	if q.len() != 0 {
		t.Errorf("expected empty queue after drain, got %d", q.len())
	}
}

func TestDestroyQueueLeakAfterClose(t *testing.T) {
	q := newDestroyQueue(slog.New(slog.DiscardHandler))
	s := DestroySender{q: q}
	s.leaked(Destroy{Kind: DestroyTexture, Handle: 3})
	if q.len() != 1 {
		t.Fatalf("expected leaked resource queued, got %d", q.len())
	}

	if n := q.close(); n != 1 {
		t.Errorf("expected close to report 1 pending, got %d", n)
	}
	// Must not panic.
	s.leaked(Destroy{Kind: DestroyTexture, Handle: 4})
	if q.len() != 1 {
		t.Errorf("expected closed queue to refuse, got %d", q.len())
	}
}
