package model

import (
	"errors"
	"testing"
)

func TestQueuePairsOldestFirst(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("AddPlayer(%s) = %v", id, err)
		}
	}
	if err := q.AddPlayer(Player{ID: "b"}); !errors.Is(err, ErrAlreadyQueued) {
		t.Errorf("duplicate AddPlayer() = %v, want ErrAlreadyQueued", err)
	}

	p1, p2, ok := q.GetNextPair()
	if !ok || p1.ID != "a" || p2.ID != "b" {
		t.Fatalf("GetNextPair() = %v, %v, %v", p1, p2, ok)
	}
	if _, _, ok := q.GetNextPair(); ok {
		t.Errorf("paired a lone player")
	}
	if q.Size() != 1 {
		t.Errorf("Size() = %d, want 1", q.Size())
	}
}

func TestQueueRemove(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	_ = q.AddPlayer(Player{ID: "a"})
	_ = q.AddPlayer(Player{ID: "b"})

	if !q.Remove("a") {
		t.Errorf("Remove(a) = false")
	}
	if q.Remove("a") {
		t.Errorf("second Remove(a) = true")
	}
	if q.Size() != 1 {
		t.Errorf("Size() = %d, want 1", q.Size())
	}
}
