package model

import (
	"testing"
	"time"
)

func TestQueuePairsSameVariant(t *testing.T) {
	q := NewQueue()
	for _, p := range []QueuedPlayer{
		{ID: "a", Variant: Standard},
		{ID: "b", Variant: Crazyhouse},
		{ID: "c", Variant: Crazyhouse},
		{ID: "d", Variant: Standard},
	} {
		if err := q.AddPlayer(p.ID, p.Variant); err != nil {
			t.Fatalf("add %s: %v", p.ID, err)
		}
	}
	if err := q.AddPlayer("a", Standard); err == nil {
		t.Fatalf("duplicate player queued")
	}

	first, second, ok := q.GetNextPair()
	if !ok || first.ID != "a" || second.ID != "d" {
		t.Fatalf("first pair = %s, %s, %v", first.ID, second.ID, ok)
	}
	first, second, ok = q.GetNextPair()
	if !ok || first.ID != "b" || second.ID != "c" {
		t.Fatalf("second pair = %s, %s, %v", first.ID, second.ID, ok)
	}
	if _, _, ok := q.GetNextPair(); ok || q.Size() != 0 {
		t.Fatalf("empty queue paired, size %d", q.Size())
	}
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	q.AddPlayer("a", Standard)
	q.AddPlayer("b", Standard)
	if !q.Remove("a") || q.Remove("a") {
		t.Fatalf("Remove did not report membership")
	}
	if _, _, ok := q.GetNextPair(); ok {
		t.Fatalf("paired a lone player")
	}
}

func TestClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(time.Minute)
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(10 * time.Second)
	if got := c.GetTimeLeft(); got != 50*time.Second {
		t.Fatalf("running time left = %s", got)
	}
	c.Stop()
	now = now.Add(time.Hour)
	if got := c.GetTimeLeft(); got != 50*time.Second {
		t.Fatalf("stopped time left = %s", got)
	}
	if c.tenths() != 500 || c.Flagged() {
		t.Fatalf("tenths %d flagged %v", c.tenths(), c.Flagged())
	}

	c.Start()
	now = now.Add(time.Minute)
	if !c.Flagged() {
		t.Fatalf("clock past zero not flagged")
	}
	c.Reset(time.Minute)
	if c.GetTimeLeft() != time.Minute {
		t.Fatalf("reset time left = %s", c.GetTimeLeft())
	}
}
