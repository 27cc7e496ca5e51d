package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"rps_webapp/internal/game"
	"rps_webapp/internal/round"
)

type constOpponent game.Move

func (o constOpponent) RandomMove() game.Move { return game.Move(o) }

type chanDisplay struct {
	round.NopDisplay
	mu       sync.Mutex
	results  []game.Outcome
	released chan struct{}
}

func (d *chanDisplay) OnResult(outcome game.Outcome, _, _ game.Move, _ game.ScoreBoard) {
	d.mu.Lock()
	d.results = append(d.results, outcome)
	d.mu.Unlock()
}

func (d *chanDisplay) OnInputReleased() {
	d.released <- struct{}{}
}

func newTestHub() *Hub {
	return NewHub(HubConfig{
		ThinkingDelay: 5 * time.Millisecond,
		CooldownDelay: 5 * time.Millisecond,
		TTL:           time.Minute,
		Opponent:      constOpponent(game.Scissors),
	})
}

func TestHubCreateGetRemove(t *testing.T) {
	h := newTestHub()

	s := h.Create()
	if s.ID == "" {
		t.Fatalf("expected non-empty session id")
	}
	got, ok := h.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("Get(%s) = %v, %v", s.ID, got, ok)
	}
	if h.Len() != 1 {
		t.Fatalf("Len = %d", h.Len())
	}

	h.Remove(s.ID)
	if _, ok := h.Get(s.ID); ok {
		t.Fatalf("session still present after Remove")
	}
}

func TestSessionFansOutToAttachedDisplays(t *testing.T) {
	h := newTestHub()
	s := h.Create()

	a := &chanDisplay{released: make(chan struct{}, 1)}
	b := &chanDisplay{released: make(chan struct{}, 1)}
	s.Attach(a)
	s.Attach(b)

	ok, err := s.Play(game.Rock)
	if err != nil || !ok {
		t.Fatalf("Play = %v, %v", ok, err)
	}

	for _, d := range []*chanDisplay{a, b} {
		select {
		case <-d.released:
		case <-time.After(2 * time.Second):
			t.Fatalf("display never released")
		}
		d.mu.Lock()
		if len(d.results) != 1 || d.results[0] != game.Win {
			t.Fatalf("results = %v", d.results)
		}
		d.mu.Unlock()
	}

	s.Detach(a)
	if s.Attached() != 1 {
		t.Fatalf("Attached = %d after detach", s.Attached())
	}
}

func TestSessionPlayIgnoredAndInvalid(t *testing.T) {
	h := newTestHub()
	s := h.Create()
	d := &chanDisplay{released: make(chan struct{}, 1)}
	s.Attach(d)

	if _, err := s.Play(game.Move("well")); !errors.Is(err, game.ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}

	if ok, _ := s.Play(game.Paper); !ok {
		t.Fatalf("first play rejected")
	}
	if ok, err := s.Play(game.Rock); ok || err != nil {
		t.Fatalf("second play = %v, %v; want ignored", ok, err)
	}

	<-d.released
	snap := s.Snapshot()
	// paper loses to scissors
	if snap.Board.OpponentWins != 1 || snap.State != round.Idle {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestHubCleanupStale(t *testing.T) {
	h := newTestHub()

	idle := h.Create()
	busy := h.Create()
	busy.Attach(round.NopDisplay{})
	fresh := h.Create()

	past := time.Now().Add(-2 * time.Minute).UnixNano()
	idle.lastSeen.Store(past)
	busy.lastSeen.Store(past)

	if n := h.cleanupStale(time.Now()); n != 1 {
		t.Fatalf("cleanupStale removed %d; want 1", n)
	}
	if _, ok := h.Get(idle.ID); ok {
		t.Fatalf("idle session not removed")
	}
	if _, ok := h.Get(busy.ID); !ok {
		t.Fatalf("session with attached display removed")
	}
	if _, ok := h.Get(fresh.ID); !ok {
		t.Fatalf("fresh session removed")
	}
}
