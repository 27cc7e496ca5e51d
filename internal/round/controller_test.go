package round

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"rps_webapp/internal/game"
)

// manualScheduler fires callbacks only when the test advances its clock.
type manualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward and runs due callbacks in order.
// Callbacks run without the scheduler lock so they can arm new timers.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		sort.SliceStable(s.pending, func(i, j int) bool { return s.pending[i].at < s.pending[j].at })
		var next *manualTimer
		for _, t := range s.pending {
			if !t.stopped && !t.fired && t.at <= target {
				next = t
				break
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

// fire runs a timer's callback even if it was stopped, simulating a
// runtime timer that fired just before Stop was called.
func (s *manualScheduler) fire(t *manualTimer) {
	t.f()
}

type fixedOpponent struct{ moves []game.Move }

func (o *fixedOpponent) RandomMove() game.Move {
	m := o.moves[0]
	if len(o.moves) > 1 {
		o.moves = o.moves[1:]
	}
	return m
}

type recordingDisplay struct {
	events  []string
	outcome game.Outcome
	board   game.ScoreBoard
	history game.HistoryLog
}

func (d *recordingDisplay) OnRoundStart(player game.Move) {
	d.events = append(d.events, "start:"+string(player))
}

func (d *recordingDisplay) OnOpponentThinking() {
	d.events = append(d.events, "thinking")
}

func (d *recordingDisplay) OnResult(outcome game.Outcome, player, opponent game.Move, board game.ScoreBoard) {
	d.events = append(d.events, "result:"+string(outcome))
	d.outcome = outcome
	d.board = board
}

func (d *recordingDisplay) OnInputReleased() {
	d.events = append(d.events, "released")
}

func (d *recordingDisplay) OnReset(board game.ScoreBoard, history game.HistoryLog) {
	d.events = append(d.events, "reset")
	d.board = board
	d.history = history
}

func (d *recordingDisplay) OnHistoryUpdated(history game.HistoryLog) {
	d.events = append(d.events, "history")
	d.history = history
}

func newTestController(opp ...game.Move) (*Controller, *manualScheduler, *recordingDisplay) {
	sched := &manualScheduler{}
	disp := &recordingDisplay{}
	c := NewController(&fixedOpponent{moves: opp}, disp,
		WithScheduler(sched),
		WithDelays(1500*time.Millisecond, 1000*time.Millisecond),
	)
	return c, sched, disp
}

func equalEvents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlayRoundWinEndToEnd(t *testing.T) {
	c, sched, disp := newTestController(game.Scissors)

	ok, err := c.PlayRound(game.Rock)
	if err != nil || !ok {
		t.Fatalf("PlayRound = %v, %v", ok, err)
	}
	if c.State() != AwaitingOpponent {
		t.Fatalf("state = %s; want awaiting_opponent", c.State())
	}

	sched.Advance(1499 * time.Millisecond)
	if c.State() != AwaitingOpponent {
		t.Fatalf("resolved too early: %s", c.State())
	}

	sched.Advance(time.Millisecond)
	snap := c.Snapshot()
	if disp.outcome != game.Win {
		t.Fatalf("outcome = %s; want win", disp.outcome)
	}
	if snap.Board != (game.ScoreBoard{PlayerWins: 1}) {
		t.Fatalf("board = %+v", snap.Board)
	}
	want := game.HistoryLog{{Outcome: game.Win, PlayerMove: game.Rock, OpponentMove: game.Scissors}}
	if len(snap.History) != 1 || snap.History[0] != want[0] {
		t.Fatalf("history = %+v", snap.History)
	}
	if snap.State != Cooldown || !snap.InProgress {
		t.Fatalf("state after result = %s", snap.State)
	}

	sched.Advance(1000 * time.Millisecond)
	if c.State() != Idle {
		t.Fatalf("state after cooldown = %s; want idle", c.State())
	}

	wantEvents := []string{"start:rock", "thinking", "result:win", "history", "released"}
	if !equalEvents(disp.events, wantEvents) {
		t.Fatalf("events = %v; want %v", disp.events, wantEvents)
	}
}

func TestPlayRoundTieLeavesBoard(t *testing.T) {
	c, sched, disp := newTestController(game.Paper)

	if ok, _ := c.PlayRound(game.Paper); !ok {
		t.Fatalf("play rejected")
	}
	sched.Advance(1500 * time.Millisecond)

	if disp.outcome != game.Tie {
		t.Fatalf("outcome = %s; want tie", disp.outcome)
	}
	if b := c.Snapshot().Board; b != (game.ScoreBoard{}) {
		t.Fatalf("board = %+v; want zero", b)
	}
	if h := c.Snapshot().History; len(h) != 1 || h[0].Outcome != game.Tie {
		t.Fatalf("history = %+v", h)
	}
}

func TestPlayRoundIgnoredWhileInProgress(t *testing.T) {
	c, sched, disp := newTestController(game.Rock)

	if ok, _ := c.PlayRound(game.Paper); !ok {
		t.Fatalf("first play rejected")
	}
	before := len(disp.events)

	for _, st := range []time.Duration{0, 1500 * time.Millisecond} {
		sched.Advance(st)
		snapBefore := c.Snapshot()
		n := len(disp.events)

		ok, err := c.PlayRound(game.Scissors)
		if ok || err != nil {
			t.Fatalf("PlayRound while %s = %v, %v; want false, nil", snapBefore.State, ok, err)
		}
		snapAfter := c.Snapshot()
		if snapAfter.Board != snapBefore.Board || len(snapAfter.History) != len(snapBefore.History) {
			t.Fatalf("ignored play changed state: %+v -> %+v", snapBefore, snapAfter)
		}
		if len(disp.events) != n {
			t.Fatalf("ignored play fired display callbacks: %v", disp.events[n:])
		}
	}

	if before != 2 {
		t.Fatalf("expected start+thinking events, got %v", disp.events)
	}

	sched.Advance(time.Second)
	if ok, _ := c.PlayRound(game.Rock); !ok {
		t.Fatalf("play after cooldown rejected")
	}
}

func TestPlayRoundInvalidMove(t *testing.T) {
	c, _, disp := newTestController(game.Rock)

	ok, err := c.PlayRound(game.Move("lizard"))
	if ok || !errors.Is(err, game.ErrInvalidMove) {
		t.Fatalf("PlayRound(lizard) = %v, %v", ok, err)
	}
	if c.State() != Idle || len(disp.events) != 0 {
		t.Fatalf("invalid move changed controller: state=%s events=%v", c.State(), disp.events)
	}
}

func TestResetFromEveryState(t *testing.T) {
	steps := []struct {
		name    string
		advance time.Duration
		state   State
	}{
		{"idle", -1, Idle},
		{"awaiting", 0, AwaitingOpponent},
		{"cooldown", 1500 * time.Millisecond, Cooldown},
	}

	for _, tc := range steps {
		c, sched, disp := newTestController(game.Scissors)
		// seed some score first
		c.PlayRound(game.Rock)
		sched.Advance(2500 * time.Millisecond)

		if tc.advance >= 0 {
			c.PlayRound(game.Rock)
			sched.Advance(tc.advance)
		}
		if c.State() != tc.state {
			t.Fatalf("%s: setup state = %s", tc.name, c.State())
		}

		c.Reset()
		snap := c.Snapshot()
		if snap.State != Idle || snap.Board != (game.ScoreBoard{}) || len(snap.History) != 0 {
			t.Fatalf("%s: after reset %+v", tc.name, snap)
		}
		if disp.events[len(disp.events)-1] != "reset" {
			t.Fatalf("%s: last event = %s", tc.name, disp.events[len(disp.events)-1])
		}

		// nothing left pending may touch the fresh state
		n := len(disp.events)
		sched.Advance(10 * time.Second)
		if len(disp.events) != n || c.Snapshot().Board != (game.ScoreBoard{}) {
			t.Fatalf("%s: pending timer fired after reset: %v", tc.name, disp.events[n:])
		}
	}
}

func TestStaleTimerAfterResetIsNoop(t *testing.T) {
	c, sched, disp := newTestController(game.Scissors, game.Rock)

	c.PlayRound(game.Rock)
	thinking := sched.pending[0]

	c.Reset()

	// a new round starts before the old timer's callback gets to run
	c.PlayRound(game.Paper)
	n := len(disp.events)

	sched.fire(thinking)
	if len(disp.events) != n {
		t.Fatalf("stale thinking timer fired callbacks: %v", disp.events[n:])
	}
	if snap := c.Snapshot(); snap.State != AwaitingOpponent || snap.Board != (game.ScoreBoard{}) {
		t.Fatalf("stale timer changed state: %+v", snap)
	}

	// the live round resolves with its own move: paper vs scissors
	sched.Advance(1500 * time.Millisecond)
	if disp.outcome != game.Lose {
		t.Fatalf("outcome = %s; want lose", disp.outcome)
	}
}

func TestStaleCooldownTimerAfterResetIsNoop(t *testing.T) {
	c, sched, disp := newTestController(game.Scissors)

	c.PlayRound(game.Rock)
	sched.Advance(1500 * time.Millisecond)
	cooldown := sched.pending[len(sched.pending)-1]

	c.Reset()
	c.PlayRound(game.Rock)
	n := len(disp.events)

	sched.fire(cooldown)
	if len(disp.events) != n || c.State() != AwaitingOpponent {
		t.Fatalf("stale cooldown released input: state=%s events=%v", c.State(), disp.events[n:])
	}
}

func TestScoreIncrementsOncePerRound(t *testing.T) {
	c, sched, _ := newTestController(game.Scissors)

	for i := 0; i < 8; i++ {
		if ok, _ := c.PlayRound(game.Rock); !ok {
			t.Fatalf("round %d rejected", i)
		}
		sched.Advance(2500 * time.Millisecond)
	}

	snap := c.Snapshot()
	if snap.Board.PlayerWins != 8 || snap.Board.OpponentWins != 0 {
		t.Fatalf("board = %+v", snap.Board)
	}
	if len(snap.History) != game.HistoryLimit {
		t.Fatalf("history len = %d", len(snap.History))
	}
}

func TestRealSchedulerRound(t *testing.T) {
	released := make(chan struct{})
	disp := &releaseDisplay{released: released}
	c := NewController(&fixedOpponent{moves: []game.Move{game.Rock}}, disp,
		WithDelays(5*time.Millisecond, 5*time.Millisecond))

	if ok, _ := c.PlayRound(game.Paper); !ok {
		t.Fatalf("play rejected")
	}

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatalf("input never released")
	}
	if snap := c.Snapshot(); snap.State != Idle || snap.Board.PlayerWins != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

type releaseDisplay struct {
	NopDisplay
	released chan struct{}
}

func (d *releaseDisplay) OnInputReleased() {
	close(d.released)
}
