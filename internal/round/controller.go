package round

import (
	"log/slog"
	"sync"
	"time"

	"rps_webapp/internal/game"
	"rps_webapp/internal/logger"
)

const (
	DefaultThinkingDelay = 1500 * time.Millisecond
	DefaultCooldownDelay = 1000 * time.Millisecond
)

type State int

const (
	Idle State = iota
	AwaitingOpponent
	Resolved
	Cooldown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingOpponent:
		return "awaiting_opponent"
	case Resolved:
		return "resolved"
	case Cooldown:
		return "cooldown"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Opponent draws the simulated player's move.
type Opponent interface {
	RandomMove() game.Move
}

// Snapshot is a copy of the controller state at one point in time.
type Snapshot struct {
	State      State           `json:"state"`
	InProgress bool            `json:"in_progress"`
	Board      game.ScoreBoard `json:"board"`
	History    game.HistoryLog `json:"history"`
	Generation uint64          `json:"generation"`
}

type Option func(*Controller)

func WithDelays(thinking, cooldown time.Duration) Option {
	return func(c *Controller) {
		c.thinkingDelay = thinking
		c.cooldownDelay = cooldown
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.sched = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// Controller runs one round at a time:
// Idle -> AwaitingOpponent -> Resolved -> Cooldown -> Idle.
// Each round start and each reset bumps the generation; a timer only applies
// its transition when its generation is still current.
type Controller struct {
	mu sync.Mutex

	opponent Opponent
	display  Display
	sched    Scheduler
	log      *slog.Logger

	thinkingDelay time.Duration
	cooldownDelay time.Duration

	state      State
	board      game.ScoreBoard
	history    game.HistoryLog
	generation uint64
	timer      Timer
}

func NewController(opponent Opponent, display Display, opts ...Option) *Controller {
	if display == nil {
		display = NopDisplay{}
	}
	c := &Controller{
		opponent:      opponent,
		display:       display,
		sched:         RealScheduler,
		thinkingDelay: DefaultThinkingDelay,
		cooldownDelay: DefaultCooldownDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.With("component", "round")
	}
	return c
}

// PlayRound starts a round with the player's move. It returns false without
// side effects when a round is already in progress. An invalid move fails
// with game.ErrInvalidMove regardless of state.
func (c *Controller) PlayRound(move game.Move) (bool, error) {
	if !move.Valid() {
		return false, game.ErrInvalidMove
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		c.log.Debug("play ignored", "state", c.state, "move", move)
		return false, nil
	}

	c.generation++
	gen := c.generation
	c.state = AwaitingOpponent

	c.display.OnRoundStart(move)
	c.display.OnOpponentThinking()

	c.timer = c.sched.AfterFunc(c.thinkingDelay, func() {
		c.resolve(gen, move)
	})

	c.log.Debug("round started", "generation", gen, "move", move)
	return true, nil
}

func (c *Controller) resolve(gen uint64, move game.Move) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != AwaitingOpponent {
		c.log.Debug("stale thinking timer", "generation", gen, "current", c.generation)
		return
	}

	opp := c.opponent.RandomMove()
	outcome, err := game.Resolve(move, opp)
	if err != nil {
		// opponent produced garbage; drop the round rather than score it
		c.log.Error("resolve failed", "error", err, "move", move, "opponent", opp)
		c.state = Idle
		c.timer = nil
		c.display.OnInputReleased()
		return
	}

	c.board = game.ApplyOutcome(outcome, c.board)
	c.history = game.AppendHistory(outcome, move, opp, c.history)
	c.state = Resolved

	c.display.OnResult(outcome, move, opp, c.board)
	c.display.OnHistoryUpdated(c.history.Clone())

	c.state = Cooldown
	c.timer = c.sched.AfterFunc(c.cooldownDelay, func() {
		c.release(gen)
	})

	c.log.Debug("round resolved",
		"generation", gen,
		"move", move,
		"opponent", opp,
		"outcome", outcome,
		"player_wins", c.board.PlayerWins,
		"opponent_wins", c.board.OpponentWins,
	)
}

func (c *Controller) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != Cooldown {
		c.log.Debug("stale cooldown timer", "generation", gen, "current", c.generation)
		return
	}

	c.state = Idle
	c.timer = nil
	c.display.OnInputReleased()
}

// Reset clears score and history and returns to Idle from any state.
// A pending timer is stopped; if it already fired, the generation check
// turns it into a no-op.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.generation++
	c.board = game.ScoreBoard{}
	c.history = nil
	c.state = Idle

	c.display.OnReset(c.board, nil)
	c.log.Debug("reset", "generation", c.generation)
}

// Stop cancels any pending timer without notifying the display. The
// controller stays usable; an interrupted round is simply dropped.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.state = Idle
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:      c.state,
		InProgress: c.state != Idle,
		Board:      c.board,
		History:    append(game.HistoryLog{}, c.history...),
		Generation: c.generation,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
