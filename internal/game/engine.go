package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
)

// HistoryLimit is the number of rounds kept in a HistoryLog.
const HistoryLimit = 5

type ScoreBoard struct {
	PlayerWins   int `json:"player_wins"`
	OpponentWins int `json:"opponent_wins"`
}

type HistoryEntry struct {
	Outcome      Outcome `json:"outcome"`
	PlayerMove   Move    `json:"player_move"`
	OpponentMove Move    `json:"opponent_move"`
}

// String renders the entry the way the history list shows it,
// e.g. "Ganaste: Piedra vs Tijeras".
func (e HistoryEntry) String() string {
	return fmt.Sprintf("%s: %s vs %s", e.Outcome.prefix(), e.PlayerMove.Label(), e.OpponentMove.Label())
}

// HistoryLog is ordered most-recent-first.
type HistoryLog []HistoryEntry

func (l HistoryLog) Clone() HistoryLog {
	if l == nil {
		return nil
	}
	out := make(HistoryLog, len(l))
	copy(out, l)
	return out
}

// Engine picks opponent moves. All other round logic is pure and lives in
// package-level functions.
type Engine struct {
	intn func(n int) int
}

// NewEngine returns an engine backed by crypto/rand.
func NewEngine() *Engine {
	return &Engine{intn: secureIntn}
}

// NewEngineWithSource is for tests and simulations that need a
// reproducible sequence of picks.
func NewEngineWithSource(intn func(n int) int) *Engine {
	return &Engine{intn: intn}
}

// RandomMove returns one of the three moves with equal probability.
func (e *Engine) RandomMove() Move {
	i := e.intn(len(Moves))
	if i < 0 || i >= len(Moves) {
		i = 0
	}
	return Moves[i]
}

func secureIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto source unavailable, still uniform
		return mrand.IntN(n)
	}
	return int(v.Int64())
}

// Resolve determines the outcome for the player.
func Resolve(player, opponent Move) (Outcome, error) {
	if !player.Valid() {
		return "", fmt.Errorf("%w: player %q", ErrInvalidMove, player)
	}
	if !opponent.Valid() {
		return "", fmt.Errorf("%w: opponent %q", ErrInvalidMove, opponent)
	}

	if player == opponent {
		return Tie, nil
	}
	if player.Beats(opponent) {
		return Win, nil
	}
	return Lose, nil
}

// ApplyOutcome returns the board after one round. Ties leave it unchanged.
func ApplyOutcome(outcome Outcome, board ScoreBoard) ScoreBoard {
	switch outcome {
	case Win:
		board.PlayerWins++
	case Lose:
		board.OpponentWins++
	}
	return board
}

// AppendHistory prepends the round and keeps at most HistoryLimit entries.
// The passed log is not modified.
func AppendHistory(outcome Outcome, player, opponent Move, log HistoryLog) HistoryLog {
	n := len(log) + 1
	if n > HistoryLimit {
		n = HistoryLimit
	}

	out := make(HistoryLog, 0, n)
	out = append(out, HistoryEntry{Outcome: outcome, PlayerMove: player, OpponentMove: opponent})
	for _, e := range log {
		if len(out) == n {
			break
		}
		out = append(out, e)
	}
	return out
}
