package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidMove = errors.New("invalid move")

type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

// Moves lists every valid move in a fixed order (used for random picks).
var Moves = [...]Move{Rock, Paper, Scissors}

// ParseMove accepts only the three wire values. Anything else is rejected,
// never defaulted.
func ParseMove(s string) (Move, error) {
	m := Move(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	return m, nil
}

func (m Move) Valid() bool {
	switch m {
	case Rock, Paper, Scissors:
		return true
	}
	return false
}

// Beats reports whether m wins against other: rock > scissors > paper > rock.
func (m Move) Beats(other Move) bool {
	switch m {
	case Rock:
		return other == Scissors
	case Paper:
		return other == Rock
	case Scissors:
		return other == Paper
	}
	return false
}

// Label is the name shown to the player.
func (m Move) Label() string {
	switch m {
	case Rock:
		return "Piedra"
	case Paper:
		return "Papel"
	case Scissors:
		return "Tijeras"
	}
	return "?"
}

func (m Move) Emoji() string {
	switch m {
	case Rock:
		return "🪨"
	case Paper:
		return "📄"
	case Scissors:
		return "✂️"
	}
	return "?"
}

// Outcome is always relative to the human player.
type Outcome string

const (
	Win  Outcome = "win"
	Lose Outcome = "lose"
	Tie  Outcome = "tie"
)

// Message is the headline shown after a round.
func (o Outcome) Message() string {
	switch o {
	case Win:
		return "¡Ganaste! 🎉"
	case Lose:
		return "¡Perdiste! 😔"
	case Tie:
		return "¡Empate! 🤝"
	}
	return ""
}

func (o Outcome) prefix() string {
	switch o {
	case Win:
		return "Ganaste"
	case Lose:
		return "Perdiste"
	case Tie:
		return "Empate"
	}
	return ""
}

// PromptMessage is shown while no round has been played yet.
const PromptMessage = "Elige tu jugada"

// ThinkingMessage is shown while the opponent picks.
const ThinkingMessage = "Pensando..."
