package session

import (
	"sync"
	"sync/atomic"
	"time"

	"rps_webapp/internal/game"
	"rps_webapp/internal/round"
)

// Session is one browser's game: a controller plus the displays currently
// attached to it (usually a single websocket).
type Session struct {
	ID        string
	CreatedAt time.Time

	ctrl *round.Controller

	mu       sync.RWMutex
	displays []round.Display

	lastSeen atomic.Int64
}

func (s *Session) Play(move game.Move) (bool, error) {
	s.Touch()
	ok, err := s.ctrl.PlayRound(move)
	if err == nil && !ok {
		PlaysIgnored.Inc()
	}
	return ok, err
}

func (s *Session) Reset() {
	s.Touch()
	s.ctrl.Reset()
}

func (s *Session) Snapshot() round.Snapshot {
	return s.ctrl.Snapshot()
}

func (s *Session) Attach(d round.Display) {
	s.mu.Lock()
	s.displays = append(s.displays, d)
	s.mu.Unlock()
	s.Touch()
}

func (s *Session) Detach(d round.Display) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.displays {
		if cur == d {
			s.displays = append(s.displays[:i], s.displays[i+1:]...)
			return
		}
	}
}

func (s *Session) Attached() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.displays)
}

func (s *Session) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) targets() round.Displays {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(round.Displays, 0, len(s.displays)+1)
	out = append(out, metricsDisplay{})
	out = append(out, s.displays...)
	return out
}

// session implements round.Display by forwarding to its attached displays.

func (s *Session) OnRoundStart(player game.Move) { s.targets().OnRoundStart(player) }
func (s *Session) OnOpponentThinking()           { s.targets().OnOpponentThinking() }
func (s *Session) OnInputReleased()              { s.targets().OnInputReleased() }

func (s *Session) OnResult(outcome game.Outcome, player, opponent game.Move, board game.ScoreBoard) {
	s.targets().OnResult(outcome, player, opponent, board)
}

func (s *Session) OnReset(board game.ScoreBoard, history game.HistoryLog) {
	s.targets().OnReset(board, history)
}

func (s *Session) OnHistoryUpdated(history game.HistoryLog) {
	s.targets().OnHistoryUpdated(history)
}
