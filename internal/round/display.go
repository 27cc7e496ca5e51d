package round

import "rps_webapp/internal/game"

// Display receives the controller's view updates. Callbacks are invoked with
// the controller lock held and in round order, so implementations must not
// block or call back into the Controller.
type Display interface {
	OnRoundStart(player game.Move)
	OnOpponentThinking()
	OnResult(outcome game.Outcome, player, opponent game.Move, board game.ScoreBoard)
	OnInputReleased()
	OnReset(board game.ScoreBoard, history game.HistoryLog)
	OnHistoryUpdated(history game.HistoryLog)
}

// NopDisplay ignores every update.
type NopDisplay struct{}

func (NopDisplay) OnRoundStart(game.Move)                                       {}
func (NopDisplay) OnOpponentThinking()                                          {}
func (NopDisplay) OnResult(game.Outcome, game.Move, game.Move, game.ScoreBoard) {}
func (NopDisplay) OnInputReleased()                                             {}
func (NopDisplay) OnReset(game.ScoreBoard, game.HistoryLog)                     {}
func (NopDisplay) OnHistoryUpdated(game.HistoryLog)                             {}

// Displays fans every update out to each display in order.
type Displays []Display

func (ds Displays) OnRoundStart(player game.Move) {
	for _, d := range ds {
		d.OnRoundStart(player)
	}
}

func (ds Displays) OnOpponentThinking() {
	for _, d := range ds {
		d.OnOpponentThinking()
	}
}

func (ds Displays) OnResult(outcome game.Outcome, player, opponent game.Move, board game.ScoreBoard) {
	for _, d := range ds {
		d.OnResult(outcome, player, opponent, board)
	}
}

func (ds Displays) OnInputReleased() {
	for _, d := range ds {
		d.OnInputReleased()
	}
}

func (ds Displays) OnReset(board game.ScoreBoard, history game.HistoryLog) {
	for _, d := range ds {
		d.OnReset(board, history.Clone())
	}
}

func (ds Displays) OnHistoryUpdated(history game.HistoryLog) {
	for _, d := range ds {
		d.OnHistoryUpdated(history.Clone())
	}
}
