package ws

import "rps_webapp/internal/game"

type MovePayload struct {
	Move  game.Move `json:"move"` // rock | paper | scissors
	Label string    `json:"label"`
	Emoji string    `json:"emoji"`
}

type ThinkingPayload struct {
	Message string `json:"message"`
}

type ResultPayload struct {
	Outcome  game.Outcome    `json:"outcome"`
	Message  string          `json:"message"`
	Player   MovePayload     `json:"player"`
	Opponent MovePayload     `json:"opponent"`
	Board    game.ScoreBoard `json:"board"`
}

type HistoryItem struct {
	game.HistoryEntry
	Text string `json:"text"`
}

type HistoryPayload struct {
	Entries []HistoryItem `json:"entries"`
}

type ResetPayload struct {
	Board   game.ScoreBoard `json:"board"`
	History []HistoryItem   `json:"history"`
	Message string          `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func movePayload(m game.Move) MovePayload {
	return MovePayload{Move: m, Label: m.Label(), Emoji: m.Emoji()}
}

func historyItems(log game.HistoryLog) []HistoryItem {
	items := make([]HistoryItem, 0, len(log))
	for _, e := range log {
		items = append(items, HistoryItem{HistoryEntry: e, Text: e.String()})
	}
	return items
}
