package session

import (
	"rps_webapp/internal/game"
	"rps_webapp/internal/round"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_rounds_total",
			Help: "Resolved rounds by outcome for the player",
		},
		[]string{"outcome"},
	)
	ResetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_resets_total",
			Help: "Explicit game resets",
		},
	)
	PlaysIgnored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_plays_ignored_total",
			Help: "Plays dropped because a round was already in progress",
		},
	)
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rps_sessions_active",
			Help: "Game sessions currently held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(RoundsTotal)
	prometheus.MustRegister(ResetsTotal)
	prometheus.MustRegister(PlaysIgnored)
	prometheus.MustRegister(SessionsActive)
}

// metricsDisplay counts outcomes and resets as they reach the display.
type metricsDisplay struct {
	round.NopDisplay
}

func (metricsDisplay) OnResult(outcome game.Outcome, _, _ game.Move, _ game.ScoreBoard) {
	RoundsTotal.WithLabelValues(string(outcome)).Inc()
}

func (metricsDisplay) OnReset(game.ScoreBoard, game.HistoryLog) {
	ResetsTotal.Inc()
}
