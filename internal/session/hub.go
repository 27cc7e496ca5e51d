package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rps_webapp/internal/game"
	"rps_webapp/internal/logger"
	"rps_webapp/internal/round"

	"github.com/google/uuid"
)

type HubConfig struct {
	ThinkingDelay time.Duration
	CooldownDelay time.Duration
	TTL           time.Duration

	// optional, for tests
	Opponent  round.Opponent
	Scheduler round.Scheduler
}

// Hub keeps every live session in memory. Nothing outlives the process.
type Hub struct {
	cfg      HubConfig
	log      *slog.Logger
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub(cfg HubConfig) *Hub {
	if cfg.ThinkingDelay <= 0 {
		cfg.ThinkingDelay = round.DefaultThinkingDelay
	}
	if cfg.CooldownDelay <= 0 {
		cfg.CooldownDelay = round.DefaultCooldownDelay
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.Opponent == nil {
		cfg.Opponent = game.NewEngine()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = round.RealScheduler
	}

	return &Hub{
		cfg:      cfg,
		log:      logger.With("component", "hub"),
		sessions: make(map[string]*Session),
	}
}

func (h *Hub) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	s.lastSeen.Store(now.UnixNano())
	s.ctrl = round.NewController(h.cfg.Opponent, s,
		round.WithDelays(h.cfg.ThinkingDelay, h.cfg.CooldownDelay),
		round.WithScheduler(h.cfg.Scheduler),
		round.WithLogger(h.log.With("session", s.ID)),
	)

	h.mu.Lock()
	h.sessions[s.ID] = s
	n := len(h.sessions)
	h.mu.Unlock()

	SessionsActive.Set(float64(n))
	h.log.Info("session created", "session", s.ID, "sessions", n)
	return s
}

func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	n := len(h.sessions)
	h.mu.Unlock()

	if ok {
		s.ctrl.Stop()
		SessionsActive.Set(float64(n))
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// StartCleanup drops idle sessions every interval until ctx is done.
func (h *Hub) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				h.cleanupStale(now)
			}
		}
	}()
}

// cleanupStale removes sessions with no attached display that were not used
// within the TTL. It returns the number removed.
func (h *Hub) cleanupStale(now time.Time) int {
	h.mu.Lock()
	var stale []*Session
	for id, s := range h.sessions {
		if s.Attached() == 0 && now.Sub(s.LastSeen()) > h.cfg.TTL {
			stale = append(stale, s)
			delete(h.sessions, id)
		}
	}
	n := len(h.sessions)
	h.mu.Unlock()

	for _, s := range stale {
		s.ctrl.Stop()
		h.log.Info("cleaned up stale session", "session", s.ID)
	}
	if len(stale) > 0 {
		SessionsActive.Set(float64(n))
	}
	return len(stale)
}
