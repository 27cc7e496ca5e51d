package handlers

import (
	"net/http"

	"rps_webapp/internal/game"
	"rps_webapp/internal/logger"
	"rps_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

type PlayRequest struct {
	Move string `json:"move" binding:"required"`
}

// CreateSession POST /api/session
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.Hub.Create()

	token, err := service.GenerateJWT(s.ID)
	if err != nil {
		logger.Error("token generation failed", "error", err)
		h.Hub.Remove(s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{SessionID: s.ID, Token: token})
}

// GetGame GET /api/game
func (h *Handler) GetGame(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	s.Touch()
	c.JSON(http.StatusOK, s.Snapshot())
}

// Play POST /api/game/play
func (h *Handler) Play(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	move, err := game.ParseMove(req.Move)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": game.ErrInvalidMove.Error()})
		return
	}

	accepted, err := s.Play(move)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !accepted {
		// a round is still running; not an error
		c.JSON(http.StatusOK, gin.H{"accepted": false, "state": s.Snapshot().State})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "move": move})
}

// Reset POST /api/game/reset
func (h *Handler) Reset(c *gin.Context) {
	s, ok := h.getSession(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	s.Reset()
	c.JSON(http.StatusOK, s.Snapshot())
}
