package handlers

import (
	"rps_webapp/internal/http/middleware"
	"rps_webapp/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Hub *session.Hub
}

func NewHandler(hub *session.Hub) *Handler {
	return &Handler{Hub: hub}
}

// getSession resolves the session set by SessionAuth.
func (h *Handler) getSession(c *gin.Context) (*session.Session, bool) {
	id := c.GetString(middleware.SessionKey)
	if id == "" {
		return nil, false
	}
	return h.Hub.Get(id)
}
