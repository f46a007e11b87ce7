package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Sessions int    `json:"sessions"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  s.version,
		Sessions: s.sessions.Len(),
	})
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.tracker.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to load visitor stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
