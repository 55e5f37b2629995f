package handler

import (
	"net/http"

	"github.com/genba/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles liveness and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
		system.GET("/health", h.Health)
	}
}

// Ping responds with a static pong
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health reports database connectivity and pool usage
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	stats, err := h.db.Stats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
	})
}
